package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"nexus-lab/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoReservations = errors.New("暂无预约可导出")
	ErrExportNoRecords      = errors.New("该日期区间内无考勤记录")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 预约台账与考勤表均导出为 Excel (.xlsx)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportReservations 导出全部预约台账
	ExportReservations(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportAttendance 导出指定日期区间的考勤表
	ExportAttendance(ctx context.Context, from, to string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// ExportReservations — 预约台账
// ════════════════════════════════════════════════════════════

func (s *exportService) ExportReservations(ctx context.Context) (*bytes.Buffer, string, error) {
	reservations, err := s.repo.Reservation.List(ctx)
	if err != nil {
		s.logger.Error("查询预约列表失败", zap.Error(err))
		return nil, "", err
	}
	if len(reservations) == 0 {
		return nil, "", ErrExportNoReservations
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "预约台账"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"教室", "申请人", "日期", "开始", "结束", "状态", "备注"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, r := range reservations {
		classroom := r.ClassroomID
		if r.Classroom != nil {
			classroom = r.Classroom.Code
		}
		requester := r.RequesterID
		if r.Requester != nil {
			requester = r.Requester.Name
		}
		values := []interface{}{
			classroom,
			requester,
			strings.Join(r.Dates, ", "),
			string(r.StartTime),
			string(r.EndTime),
			r.Status,
			r.Observation,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("reservations_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ════════════════════════════════════════════════════════════
// ExportAttendance — 考勤表
// ════════════════════════════════════════════════════════════

func (s *exportService) ExportAttendance(ctx context.Context, from, to string) (*bytes.Buffer, string, error) {
	fromDate, err := ParseDate(from)
	if err != nil {
		return nil, "", err
	}
	toDate, err := ParseDate(to)
	if err != nil {
		return nil, "", err
	}
	if fromDate.After(toDate) {
		return nil, "", ErrInvalidDateRange
	}

	records, err := s.repo.Attendance.ListByDateRange(ctx, fromDate, toDate)
	if err != nil {
		s.logger.Error("查询考勤记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "考勤表"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"日期", "教师", "科目", "教室", "进入", "离开", "状态"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, r := range records {
		teacher, subject, classroom := "", "", ""
		if r.Session != nil {
			if r.Session.Teacher != nil {
				teacher = r.Session.Teacher.Name
			}
			if r.Session.Subject != nil {
				subject = r.Session.Subject.Name
			}
			if r.Session.Classroom != nil {
				classroom = r.Session.Classroom.Code
			}
		}
		exitAt := ""
		if r.ExitAt != nil {
			exitAt = r.ExitAt.Format("15:04")
		}
		values := []interface{}{
			r.SessionDate.Format("2006-01-02"),
			teacher,
			subject,
			classroom,
			r.EntryAt.Format("15:04"),
			exitAt,
			r.State,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", from, to)
	return buf, filename, nil
}
