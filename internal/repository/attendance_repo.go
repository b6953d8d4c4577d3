package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"nexus-lab/backend/internal/model"
	pkgerrors "nexus-lab/backend/pkg/errors"
)

// AttendanceRepository 考勤记录数据访问接口
type AttendanceRepository interface {
	Insert(ctx context.Context, record *model.AttendanceRecord) error
	GetByID(ctx context.Context, id string) (*model.AttendanceRecord, error)
	// FindOpen 查找 (session, date) 的 open 记录；不存在时返回 gorm.ErrRecordNotFound
	FindOpen(ctx context.Context, sessionID string, date time.Time) (*model.AttendanceRecord, error)
	// FindForSessionAndDate 查找 (session, date) 的任一记录（open 或 closed）
	FindForSessionAndDate(ctx context.Context, sessionID string, date time.Time) (*model.AttendanceRecord, error)
	// Close 以乐观锁将 open 记录置为 closed 并写入离开时间
	Close(ctx context.Context, record *model.AttendanceRecord, exitAt time.Time) error
	// ListByDateRange 导出用：按日期区间返回记录
	ListByDateRange(ctx context.Context, from, to time.Time) ([]model.AttendanceRecord, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Insert(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Session").
		Where("attendance_id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepo) FindOpen(ctx context.Context, sessionID string, date time.Time) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND session_date = ? AND state = ?",
			sessionID, date.Format("2006-01-02"), model.AttendanceOpen).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepo) FindForSessionAndDate(ctx context.Context, sessionID string, date time.Time) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND session_date = ?", sessionID, date.Format("2006-01-02")).
		Order("entry_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepo) Close(ctx context.Context, record *model.AttendanceRecord, exitAt time.Time) error {
	oldVersion := record.Version
	result := r.db.WithContext(ctx).
		Model(record).
		Where("attendance_id = ? AND version = ? AND state = ?",
			record.AttendanceID, oldVersion, model.AttendanceOpen).
		Updates(map[string]interface{}{
			"exit_at":    exitAt,
			"state":      model.AttendanceClosed,
			"updated_by": record.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	record.ExitAt = &exitAt
	record.State = model.AttendanceClosed
	record.Version = oldVersion + 1
	return nil
}

func (r *attendanceRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Session").
		Preload("Session.Teacher").
		Preload("Session.Subject").
		Preload("Session.Classroom").
		Where("session_date >= ? AND session_date <= ?",
			from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("session_date ASC, entry_at ASC").
		Find(&records).Error
	return records, err
}
