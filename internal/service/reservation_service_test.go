package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"nexus-lab/backend/internal/dto"
	"nexus-lab/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestReservationService() (ReservationService, *testRepos) {
	repos := newTestRepos()
	repoAgg := repos.toRepository()
	logger := zap.NewNop()
	occupancy := NewOccupancyService(repoAgg, logger)
	svc := NewReservationService(repoAgg, occupancy, logger)
	return svc, repos
}

// ════════════════════════════════════════════════════════════
// Create 测试
// ════════════════════════════════════════════════════════════

func TestReservationService_Create_Success(t *testing.T) {
	svc, repos := setupTestReservationService()
	classDate, resvDate := futureDate(7), futureDate(8)
	seedOccupancyData(t, repos, classDate, resvDate)

	d1, d2 := futureDate(14), futureDate(15)
	req := &dto.CreateReservationRequest{
		ClassroomID: "room-B",
		Dates:       []string{d2, d1, d1}, // 乱序且含重复
		StartTime:   "08:00",
		EndTime:     "10:00",
		Observation: "学生活动",
	}

	result, err := svc.Create(context.Background(), req, "user-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Status != model.ReservationPending {
		t.Errorf("期望 status=pending，实际=%s", result.Status)
	}
	if !reflect.DeepEqual(result.Dates, []string{d1, d2}) {
		t.Errorf("期望日期去重升序 [%s %s]，实际 %v", d1, d2, result.Dates)
	}
	if result.RequesterID != "user-1" {
		t.Errorf("期望 requester=user-1，实际=%s", result.RequesterID)
	}
}

func TestReservationService_Create_ClassConflict(t *testing.T) {
	svc, repos := setupTestReservationService()
	classDate, resvDate := futureDate(7), futureDate(8)
	seedOccupancyData(t, repos, classDate, resvDate)

	req := &dto.CreateReservationRequest{
		ClassroomID: "room-A",
		Dates:       []string{classDate},
		StartTime:   "09:00",
		EndTime:     "11:00",
	}

	_, err := svc.Create(context.Background(), req, "user-1")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("期望 ConflictError，实际: %v", err)
	}
	if conflict.Date != classDate {
		t.Errorf("期望冲突日期=%s，实际=%s", classDate, conflict.Date)
	}
	if conflict.Occupancy.Kind != OccupancyClass {
		t.Errorf("期望占用方为课程，实际=%s", conflict.Occupancy.Kind)
	}
	// 冲突时整体不落库
	if len(repos.reservation.reservations) != 1 {
		t.Errorf("冲突请求不应落库，当前预约数=%d", len(repos.reservation.reservations))
	}
}

func TestReservationService_Create_PendingReservationBlocks(t *testing.T) {
	svc, repos := setupTestReservationService()
	classDate, resvDate := futureDate(7), futureDate(8)
	seedOccupancyData(t, repos, classDate, resvDate)

	// 既有 pending 预约 14:00-16:00，同样构成占用
	req := &dto.CreateReservationRequest{
		ClassroomID: "room-A",
		Dates:       []string{resvDate},
		StartTime:   "15:00",
		EndTime:     "17:00",
	}

	_, err := svc.Create(context.Background(), req, "user-2")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("期望 ConflictError，实际: %v", err)
	}
	if conflict.Occupancy.Kind != OccupancyReservation {
		t.Errorf("期望占用方为预约，实际=%s", conflict.Occupancy.Kind)
	}
}

func TestReservationService_Create_AnyConflictRejectsAll(t *testing.T) {
	svc, repos := setupTestReservationService()
	classDate, resvDate := futureDate(7), futureDate(8)
	seedOccupancyData(t, repos, classDate, resvDate)

	// 多日期请求中仅一个日期冲突：整体拒绝
	free := futureDate(14)
	req := &dto.CreateReservationRequest{
		ClassroomID: "room-A",
		Dates:       []string{free, classDate},
		StartTime:   "08:00",
		EndTime:     "10:00",
	}

	_, err := svc.Create(context.Background(), req, "user-1")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("期望 ConflictError，实际: %v", err)
	}
	if len(repos.reservation.reservations) != 1 {
		t.Error("部分冲突时任何日期都不应落库")
	}
}

func TestReservationService_Create_PastDate(t *testing.T) {
	svc, repos := setupTestReservationService()
	seedOccupancyData(t, repos, futureDate(7), futureDate(8))

	req := &dto.CreateReservationRequest{
		ClassroomID: "room-B",
		Dates:       []string{"2020-01-01"},
		StartTime:   "08:00",
		EndTime:     "10:00",
	}

	if _, err := svc.Create(context.Background(), req, "user-1"); !errors.Is(err, ErrPastDate) {
		t.Errorf("期望 ErrPastDate，实际: %v", err)
	}
}

func TestReservationService_Create_ClassroomNotFound(t *testing.T) {
	svc, _ := setupTestReservationService()

	req := &dto.CreateReservationRequest{
		ClassroomID: "nonexistent",
		Dates:       []string{futureDate(7)},
		StartTime:   "08:00",
		EndTime:     "10:00",
	}

	if _, err := svc.Create(context.Background(), req, "user-1"); !errors.Is(err, ErrClassroomNotFound) {
		t.Errorf("期望 ErrClassroomNotFound，实际: %v", err)
	}
}

func TestReservationService_Create_InvalidWindow(t *testing.T) {
	svc, repos := setupTestReservationService()
	seedOccupancyData(t, repos, futureDate(7), futureDate(8))

	req := &dto.CreateReservationRequest{
		ClassroomID: "room-B",
		Dates:       []string{futureDate(7)},
		StartTime:   "10:00",
		EndTime:     "10:00",
	}

	if _, err := svc.Create(context.Background(), req, "user-1"); !errors.Is(err, ErrInvalidTimeWindow) {
		t.Errorf("期望 ErrInvalidTimeWindow，实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// Extend 测试
// ════════════════════════════════════════════════════════════

func TestReservationService_Extend_Success(t *testing.T) {
	svc, repos := setupTestReservationService()
	classDate, resvDate := futureDate(7), futureDate(8)
	seedOccupancyData(t, repos, classDate, resvDate)

	added := futureDate(15)
	req := &dto.ExtendReservationRequest{Dates: []string{added}}

	result, err := svc.Extend(context.Background(), "resv-1", req, "user-1")
	if err != nil {
		t.Fatalf("Extend 应成功: %v", err)
	}
	if len(result.Dates) != 2 {
		t.Fatalf("期望2个日期，实际 %v", result.Dates)
	}
	// 原日期保留且整体升序
	want := []string{resvDate, added}
	if want[0] > want[1] {
		want[0], want[1] = want[1], want[0]
	}
	if !reflect.DeepEqual(result.Dates, want) {
		t.Errorf("期望 %v，实际 %v", want, result.Dates)
	}
}

func TestReservationService_Extend_AfterTimeColumnScan(t *testing.T) {
	svc, repos := setupTestReservationService()
	classDate, resvDate := futureDate(7), futureDate(8)
	seedOccupancyData(t, repos, classDate, resvDate)

	// 存量预约的时间窗口来自 TIME 列回读，Scan 后须仍为合法的 HH:MM 窗口
	resv := repos.reservation.reservations["resv-1"]
	if err := resv.StartTime.Scan("14:00:00"); err != nil {
		t.Fatalf("Scan 应成功: %v", err)
	}
	if err := resv.EndTime.Scan("16:00:00"); err != nil {
		t.Fatalf("Scan 应成功: %v", err)
	}

	added := futureDate(15)
	req := &dto.ExtendReservationRequest{Dates: []string{added}}

	result, err := svc.Extend(context.Background(), "resv-1", req, "user-1")
	if err != nil {
		t.Fatalf("Extend 应成功: %v", err)
	}
	if len(result.Dates) != 2 {
		t.Errorf("期望2个日期，实际 %v", result.Dates)
	}
	if result.StartTime != "14:00" || result.EndTime != "16:00" {
		t.Errorf("期望窗口 14:00-16:00，实际 %s-%s", result.StartTime, result.EndTime)
	}
}

func TestReservationService_Extend_OwnDatesIgnored(t *testing.T) {
	svc, repos := setupTestReservationService()
	classDate, resvDate := futureDate(7), futureDate(8)
	seedOccupancyData(t, repos, classDate, resvDate)

	// 追加集合与既有日期重叠：预约不与自身冲突，且不产生重复日期
	req := &dto.ExtendReservationRequest{Dates: []string{resvDate}}

	result, err := svc.Extend(context.Background(), "resv-1", req, "user-1")
	if err != nil {
		t.Fatalf("追加自身已有日期应成功: %v", err)
	}
	if !reflect.DeepEqual(result.Dates, []string{resvDate}) {
		t.Errorf("日期集合不应产生重复，实际 %v", result.Dates)
	}
}

func TestReservationService_Extend_Conflict(t *testing.T) {
	svc, repos := setupTestReservationService()
	classDate, resvDate := futureDate(7), futureDate(8)
	seedOccupancyData(t, repos, classDate, resvDate)

	// 另一间教室的其他预约占用目标日期
	other := futureDate(15)
	repos.reservation.reservations["resv-2"] = &model.Reservation{
		ReservationID: "resv-2", RequesterID: "user-2", ClassroomID: "room-A",
		Dates: model.DateList{other}, StartTime: "14:00", EndTime: "16:00",
		Status: model.ReservationConfirmed,
	}

	req := &dto.ExtendReservationRequest{Dates: []string{other}}
	_, err := svc.Extend(context.Background(), "resv-1", req, "user-1")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("期望 ConflictError，实际: %v", err)
	}
	if conflict.Date != other {
		t.Errorf("期望冲突日期=%s，实际=%s", other, conflict.Date)
	}
	// 失败后原日期集合不变
	if !reflect.DeepEqual([]string(repos.reservation.reservations["resv-1"].Dates), []string{resvDate}) {
		t.Errorf("冲突失败后原日期集合应保持不变，实际 %v", repos.reservation.reservations["resv-1"].Dates)
	}
}

func TestReservationService_Extend_Inactive(t *testing.T) {
	svc, repos := setupTestReservationService()
	classDate, resvDate := futureDate(7), futureDate(8)
	seedOccupancyData(t, repos, classDate, resvDate)
	repos.reservation.reservations["resv-1"].Status = model.ReservationCancelled

	req := &dto.ExtendReservationRequest{Dates: []string{futureDate(15)}}
	if _, err := svc.Extend(context.Background(), "resv-1", req, "user-1"); !errors.Is(err, ErrReservationInactive) {
		t.Errorf("期望 ErrReservationInactive，实际: %v", err)
	}
}

func TestReservationService_Extend_NotFound(t *testing.T) {
	svc, _ := setupTestReservationService()

	req := &dto.ExtendReservationRequest{Dates: []string{futureDate(15)}}
	if _, err := svc.Extend(context.Background(), "nonexistent", req, "user-1"); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("期望 ErrReservationNotFound，实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// UpdateStatus 测试
// ════════════════════════════════════════════════════════════

func TestReservationService_UpdateStatus_Confirm(t *testing.T) {
	svc, repos := setupTestReservationService()
	seedOccupancyData(t, repos, futureDate(7), futureDate(8))

	req := &dto.UpdateReservationStatusRequest{Status: model.ReservationConfirmed}
	result, err := svc.UpdateStatus(context.Background(), "resv-1", req, "admin-1")
	if err != nil {
		t.Fatalf("UpdateStatus 应成功: %v", err)
	}
	if result.Status != model.ReservationConfirmed {
		t.Errorf("期望 status=confirmed，实际=%s", result.Status)
	}
}

func TestReservationService_UpdateStatus_TerminalRejected(t *testing.T) {
	svc, repos := setupTestReservationService()
	seedOccupancyData(t, repos, futureDate(7), futureDate(8))
	repos.reservation.reservations["resv-1"].Status = model.ReservationRejected

	req := &dto.UpdateReservationStatusRequest{Status: model.ReservationConfirmed}
	if _, err := svc.UpdateStatus(context.Background(), "resv-1", req, "admin-1"); !errors.Is(err, ErrInvalidStatusChange) {
		t.Errorf("终态不可变更，期望 ErrInvalidStatusChange，实际: %v", err)
	}
}
