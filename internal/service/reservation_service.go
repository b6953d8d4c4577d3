package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"nexus-lab/backend/internal/dto"
	"nexus-lab/backend/internal/model"
	"nexus-lab/backend/internal/repository"
)

// ── 预约模块业务错误 ──

var (
	ErrReservationNotFound = errors.New("预约不存在")
	ErrReservationInactive = errors.New("预约已取消或已拒绝，不可追加日期")
	ErrPastDate            = errors.New("预约日期不能早于今天")
	ErrInvalidStatusChange = errors.New("非法的状态变更")
)

// ReservationService 预约业务接口
type ReservationService interface {
	// Create 创建预约：全部日期校验通过后整体落库，状态 pending
	Create(ctx context.Context, req *dto.CreateReservationRequest, callerID string) (*dto.ReservationResponse, error)
	// Extend 追加日期：按与创建相同的冲突规则校验，但忽略预约自身已有日期
	Extend(ctx context.Context, reservationID string, req *dto.ExtendReservationRequest, callerID string) (*dto.ReservationResponse, error)
	// List 预约列表，含申请人与教室展示字段
	List(ctx context.Context) ([]dto.ReservationResponse, error)
	// UpdateStatus 审批流状态变更（confirm / reject / cancel）
	UpdateStatus(ctx context.Context, reservationID string, req *dto.UpdateReservationStatusRequest, callerID string) (*dto.ReservationResponse, error)
}

type reservationService struct {
	repo      *repository.Repository
	occupancy OccupancyService
	locks     *keyedMutex // 教室级串行化点
	logger    *zap.Logger
}

// NewReservationService 创建 ReservationService 实例
func NewReservationService(repo *repository.Repository, occupancy OccupancyService, logger *zap.Logger) ReservationService {
	return &reservationService{
		repo:      repo,
		occupancy: occupancy,
		locks:     newKeyedMutex(),
		logger:    logger,
	}
}

// ════════════════════════════════════════════════════════════
// Create — 创建预约
// ════════════════════════════════════════════════════════════
//
// 校验链：时间窗口 → 日期集合规范化 → 不早于今天 → 逐日期占用判定。
// 冲突检查与写入在教室锁内完成，杜绝两个并发请求同时观察到空闲
// 后双双落库的先检查后行动竞态。

func (s *reservationService) Create(ctx context.Context, req *dto.CreateReservationRequest, callerID string) (*dto.ReservationResponse, error) {
	window := TimeWindow{Start: req.StartTime, End: req.EndTime}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	dates, err := ExpandDates(req.Dates)
	if err != nil {
		return nil, err
	}
	today := Today()
	for _, d := range dates {
		if d < today {
			return nil, ErrPastDate
		}
	}

	if _, err := s.repo.Classroom.GetByID(ctx, req.ClassroomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("classroom_id", req.ClassroomID), zap.Error(err))
		return nil, err
	}

	mu := s.locks.Get(req.ClassroomID)
	mu.Lock()
	defer mu.Unlock()

	for _, d := range dates {
		status, err := s.occupancy.Resolve(ctx, req.ClassroomID, d, window)
		if err != nil {
			return nil, err
		}
		if !status.IsFree() {
			return nil, &ConflictError{Date: d, Occupancy: status}
		}
	}

	reservation := &model.Reservation{
		RequesterID: callerID,
		ClassroomID: req.ClassroomID,
		Dates:       model.DateList(dates),
		StartTime:   model.ClockTime(req.StartTime),
		EndTime:     model.ClockTime(req.EndTime),
		Status:      model.ReservationPending,
		Observation: req.Observation,
	}
	reservation.CreatedBy = &callerID
	reservation.UpdatedBy = &callerID

	if err := s.repo.Reservation.Insert(ctx, reservation); err != nil {
		s.logger.Error("创建预约失败", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Reservation.GetByID(ctx, reservation.ReservationID)
	if err != nil {
		return nil, err
	}
	resp := toReservationResponse(created)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// Extend — 追加日期
// ════════════════════════════════════════════════════════════

func (s *reservationService) Extend(ctx context.Context, reservationID string, req *dto.ExtendReservationRequest, callerID string) (*dto.ReservationResponse, error) {
	additional, err := ExpandDates(req.Dates)
	if err != nil {
		return nil, err
	}
	today := Today()
	for _, d := range additional {
		if d < today {
			return nil, ErrPastDate
		}
	}

	reservation, err := s.repo.Reservation.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("查询预约失败", zap.String("reservation_id", reservationID), zap.Error(err))
		return nil, err
	}
	if !reservation.IsActive() {
		return nil, ErrReservationInactive
	}

	window := TimeWindow{Start: string(reservation.StartTime), End: string(reservation.EndTime)}

	mu := s.locks.Get(reservation.ClassroomID)
	mu.Lock()
	defer mu.Unlock()

	for _, d := range additional {
		if reservation.Dates.Contains(d) {
			continue // 已有日期不重复校验，也不重复写入
		}
		status, err := s.occupancy.ResolveExcluding(ctx, reservation.ClassroomID, d, window, reservation.ReservationID)
		if err != nil {
			return nil, err
		}
		if !status.IsFree() {
			return nil, &ConflictError{Date: d, Occupancy: status}
		}
	}

	merged := mergeDates(reservation.Dates, additional)
	reservation.Dates = merged
	reservation.UpdatedBy = &callerID

	if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
		s.logger.Error("追加预约日期失败", zap.String("reservation_id", reservationID), zap.Error(err))
		return nil, err
	}

	resp := toReservationResponse(reservation)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// List — 预约列表
// ════════════════════════════════════════════════════════════

func (s *reservationService) List(ctx context.Context) ([]dto.ReservationResponse, error) {
	reservations, err := s.repo.Reservation.List(ctx)
	if err != nil {
		s.logger.Error("查询预约列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ReservationResponse, 0, len(reservations))
	for i := range reservations {
		result = append(result, toReservationResponse(&reservations[i]))
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// UpdateStatus — 审批流状态变更
// ════════════════════════════════════════════════════════════

func (s *reservationService) UpdateStatus(ctx context.Context, reservationID string, req *dto.UpdateReservationStatusRequest, callerID string) (*dto.ReservationResponse, error) {
	reservation, err := s.repo.Reservation.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("查询预约失败", zap.String("reservation_id", reservationID), zap.Error(err))
		return nil, err
	}

	// 终态不可再变更
	if reservation.Status == model.ReservationRejected || reservation.Status == model.ReservationCancelled {
		return nil, ErrInvalidStatusChange
	}

	reservation.Status = req.Status
	reservation.UpdatedBy = &callerID

	if err := s.repo.Reservation.Update(ctx, reservation); err != nil {
		s.logger.Error("变更预约状态失败", zap.String("reservation_id", reservationID), zap.Error(err))
		return nil, err
	}

	resp := toReservationResponse(reservation)
	return &resp, nil
}

// ── 内部辅助方法 ──

// mergeDates 合并两组已规范化的日期并保持升序去重
func mergeDates(existing model.DateList, additional []string) model.DateList {
	seen := make(map[string]bool, len(existing)+len(additional))
	merged := make(model.DateList, 0, len(existing)+len(additional))
	for _, d := range existing {
		if !seen[d] {
			seen[d] = true
			merged = append(merged, d)
		}
	}
	for _, d := range additional {
		if !seen[d] {
			seen[d] = true
			merged = append(merged, d)
		}
	}
	sort.Strings(merged)
	return merged
}

// toReservationResponse 转换预约为响应
func toReservationResponse(r *model.Reservation) dto.ReservationResponse {
	resp := dto.ReservationResponse{
		ID:          r.ReservationID,
		RequesterID: r.RequesterID,
		ClassroomID: r.ClassroomID,
		Dates:       append([]string{}, r.Dates...),
		StartTime:   string(r.StartTime),
		EndTime:     string(r.EndTime),
		Status:      r.Status,
		Observation: r.Observation,
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   r.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if r.Requester != nil {
		resp.RequesterName = r.Requester.Name
	}
	if r.Classroom != nil {
		resp.ClassroomCode = r.Classroom.Code
		resp.ClassroomName = r.Classroom.Name
	}
	return resp
}
