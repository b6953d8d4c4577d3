package repository

import (
	"context"

	"gorm.io/gorm"

	"nexus-lab/backend/internal/model"
	pkgerrors "nexus-lab/backend/pkg/errors"
)

// ReservationRepository 预约数据访问接口
type ReservationRepository interface {
	// Insert 整体写入预约（日期集合单行落库，天然全有或全无）
	Insert(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	// ListActiveForClassroom 返回指定教室仍占用中的预约（pending | confirmed）
	ListActiveForClassroom(ctx context.Context, classroomID string) ([]model.Reservation, error)
	// List 预约列表读投影，携带申请人与教室关联
	List(ctx context.Context) ([]model.Reservation, error)
	// Update 带乐观锁更新日期集合 / 状态 / 备注
	Update(ctx context.Context, reservation *model.Reservation) error
}

type reservationRepo struct {
	db *gorm.DB
}

func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) Insert(ctx context.Context, reservation *model.Reservation) error {
	if len(reservation.Dates) == 0 {
		return pkgerrors.ErrMalformedDateSet
	}
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	var reservation model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Classroom").
		Where("reservation_id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepo) ListActiveForClassroom(ctx context.Context, classroomID string) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND status IN ?", classroomID,
			[]string{model.ReservationPending, model.ReservationConfirmed}).
		Order("created_at ASC").
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Classroom").
		Order("created_at DESC").
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) Update(ctx context.Context, reservation *model.Reservation) error {
	if len(reservation.Dates) == 0 {
		return pkgerrors.ErrMalformedDateSet
	}
	oldVersion := reservation.Version
	result := r.db.WithContext(ctx).
		Model(reservation).
		Where("reservation_id = ? AND version = ?", reservation.ReservationID, oldVersion).
		Updates(map[string]interface{}{
			"dates":       reservation.Dates,
			"status":      reservation.Status,
			"observation": reservation.Observation,
			"updated_by":  reservation.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	reservation.Version = oldVersion + 1
	return nil
}
