package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"nexus-lab/backend/internal/model"
)

// ScheduleSessionRepository 固定课程场次数据访问接口
// 占用判定与考勤模块只使用只读方法；写方法供排课管理使用
type ScheduleSessionRepository interface {
	Create(ctx context.Context, session *model.ScheduleSession) error
	BatchCreate(ctx context.Context, sessions []model.ScheduleSession) error
	GetByID(ctx context.Context, id string) (*model.ScheduleSession, error)
	List(ctx context.Context, classroomID string) ([]model.ScheduleSession, error)
	// ListForClassroomAndDate 返回指定教室在 date 当天生效的场次，按开始时间升序
	ListForClassroomAndDate(ctx context.Context, classroomID string, date time.Time) ([]model.ScheduleSession, error)
	// ListForTeacherAndDate 返回指定教师在 date 当天生效的场次，按开始时间升序
	ListForTeacherAndDate(ctx context.Context, teacherID string, date time.Time) ([]model.ScheduleSession, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type scheduleSessionRepo struct {
	db *gorm.DB
}

func NewScheduleSessionRepo(db *gorm.DB) ScheduleSessionRepository {
	return &scheduleSessionRepo{db: db}
}

func (r *scheduleSessionRepo) Create(ctx context.Context, session *model.ScheduleSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *scheduleSessionRepo) BatchCreate(ctx context.Context, sessions []model.ScheduleSession) error {
	if len(sessions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&sessions).Error
}

func (r *scheduleSessionRepo) GetByID(ctx context.Context, id string) (*model.ScheduleSession, error) {
	var session model.ScheduleSession
	err := r.db.WithContext(ctx).
		Preload("Classroom").
		Preload("Subject").
		Preload("Teacher").
		Where("session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *scheduleSessionRepo) List(ctx context.Context, classroomID string) ([]model.ScheduleSession, error) {
	var sessions []model.ScheduleSession
	q := r.db.WithContext(ctx).
		Preload("Classroom").
		Preload("Subject").
		Preload("Teacher").
		Order("day_of_week ASC, start_time ASC")
	if classroomID != "" {
		q = q.Where("classroom_id = ?", classroomID)
	}
	err := q.Find(&sessions).Error
	return sessions, err
}

// isoWeekday 本地日历的星期（1=周一 … 7=周日）
func isoWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func (r *scheduleSessionRepo) ListForClassroomAndDate(ctx context.Context, classroomID string, date time.Time) ([]model.ScheduleSession, error) {
	var sessions []model.ScheduleSession
	day := date.Format("2006-01-02")
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Teacher").
		Where("classroom_id = ? AND day_of_week = ? AND start_date <= ? AND end_date >= ?",
			classroomID, isoWeekday(date), day, day).
		Order("start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *scheduleSessionRepo) ListForTeacherAndDate(ctx context.Context, teacherID string, date time.Time) ([]model.ScheduleSession, error) {
	var sessions []model.ScheduleSession
	day := date.Format("2006-01-02")
	err := r.db.WithContext(ctx).
		Preload("Classroom").
		Preload("Subject").
		Where("teacher_id = ? AND day_of_week = ? AND start_date <= ? AND end_date >= ?",
			teacherID, isoWeekday(date), day, day).
		Order("start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *scheduleSessionRepo) Delete(ctx context.Context, id string, callerID string) error {
	return r.db.WithContext(ctx).
		Model(&model.ScheduleSession{}).
		Where("session_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": callerID,
		}).Error
}
