package repository

import (
	"context"

	"gorm.io/gorm"

	"nexus-lab/backend/internal/model"
)

// ClassroomRepository 教室数据访问接口
type ClassroomRepository interface {
	Create(ctx context.Context, classroom *model.Classroom) error
	GetByID(ctx context.Context, id string) (*model.Classroom, error)
	// List 按教室编号升序返回；可用性搜索依赖该确定性顺序
	List(ctx context.Context, includeInactive bool) ([]model.Classroom, error)
	Update(ctx context.Context, classroom *model.Classroom) error
	Delete(ctx context.Context, id string, callerID string) error
}

type classroomRepo struct {
	db *gorm.DB
}

func NewClassroomRepo(db *gorm.DB) ClassroomRepository {
	return &classroomRepo{db: db}
}

func (r *classroomRepo) Create(ctx context.Context, classroom *model.Classroom) error {
	return r.db.WithContext(ctx).Create(classroom).Error
}

func (r *classroomRepo) GetByID(ctx context.Context, id string) (*model.Classroom, error) {
	var classroom model.Classroom
	err := r.db.WithContext(ctx).
		Where("classroom_id = ?", id).
		First(&classroom).Error
	if err != nil {
		return nil, err
	}
	return &classroom, nil
}

func (r *classroomRepo) List(ctx context.Context, includeInactive bool) ([]model.Classroom, error) {
	var classrooms []model.Classroom
	q := r.db.WithContext(ctx).Order("code ASC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&classrooms).Error
	return classrooms, err
}

func (r *classroomRepo) Update(ctx context.Context, classroom *model.Classroom) error {
	return r.db.WithContext(ctx).
		Model(classroom).
		Where("classroom_id = ?", classroom.ClassroomID).
		Updates(map[string]interface{}{
			"code":       classroom.Code,
			"name":       classroom.Name,
			"capacity":   classroom.Capacity,
			"building":   classroom.Building,
			"is_active":  classroom.IsActive,
			"updated_by": classroom.UpdatedBy,
		}).Error
}

func (r *classroomRepo) Delete(ctx context.Context, id string, callerID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Classroom{}).
		Where("classroom_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": callerID,
		}).Error
}
