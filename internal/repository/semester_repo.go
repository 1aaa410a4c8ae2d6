package repository

import (
	"context"

	"gorm.io/gorm"

	"school-calendar/internal/model"
	pkgerrors "school-calendar/pkg/errors"
)

// SemesterRepository 学期目录数据访问接口
type SemesterRepository interface {
	Create(ctx context.Context, semester *model.Semester) error
	GetByID(ctx context.Context, id string) (*model.Semester, error)
	List(ctx context.Context) ([]model.Semester, error)
	Update(ctx context.Context, semester *model.Semester) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type semesterRepo struct {
	db *gorm.DB
}

// NewSemesterRepo 创建 SemesterRepository 实例
func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) Create(ctx context.Context, semester *model.Semester) error {
	return translateError(r.db.WithContext(ctx).Create(semester).Error)
}

func (r *semesterRepo) GetByID(ctx context.Context, id string) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("semester_id = ?", id).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

// List 按开始日期升序返回学期目录，同日按创建先后
func (r *semesterRepo) List(ctx context.Context) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).
		Order("start_date ASC").
		Order("created_at ASC").
		Order("semester_id ASC").
		Find(&semesters).Error
	return semesters, err
}

// Update 基于 version 的乐观锁更新
func (r *semesterRepo) Update(ctx context.Context, semester *model.Semester) error {
	result := r.db.WithContext(ctx).
		Model(&model.Semester{}).
		Where("semester_id = ? AND version = ?", semester.SemesterID, semester.Version).
		Updates(map[string]interface{}{
			"name":       semester.Name,
			"year":       semester.Year,
			"season":     semester.Season,
			"start_date": semester.StartDate,
			"end_date":   semester.EndDate,
			"updated_by": semester.UpdatedBy,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	semester.Version++
	return nil
}

func (r *semesterRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Semester{}).
		Where("semester_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
