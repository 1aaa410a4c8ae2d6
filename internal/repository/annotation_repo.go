package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"school-calendar/internal/model"
)

// AnnotationKind 标注类别
type AnnotationKind string

const (
	AnnotationLunar   AnnotationKind = "lunar"
	AnnotationHoliday AnnotationKind = "holiday"
)

// column 对应的标注列
func (k AnnotationKind) column() string {
	if k == AnnotationLunar {
		return "lunar_label"
	}
	return "holiday_label"
}

// AnnotationRepository 日历日标注数据访问接口
type AnnotationRepository interface {
	ListRange(ctx context.Context, from, to time.Time) ([]model.DayAnnotation, error)
	// Upsert 写入某一类标注，同日已有记录时只覆盖该类标注列
	Upsert(ctx context.Context, kind AnnotationKind, annotations []model.DayAnnotation) error
}

type annotationRepo struct {
	db *gorm.DB
}

// NewAnnotationRepo 创建 AnnotationRepository 实例
func NewAnnotationRepo(db *gorm.DB) AnnotationRepository {
	return &annotationRepo{db: db}
}

func (r *annotationRepo) ListRange(ctx context.Context, from, to time.Time) ([]model.DayAnnotation, error) {
	var list []model.DayAnnotation
	err := r.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("date ASC").
		Find(&list).Error
	return list, err
}

func (r *annotationRepo) Upsert(ctx context.Context, kind AnnotationKind, annotations []model.DayAnnotation) error {
	if len(annotations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{kind.column(), "updated_at", "updated_by"}),
		}).CreateInBatches(annotations, 200).Error
	})
}
