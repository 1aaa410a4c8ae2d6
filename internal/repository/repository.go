package repository

import (
	"errors"

	"gorm.io/gorm"

	pkgerrors "school-calendar/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Semester   SemesterRepository
	Annotation AnnotationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Semester:   NewSemesterRepo(db),
		Annotation: NewAnnotationRepo(db),
	}
}

// translateError 将 gorm 的通用错误映射为 pkg/errors 定义的错误
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.ErrDuplicateKey
	}
	return err
}
