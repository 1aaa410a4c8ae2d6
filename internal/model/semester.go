package model

import (
	"time"

	"school-calendar/internal/calendar"
)

// Semester 学期目录表 — 对应 semesters
// 只保存预置/管理员维护的学期；自定义学期（custom- 前缀）不落库
type Semester struct {
	SemesterID string    `gorm:"type:varchar(64);primaryKey"  json:"semester_id"`
	Name       string    `gorm:"type:varchar(100);not null"   json:"name"`
	Year       int       `gorm:"not null"                     json:"year"`
	Season     string    `gorm:"type:varchar(10);not null"    json:"season"` // spring | fall | short
	StartDate  time.Time `gorm:"type:date;not null"           json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null"           json:"end_date"`
	VersionedModel
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }

// Definition 转为校历引擎使用的学期定义
func (s *Semester) Definition() calendar.SemesterDefinition {
	return calendar.SemesterDefinition{
		ID:        s.SemesterID,
		Name:      s.Name,
		Year:      s.Year,
		Season:    calendar.Season(s.Season),
		StartDate: calendar.Date(s.StartDate),
		EndDate:   calendar.Date(s.EndDate),
	}
}
