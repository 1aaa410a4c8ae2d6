package model

import "time"

// DayAnnotation 日历日标注表 — 对应 day_annotations
// 农历与节假日由外部数据源（ICS 订阅等）导入，服务本身不做农历推算
type DayAnnotation struct {
	Date         time.Time `gorm:"type:date;primaryKey"             json:"date"`
	LunarLabel   string    `gorm:"type:varchar(32);not null;default:''" json:"lunar_label"`
	HolidayLabel string    `gorm:"type:varchar(64);not null;default:''" json:"holiday_label"`
	BaseModel
}

// TableName 指定表名
func (DayAnnotation) TableName() string { return "day_annotations" }
