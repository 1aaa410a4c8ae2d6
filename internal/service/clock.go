package service

import (
	"time"

	"school-calendar/internal/calendar"
)

// Clock 提供当前时间，测试中替换为固定时钟
type Clock interface {
	Now() time.Time
}

// RealClock 系统时钟
type RealClock struct{}

// Now 返回系统当前时间
func (RealClock) Now() time.Time { return time.Now() }

// FixedClock 固定时钟
type FixedClock struct {
	T time.Time
}

// Now 返回固定时间
func (c FixedClock) Now() time.Time { return c.T }

// todayIn 返回 clock 在 loc 时区下的日历日
func todayIn(clock Clock, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return calendar.Date(clock.Now().In(loc))
}
