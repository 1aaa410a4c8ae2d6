package calendar

import (
	"fmt"
	"time"
)

const daysPerWeek = 7

// Date 取 t 在其自身时区下的日历日，返回该日 UTC 零点。
// 引擎内部统一用 UTC 零点表示日历日，日数差因此不受夏令时影响。
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MondayOf 返回 t 所在周的周一（周日回退 6 天）
func MondayOf(t time.Time) time.Time {
	d := Date(t)
	return d.AddDate(0, 0, -mondayOffset(d.Weekday()))
}

// WeekIndexRelativeToAnchor 计算 date 相对 anchor（周一）的周序号，向下取整，
// anchor 之前的日期得到负数。学期视图与月视图共用此计算。
func WeekIndexRelativeToAnchor(date, anchor time.Time) int {
	return floorDiv(daysBetween(anchor, date), daysPerWeek)
}

// mondayOffset 以周一为起点的星期偏移：周一 0 … 周日 6
func mondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func daysBetween(from, to time.Time) int {
	return int(Date(to).Sub(Date(from)).Hours() / 24)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateLayout 日历日的文本格式
const DateLayout = "2006-01-02"

func dateKey(t time.Time) string {
	return Date(t).Format(DateLayout)
}

// monthKey 月份键，与前端约定为不补零的 "2024-9"
func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%d-%d", year, int(month))
}

// MonthName 月份显示名，如 "9月"
func MonthName(month time.Month) string {
	return fmt.Sprintf("%d月", int(month))
}
