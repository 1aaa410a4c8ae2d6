package calendar

import "time"

// 估算布局的首行高度包含月份标题与星期表头，比 GroupByMonth 的 72 更高
const layoutFirstRowHeight = 162

// EstimateMonthLayout 仅凭日历算术估算某月需要的行数与高度，不生成任何 Week。
func EstimateMonthLayout(year int, month time.Month) MonthLayout {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	year, month = first.Year(), first.Month()

	rows := (daysInMonth(year, month) + mondayOffset(first.Weekday()) + daysPerWeek - 1) / daysPerWeek

	return MonthLayout{
		Key:          monthKey(year, month),
		Year:         year,
		Month:        month,
		DisplayName:  MonthName(month),
		WeekRowCount: rows,
		PixelHeight:  layoutFirstRowHeight + (rows-1)*weekRowHeight,
		IsCentered:   rows == centeredRowCount,
	}
}

// SemesterMonthLayouts 返回学期从开始月份到结束月份（含）每个月的布局估算
func SemesterMonthLayouts(start, end time.Time) []MonthLayout {
	start, end = Date(start), Date(end)

	var layouts []MonthLayout
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !monthAfter(cur, end.Year(), end.Month()) {
		layouts = append(layouts, EstimateMonthLayout(cur.Year(), cur.Month()))
		cur = cur.AddDate(0, 1, 0)
	}
	return layouts
}
