package calendar

import "time"

const (
	maxMonthViewWeeks = 6
	minMonthViewWeeks = 4
)

// BuildMonthView 生成单月视图，周次仍相对学期计算。
//
// 从该月 1 日所在周的周一开始，最多 6 周；生成满 4 周后，若下一周的周一已进入后续月份则提前结束。
// 与学期视图不同，这里的"非活动"判定是月份归属（Day.IsOutsideMonth），
// 所请求的月份可以与学期部分相交或完全不相交。
func BuildMonthView(year int, month time.Month, semesterStart, semesterEnd, today time.Time, ann Annotator) MonthViewResult {
	ann = orNop(ann)

	start := Date(semesterStart)
	end := Date(semesterEnd)
	today = Date(today)

	anchor := MondayOf(start)
	todayWeekIndex := WeekIndexRelativeToAnchor(today, anchor)

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// 归一化越界月份，如 month=13
	year, month = first.Year(), first.Month()

	result := MonthViewResult{
		Year:        year,
		Month:       month,
		DisplayName: MonthName(month),
	}

	monday := MondayOf(first)
	for w := 0; w < maxMonthViewWeeks; w++ {
		idx := WeekIndexRelativeToAnchor(monday, anchor)
		week := Week{
			DisplayNumber:     WeekPlaceholder,
			IsCurrentWeek:     idx == todayWeekIndex,
			SemesterWeekIndex: idx,
		}
		if inRange(monday, start, end) {
			week.DisplayNumber = WeekLabel(idx)
		}

		for i := range week.Days {
			date := monday.AddDate(0, 0, i)
			day := newDay(date, today, ann)
			day.IsOutsideMonth = date.Year() != year || date.Month() != month
			day.InSemesterRange = inRange(date, start, end)
			week.Days[i] = day
		}
		result.Weeks = append(result.Weeks, week)

		monday = monday.AddDate(0, 0, daysPerWeek)
		if w+1 >= minMonthViewWeeks && monthAfter(monday, year, month) {
			break
		}
	}

	return result
}

func monthAfter(t time.Time, year int, month time.Month) bool {
	return t.Year() > year || (t.Year() == year && t.Month() > month)
}
