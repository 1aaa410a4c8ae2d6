package calendar

import "time"

// BuildWeeks 将学期展开为以周一对齐的连续周序列。
//
// 从学期开始日所在周的周一起逐周生成，只要该周周一不晚于 EndDate+7 天就继续，
// 因此总会多生成一个尾周，保证学期最后一个不完整周完整呈现。
// 周次按生成序号编号，但只有周一落在学期内的周才显示周次，其余显示 WeekPlaceholder。
func BuildWeeks(semester SemesterDefinition, today time.Time, ann Annotator) SemesterGrid {
	ann = orNop(ann)

	start := Date(semester.StartDate)
	end := Date(semester.EndDate)
	today = Date(today)

	anchor := MondayOf(start)
	todayWeekIndex := WeekIndexRelativeToAnchor(today, anchor)
	limit := end.AddDate(0, 0, daysPerWeek)

	var weeks []Week
	for idx, monday := 0, anchor; !monday.After(limit); idx, monday = idx+1, monday.AddDate(0, 0, daysPerWeek) {
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
			day.InSemesterRange = inRange(date, start, end)
			week.Days[i] = day
		}

		weeks = append(weeks, week)
	}

	current := NoCurrentWeek
	if todayWeekIndex >= 0 && todayWeekIndex < len(weeks) {
		current = todayWeekIndex
	}

	return SemesterGrid{Weeks: weeks, CurrentWeekIndex: current}
}
