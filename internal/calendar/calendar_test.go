package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── 测试辅助 ──

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fall2024() SemesterDefinition {
	return SemesterDefinition{
		ID:        "2024-fall",
		Name:      "2024年秋季学期",
		Year:      2024,
		Season:    SeasonFall,
		StartDate: day(2024, 9, 2),
		EndDate:   day(2025, 1, 15),
	}
}

func requireWellFormed(t *testing.T, weeks []Week) {
	t.Helper()
	for i, w := range weeks {
		require.Equal(t, time.Monday, w.Monday().Weekday(), "week %d must start on Monday", i)
		require.Equal(t, 1, w.Days[0].WeekdayIndex)
		for j := 1; j < len(w.Days); j++ {
			require.Equal(t, w.Days[j-1].Date.AddDate(0, 0, 1), w.Days[j].Date, "week %d day %d", i, j)
		}
		if i > 0 {
			require.Equal(t, weeks[i-1].Monday().AddDate(0, 0, 7), w.Monday(), "weeks %d/%d not contiguous", i-1, i)
		}
	}
}

func countToday(weeks []Week) int {
	n := 0
	for _, w := range weeks {
		for _, d := range w.Days {
			if d.IsToday {
				n++
			}
		}
	}
	return n
}

// ── BuildWeeks ──

func TestBuildWeeks_FirstDayIsToday(t *testing.T) {
	grid := BuildWeeks(fall2024(), day(2024, 9, 2), nil)

	require.NotEmpty(t, grid.Weeks)
	first := grid.Weeks[0]
	assert.Equal(t, "一", first.DisplayNumber)
	assert.True(t, first.IsCurrentWeek)
	assert.True(t, first.Days[0].IsToday)
	assert.Equal(t, 0, grid.CurrentWeekIndex)
	assert.Equal(t, 1, countToday(grid.Weeks))
}

func TestBuildWeeks_CoversSemesterPlusTrailingWeek(t *testing.T) {
	grid := BuildWeeks(fall2024(), day(2024, 10, 1), nil)

	requireWellFormed(t, grid.Weeks)
	require.Len(t, grid.Weeks, 21)

	last := grid.Weeks[len(grid.Weeks)-1]
	assert.Equal(t, day(2025, 1, 20), last.Monday())
	assert.Equal(t, WeekPlaceholder, last.DisplayNumber)

	beforeLast := grid.Weeks[len(grid.Weeks)-2]
	assert.Equal(t, day(2025, 1, 13), beforeLast.Monday())
	assert.Equal(t, "二十", beforeLast.DisplayNumber)
	assert.True(t, beforeLast.Days[2].InSemesterRange) // 1/15
	assert.False(t, beforeLast.Days[3].InSemesterRange)
}

func TestBuildWeeks_DisplayNumberMatchesSemesterRange(t *testing.T) {
	sem := SemesterDefinition{StartDate: day(2024, 9, 4), EndDate: day(2025, 1, 15)}
	grid := BuildWeeks(sem, day(2024, 11, 1), nil)

	for i, w := range grid.Weeks {
		inside := !w.Monday().Before(sem.StartDate) && !w.Monday().After(sem.EndDate)
		if inside {
			assert.Equal(t, WeekLabel(i), w.DisplayNumber, "week %d", i)
		} else {
			assert.Equal(t, WeekPlaceholder, w.DisplayNumber, "week %d", i)
		}
	}
	// 周三开学：第一周周一早于开学日，显示占位符，第二周编号为 "二"
	assert.Equal(t, WeekPlaceholder, grid.Weeks[0].DisplayNumber)
	assert.Equal(t, "二", grid.Weeks[1].DisplayNumber)
}

func TestBuildWeeks_TodayBeforeSemester(t *testing.T) {
	grid := BuildWeeks(fall2024(), day(2024, 8, 15), nil)

	assert.Zero(t, countToday(grid.Weeks))
	for _, w := range grid.Weeks {
		assert.False(t, w.IsCurrentWeek)
	}
	assert.Equal(t, NoCurrentWeek, grid.CurrentWeekIndex)
	assert.Equal(t, -3, WeekIndexRelativeToAnchor(day(2024, 8, 15), day(2024, 9, 2)))
}

func TestBuildWeeks_CurrentWeekIndependentOfDisplayNumber(t *testing.T) {
	// 周三开学、周一查看：当前周存在但周次显示为占位符
	sem := SemesterDefinition{StartDate: day(2024, 9, 4), EndDate: day(2025, 1, 15)}
	grid := BuildWeeks(sem, day(2024, 9, 2), nil)

	first := grid.Weeks[0]
	assert.True(t, first.IsCurrentWeek)
	assert.Equal(t, WeekPlaceholder, first.DisplayNumber)
	assert.True(t, first.Days[0].IsToday)
	assert.False(t, first.Days[0].InSemesterRange)
	assert.True(t, first.Days[2].InSemesterRange)
}

func TestBuildWeeks_ZeroLengthSemester(t *testing.T) {
	sem := SemesterDefinition{StartDate: day(2024, 9, 4), EndDate: day(2024, 9, 4)}
	grid := BuildWeeks(sem, day(2024, 9, 4), nil)

	requireWellFormed(t, grid.Weeks)
	require.Len(t, grid.Weeks, 2)
	assert.Equal(t, 1, countToday(grid.Weeks))
	assert.True(t, grid.Weeks[0].Days[2].InSemesterRange)
}

func TestBuildWeeks_SundayStart(t *testing.T) {
	sem := SemesterDefinition{StartDate: day(2024, 9, 1), EndDate: day(2024, 9, 30)}
	grid := BuildWeeks(sem, day(2024, 9, 1), nil)

	assert.Equal(t, day(2024, 8, 26), grid.Weeks[0].Monday())
	assert.True(t, grid.Weeks[0].Days[6].IsToday)
	assert.True(t, grid.Weeks[0].IsCurrentWeek)
}

func TestBuildWeeks_NumeralFallback(t *testing.T) {
	sem := SemesterDefinition{StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31)}
	grid := BuildWeeks(sem, day(2024, 1, 1), nil)

	assert.Equal(t, "三十", grid.Weeks[29].DisplayNumber)
	assert.Equal(t, "31", grid.Weeks[30].DisplayNumber)
}

func TestBuildWeeks_NormalizesTimeOfDay(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	now := time.Date(2024, 9, 3, 23, 30, 0, 0, shanghai)
	grid := BuildWeeks(fall2024(), now, nil)

	assert.True(t, grid.Weeks[0].Days[1].IsToday)
	assert.Equal(t, 1, countToday(grid.Weeks))
}

func TestBuildWeeks_Annotations(t *testing.T) {
	ann := NewMapAnnotator()
	ann.SetHoliday(day(2024, 10, 1), "国庆节")
	ann.SetLunar(day(2024, 9, 17), "中秋")

	grid := BuildWeeks(fall2024(), day(2024, 9, 2), ann)

	var holiday, lunar string
	for _, w := range grid.Weeks {
		for _, d := range w.Days {
			if d.Date.Equal(day(2024, 10, 1)) {
				holiday = d.HolidayLabel
			}
			if d.Date.Equal(day(2024, 9, 17)) {
				lunar = d.LunarLabel
			}
		}
	}
	assert.Equal(t, "国庆节", holiday)
	assert.Equal(t, "中秋", lunar)
	assert.Empty(t, grid.Weeks[0].Days[0].HolidayLabel)
}

func TestBuildWeeks_Idempotent(t *testing.T) {
	a := BuildWeeks(fall2024(), day(2024, 11, 11), nil)
	b := BuildWeeks(fall2024(), day(2024, 11, 11), nil)
	assert.Equal(t, a, b)
}

// ── GroupByMonth ──

func TestGroupByMonth_Fall2024(t *testing.T) {
	sem := fall2024()
	grid := BuildWeeks(sem, day(2024, 9, 2), nil)
	months := GroupByMonth(grid.Weeks, sem.StartDate, sem.EndDate)

	keys := make([]string, 0, len(months))
	total := 0
	for _, m := range months {
		keys = append(keys, m.Key)
		total += len(m.Weeks)
		for _, w := range m.Weeks {
			assert.Equal(t, m.Month, w.Monday().Month())
			assert.Equal(t, m.Year, w.Monday().Year())
		}
	}
	assert.Equal(t, []string{"2024-9", "2024-10", "2024-11", "2024-12", "2025-1"}, keys)
	assert.Equal(t, len(grid.Weeks), total)

	sep := months[0]
	assert.Equal(t, "9月", sep.DisplayName)
	assert.Equal(t, 5, sep.WeekRowCount)
	assert.Equal(t, 72+5*90, sep.PixelHeight)
	assert.True(t, sep.IsCentered)

	oct := months[1]
	assert.Equal(t, 4, oct.WeekRowCount)
	assert.False(t, oct.IsCentered)

	jan := months[4]
	assert.Equal(t, 3, jan.WeekRowCount)
	assert.Equal(t, 72+3*90, jan.PixelHeight)
}

func TestGroupByMonth_DropsMonthsOutsideSemester(t *testing.T) {
	sem := SemesterDefinition{StartDate: day(2024, 9, 1), EndDate: day(2024, 9, 30)}
	grid := BuildWeeks(sem, day(2024, 9, 1), nil)
	months := GroupByMonth(grid.Weeks, sem.StartDate, sem.EndDate)

	require.Len(t, months, 1)
	assert.Equal(t, "2024-9", months[0].Key)
	assert.Equal(t, 5, months[0].WeekRowCount)
}

func TestGroupByMonth_Empty(t *testing.T) {
	assert.Empty(t, GroupByMonth(nil, day(2024, 9, 1), day(2024, 9, 30)))
}

// ── BuildMonthView ──

func TestBuildMonthView_SemesterRelativeNumbers(t *testing.T) {
	sem := fall2024()
	mv := BuildMonthView(2024, time.October, sem.StartDate, sem.EndDate, day(2024, 10, 16), nil)

	assert.Equal(t, "10月", mv.DisplayName)
	requireWellFormed(t, mv.Weeks)
	require.Len(t, mv.Weeks, 5)

	first := mv.Weeks[0]
	assert.Equal(t, day(2024, 9, 30), first.Monday())
	assert.Equal(t, "五", first.DisplayNumber)
	assert.True(t, first.Days[0].IsOutsideMonth)
	assert.False(t, first.Days[1].IsOutsideMonth)

	assert.True(t, mv.Weeks[2].IsCurrentWeek)
	assert.Equal(t, 1, countToday(mv.Weeks))
	for i, w := range mv.Weeks {
		if i != 2 {
			assert.False(t, w.IsCurrentWeek, "week %d", i)
		}
	}
}

func TestBuildMonthView_OutsideSemester(t *testing.T) {
	sem := fall2024()
	mv := BuildMonthView(2025, time.March, sem.StartDate, sem.EndDate, day(2024, 10, 16), nil)

	for _, w := range mv.Weeks {
		assert.Equal(t, WeekPlaceholder, w.DisplayNumber)
		assert.False(t, w.IsCurrentWeek)
		for _, d := range w.Days {
			assert.False(t, d.InSemesterRange)
		}
	}
}

func TestBuildMonthView_PartialOverlapAtSemesterEnd(t *testing.T) {
	sem := fall2024()
	mv := BuildMonthView(2025, time.January, sem.StartDate, sem.EndDate, day(2025, 1, 2), nil)

	// 2025-01-01 周三，首周周一 2024-12-30 (第十八周)
	assert.Equal(t, day(2024, 12, 30), mv.Weeks[0].Monday())
	assert.Equal(t, "十八", mv.Weeks[0].DisplayNumber)
	assert.True(t, mv.Weeks[0].IsCurrentWeek)
	assert.Equal(t, "二十", mv.Weeks[2].DisplayNumber)
	assert.Equal(t, WeekPlaceholder, mv.Weeks[3].DisplayNumber)
}

func TestBuildMonthView_DecemberStopsEarly(t *testing.T) {
	sem := SemesterDefinition{StartDate: day(2025, 9, 1), EndDate: day(2026, 1, 15)}
	mv := BuildMonthView(2025, time.December, sem.StartDate, sem.EndDate, day(2025, 12, 3), nil)

	require.Len(t, mv.Weeks, 5)
	assert.Equal(t, day(2025, 12, 29), mv.Weeks[4].Monday())
}

func TestBuildMonthView_SixRows(t *testing.T) {
	sem := fall2024()
	mv := BuildMonthView(2024, time.December, sem.StartDate, sem.EndDate, day(2024, 12, 1), nil)

	require.Len(t, mv.Weeks, 6)
	assert.Equal(t, day(2024, 11, 25), mv.Weeks[0].Monday())
	assert.True(t, mv.Weeks[0].Days[6].IsToday)
}

// ── EstimateMonthLayout ──

func TestEstimateMonthLayout_February2024(t *testing.T) {
	layout := EstimateMonthLayout(2024, time.February)

	assert.Equal(t, "2024-2", layout.Key)
	assert.Equal(t, 5, layout.WeekRowCount)
	assert.Equal(t, 162+4*90, layout.PixelHeight)
	assert.True(t, layout.IsCentered)

	mv := BuildMonthView(2024, time.February, day(2024, 2, 1), day(2024, 2, 29), day(2024, 2, 1), nil)
	assert.Len(t, mv.Weeks, layout.WeekRowCount)
}

func TestEstimateMonthLayout_MatchesMonthView(t *testing.T) {
	sem := fall2024()
	for year := 2021; year <= 2027; year++ {
		for m := time.January; m <= time.December; m++ {
			layout := EstimateMonthLayout(year, m)
			mv := BuildMonthView(year, m, sem.StartDate, sem.EndDate, sem.StartDate, nil)
			assert.Len(t, mv.Weeks, layout.WeekRowCount, "%d-%d", year, m)
		}
	}
}

func TestEstimateMonthLayout_FourAndSixRows(t *testing.T) {
	// 2021-02-01 周一且只有 28 天
	assert.Equal(t, 4, EstimateMonthLayout(2021, time.February).WeekRowCount)
	// 2024-12-01 周日、31 天
	six := EstimateMonthLayout(2024, time.December)
	assert.Equal(t, 6, six.WeekRowCount)
	assert.Equal(t, 162+5*90, six.PixelHeight)
	assert.False(t, six.IsCentered)
}

func TestSemesterMonthLayouts(t *testing.T) {
	layouts := SemesterMonthLayouts(day(2024, 9, 2), day(2025, 1, 15))

	keys := make([]string, 0, len(layouts))
	for _, l := range layouts {
		keys = append(keys, l.Key)
	}
	assert.Equal(t, []string{"2024-9", "2024-10", "2024-11", "2024-12", "2025-1"}, keys)
}

// ── Resolve ──

func catalog() []SemesterDefinition {
	return []SemesterDefinition{
		{ID: "2023-spring", StartDate: day(2023, 2, 20), EndDate: day(2023, 6, 30)},
		{ID: "2023-short", StartDate: day(2023, 6, 20), EndDate: day(2023, 7, 31)},
		{ID: "2023-fall", StartDate: day(2023, 9, 4), EndDate: day(2024, 1, 15)},
		{ID: "2024-spring-a", StartDate: day(2024, 2, 19), EndDate: day(2024, 6, 30)},
		{ID: "2024-spring-b", StartDate: day(2024, 2, 19), EndDate: day(2024, 6, 30)},
	}
}

func TestResolve_Containing(t *testing.T) {
	assert.Equal(t, "2023-fall", Resolve(catalog(), day(2023, 10, 1)).ID)
	// 首尾均包含
	assert.Equal(t, "2023-fall", Resolve(catalog(), day(2024, 1, 15)).ID)
	// 重叠时取目录中第一个
	assert.Equal(t, "2023-spring", Resolve(catalog(), day(2023, 6, 25)).ID)
}

func TestResolve_Upcoming(t *testing.T) {
	assert.Equal(t, "2023-fall", Resolve(catalog(), day(2023, 8, 15)).ID)
	// 同日开始按目录顺序
	assert.Equal(t, "2024-spring-a", Resolve(catalog(), day(2024, 2, 1)).ID)
	assert.Equal(t, "2023-spring", Resolve(catalog(), day(2022, 1, 1)).ID)
}

func TestResolve_FallsBackToLast(t *testing.T) {
	assert.Equal(t, "2024-spring-b", Resolve(catalog(), day(2030, 1, 1)).ID)
}

func TestResolve_EmptyCatalogPanics(t *testing.T) {
	assert.Panics(t, func() { Resolve(nil, day(2024, 1, 1)) })
}

func TestFindContaining_NoMatch(t *testing.T) {
	_, ok := FindContaining(catalog(), day(2023, 8, 15))
	assert.False(t, ok)
}

func TestSemesterDefinition_IsCustom(t *testing.T) {
	assert.True(t, SemesterDefinition{ID: CustomIDPrefix + "abc"}.IsCustom())
	assert.False(t, SemesterDefinition{ID: "2024-fall"}.IsCustom())
}

func TestWeekLabel(t *testing.T) {
	assert.Equal(t, "一", WeekLabel(0))
	assert.Equal(t, "二一", WeekLabel(20))
	assert.Equal(t, "31", WeekLabel(30))
}
