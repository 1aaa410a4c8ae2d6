package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"school-calendar/internal/calendar"
	"school-calendar/internal/dto"
	"school-calendar/internal/model"
)

// ── 测试辅助 ──

type calendarFixture struct {
	svc     CalendarService
	semRepo *mockSemesterRepo
	annRepo *mockAnnotationRepo
	cache   *mockViewCache
}

func setupTestCalendarService(today string) *calendarFixture {
	repo, semRepo, annRepo := newTestRepository()
	seedCatalog(semRepo)
	cache := newMockViewCache()
	clock := FixedClock{T: mustDate(today).Add(9 * time.Hour)}
	logger := zap.NewNop()

	semesterSvc := NewSemesterService(repo, cache, clock, time.UTC, logger)
	svc := NewCalendarService(repo, semesterSvc, cache, CalendarOptions{
		Clock:    clock,
		Location: time.UTC,
		CacheTTL: time.Minute,
	}, logger)
	return &calendarFixture{svc: svc, semRepo: semRepo, annRepo: annRepo, cache: cache}
}

func countWeeks(months []dto.MonthResponse) int {
	n := 0
	for _, m := range months {
		n += len(m.Weeks)
	}
	return n
}

func findDay(months []dto.MonthResponse, date string) (dto.DayResponse, bool) {
	for _, m := range months {
		for _, w := range m.Weeks {
			for _, d := range w.Days {
				if d.Date == date {
					return d, true
				}
			}
		}
	}
	return dto.DayResponse{}, false
}

// ── SemesterView 测试 ──

func TestCalendarService_SemesterView_Fall2024(t *testing.T) {
	fx := setupTestCalendarService("2024-10-15")

	resp, err := fx.svc.SemesterView(context.Background(), &dto.CalendarQuery{SemesterID: "2024-fall"})
	if err != nil {
		t.Fatalf("SemesterView 应成功: %v", err)
	}
	if resp.Today != "2024-10-15" {
		t.Errorf("期望 today=2024-10-15，实际 %s", resp.Today)
	}
	if got := countWeeks(resp.Months); got != 21 {
		t.Errorf("期望 21 周（含尾周），实际 %d", got)
	}
	if len(resp.Months) != 5 {
		t.Errorf("期望 9 月至次年 1 月共 5 个月分组，实际 %d", len(resp.Months))
	}
	if resp.CurrentWeekIndex != 6 || resp.CurrentWeekLabel != "七" {
		t.Errorf("期望当前周为第 7 周，实际 index=%d label=%s", resp.CurrentWeekIndex, resp.CurrentWeekLabel)
	}
	if resp.Months[0].Key != "2024-9" || resp.Months[0].DisplayName != "9月" {
		t.Errorf("首个月份分组不符: %s %s", resp.Months[0].Key, resp.Months[0].DisplayName)
	}

	first := resp.Months[0].Weeks[0]
	if first.DisplayNumber != "一" || first.Days[0].Date != "2024-09-02" {
		t.Errorf("首周应为 2024-09-02 起的第一周，实际 %s %s", first.DisplayNumber, first.Days[0].Date)
	}
	last := resp.Months[len(resp.Months)-1].Weeks
	tail := last[len(last)-1]
	if tail.DisplayNumber != calendar.WeekPlaceholder {
		t.Errorf("尾周应显示占位符，实际 %s", tail.DisplayNumber)
	}

	today, ok := findDay(resp.Months, "2024-10-15")
	if !ok || !today.IsToday {
		t.Error("2024-10-15 应标记为今天")
	}
}

func TestCalendarService_SemesterView_NoCurrentWeek(t *testing.T) {
	// 今天早于学期开始，没有任何一周是当前周
	fx := setupTestCalendarService("2024-08-15")

	resp, err := fx.svc.SemesterView(context.Background(), &dto.CalendarQuery{SemesterID: "2024-fall"})
	if err != nil {
		t.Fatalf("SemesterView 应成功: %v", err)
	}
	if resp.CurrentWeekIndex != calendar.NoCurrentWeek || resp.CurrentWeekLabel != "" {
		t.Errorf("期望无当前周，实际 index=%d label=%s", resp.CurrentWeekIndex, resp.CurrentWeekLabel)
	}
	for _, m := range resp.Months {
		for _, w := range m.Weeks {
			if w.IsCurrentWeek {
				t.Errorf("%s 月不应有当前周", m.Key)
			}
		}
	}
}

func TestCalendarService_SemesterView_Annotations(t *testing.T) {
	fx := setupTestCalendarService("2024-10-15")
	_ = fx.annRepo.Upsert(context.Background(), "holiday", []model.DayAnnotation{
		{Date: mustDate("2024-10-01"), HolidayLabel: "国庆节"},
	})
	_ = fx.annRepo.Upsert(context.Background(), "lunar", []model.DayAnnotation{
		{Date: mustDate("2024-09-17"), LunarLabel: "中秋"},
	})

	resp, err := fx.svc.SemesterView(context.Background(), &dto.CalendarQuery{SemesterID: "2024-fall"})
	if err != nil {
		t.Fatalf("SemesterView 应成功: %v", err)
	}

	day, ok := findDay(resp.Months, "2024-10-01")
	if !ok || day.HolidayLabel != "国庆节" {
		t.Errorf("期望 10-01 节假日标注为 国庆节，实际 %q", day.HolidayLabel)
	}
	day, ok = findDay(resp.Months, "2024-09-17")
	if !ok || day.LunarLabel != "中秋" {
		t.Errorf("期望 09-17 农历标注为 中秋，实际 %q", day.LunarLabel)
	}
	day, _ = findDay(resp.Months, "2024-09-18")
	if day.LunarLabel != "" || day.HolidayLabel != "" {
		t.Error("无标注日期应为空串")
	}
}

func TestCalendarService_SemesterView_AnnotationFailureDegrades(t *testing.T) {
	fx := setupTestCalendarService("2024-10-15")
	fx.annRepo.listErr = errors.New("db down")

	resp, err := fx.svc.SemesterView(context.Background(), &dto.CalendarQuery{SemesterID: "2024-fall"})
	if err != nil {
		t.Fatalf("标注加载失败时应降级生成: %v", err)
	}
	if countWeeks(resp.Months) != 21 {
		t.Errorf("降级生成周数不符: %d", countWeeks(resp.Months))
	}
}

func TestCalendarService_SemesterView_Cached(t *testing.T) {
	fx := setupTestCalendarService("2024-10-15")
	ctx := context.Background()
	q := &dto.CalendarQuery{SemesterID: "2024-fall"}

	first, err := fx.svc.SemesterView(ctx, q)
	if err != nil {
		t.Fatalf("SemesterView 应成功: %v", err)
	}
	if fx.cache.sets != 1 {
		t.Fatalf("首次生成应写入缓存，实际写入 %d 次", fx.cache.sets)
	}

	// 缓存命中后即使标注变化也返回缓存内容
	fx.annRepo.days["2024-10-01"] = &model.DayAnnotation{Date: mustDate("2024-10-01"), HolidayLabel: "国庆节"}
	second, err := fx.svc.SemesterView(ctx, q)
	if err != nil {
		t.Fatalf("SemesterView 应成功: %v", err)
	}
	if fx.cache.sets != 1 {
		t.Errorf("缓存命中不应再次写入，实际写入 %d 次", fx.cache.sets)
	}
	if countWeeks(second.Months) != countWeeks(first.Months) {
		t.Error("缓存结果应与首次生成一致")
	}
	if day, _ := findDay(second.Months, "2024-10-01"); day.HolidayLabel != "" {
		t.Error("缓存命中时不应重新加载标注")
	}
	if keys := fx.cache.keysWithPrefix("semester:2024-fall:"); len(keys) != 1 {
		t.Errorf("期望 1 个学期视图缓存键，实际 %v", keys)
	}
}

func TestCalendarService_SemesterView_CustomBounds(t *testing.T) {
	fx := setupTestCalendarService("2024-09-04")

	// 周三开始的自定义学期：首周周一早于开始日期，显示占位符，但仍是当前周
	resp, err := fx.svc.SemesterView(context.Background(), &dto.CalendarQuery{
		StartDate: "2024-09-04",
		EndDate:   "2024-09-30",
		Name:      "短期课程",
	})
	if err != nil {
		t.Fatalf("SemesterView 应成功: %v", err)
	}
	if !resp.Semester.IsCustom || resp.Semester.Name != "短期课程" {
		t.Errorf("学期信息不符: %+v", resp.Semester)
	}
	first := resp.Months[0].Weeks[0]
	if first.DisplayNumber != calendar.WeekPlaceholder || !first.IsCurrentWeek {
		t.Errorf("首周应为占位符且为当前周，实际 %s current=%v", first.DisplayNumber, first.IsCurrentWeek)
	}
	if resp.CurrentWeekIndex != 0 || resp.CurrentWeekLabel != "一" {
		t.Errorf("当前周序号与标签不符: %d %s", resp.CurrentWeekIndex, resp.CurrentWeekLabel)
	}
}

func TestCalendarService_SemesterView_SemesterNotFound(t *testing.T) {
	fx := setupTestCalendarService("2024-10-15")

	_, err := fx.svc.SemesterView(context.Background(), &dto.CalendarQuery{SemesterID: "missing"})
	if !errors.Is(err, ErrSemesterNotFound) {
		t.Errorf("期望 ErrSemesterNotFound，实际: %v", err)
	}
}

// ── MonthView 测试 ──

func TestCalendarService_MonthView_October(t *testing.T) {
	fx := setupTestCalendarService("2024-10-15")

	resp, err := fx.svc.MonthView(context.Background(), &dto.MonthQuery{
		CalendarQuery: dto.CalendarQuery{SemesterID: "2024-fall"},
		Year:          2024,
		Month:         10,
	})
	if err != nil {
		t.Fatalf("MonthView 应成功: %v", err)
	}
	if resp.DisplayName != "10月" || len(resp.Weeks) != 5 {
		t.Fatalf("期望 10月 共 5 周，实际 %s %d", resp.DisplayName, len(resp.Weeks))
	}
	firstDay := resp.Weeks[0].Days[0]
	if firstDay.Date != "2024-09-30" || !firstDay.IsOutsideMonth {
		t.Errorf("首格应为月外的 2024-09-30，实际 %s outside=%v", firstDay.Date, firstDay.IsOutsideMonth)
	}
	if resp.Weeks[0].DisplayNumber != "五" {
		t.Errorf("9/30 所在周应为第五周，实际 %s", resp.Weeks[0].DisplayNumber)
	}
	if !resp.Weeks[2].IsCurrentWeek {
		t.Error("10/14 所在周应为当前周")
	}
}

func TestCalendarService_MonthView_InvalidMonth(t *testing.T) {
	fx := setupTestCalendarService("2024-10-15")

	for _, m := range []int{0, 13} {
		_, err := fx.svc.MonthView(context.Background(), &dto.MonthQuery{Year: 2024, Month: m})
		if !errors.Is(err, ErrMonthInvalid) {
			t.Errorf("month=%d 期望 ErrMonthInvalid，实际: %v", m, err)
		}
	}
}

// ── MonthLayouts 测试 ──

func TestCalendarService_MonthLayouts(t *testing.T) {
	fx := setupTestCalendarService("2024-10-15")

	layouts, err := fx.svc.MonthLayouts(context.Background(), &dto.CalendarQuery{SemesterID: "2024-fall"})
	if err != nil {
		t.Fatalf("MonthLayouts 应成功: %v", err)
	}
	want := []string{"2024-9", "2024-10", "2024-11", "2024-12", "2025-1"}
	if len(layouts) != len(want) {
		t.Fatalf("期望 %d 个月，实际 %d", len(want), len(layouts))
	}
	for i, key := range want {
		if layouts[i].Key != key {
			t.Errorf("第 %d 个月期望 %s，实际 %s", i, key, layouts[i].Key)
		}
		if layouts[i].PixelHeight != 162+(layouts[i].WeekRowCount-1)*90 {
			t.Errorf("%s 高度与行数不一致", layouts[i].Key)
		}
	}
	// 2024 年 9 月 1 日为周日，共 6 行
	if layouts[0].WeekRowCount != 6 {
		t.Errorf("2024-9 期望 6 行，实际 %d", layouts[0].WeekRowCount)
	}
}

// ── Generate 测试 ──

func TestCalendarService_Generate_ResolvesToday(t *testing.T) {
	fx := setupTestCalendarService("2025-03-03")

	result, err := fx.svc.Generate(context.Background(), &dto.CalendarQuery{})
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}
	if result.Semester.ID != "2025-spring" {
		t.Errorf("期望 2025-spring，实际 %s", result.Semester.ID)
	}
	if result.Grid.CurrentWeekIndex != 2 {
		t.Errorf("2025-03-03 应为第 3 周，实际序号 %d", result.Grid.CurrentWeekIndex)
	}
	if !result.Today.Equal(mustDate("2025-03-03")) {
		t.Errorf("today 不符: %v", result.Today)
	}
}
