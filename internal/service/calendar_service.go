package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"school-calendar/internal/calendar"
	"school-calendar/internal/dto"
	"school-calendar/internal/repository"
	"school-calendar/pkg/redis"
)

// ── 校历模块业务错误 ──

var (
	ErrCalendarQueryInvalid = errors.New("学期参数无效：start_date 与 end_date 须同时提供")
	ErrMonthInvalid         = errors.New("年月参数无效")
)

// ViewCache 校历生成结果缓存，由 pkg/redis.Client 实现；为 nil 时不缓存
type ViewCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	InvalidateViews(ctx context.Context) error
}

// CalendarOptions 校历生成配置
type CalendarOptions struct {
	Clock    Clock
	Location *time.Location // "今天"所在时区
	CacheTTL time.Duration
}

// SemesterGridResult 一次学期视图生成的完整结果（供导出使用）
type SemesterGridResult struct {
	Semester calendar.SemesterDefinition
	Today    time.Time
	Grid     calendar.SemesterGrid
	Months   []calendar.MonthBucket
}

// CalendarService 校历生成业务接口
type CalendarService interface {
	// SemesterView 学期视图：周网格按月分组
	SemesterView(ctx context.Context, q *dto.CalendarQuery) (*dto.SemesterCalendarResponse, error)
	// MonthView 月视图：指定年月的周网格
	MonthView(ctx context.Context, q *dto.MonthQuery) (*dto.MonthViewResponse, error)
	// MonthLayouts 学期覆盖的各月份布局估算
	MonthLayouts(ctx context.Context, q *dto.CalendarQuery) ([]dto.MonthLayoutResponse, error)
	// Generate 生成学期网格（不经过缓存）
	Generate(ctx context.Context, q *dto.CalendarQuery) (*SemesterGridResult, error)
}

type calendarService struct {
	repo        *repository.Repository
	semesterSvc SemesterService
	cache       ViewCache
	opts        CalendarOptions
	logger      *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(
	repo *repository.Repository,
	semesterSvc SemesterService,
	cache ViewCache,
	opts CalendarOptions,
	logger *zap.Logger,
) CalendarService {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	return &calendarService{
		repo:        repo,
		semesterSvc: semesterSvc,
		cache:       cache,
		opts:        opts,
		logger:      logger,
	}
}

// ────────────────────── SemesterView ──────────────────────

func (s *calendarService) SemesterView(ctx context.Context, q *dto.CalendarQuery) (*dto.SemesterCalendarResponse, error) {
	semester, err := s.semesterSvc.ResolveQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	today := s.today()

	key := fmt.Sprintf("semester:%s:%s", semesterCacheKey(semester), today.Format(dateLayout))
	var cached dto.SemesterCalendarResponse
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	result := s.generate(ctx, semester, today)
	resp := &dto.SemesterCalendarResponse{
		Semester:         *definitionResponse(semester),
		Today:            today.Format(dateLayout),
		CurrentWeekIndex: result.Grid.CurrentWeekIndex,
		Months:           make([]dto.MonthResponse, 0, len(result.Months)),
	}
	if result.Grid.CurrentWeekIndex != calendar.NoCurrentWeek {
		resp.CurrentWeekLabel = calendar.WeekLabel(result.Grid.CurrentWeekIndex)
	}
	for _, m := range result.Months {
		resp.Months = append(resp.Months, dto.MonthResponse{
			Key:          m.Key,
			Year:         m.Year,
			Month:        int(m.Month),
			DisplayName:  m.DisplayName,
			WeekRowCount: m.WeekRowCount,
			PixelHeight:  m.PixelHeight,
			IsCentered:   m.IsCentered,
			Weeks:        toWeekResponses(m.Weeks),
		})
	}

	s.cacheSet(ctx, key, resp)
	return resp, nil
}

// ────────────────────── MonthView ──────────────────────

func (s *calendarService) MonthView(ctx context.Context, q *dto.MonthQuery) (*dto.MonthViewResponse, error) {
	if q.Month < 1 || q.Month > 12 || q.Year < 1 || q.Year > 9999 {
		return nil, ErrMonthInvalid
	}
	semester, err := s.semesterSvc.ResolveQuery(ctx, &q.CalendarQuery)
	if err != nil {
		return nil, err
	}
	today := s.today()

	key := fmt.Sprintf("month:%s:%d-%d:%s", semesterCacheKey(semester), q.Year, q.Month, today.Format(dateLayout))
	var cached dto.MonthViewResponse
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	month := time.Month(q.Month)
	// 月视图最多 6 周，自当月 1 日所在周的周一起
	from := calendar.MondayOf(time.Date(q.Year, month, 1, 0, 0, 0, 0, time.UTC))
	ann := s.loadAnnotator(ctx, from, from.AddDate(0, 0, 6*7-1))

	view := calendar.BuildMonthView(q.Year, month, semester.StartDate, semester.EndDate, today, ann)
	resp := &dto.MonthViewResponse{
		Semester:    *definitionResponse(semester),
		Today:       today.Format(dateLayout),
		Year:        view.Year,
		Month:       int(view.Month),
		DisplayName: view.DisplayName,
		Weeks:       toWeekResponses(view.Weeks),
	}

	s.cacheSet(ctx, key, resp)
	return resp, nil
}

// ────────────────────── MonthLayouts ──────────────────────

func (s *calendarService) MonthLayouts(ctx context.Context, q *dto.CalendarQuery) ([]dto.MonthLayoutResponse, error) {
	semester, err := s.semesterSvc.ResolveQuery(ctx, q)
	if err != nil {
		return nil, err
	}

	layouts := calendar.SemesterMonthLayouts(semester.StartDate, semester.EndDate)
	result := make([]dto.MonthLayoutResponse, 0, len(layouts))
	for _, l := range layouts {
		result = append(result, dto.MonthLayoutResponse{
			Key:          l.Key,
			Year:         l.Year,
			Month:        int(l.Month),
			DisplayName:  l.DisplayName,
			WeekRowCount: l.WeekRowCount,
			PixelHeight:  l.PixelHeight,
			IsCentered:   l.IsCentered,
		})
	}
	return result, nil
}

// ────────────────────── Generate ──────────────────────

func (s *calendarService) Generate(ctx context.Context, q *dto.CalendarQuery) (*SemesterGridResult, error) {
	semester, err := s.semesterSvc.ResolveQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, semester, s.today()), nil
}

// ── 内部辅助方法 ──

func (s *calendarService) generate(ctx context.Context, semester calendar.SemesterDefinition, today time.Time) *SemesterGridResult {
	// 网格自学期开始周的周一起，最后一周的周一不晚于结束日期后 7 天
	from := calendar.MondayOf(semester.StartDate)
	to := calendar.MondayOf(semester.EndDate).AddDate(0, 0, 2*7-1)
	ann := s.loadAnnotator(ctx, from, to)

	grid := calendar.BuildWeeks(semester, today, ann)
	return &SemesterGridResult{
		Semester: semester,
		Today:    today,
		Grid:     grid,
		Months:   calendar.GroupByMonth(grid.Weeks, semester.StartDate, semester.EndDate),
	}
}

func (s *calendarService) today() time.Time {
	return todayIn(s.opts.Clock, s.opts.Location)
}

// loadAnnotator 预加载区间内的农历与节假日标注；查询失败时降级为无标注
func (s *calendarService) loadAnnotator(ctx context.Context, from, to time.Time) calendar.Annotator {
	list, err := s.repo.Annotation.ListRange(ctx, from, to)
	if err != nil {
		s.logger.Warn("加载日历标注失败，按无标注生成", zap.Error(err))
		return calendar.NopAnnotator{}
	}
	ann := calendar.NewMapAnnotator()
	for _, a := range list {
		ann.SetLunar(a.Date, a.LunarLabel)
		ann.SetHoliday(a.Date, a.HolidayLabel)
	}
	return ann
}

func (s *calendarService) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	if err := s.cache.GetJSON(ctx, key, dst); err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("读取校历缓存失败", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return true
}

func (s *calendarService) cacheSet(ctx context.Context, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v, s.opts.CacheTTL); err != nil {
		s.logger.Warn("写入校历缓存失败", zap.String("key", key), zap.Error(err))
	}
}

// semesterCacheKey 学期在缓存键中的标识，自定义学期需带上起止日期与名称
func semesterCacheKey(semester calendar.SemesterDefinition) string {
	return fmt.Sprintf("%s:%s:%s:%s",
		semester.ID,
		semester.StartDate.Format(dateLayout),
		semester.EndDate.Format(dateLayout),
		semester.Name,
	)
}

func toWeekResponses(weeks []calendar.Week) []dto.WeekResponse {
	result := make([]dto.WeekResponse, 0, len(weeks))
	for _, w := range weeks {
		days := make([]dto.DayResponse, 0, len(w.Days))
		for _, d := range w.Days {
			days = append(days, dto.DayResponse{
				Date:            d.Date.Format(dateLayout),
				DayNumber:       d.DayNumber,
				WeekdayIndex:    d.WeekdayIndex,
				IsToday:         d.IsToday,
				InSemesterRange: d.InSemesterRange,
				IsOutsideMonth:  d.IsOutsideMonth,
				LunarLabel:      d.LunarLabel,
				HolidayLabel:    d.HolidayLabel,
			})
		}
		result = append(result, dto.WeekResponse{
			DisplayNumber:     w.DisplayNumber,
			IsCurrentWeek:     w.IsCurrentWeek,
			SemesterWeekIndex: w.SemesterWeekIndex,
			Days:              days,
		})
	}
	return result
}
