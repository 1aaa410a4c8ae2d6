package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"school-calendar/internal/calendar"
	"school-calendar/internal/dto"
	"school-calendar/internal/model"
	"school-calendar/internal/repository"
)

// ── 日历标注模块业务错误 ──

var (
	ErrAnnotationKindInvalid  = errors.New("标注类型无效，仅支持 lunar 或 holiday")
	ErrAnnotationParseFailed  = errors.New("ICS 格式解析失败")
	ErrAnnotationNoEvents     = errors.New("ICS 中没有可导入的全天事件")
	ErrAnnotationRangeInvalid = errors.New("查询区间无效")
)

const (
	// 单个事件最多覆盖的天数，超出部分忽略
	maxAnnotationEventDays = 62
	// 单次查询最大跨度
	maxAnnotationRangeDays = 400
	// 同日多个事件标注的连接符
	annotationLabelSep = "、"
)

// AnnotationService 农历/节假日标注业务接口
//
// 校历引擎不做农历推算与节假日判定，标注全部来自外部 ICS 数据源：
//   - 每个全天 VEVENT 的 SUMMARY 作为标注文本
//   - DTEND 为不含当日的结束日期（RFC 5545），缺省时视为单日
//   - 同一天出现多个事件时，标注以"、"连接
type AnnotationService interface {
	ImportICS(ctx context.Context, kind string, r io.Reader, callerID string) (*dto.ImportAnnotationResponse, error)
	ListRange(ctx context.Context, q *dto.AnnotationRangeQuery) ([]dto.AnnotationResponse, error)
}

type annotationService struct {
	repo   *repository.Repository
	cache  ViewCache
	logger *zap.Logger
}

// NewAnnotationService 创建 AnnotationService 实例
func NewAnnotationService(repo *repository.Repository, cache ViewCache, logger *zap.Logger) AnnotationService {
	return &annotationService{repo: repo, cache: cache, logger: logger}
}

// ────────────────────── ImportICS ──────────────────────

func (s *annotationService) ImportICS(ctx context.Context, kind string, r io.Reader, callerID string) (*dto.ImportAnnotationResponse, error) {
	annKind := repository.AnnotationKind(kind)
	if annKind != repository.AnnotationLunar && annKind != repository.AnnotationHoliday {
		return nil, ErrAnnotationKindInvalid
	}

	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnnotationParseFailed, err)
	}

	labels := make(map[string]string)
	var order []string
	result := &dto.ImportAnnotationResponse{Kind: kind}

	for _, evt := range cal.Events() {
		summary, start, end, ok := parseAllDayEvent(evt)
		if !ok {
			result.Skipped++
			continue
		}
		result.Events++

		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			key := d.Format(dateLayout)
			existing, seen := labels[key]
			switch {
			case !seen:
				labels[key] = summary
				order = append(order, key)
			case !containsLabel(existing, summary):
				labels[key] = existing + annotationLabelSep + summary
			}
		}
	}

	if len(labels) == 0 {
		return nil, ErrAnnotationNoEvents
	}

	annotations := make([]model.DayAnnotation, 0, len(order))
	for _, key := range order {
		date, _ := time.Parse(dateLayout, key)
		a := model.DayAnnotation{Date: date}
		if annKind == repository.AnnotationLunar {
			a.LunarLabel = labels[key]
		} else {
			a.HolidayLabel = labels[key]
		}
		a.CreatedBy = &callerID
		a.UpdatedBy = &callerID
		annotations = append(annotations, a)
	}

	if err := s.repo.Annotation.Upsert(ctx, annKind, annotations); err != nil {
		s.logger.Error("写入日历标注失败", zap.String("kind", kind), zap.Error(err))
		return nil, err
	}
	result.Days = len(annotations)

	if s.cache != nil {
		if err := s.cache.InvalidateViews(ctx); err != nil {
			s.logger.Warn("清除校历缓存失败", zap.Error(err))
		}
	}

	s.logger.Info("导入日历标注完成",
		zap.String("kind", kind),
		zap.Int("events", result.Events),
		zap.Int("days", result.Days),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// ────────────────────── ListRange ──────────────────────

func (s *annotationService) ListRange(ctx context.Context, q *dto.AnnotationRangeQuery) ([]dto.AnnotationResponse, error) {
	from, err := time.Parse(dateLayout, q.From)
	if err != nil {
		return nil, ErrAnnotationRangeInvalid
	}
	to, err := time.Parse(dateLayout, q.To)
	if err != nil {
		return nil, ErrAnnotationRangeInvalid
	}
	if from.After(to) || to.Sub(from) > maxAnnotationRangeDays*24*time.Hour {
		return nil, ErrAnnotationRangeInvalid
	}

	list, err := s.repo.Annotation.ListRange(ctx, from, to)
	if err != nil {
		s.logger.Error("查询日历标注失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AnnotationResponse, 0, len(list))
	for _, a := range list {
		result = append(result, dto.AnnotationResponse{
			Date:         calendar.Date(a.Date).Format(dateLayout),
			LunarLabel:   a.LunarLabel,
			HolidayLabel: a.HolidayLabel,
		})
	}
	return result, nil
}

// ── ICS 解析辅助 ──

// parseAllDayEvent 取出全天事件的标注文本与 [start, end) 日期区间
func parseAllDayEvent(evt *ics.VEvent) (string, time.Time, time.Time, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return "", time.Time{}, time.Time{}, false
	}
	label := strings.TrimSpace(summary.Value)

	start, ok := parseICSDate(evt.GetProperty(ics.ComponentPropertyDtStart))
	if !ok {
		return "", time.Time{}, time.Time{}, false
	}
	end, ok := parseICSDate(evt.GetProperty(ics.ComponentPropertyDtEnd))
	if !ok || !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	if limit := start.AddDate(0, 0, maxAnnotationEventDays); end.After(limit) {
		end = limit
	}
	return label, start, end, true
}

// parseICSDate 解析 DATE 或 DATE-TIME 值，只取日期部分
func parseICSDate(prop *ics.IANAProperty) (time.Time, bool) {
	if prop == nil {
		return time.Time{}, false
	}
	val := strings.TrimSpace(prop.Value)
	if len(val) < 8 {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", val[:8])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func containsLabel(joined, label string) bool {
	for _, part := range strings.Split(joined, annotationLabelSep) {
		if part == label {
			return true
		}
	}
	return false
}
