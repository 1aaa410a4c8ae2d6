package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-calendar/internal/calendar"
	"school-calendar/internal/dto"
	"school-calendar/internal/model"
	"school-calendar/internal/repository"
	pkgerrors "school-calendar/pkg/errors"
)

// ── 学期模块业务错误 ──

var (
	ErrSemesterNotFound    = errors.New("学期不存在")
	ErrSemesterDateInvalid = errors.New("学期开始日期不能晚于结束日期")
	ErrSemesterIDInvalid   = errors.New("学期ID不能使用自定义学期前缀")
	ErrSemesterExists      = errors.New("学期ID已存在")
	ErrSemesterConflict    = errors.New("学期已被修改，请刷新后重试")
	ErrCatalogEmpty        = errors.New("学期目录为空")
)

const dateLayout = calendar.DateLayout

// SemesterService 学期目录业务接口
type SemesterService interface {
	Create(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SemesterResponse, error)
	List(ctx context.Context) ([]dto.SemesterResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSemesterRequest, callerID string) (*dto.SemesterResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// Current 返回今天对应的学期
	Current(ctx context.Context) (*dto.SemesterResponse, error)
	// Resolve 在学期目录中为 today 选出学期
	Resolve(ctx context.Context, today time.Time) (calendar.SemesterDefinition, error)
	// SelectByStartDate 按用户选择的开始日期切换学期，不在任何学期内时合成自定义学期
	SelectByStartDate(ctx context.Context, req *dto.SelectSemesterRequest) (*dto.SemesterResponse, error)
	// ResolveQuery 将校历查询参数解析为学期定义
	ResolveQuery(ctx context.Context, q *dto.CalendarQuery) (calendar.SemesterDefinition, error)
}

type semesterService struct {
	repo   *repository.Repository
	cache  ViewCache
	clock  Clock
	loc    *time.Location
	logger *zap.Logger
}

// NewSemesterService 创建 SemesterService 实例
func NewSemesterService(repo *repository.Repository, cache ViewCache, clock Clock, loc *time.Location, logger *zap.Logger) SemesterService {
	if clock == nil {
		clock = RealClock{}
	}
	return &semesterService{repo: repo, cache: cache, clock: clock, loc: loc, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *semesterService) Create(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error) {
	if strings.HasPrefix(req.ID, calendar.CustomIDPrefix) {
		return nil, ErrSemesterIDInvalid
	}
	startDate, endDate, err := parseSemesterDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	semester := &model.Semester{
		SemesterID: req.ID,
		Name:       req.Name,
		Year:       req.Year,
		Season:     req.Season,
		StartDate:  startDate,
		EndDate:    endDate,
	}
	semester.CreatedBy = &callerID
	semester.UpdatedBy = &callerID

	if err := s.repo.Semester.Create(ctx, semester); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return nil, ErrSemesterExists
		}
		s.logger.Error("创建学期失败", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)
	return toSemesterResponse(semester), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *semesterService) GetByID(ctx context.Context, id string) (*dto.SemesterResponse, error) {
	semester, err := s.getSemester(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSemesterResponse(semester), nil
}

// ────────────────────── List ──────────────────────

func (s *semesterService) List(ctx context.Context) ([]dto.SemesterResponse, error) {
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		s.logger.Error("列出学期失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		result = append(result, *toSemesterResponse(&semesters[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *semesterService) Update(ctx context.Context, id string, req *dto.UpdateSemesterRequest, callerID string) (*dto.SemesterResponse, error) {
	semester, err := s.getSemester(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		semester.Name = *req.Name
	}
	if req.Year != nil {
		semester.Year = *req.Year
	}
	if req.Season != nil {
		semester.Season = *req.Season
	}
	if req.StartDate != nil {
		startDate, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, ErrSemesterDateInvalid
		}
		semester.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, ErrSemesterDateInvalid
		}
		semester.EndDate = endDate
	}
	if semester.StartDate.After(semester.EndDate) {
		return nil, ErrSemesterDateInvalid
	}
	if req.Version != nil {
		semester.Version = *req.Version
	}

	semester.UpdatedBy = &callerID

	if err := s.repo.Semester.Update(ctx, semester); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrSemesterConflict
		}
		s.logger.Error("更新学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)
	return toSemesterResponse(semester), nil
}

// ────────────────────── Delete ──────────────────────

func (s *semesterService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getSemester(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Semester.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除学期失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.invalidate(ctx)
	return nil
}

// ────────────────────── Current / Resolve ──────────────────────

func (s *semesterService) Current(ctx context.Context) (*dto.SemesterResponse, error) {
	def, err := s.Resolve(ctx, todayIn(s.clock, s.loc))
	if err != nil {
		return nil, err
	}
	return definitionResponse(def), nil
}

func (s *semesterService) Resolve(ctx context.Context, today time.Time) (calendar.SemesterDefinition, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return calendar.SemesterDefinition{}, err
	}
	return calendar.Resolve(catalog, today), nil
}

// ────────────────────── SelectByStartDate ──────────────────────

func (s *semesterService) SelectByStartDate(ctx context.Context, req *dto.SelectSemesterRequest) (*dto.SemesterResponse, error) {
	date, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	if found, ok := calendar.FindContaining(catalog, date); ok {
		return definitionResponse(found), nil
	}

	// 自定义学期沿用当前学期的结束日期、学年与学期类型
	var current calendar.SemesterDefinition
	if req.CurrentSemesterID != "" && !strings.HasPrefix(req.CurrentSemesterID, calendar.CustomIDPrefix) {
		semester, err := s.getSemester(ctx, req.CurrentSemesterID)
		if err != nil {
			return nil, err
		}
		current = semester.Definition()
	} else {
		current = calendar.Resolve(catalog, todayIn(s.clock, s.loc))
	}

	custom := calendar.SemesterDefinition{
		ID:        calendar.CustomIDPrefix + uuid.NewString(),
		Name:      customSemesterName(date),
		Year:      current.Year,
		Season:    current.Season,
		StartDate: calendar.Date(date),
		EndDate:   current.EndDate,
	}
	if custom.StartDate.After(custom.EndDate) {
		return nil, ErrSemesterDateInvalid
	}

	s.logger.Debug("合成自定义学期",
		zap.String("id", custom.ID),
		zap.String("start_date", req.StartDate),
		zap.String("inherit_from", current.ID),
	)
	return definitionResponse(custom), nil
}

// ────────────────────── ResolveQuery ──────────────────────

func (s *semesterService) ResolveQuery(ctx context.Context, q *dto.CalendarQuery) (calendar.SemesterDefinition, error) {
	switch {
	case q.StartDate != "" || q.EndDate != "":
		if q.StartDate == "" || q.EndDate == "" {
			return calendar.SemesterDefinition{}, ErrCalendarQueryInvalid
		}
		startDate, endDate, err := parseSemesterDates(q.StartDate, q.EndDate)
		if err != nil {
			return calendar.SemesterDefinition{}, err
		}
		id := q.SemesterID
		if !strings.HasPrefix(id, calendar.CustomIDPrefix) {
			id = calendar.CustomIDPrefix + startDate.Format("20060102")
		}
		name := q.Name
		if name == "" {
			name = customSemesterName(startDate)
		}
		return calendar.SemesterDefinition{
			ID:        id,
			Name:      name,
			Year:      startDate.Year(),
			StartDate: startDate,
			EndDate:   endDate,
		}, nil
	case q.SemesterID != "":
		if strings.HasPrefix(q.SemesterID, calendar.CustomIDPrefix) {
			// 自定义学期不落库，必须携带起止日期
			return calendar.SemesterDefinition{}, ErrCalendarQueryInvalid
		}
		semester, err := s.getSemester(ctx, q.SemesterID)
		if err != nil {
			return calendar.SemesterDefinition{}, err
		}
		return semester.Definition(), nil
	default:
		return s.Resolve(ctx, todayIn(s.clock, s.loc))
	}
}

// ── 内部辅助方法 ──

func (s *semesterService) getSemester(ctx context.Context, id string) (*model.Semester, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return semester, nil
}

// catalog 加载学期目录，空目录返回 ErrCatalogEmpty
func (s *semesterService) catalog(ctx context.Context) ([]calendar.SemesterDefinition, error) {
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		s.logger.Error("加载学期目录失败", zap.Error(err))
		return nil, err
	}
	if len(semesters) == 0 {
		return nil, ErrCatalogEmpty
	}
	defs := make([]calendar.SemesterDefinition, 0, len(semesters))
	for i := range semesters {
		defs = append(defs, semesters[i].Definition())
	}
	return defs, nil
}

func (s *semesterService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateViews(ctx); err != nil {
		s.logger.Warn("清除校历缓存失败", zap.Error(err))
	}
}

func parseSemesterDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, ErrSemesterDateInvalid
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, ErrSemesterDateInvalid
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, ErrSemesterDateInvalid
	}
	return startDate, endDate, nil
}

func customSemesterName(start time.Time) string {
	return fmt.Sprintf("自定义学期 (%d年%d月%d日开始)", start.Year(), int(start.Month()), start.Day())
}

func toSemesterResponse(semester *model.Semester) *dto.SemesterResponse {
	resp := definitionResponse(semester.Definition())
	resp.Version = semester.Version
	if !semester.CreatedAt.IsZero() {
		resp.CreatedAt = semester.CreatedAt.Format(time.RFC3339)
	}
	if !semester.UpdatedAt.IsZero() {
		resp.UpdatedAt = semester.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func definitionResponse(def calendar.SemesterDefinition) *dto.SemesterResponse {
	return &dto.SemesterResponse{
		ID:        def.ID,
		Name:      def.Name,
		Year:      def.Year,
		Season:    string(def.Season),
		StartDate: def.StartDate.Format(dateLayout),
		EndDate:   def.EndDate.Format(dateLayout),
		IsCustom:  def.IsCustom(),
	}
}
