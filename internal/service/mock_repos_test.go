package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"school-calendar/internal/model"
	"school-calendar/internal/repository"
	pkgerrors "school-calendar/pkg/errors"
	"school-calendar/pkg/redis"
)

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	semesters map[string]*model.Semester
	listErr   error
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[string]*model.Semester)}
}

func (m *mockSemesterRepo) Create(_ context.Context, semester *model.Semester) error {
	if _, ok := m.semesters[semester.SemesterID]; ok {
		return pkgerrors.ErrDuplicateKey
	}
	semester.Version = 1
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	if s, ok := m.semesters[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.Semester
	for _, s := range m.semesters {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].SemesterID < result[j].SemesterID
	})
	return result, nil
}

func (m *mockSemesterRepo) Update(_ context.Context, semester *model.Semester) error {
	existing, ok := m.semesters[semester.SemesterID]
	if !ok || existing.Version != semester.Version {
		return pkgerrors.ErrOptimisticLock
	}
	semester.Version++
	cp := *semester
	m.semesters[semester.SemesterID] = &cp
	return nil
}

func (m *mockSemesterRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.semesters, id)
	return nil
}

func (m *mockSemesterRepo) add(id, name string, year int, season, start, end string) {
	m.semesters[id] = &model.Semester{
		SemesterID: id,
		Name:       name,
		Year:       year,
		Season:     season,
		StartDate:  mustDate(start),
		EndDate:    mustDate(end),
		VersionedModel: model.VersionedModel{
			Version: 1,
		},
	}
}

// ── Mock AnnotationRepository ──

type mockAnnotationRepo struct {
	days    map[string]*model.DayAnnotation
	listErr error
}

func newMockAnnotationRepo() *mockAnnotationRepo {
	return &mockAnnotationRepo{days: make(map[string]*model.DayAnnotation)}
}

func (m *mockAnnotationRepo) ListRange(_ context.Context, from, to time.Time) ([]model.DayAnnotation, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.DayAnnotation
	for _, a := range m.days {
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockAnnotationRepo) Upsert(_ context.Context, kind repository.AnnotationKind, annotations []model.DayAnnotation) error {
	for _, a := range annotations {
		key := a.Date.Format("2006-01-02")
		existing, ok := m.days[key]
		if !ok {
			cp := a
			m.days[key] = &cp
			continue
		}
		if kind == repository.AnnotationLunar {
			existing.LunarLabel = a.LunarLabel
		} else {
			existing.HolidayLabel = a.HolidayLabel
		}
	}
	return nil
}

// ── Mock ViewCache ──

type mockViewCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	gets        int
	sets        int
	invalidated int
}

func newMockViewCache() *mockViewCache {
	return &mockViewCache{entries: make(map[string][]byte)}
}

func (m *mockViewCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	data, ok := m.entries[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(data, dst)
}

func (m *mockViewCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.sets++
	m.entries[key] = data
	return nil
}

func (m *mockViewCache) InvalidateViews(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated++
	m.entries = make(map[string][]byte)
	return nil
}

func (m *mockViewCache) keysWithPrefix(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

// ── 测试辅助 ──

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestRepository() (*repository.Repository, *mockSemesterRepo, *mockAnnotationRepo) {
	semRepo := newMockSemesterRepo()
	annRepo := newMockAnnotationRepo()
	return &repository.Repository{Semester: semRepo, Annotation: annRepo}, semRepo, annRepo
}

// seedCatalog 写入 2024 秋至 2025 春的测试目录
func seedCatalog(m *mockSemesterRepo) {
	m.add("2024-fall", "2024-2025学年第一学期", 2024, "fall", "2024-09-02", "2025-01-19")
	m.add("2025-spring", "2024-2025学年第二学期", 2025, "spring", "2025-02-17", "2025-06-29")
	m.add("2025-short", "2025年小学期", 2025, "short", "2025-07-07", "2025-07-27")
}
