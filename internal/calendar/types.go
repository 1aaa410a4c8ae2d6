// Package calendar 校历生成引擎：学期解析、周网格生成、按月分组与月视图。
//
// 包内所有函数均为纯函数：相同输入（学期、今天、年月）总是得到结构相同的输出，
// 不持有任何共享可变状态。日期一律按"日历日"处理，见 Date。
package calendar

import (
	"strings"
	"time"
)

// Season 学期类型
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonFall   Season = "fall"
	SeasonShort  Season = "short" // 小学期
)

// Valid 判断学期类型是否合法
func (s Season) Valid() bool {
	switch s {
	case SeasonSpring, SeasonFall, SeasonShort:
		return true
	}
	return false
}

// CustomIDPrefix 用户自定义学期的 ID 前缀（非目录内学期）
const CustomIDPrefix = "custom-"

// SemesterDefinition 学期定义（不可变）
// 约定 StartDate <= EndDate，由录入/加载学期的边界层保证。
type SemesterDefinition struct {
	ID        string
	Name      string
	Year      int
	Season    Season
	StartDate time.Time
	EndDate   time.Time
}

// IsCustom 是否为用户自定义学期
func (s SemesterDefinition) IsCustom() bool {
	return strings.HasPrefix(s.ID, CustomIDPrefix)
}

// Contains 判断日期是否落在学期内（首尾均包含，按日历日比较）
func (s SemesterDefinition) Contains(date time.Time) bool {
	return inRange(Date(date), Date(s.StartDate), Date(s.EndDate))
}

// Day 网格中的一天，生成后不再修改
type Day struct {
	DayNumber    int
	Date         time.Time
	WeekdayIndex int // 0=周日 … 6=周六
	IsToday      bool

	// InSemesterRange 日期是否在学期 [StartDate, EndDate] 内
	InSemesterRange bool
	// IsOutsideMonth 仅月视图使用：日期不属于所请求的月份
	IsOutsideMonth bool

	LunarLabel   string // 空串表示无农历标注
	HolidayLabel string // 空串表示无节假日
}

// Week 以周一开头的连续 7 天
type Week struct {
	DisplayNumber     string // 中文周次，学期外为 WeekPlaceholder
	IsCurrentWeek     bool
	SemesterWeekIndex int // 相对学期起始周一的周序号（0 起，可为负）
	Days              [7]Day
}

// Monday 返回本周周一
func (w Week) Monday() time.Time {
	return w.Days[0].Date
}

// SemesterGrid 学期视图生成结果
type SemesterGrid struct {
	Weeks []Week
	// CurrentWeekIndex 今天所在周在 Weeks 中的下标；不在生成范围内时为 NoCurrentWeek
	CurrentWeekIndex int
}

// NoCurrentWeek 表示今天不落在任何已生成的周内
const NoCurrentWeek = -1

// MonthBucket 学期视图中的一个月份分组
type MonthBucket struct {
	Key          string // "<year>-<month>"，如 "2024-9"
	Year         int
	Month        time.Month
	DisplayName  string
	WeekRowCount int
	PixelHeight  int
	IsCentered   bool
	Weeks        []Week
}

// MonthViewResult 月视图生成结果（最多 6 周）
type MonthViewResult struct {
	Year        int
	Month       time.Month
	DisplayName string
	Weeks       []Week
}

// MonthLayout 仅由日历算术得出的月份布局估算
type MonthLayout struct {
	Key          string
	Year         int
	Month        time.Month
	DisplayName  string
	WeekRowCount int
	PixelHeight  int
	IsCentered   bool
}
