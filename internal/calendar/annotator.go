package calendar

import "time"

// Annotator 按日提供农历与节假日标注。
// 实现必须是同步纯查询；查不到时返回空串，不返回错误。
type Annotator interface {
	LunarLabel(date time.Time) string
	HolidayLabel(date time.Time) string
}

// NopAnnotator 不提供任何标注
type NopAnnotator struct{}

func (NopAnnotator) LunarLabel(time.Time) string   { return "" }
func (NopAnnotator) HolidayLabel(time.Time) string { return "" }

// MapAnnotator 基于内存表的标注器，键为 "2006-01-02" 形式的日历日
type MapAnnotator struct {
	lunar   map[string]string
	holiday map[string]string
}

// NewMapAnnotator 创建空的 MapAnnotator
func NewMapAnnotator() *MapAnnotator {
	return &MapAnnotator{
		lunar:   make(map[string]string),
		holiday: make(map[string]string),
	}
}

// SetLunar 设置某日农历标注
func (a *MapAnnotator) SetLunar(date time.Time, label string) {
	if label == "" {
		return
	}
	a.lunar[dateKey(date)] = label
}

// SetHoliday 设置某日节假日标注
func (a *MapAnnotator) SetHoliday(date time.Time, label string) {
	if label == "" {
		return
	}
	a.holiday[dateKey(date)] = label
}

func (a *MapAnnotator) LunarLabel(date time.Time) string   { return a.lunar[dateKey(date)] }
func (a *MapAnnotator) HolidayLabel(date time.Time) string { return a.holiday[dateKey(date)] }

func orNop(a Annotator) Annotator {
	if a == nil {
		return NopAnnotator{}
	}
	return a
}

// newDay 生成一天的基础数据；两种视图的区间标记由调用方补充
func newDay(date, today time.Time, ann Annotator) Day {
	return Day{
		DayNumber:    date.Day(),
		Date:         date,
		WeekdayIndex: int(date.Weekday()),
		IsToday:      date.Equal(today),
		LunarLabel:   ann.LunarLabel(date),
		HolidayLabel: ann.HolidayLabel(date),
	}
}
