package calendar

import "time"

// Resolve 按今天选出应展示的学期：
//  1. 目录中第一个包含今天的学期；
//  2. 否则开始日期晚于今天、且最早开始的学期（同日按目录顺序）；
//  3. 否则目录最后一项（最近结束的学期）。
//
// 目录须按开始日期升序且非空；空目录属于调用方违约，直接 panic。
func Resolve(catalog []SemesterDefinition, today time.Time) SemesterDefinition {
	if len(catalog) == 0 {
		panic("calendar: Resolve called with empty semester catalog")
	}

	if s, ok := FindContaining(catalog, today); ok {
		return s
	}

	t := Date(today)
	upcoming := -1
	for i, s := range catalog {
		start := Date(s.StartDate)
		if !start.After(t) {
			continue
		}
		if upcoming < 0 || start.Before(Date(catalog[upcoming].StartDate)) {
			upcoming = i
		}
	}
	if upcoming >= 0 {
		return catalog[upcoming]
	}

	return catalog[len(catalog)-1]
}

// FindContaining 返回目录中第一个包含 date 的学期；ok=false 表示无匹配，
// 调用方据此自行构造自定义学期。
func FindContaining(catalog []SemesterDefinition, date time.Time) (SemesterDefinition, bool) {
	for _, s := range catalog {
		if s.Contains(date) {
			return s, true
		}
	}
	return SemesterDefinition{}, false
}
