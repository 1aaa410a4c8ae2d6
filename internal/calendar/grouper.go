package calendar

import (
	"sort"
	"time"
)

const (
	bucketHeaderHeight = 72 // 月份标题
	weekRowHeight      = 90
	centeredRowCount   = 5
)

// GroupByMonth 按每周第一天（周一）所在月份分组。
// 只保留与学期 [start, end] 有交集的月份，因此周一落在学期外月份的周不会出现在结果中。
// 结果按 (年, 月) 升序；组内保持生成顺序。
func GroupByMonth(weeks []Week, start, end time.Time) []MonthBucket {
	start, end = Date(start), Date(end)

	type ym struct {
		year  int
		month time.Month
	}
	buckets := make(map[ym]*MonthBucket)
	var order []ym

	for _, w := range weeks {
		first := w.Monday()
		k := ym{first.Year(), first.Month()}

		monthStart := time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC)
		monthEnd := time.Date(k.year, k.month, daysInMonth(k.year, k.month), 0, 0, 0, 0, time.UTC)
		if monthStart.After(end) || monthEnd.Before(start) {
			continue
		}

		b, ok := buckets[k]
		if !ok {
			b = &MonthBucket{
				Key:         monthKey(k.year, k.month),
				Year:        k.year,
				Month:       k.month,
				DisplayName: MonthName(k.month),
			}
			buckets[k] = b
			order = append(order, k)
		}
		b.Weeks = append(b.Weeks, w)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].month < order[j].month
	})

	result := make([]MonthBucket, 0, len(order))
	for _, k := range order {
		b := buckets[k]
		b.WeekRowCount = len(b.Weeks)
		b.PixelHeight = bucketHeaderHeight + b.WeekRowCount*weekRowHeight
		b.IsCentered = b.WeekRowCount == centeredRowCount
		result = append(result, *b)
	}
	return result
}
