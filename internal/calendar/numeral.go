package calendar

import "strconv"

// WeekPlaceholder 学期范围外的周次占位符
const WeekPlaceholder = "—"

// 二十以后采用两字简写（二一、二二 …），与校历印刷惯例一致
var chineseWeekNumerals = [...]string{
	"一", "二", "三", "四", "五", "六", "七", "八", "九", "十",
	"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
	"二一", "二二", "二三", "二四", "二五", "二六", "二七", "二八", "二九", "三十",
}

// WeekLabel 将 0 起的周序号转为中文周次；超出数字表时回退为阿拉伯数字 index+1
func WeekLabel(index int) string {
	if index >= 0 && index < len(chineseWeekNumerals) {
		return chineseWeekNumerals[index]
	}
	return strconv.Itoa(index + 1)
}
