package dto

// ── 日历标注模块 DTO ──

// AnnotationRangeQuery 标注查询区间（闭区间）
type AnnotationRangeQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to"   binding:"required"`
}

// AnnotationResponse 单日标注
type AnnotationResponse struct {
	Date         string `json:"date"`
	LunarLabel   string `json:"lunar_label,omitempty"`
	HolidayLabel string `json:"holiday_label,omitempty"`
}

// ImportAnnotationResponse ICS 导入结果
type ImportAnnotationResponse struct {
	Kind    string `json:"kind"`
	Events  int    `json:"events"`  // 识别到的全天事件数
	Days    int    `json:"days"`    // 写入的日期数
	Skipped int    `json:"skipped"` // 无法识别而跳过的事件数
}
