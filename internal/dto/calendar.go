package dto

// ── 校历模块 DTO ──

// CalendarQuery 学期定位参数
// semester_id 与 start_date/end_date 二选一；均为空时使用今天所在的学期
type CalendarQuery struct {
	SemesterID string `form:"semester_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Name       string `form:"name"`
}

// MonthQuery 月视图查询参数
type MonthQuery struct {
	CalendarQuery
	Year  int `form:"year"  binding:"required"`
	Month int `form:"month" binding:"required"`
}

// DayResponse 单日格子
type DayResponse struct {
	Date            string `json:"date"`
	DayNumber       int    `json:"day_number"`
	WeekdayIndex    int    `json:"weekday_index"`
	IsToday         bool   `json:"is_today"`
	InSemesterRange bool   `json:"in_semester_range"`
	IsOutsideMonth  bool   `json:"is_outside_month"`
	LunarLabel      string `json:"lunar_label,omitempty"`
	HolidayLabel    string `json:"holiday_label,omitempty"`
}

// WeekResponse 周一至周日一行
type WeekResponse struct {
	DisplayNumber     string        `json:"display_number"`
	IsCurrentWeek     bool          `json:"is_current_week"`
	SemesterWeekIndex int           `json:"semester_week_index"`
	Days              []DayResponse `json:"days"`
}

// MonthResponse 学期视图中的月分组
type MonthResponse struct {
	Key          string         `json:"key"`
	Year         int            `json:"year"`
	Month        int            `json:"month"`
	DisplayName  string         `json:"display_name"`
	WeekRowCount int            `json:"week_row_count"`
	PixelHeight  int            `json:"pixel_height"`
	IsCentered   bool           `json:"is_centered"`
	Weeks        []WeekResponse `json:"weeks"`
}

// SemesterCalendarResponse 学期视图
type SemesterCalendarResponse struct {
	Semester         SemesterResponse `json:"semester"`
	Today            string           `json:"today"`
	CurrentWeekIndex int              `json:"current_week_index"` // -1 表示今天不在任何生成周内
	CurrentWeekLabel string           `json:"current_week_label,omitempty"`
	Months           []MonthResponse  `json:"months"`
}

// MonthViewResponse 月视图
type MonthViewResponse struct {
	Semester    SemesterResponse `json:"semester"`
	Today       string           `json:"today"`
	Year        int              `json:"year"`
	Month       int              `json:"month"`
	DisplayName string           `json:"display_name"`
	Weeks       []WeekResponse   `json:"weeks"`
}

// MonthLayoutResponse 月份布局估算
type MonthLayoutResponse struct {
	Key          string `json:"key"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	DisplayName  string `json:"display_name"`
	WeekRowCount int    `json:"week_row_count"`
	PixelHeight  int    `json:"pixel_height"`
	IsCentered   bool   `json:"is_centered"`
}
