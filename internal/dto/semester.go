package dto

// ── 学期模块 DTO ──

// CreateSemesterRequest 创建学期目录条目请求
type CreateSemesterRequest struct {
	ID        string `json:"id"         binding:"required,min=2,max=64"` // 如 "2026-fall"
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	Year      int    `json:"year"       binding:"required,min=1900,max=9999"`
	Season    string `json:"season"     binding:"required,oneof=spring fall short"`
	StartDate string `json:"start_date" binding:"required"` // "2026-09-07"
	EndDate   string `json:"end_date"   binding:"required"` // "2027-01-17"
}

// UpdateSemesterRequest 更新学期请求（部分更新）
type UpdateSemesterRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=2,max=100"`
	Year      *int    `json:"year"       binding:"omitempty,min=1900,max=9999"`
	Season    *string `json:"season"     binding:"omitempty,oneof=spring fall short"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Version   *int    `json:"version"    binding:"omitempty,min=1"` // 乐观锁版本，省略时以当前版本为准
}

// SelectSemesterRequest 按开始日期选择学期请求
type SelectSemesterRequest struct {
	StartDate         string `json:"start_date"          binding:"required"`
	CurrentSemesterID string `json:"current_semester_id"` // 为空时按今天解析当前学期
}

// SemesterResponse 学期信息响应
type SemesterResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	Season    string `json:"season"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsCustom  bool   `json:"is_custom"`
	Version   int    `json:"version,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
