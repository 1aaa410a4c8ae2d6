package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"school-calendar/internal/calendar"
	"school-calendar/internal/dto"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// 导出 ICS 的产品标识
const icsProductID = "-//school-calendar//校历//CN"

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出内容与学期视图一致，按月分组、每周一行
//   - 以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportSemesterXLSX 导出学期校历为 Excel
	ExportSemesterXLSX(ctx context.Context, q *dto.CalendarQuery) (*bytes.Buffer, string, error)
	// ExportSemesterICS 导出学期周次为 iCalendar，每个教学周一个全天事件
	ExportSemesterICS(ctx context.Context, q *dto.CalendarQuery) (*bytes.Buffer, string, error)
}

type exportService struct {
	calendarSvc CalendarService
	logger      *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(calendarSvc CalendarService, logger *zap.Logger) ExportService {
	return &exportService{calendarSvc: calendarSvc, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportSemesterXLSX 导出学期校历为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 第 1 行：标题 "<学期名> 校历"
//   - 第 2 行：表头 周次 | 月份 | 周一 ~ 周日
//   - 数据行：每周一行，月份列在同月各行间合并
//   - 单元格：日期号，有节假日时换行附节假日名；当前周整行高亮

func (s *exportService) ExportSemesterXLSX(ctx context.Context, q *dto.CalendarQuery) (*bytes.Buffer, string, error) {
	result, err := s.calendarSvc.Generate(ctx, q)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "校历"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 8)
	f.SetColWidth(sheetName, "C", "I", 14)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1E39DE"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	currentStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFF2CC"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	dayStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	outsideStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "#A0A0A0"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", result.Semester.Name+" 校历")
	f.MergeCell(sheetName, "A1", "I1")
	f.SetCellStyle(sheetName, "A1", "I1", titleStyle)

	// 表头
	headers := []string{"周次", "月份", "周一", "周二", "周三", "周四", "周五", "周六", "周日"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", "I2", headerStyle)

	// 数据行
	row := 3
	for _, m := range result.Months {
		firstRow := row
		for _, w := range m.Weeks {
			f.SetCellValue(sheetName, cell("A", row), w.DisplayNumber)
			for i, d := range w.Days {
				ref := cell(colName(2+i), row)
				f.SetCellValue(sheetName, ref, dayCellText(d))
				style := dayStyle
				if !d.InSemesterRange {
					style = outsideStyle
				}
				f.SetCellStyle(sheetName, ref, ref, style)
			}
			if w.IsCurrentWeek {
				f.SetCellStyle(sheetName, cell("A", row), cell("I", row), currentStyle)
			}
			row++
		}
		f.SetCellValue(sheetName, cell("B", firstRow), m.DisplayName)
		if row-1 > firstRow {
			f.MergeCell(sheetName, cell("B", firstRow), cell("B", row-1))
		}
		f.SetCellStyle(sheetName, cell("B", firstRow), cell("B", row-1), dayStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("校历_%s.xlsx", result.Semester.Name)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportSemesterICS 导出学期周次为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 只导出显示周次的教学周（周一在学期内），事件自周一起、至下周一止（不含）。

func (s *exportService) ExportSemesterICS(ctx context.Context, q *dto.CalendarQuery) (*bytes.Buffer, string, error) {
	result, err := s.calendarSvc.Generate(ctx, q)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(result.Semester.Name)

	events := 0
	for _, w := range result.Grid.Weeks {
		if w.DisplayNumber == calendar.WeekPlaceholder {
			continue
		}
		monday := w.Monday()

		evt := cal.AddEvent(weekEventUID(result.Semester.ID, w.SemesterWeekIndex))
		evt.SetDtStampTime(result.Today)
		summary := fmt.Sprintf("第%s周", w.DisplayNumber)
		evt.SetSummary(summary)
		evt.SetDescription(result.Semester.Name + " " + summary)
		evt.SetAllDayStartAt(monday)
		evt.SetAllDayEndAt(monday.AddDate(0, 0, 7))
		events++
	}

	s.logger.Debug("导出学期 ICS",
		zap.String("semester_id", result.Semester.ID),
		zap.Int("events", events),
	)

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("校历_%s.ics", result.Semester.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func dayCellText(d calendar.Day) string {
	text := strconv.Itoa(d.DayNumber)
	var labels []string
	if d.HolidayLabel != "" {
		labels = append(labels, d.HolidayLabel)
	}
	if d.LunarLabel != "" {
		labels = append(labels, d.LunarLabel)
	}
	if len(labels) > 0 {
		text += "\n" + strings.Join(labels, " ")
	}
	return text
}

func weekEventUID(semesterID string, weekIndex int) string {
	return fmt.Sprintf("%s-week-%d@school-calendar", semesterID, weekIndex)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
