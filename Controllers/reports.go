package Controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"Presence/Models"
)

// ReportController exports attendance data for HR.
type ReportController struct {
	Store *Models.AttendanceStore
}

func NewReportController(store *Models.AttendanceStore) *ReportController {
	return &ReportController{Store: store}
}

// MonthlyReport writes one xlsx row per (employee, date) for the requested
// month (?month=YYYY-MM, defaults to the current UTC month).
func (c *ReportController) MonthlyReport(ctx *fiber.Ctx) error {
	month := ctx.Query("month", time.Now().UTC().Format("2006-01"))
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "month must be formatted YYYY-MM"})
	}
	from := first.Format(Models.DateLayout)
	to := first.AddDate(0, 1, -1).Format(Models.DateLayout)

	entries, err := c.Store.EntriesInRange(from, to)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	employees, err := c.Store.ListEmployees()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	names := make(map[string]string, len(employees))
	for _, emp := range employees {
		names[emp.EmployeeID] = emp.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Attendance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Employee ID", "Employee Name", "Date", "Punch In", "Punch Out", "Worked", "Status", "Device ID"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, entry := range entries {
		values := []interface{}{
			entry.EmployeeID,
			names[entry.EmployeeID],
			entry.Date,
			formatPunch(entry.PunchIn),
			formatPunch(entry.PunchOut),
			entry.DisplayTime,
			entry.Status,
			deref(entry.DeviceID),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate report"})
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="attendance-%s.xlsx"`, month))
	return ctx.Send(buf.Bytes())
}

func formatPunch(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("15:04:05")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
