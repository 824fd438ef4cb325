package Controllers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"Presence/Geocode"
	"Presence/Models"
)

// AttendanceController handles the attendance API endpoints.
type AttendanceController struct {
	Store    *Models.AttendanceStore
	Guard    *AttendanceGuard
	Geo      *Geocode.Client
	Validate *validator.Validate
}

func NewAttendanceController(store *Models.AttendanceStore, guard *AttendanceGuard, geo *Geocode.Client) *AttendanceController {
	return &AttendanceController{
		Store:    store,
		Guard:    guard,
		Geo:      geo,
		Validate: validator.New(),
	}
}

type checkDeviceRequest struct {
	DeviceID string `json:"deviceId" validate:"required"`
}

type verifyEmployeeRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	DeviceID   string `json:"deviceId" validate:"required"`
}

type punchInRequest struct {
	EmployeeID   string   `json:"employeeId" validate:"required"`
	EmployeeName string   `json:"employeeName"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	QRCode       string   `json:"qrCode"`
	DeviceID     string   `json:"deviceId"`
}

type punchOutRequest struct {
	EmployeeID string   `json:"employeeId" validate:"required"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

type idleRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
}

// CheckDevice reports whether the device fingerprint already marked attendance
// today, so the client can silently recognize a returning device.
func (c *AttendanceController) CheckDevice(ctx *fiber.Ctx) error {
	var req checkDeviceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := c.Validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "deviceId required"})
	}

	match, err := c.Guard.CheckDevice(Models.Today(time.Now()), req.DeviceID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if match == nil {
		return ctx.JSON(fiber.Map{"status": "NEW_DEVICE"})
	}
	return ctx.JSON(fiber.Map{
		"status":       "ALREADY_MARKED",
		"employeeId":   match.EmployeeID,
		"employeeName": match.EmployeeName,
		"todayLog":     match.TodayEntry,
	})
}

// VerifyEmployee checks a login attempt against the device guard and the
// employee reference set.
func (c *AttendanceController) VerifyEmployee(ctx *fiber.Ctx) error {
	var req verifyEmployeeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := c.Validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "employeeId and deviceId required"})
	}

	result, err := c.Guard.VerifyEmployee(req.EmployeeID, req.DeviceID, Models.Today(time.Now()))
	if err != nil {
		return statusFor(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success":          true,
		"name":             result.Name,
		"attendanceMarked": result.AttendanceMarked,
		"todayLog":         result.TodayEntry,
	})
}

// PunchIn starts the day's work session after QR, GPS and device validation.
// Repeated calls for an already-marked day return the existing entry.
func (c *AttendanceController) PunchIn(ctx *fiber.Ctx) error {
	var req punchInRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := c.Validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "employeeId required"})
	}

	now := time.Now()
	entry, already, err := c.Guard.AuthorizePunchIn(PunchInInput{
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		QRCode:       req.QRCode,
		DeviceID:     req.DeviceID,
		IPAddress:    ctx.IP(),
	}, Models.Today(now), now, c.addressFor())
	if err != nil {
		return statusFor(ctx, err)
	}

	message := "Success"
	if already {
		message = "Already Marked"
	}
	return ctx.JSON(fiber.Map{
		"success":      true,
		"message":      message,
		"data":         entry,
		"employeeName": req.EmployeeName,
	})
}

// PunchOut completes the day's work session and returns the updated entry.
func (c *AttendanceController) PunchOut(ctx *fiber.Ctx) error {
	var req punchOutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := c.Validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "employeeId required"})
	}

	now := time.Now()
	entry, err := c.Guard.AuthorizePunchOut(req.EmployeeID, req.Latitude, req.Longitude, Models.Today(now), now, c.addressFor())
	if err != nil {
		return statusFor(ctx, err)
	}
	return ctx.JSON(entry)
}

// StartIdle opens an idle interval on today's WORKING entry.
func (c *AttendanceController) StartIdle(ctx *fiber.Ctx) error {
	return c.updateIdle(ctx, func(entry *Models.DailyEntry, now time.Time) error {
		entry.StartIdle(now)
		return nil
	})
}

// EndIdle closes the open idle interval on today's entry.
func (c *AttendanceController) EndIdle(ctx *fiber.Ctx) error {
	return c.updateIdle(ctx, func(entry *Models.DailyEntry, now time.Time) error {
		return entry.EndIdle(now)
	})
}

func (c *AttendanceController) updateIdle(ctx *fiber.Ctx, apply func(*Models.DailyEntry, time.Time) error) error {
	var req idleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := c.Validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "employeeId required"})
	}

	now := time.Now()
	entry, err := c.Store.FindEntry(req.EmployeeID, Models.Today(now))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if entry == nil || entry.Status != Models.StatusWorking {
		return statusFor(ctx, Models.ErrInvalidState)
	}
	if err := apply(entry, now); err != nil {
		return statusFor(ctx, err)
	}
	if err := c.Store.UpdateIdleActivity(entry); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(entry)
}

// GetAttendance returns the employee's daily entries, oldest first.
func (c *AttendanceController) GetAttendance(ctx *fiber.Ctx) error {
	employeeID := ctx.Params("employeeId")

	record, err := c.Store.FindRecordByEmployee(employeeID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if record == nil {
		// An employee who never punched has an empty history, not a 404;
		// only an id outside the reference set is unknown.
		employee, err := c.Store.FindEmployee(employeeID)
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if employee == nil {
			return statusFor(ctx, Models.ErrUnknownEmployee)
		}
		return ctx.JSON([]Models.DailyEntry{})
	}

	entries, err := c.Store.ListEntries(employeeID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(entries)
}

func (c *AttendanceController) addressFor() func(lat, lng float64) string {
	if c.Geo == nil {
		return nil
	}
	return c.Geo.Reverse
}

// statusFor maps the error taxonomy onto HTTP responses: validation and state
// errors 400, conflicts 403, unknown employee 404, anything else 500.
func statusFor(ctx *fiber.Ctx, err error) error {
	switch err {
	case Models.ErrInvalidQRCode, Models.ErrMissingGPS, Models.ErrMissingDeviceID,
		Models.ErrInvalidState, Models.ErrNoOpenIdleInterval:
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case Models.ErrDeviceConflict:
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	case Models.ErrUnknownEmployee:
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
}
