package Models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DailyEntry.Status values.
const (
	StatusNotStarted = "NOT_STARTED"
	StatusWorking    = "WORKING"
	StatusCompleted  = "COMPLETED"
	StatusAbsent     = "ABSENT"
)

// DailyEntry.LoginStatus values. ON_TIME/LATE are reserved: no shift-start rule
// is configured anywhere, so nothing ever moves an entry off NOT_APPLICABLE.
const (
	LoginOnTime        = "ON_TIME"
	LoginLate          = "LATE"
	LoginNotApplicable = "NOT_APPLICABLE"
)

// Reserved day-fraction classification for downstream reporting.
const WorkedNotApplicable = "NOT_APPLICABLE"

// DateLayout is the calendar-date key format for daily entries.
const DateLayout = "2006-01-02"

// Today returns the calendar date key from the server wall clock. Dates are
// always UTC; a punch near midnight UTC lands on the UTC date, there is no
// timezone parameter.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// PunchLocation is the geotag stamped on a punch event. Address is filled by
// reverse geocoding when available.
type PunchLocation struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Address   string     `json:"address,omitempty"`
	Timestamp *time.Time `json:"timestamp"`
}

// IdleInterval is one detected span of inactivity. A nil IdleEnd means the
// employee is currently idle; at most one interval per entry may be open.
type IdleInterval struct {
	IdleStart time.Time  `json:"idleStart"`
	IdleEnd   *time.Time `json:"idleEnd"`
}

// AttendanceRecord is the per-employee document: one row per employee, owning
// the ordered list of daily entries.
type AttendanceRecord struct {
	gorm.Model
	EmployeeID   string       `json:"employeeId" gorm:"uniqueIndex"`
	EmployeeName string       `json:"employeeName"`
	Days         []DailyEntry `json:"days" gorm:"foreignKey:RecordID"`
}

// DailyEntry is the single attendance entry for one employee on one calendar
// date. The two composite unique indexes carry the business invariants: one
// entry per (employee, date), and one employee per (date, device).
type DailyEntry struct {
	ID       uint   `json:"-" gorm:"primaryKey"`
	RecordID uint   `json:"-" gorm:"index"`
	// denormalized from the parent record so conditional writes hit one table
	EmployeeID string  `json:"employeeId" gorm:"uniqueIndex:idx_entry_employee_date"`
	Date       string  `json:"date" gorm:"uniqueIndex:idx_entry_employee_date;uniqueIndex:idx_entry_device_date"`
	DeviceID   *string `json:"deviceId" gorm:"uniqueIndex:idx_entry_device_date"`
	IPAddress  *string `json:"ipAddress"`

	PunchIn          *time.Time     `json:"punchIn"`
	PunchOut         *time.Time     `json:"punchOut"`
	PunchInLocation  *PunchLocation `json:"punchInLocation" gorm:"serializer:json"`
	PunchOutLocation *PunchLocation `json:"punchOutLocation" gorm:"serializer:json"`

	WorkedHours   int    `json:"workedHours"`
	WorkedMinutes int    `json:"workedMinutes"`
	WorkedSeconds int    `json:"workedSeconds"`
	DisplayTime   string `json:"displayTime"`

	Status             string `json:"status"`
	LoginStatus        string `json:"loginStatus"`
	WorkedStatus       string `json:"workedStatus"`
	AttendanceCategory string `json:"attendanceCategory"`

	IdleActivity []IdleInterval `json:"idleActivity" gorm:"serializer:json"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// NewDailyEntry builds an entry in its initial state. The defaults are business
// rules, not storage accidents, so they live here and nowhere else.
func NewDailyEntry(employeeID, date string) DailyEntry {
	return DailyEntry{
		EmployeeID:         employeeID,
		Date:               date,
		DisplayTime:        "0h 0m 0s",
		Status:             StatusNotStarted,
		LoginStatus:        LoginNotApplicable,
		WorkedStatus:       WorkedNotApplicable,
		AttendanceCategory: WorkedNotApplicable,
		IdleActivity:       []IdleInterval{},
	}
}

// PunchInAt stamps the punch-in event and moves the entry to WORKING.
func (e *DailyEntry) PunchInAt(now time.Time, loc *PunchLocation, deviceID string) {
	e.PunchIn = &now
	e.PunchInLocation = loc
	e.DeviceID = &deviceID
	e.Status = StatusWorking
	e.DisplayTime = "0h 0m 0s"
}

// PunchOutAt completes the day. The entry must be WORKING; COMPLETED is
// terminal for the date.
func (e *DailyEntry) PunchOutAt(now time.Time, loc *PunchLocation) error {
	if e.Status != StatusWorking || e.PunchIn == nil {
		return ErrInvalidState
	}
	e.PunchOut = &now
	e.PunchOutLocation = loc
	total := int(now.Sub(*e.PunchIn).Seconds())
	if total < 0 {
		total = 0
	}
	e.WorkedHours = total / 3600
	e.WorkedMinutes = (total % 3600) / 60
	e.WorkedSeconds = total
	e.DisplayTime = FormatWorked(total)
	e.Status = StatusCompleted
	return nil
}

// ElapsedSeconds is the live worked time while the entry is open. It is
// recomputed by the caller every second and never persisted before punch-out.
func (e *DailyEntry) ElapsedSeconds(now time.Time) int {
	if e.PunchIn == nil || e.PunchOut != nil {
		return e.WorkedSeconds
	}
	secs := int(now.Sub(*e.PunchIn).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

// StartIdle opens a new idle interval. Opening while one is already open just
// keeps the existing interval.
func (e *DailyEntry) StartIdle(now time.Time) {
	if e.openIdle() != nil {
		return
	}
	e.IdleActivity = append(e.IdleActivity, IdleInterval{IdleStart: now})
}

// EndIdle closes the most recent open idle interval.
func (e *DailyEntry) EndIdle(now time.Time) error {
	open := e.openIdle()
	if open == nil {
		return ErrNoOpenIdleInterval
	}
	open.IdleEnd = &now
	return nil
}

func (e *DailyEntry) openIdle() *IdleInterval {
	for i := len(e.IdleActivity) - 1; i >= 0; i-- {
		if e.IdleActivity[i].IdleEnd == nil {
			return &e.IdleActivity[i]
		}
	}
	return nil
}

// FormatWorked renders a whole-second duration as "{h}h {m}m {s}s".
func FormatWorked(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
