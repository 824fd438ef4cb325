package Controllers

import (
	"time"

	"Presence/Models"
)

// AttendanceGuard decides whether a punch attempt is allowed: it blocks a
// device fingerprint from serving two employees on one date, and an employee
// from opening two entries on one date.
type AttendanceGuard struct {
	Store        *Models.AttendanceStore
	OfficeQRCode string
}

func NewAttendanceGuard(store *Models.AttendanceStore, officeQRCode string) *AttendanceGuard {
	return &AttendanceGuard{Store: store, OfficeQRCode: officeQRCode}
}

// DeviceMatch reports the employee already bound to a device on a date.
type DeviceMatch struct {
	EmployeeID   string
	EmployeeName string
	TodayEntry   *Models.DailyEntry
}

// VerifyResult is the outcome of a successful employee verification.
type VerifyResult struct {
	Name             string
	AttendanceMarked bool
	TodayEntry       *Models.DailyEntry
}

// PunchInInput carries everything a punch-in attempt supplies.
type PunchInInput struct {
	EmployeeID   string
	EmployeeName string
	Latitude     *float64
	Longitude    *float64
	QRCode       string
	DeviceID     string
	IPAddress    string
}

// CheckDevice looks up whether any employee's entry for the date carries the
// fingerprint. nil means a new device.
func (g *AttendanceGuard) CheckDevice(date, deviceID string) (*DeviceMatch, error) {
	entry, err := g.Store.FindEntryByDeviceOnDate(date, deviceID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	match := &DeviceMatch{EmployeeID: entry.EmployeeID, TodayEntry: entry}
	record, err := g.Store.FindRecordByEmployee(entry.EmployeeID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		match.EmployeeName = record.EmployeeName
	}
	return match, nil
}

// VerifyEmployee validates a login attempt. The device-conflict check runs
// before the employee lookup so a hijacking device learns nothing about which
// employee ids are valid.
func (g *AttendanceGuard) VerifyEmployee(employeeID, deviceID, date string) (*VerifyResult, error) {
	if deviceID != "" {
		claimed, err := g.Store.FindEntryByDeviceOnDate(date, deviceID)
		if err != nil {
			return nil, err
		}
		if claimed != nil && claimed.EmployeeID != employeeID {
			return nil, Models.ErrDeviceConflict
		}
	}

	employee, err := g.Store.FindEmployee(employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, Models.ErrUnknownEmployee
	}

	today, err := g.Store.FindEntry(employeeID, date)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		Name:             employee.Name,
		AttendanceMarked: today != nil,
		TodayEntry:       today,
	}, nil
}

// AuthorizePunchIn runs the punch-in validation chain, cheapest checks first,
// and creates the WORKING entry when every check passes. An entry that already
// exists for the employee is returned as an idempotent success (already=true),
// not an error. addressFor resolves a display address for the punch location
// and is only consulted once every check has passed; it may be nil.
func (g *AttendanceGuard) AuthorizePunchIn(in PunchInInput, date string, now time.Time, addressFor func(lat, lng float64) string) (entry *Models.DailyEntry, already bool, err error) {
	if in.QRCode != g.OfficeQRCode {
		return nil, false, Models.ErrInvalidQRCode
	}
	if in.Latitude == nil || in.Longitude == nil {
		return nil, false, Models.ErrMissingGPS
	}
	if in.DeviceID == "" {
		return nil, false, Models.ErrMissingDeviceID
	}

	today, err := g.Store.FindEntry(in.EmployeeID, date)
	if err != nil {
		return nil, false, err
	}
	if today != nil {
		return today, true, nil
	}

	claimed, err := g.Store.FindEntryByDeviceOnDate(date, in.DeviceID)
	if err != nil {
		return nil, false, err
	}
	if claimed != nil && claimed.EmployeeID != in.EmployeeID {
		return nil, false, Models.ErrDeviceConflict
	}

	record, err := g.Store.EnsureRecord(in.EmployeeID, in.EmployeeName)
	if err != nil {
		return nil, false, err
	}

	loc := &Models.PunchLocation{
		Latitude:  *in.Latitude,
		Longitude: *in.Longitude,
		Timestamp: &now,
	}
	if addressFor != nil {
		loc.Address = addressFor(*in.Latitude, *in.Longitude)
	}

	fresh := Models.NewDailyEntry(in.EmployeeID, date)
	fresh.RecordID = record.ID
	if in.IPAddress != "" {
		fresh.IPAddress = &in.IPAddress
	}
	fresh.PunchInAt(now, loc, in.DeviceID)

	if err := g.Store.InsertEntry(&fresh); err != nil {
		if err != Models.ErrEntryExists {
			return nil, false, err
		}
		// Lost a race. Our own duplicate submission keeps the idempotent
		// contract; a foreign device claim is a conflict.
		existing, ferr := g.Store.FindEntry(in.EmployeeID, date)
		if ferr != nil {
			return nil, false, ferr
		}
		if existing != nil {
			return existing, true, nil
		}
		return nil, false, Models.ErrDeviceConflict
	}
	return &fresh, false, nil
}

// AuthorizePunchOut closes the employee's WORKING entry for the date with a
// conditional update, so a duplicate punch-out cannot complete twice.
func (g *AttendanceGuard) AuthorizePunchOut(employeeID string, latitude, longitude *float64, date string, now time.Time, addressFor func(lat, lng float64) string) (*Models.DailyEntry, error) {
	if latitude == nil || longitude == nil {
		return nil, Models.ErrMissingGPS
	}

	entry, err := g.Store.FindEntry(employeeID, date)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, Models.ErrInvalidState
	}

	loc := &Models.PunchLocation{
		Latitude:  *latitude,
		Longitude: *longitude,
		Timestamp: &now,
	}
	if addressFor != nil {
		loc.Address = addressFor(*latitude, *longitude)
	}

	if err := entry.PunchOutAt(now, loc); err != nil {
		return nil, err
	}
	if err := g.Store.CompleteEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}
