package Models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrEntryExists signals that an insert lost to the unique indexes on
// (employee, date) or (date, device). The caller re-reads to find out which
// claim won.
var ErrEntryExists = errors.New("daily entry already exists")

// AttendanceStore is the query layer over attendance records. Every operation
// touches a single employee's rows except FindEntryByDeviceOnDate, which is the
// cross-record device scan backed by the (date, device_id) index.
type AttendanceStore struct {
	DB *gorm.DB
}

func NewAttendanceStore(db *gorm.DB) *AttendanceStore {
	return &AttendanceStore{DB: db}
}

// FindEmployee looks up the reference data for an employee id.
func (s *AttendanceStore) FindEmployee(employeeID string) (*Employee, error) {
	var employee Employee
	result := s.DB.Where("employee_id = ?", employeeID).First(&employee)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &employee, nil
}

// FindRecordByEmployee returns the employee's record without its days loaded.
func (s *AttendanceStore) FindRecordByEmployee(employeeID string) (*AttendanceRecord, error) {
	var record AttendanceRecord
	result := s.DB.Where("employee_id = ?", employeeID).First(&record)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &record, nil
}

// EnsureRecord fetches or creates the per-employee parent record.
func (s *AttendanceStore) EnsureRecord(employeeID, employeeName string) (*AttendanceRecord, error) {
	var record AttendanceRecord
	result := s.DB.Where(AttendanceRecord{EmployeeID: employeeID}).
		Attrs(AttendanceRecord{EmployeeName: employeeName}).
		FirstOrCreate(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	return &record, nil
}

// FindEntry returns the daily entry for (employee, date), nil when the day has
// not started.
func (s *AttendanceStore) FindEntry(employeeID, date string) (*DailyEntry, error) {
	var entry DailyEntry
	result := s.DB.Where("employee_id = ? AND date = ?", employeeID, date).First(&entry)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}

// FindEntryByDeviceOnDate scans across employees for a day entry already bound
// to the device fingerprint.
func (s *AttendanceStore) FindEntryByDeviceOnDate(date, deviceID string) (*DailyEntry, error) {
	var entry DailyEntry
	result := s.DB.Where("date = ? AND device_id = ?", date, deviceID).First(&entry)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}

// InsertEntry appends a new daily entry. The composite unique indexes make the
// insert the atomic check-and-act: a violation comes back as ErrEntryExists
// instead of two entries or two device claims.
func (s *AttendanceStore) InsertEntry(entry *DailyEntry) error {
	result := s.DB.Create(entry)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrEntryExists
		}
		return result.Error
	}
	return nil
}

// CompleteEntry is the conditional punch-out write: the UPDATE asserts the
// entry is still WORKING, so a racing duplicate punch-out affects zero rows and
// fails with ErrInvalidState.
func (s *AttendanceStore) CompleteEntry(entry *DailyEntry) error {
	result := s.DB.Model(&DailyEntry{}).
		Where("employee_id = ? AND date = ? AND status = ?", entry.EmployeeID, entry.Date, StatusWorking).
		Updates(map[string]interface{}{
			"punch_out":          entry.PunchOut,
			"punch_out_location": locationJSON(entry.PunchOutLocation),
			"worked_hours":       entry.WorkedHours,
			"worked_minutes":     entry.WorkedMinutes,
			"worked_seconds":     entry.WorkedSeconds,
			"display_time":       entry.DisplayTime,
			"status":             StatusCompleted,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidState
	}
	return nil
}

// UpdateIdleActivity persists the idle interval list of an entry.
func (s *AttendanceStore) UpdateIdleActivity(entry *DailyEntry) error {
	return s.DB.Model(entry).Update("idle_activity", entry.IdleActivity).Error
}

// ListEntries returns every daily entry of an employee, oldest first.
func (s *AttendanceStore) ListEntries(employeeID string) ([]DailyEntry, error) {
	var entries []DailyEntry
	result := s.DB.Where("employee_id = ?", employeeID).Order("date asc").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// EntriesOnDate returns every employee's entry for one calendar date.
func (s *AttendanceStore) EntriesOnDate(date string) ([]DailyEntry, error) {
	var entries []DailyEntry
	result := s.DB.Where("date = ?", date).Order("employee_id asc").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// EntriesInRange returns all entries with from <= date <= to, for reporting.
func (s *AttendanceStore) EntriesInRange(from, to string) ([]DailyEntry, error) {
	var entries []DailyEntry
	result := s.DB.Where("date >= ? AND date <= ?", from, to).
		Order("employee_id asc, date asc").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// ListEmployees returns the employee reference set ordered by id.
func (s *AttendanceStore) ListEmployees() ([]Employee, error) {
	var employees []Employee
	result := s.DB.Order("employee_id asc").Find(&employees)
	if result.Error != nil {
		return nil, result.Error
	}
	return employees, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint") ||
		strings.Contains(err.Error(), "Duplicate entry")
}

// locationJSON serializes a punch location the same way the gorm json
// serializer on the model does, for use in a map-based Updates call.
func locationJSON(loc *PunchLocation) interface{} {
	if loc == nil {
		return nil
	}
	data, err := json.Marshal(loc)
	if err != nil {
		return nil
	}
	return string(data)
}
