package Controllers

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"Presence/Models"
)

const testOfficeCode = "9515174064"

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Models.Employee{}, &Models.AttendanceRecord{}, &Models.DailyEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestGuard(t *testing.T) (*AttendanceGuard, *Models.AttendanceStore) {
	t.Helper()
	db := openTestDB(t)
	db.Create(&Models.Employee{EmployeeID: "EMP1", Name: "Asha"})
	db.Create(&Models.Employee{EmployeeID: "EMP2", Name: "Ravi"})
	store := Models.NewAttendanceStore(db)
	return NewAttendanceGuard(store, testOfficeCode), store
}

func punchIn(employeeID, name, device string) PunchInInput {
	lat, lng := 12.97, 77.59
	return PunchInInput{
		EmployeeID:   employeeID,
		EmployeeName: name,
		Latitude:     &lat,
		Longitude:    &lng,
		QRCode:       testOfficeCode,
		DeviceID:     device,
	}
}

func TestAuthorizePunchInValidationOrder(t *testing.T) {
	guard, _ := newTestGuard(t)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	date := "2024-01-01"

	// bad QR fails first, even with everything else missing
	in := PunchInInput{EmployeeID: "EMP1", QRCode: "wrong"}
	if _, _, err := guard.AuthorizePunchIn(in, date, now, nil); err != Models.ErrInvalidQRCode {
		t.Errorf("bad QR: err = %v, want ErrInvalidQRCode", err)
	}

	in = PunchInInput{EmployeeID: "EMP1", QRCode: testOfficeCode}
	if _, _, err := guard.AuthorizePunchIn(in, date, now, nil); err != Models.ErrMissingGPS {
		t.Errorf("no GPS: err = %v, want ErrMissingGPS", err)
	}

	in = punchIn("EMP1", "Asha", "")
	if _, _, err := guard.AuthorizePunchIn(in, date, now, nil); err != Models.ErrMissingDeviceID {
		t.Errorf("no device: err = %v, want ErrMissingDeviceID", err)
	}
}

func TestAuthorizePunchInCreatesWorkingEntry(t *testing.T) {
	guard, _ := newTestGuard(t)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	entry, already, err := guard.AuthorizePunchIn(punchIn("EMP1", "Asha", "device-1"), "2024-01-01", now, nil)
	if err != nil {
		t.Fatalf("punch-in: %v", err)
	}
	if already {
		t.Fatal("first punch-in reported as already marked")
	}
	if entry.Status != Models.StatusWorking {
		t.Errorf("status = %q, want WORKING", entry.Status)
	}
	if entry.PunchIn == nil || !entry.PunchIn.Equal(now) {
		t.Errorf("punchIn = %v, want %v", entry.PunchIn, now)
	}
	if entry.PunchInLocation == nil || entry.PunchInLocation.Latitude != 12.97 {
		t.Errorf("punchInLocation = %+v", entry.PunchInLocation)
	}
}

func TestAuthorizePunchInIsIdempotent(t *testing.T) {
	guard, _ := newTestGuard(t)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	first, _, err := guard.AuthorizePunchIn(punchIn("EMP1", "Asha", "device-1"), "2024-01-01", now, nil)
	if err != nil {
		t.Fatal(err)
	}

	second, already, err := guard.AuthorizePunchIn(punchIn("EMP1", "Asha", "device-1"), "2024-01-01", now.Add(time.Hour), nil)
	if err != nil {
		t.Fatalf("repeat punch-in: %v", err)
	}
	if !already {
		t.Fatal("repeat punch-in not reported as already marked")
	}
	if !second.PunchIn.Equal(*first.PunchIn) {
		t.Error("repeat punch-in mutated the existing entry")
	}
}

func TestAuthorizePunchInDeviceConflict(t *testing.T) {
	guard, store := newTestGuard(t)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	if _, _, err := guard.AuthorizePunchIn(punchIn("EMP1", "Asha", "device-1"), "2024-01-01", now, nil); err != nil {
		t.Fatal(err)
	}

	_, _, err := guard.AuthorizePunchIn(punchIn("EMP2", "Ravi", "device-1"), "2024-01-01", now.Add(time.Minute), nil)
	if err != Models.ErrDeviceConflict {
		t.Fatalf("shared device: err = %v, want ErrDeviceConflict", err)
	}

	// and no entry was created for EMP2
	entry, ferr := store.FindEntry("EMP2", "2024-01-01")
	if ferr != nil {
		t.Fatal(ferr)
	}
	if entry != nil {
		t.Fatal("conflicting punch-in created an entry")
	}

	// a different device works
	if _, _, err := guard.AuthorizePunchIn(punchIn("EMP2", "Ravi", "device-2"), "2024-01-01", now.Add(time.Minute), nil); err != nil {
		t.Fatalf("second employee, own device: %v", err)
	}
}

func TestVerifyEmployee(t *testing.T) {
	guard, _ := newTestGuard(t)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	date := "2024-01-01"

	result, err := guard.VerifyEmployee("EMP1", "device-1", date)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Name != "Asha" || result.AttendanceMarked {
		t.Errorf("verify = %+v, want Asha unmarked", result)
	}

	if _, err := guard.VerifyEmployee("NOBODY", "device-9", date); err != Models.ErrUnknownEmployee {
		t.Errorf("unknown employee: err = %v, want ErrUnknownEmployee", err)
	}

	if _, _, err := guard.AuthorizePunchIn(punchIn("EMP1", "Asha", "device-1"), date, now, nil); err != nil {
		t.Fatal(err)
	}

	result, err = guard.VerifyEmployee("EMP1", "device-1", date)
	if err != nil {
		t.Fatal(err)
	}
	if !result.AttendanceMarked || result.TodayEntry == nil {
		t.Error("verify after punch-in should report attendance marked with the entry")
	}

	// the conflict check fires before the employee lookup: an unknown id on a
	// claimed device must not learn whether the id exists
	if _, err := guard.VerifyEmployee("NOBODY", "device-1", date); err != Models.ErrDeviceConflict {
		t.Errorf("hijacking device: err = %v, want ErrDeviceConflict", err)
	}
}

func TestCheckDevice(t *testing.T) {
	guard, _ := newTestGuard(t)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	date := "2024-01-01"

	match, err := guard.CheckDevice(date, "device-1")
	if err != nil {
		t.Fatal(err)
	}
	if match != nil {
		t.Fatal("new device reported as marked")
	}

	if _, _, err := guard.AuthorizePunchIn(punchIn("EMP1", "Asha", "device-1"), date, now, nil); err != nil {
		t.Fatal(err)
	}

	match, err = guard.CheckDevice(date, "device-1")
	if err != nil {
		t.Fatal(err)
	}
	if match == nil || match.EmployeeID != "EMP1" || match.EmployeeName != "Asha" {
		t.Fatalf("marked device match = %+v, want EMP1/Asha", match)
	}
}

func TestAuthorizePunchOut(t *testing.T) {
	guard, _ := newTestGuard(t)
	in := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	out := time.Date(2024, 1, 1, 17, 30, 45, 0, time.UTC)
	date := "2024-01-01"
	lat, lng := 12.97, 77.59

	// punch-out before any punch-in is a state error
	if _, err := guard.AuthorizePunchOut("EMP1", &lat, &lng, date, out, nil); err != Models.ErrInvalidState {
		t.Errorf("punch-out without entry: err = %v, want ErrInvalidState", err)
	}

	if _, _, err := guard.AuthorizePunchIn(punchIn("EMP1", "Asha", "device-1"), date, in, nil); err != nil {
		t.Fatal(err)
	}

	entry, err := guard.AuthorizePunchOut("EMP1", &lat, &lng, date, out, nil)
	if err != nil {
		t.Fatalf("punch-out: %v", err)
	}
	if entry.Status != Models.StatusCompleted || entry.WorkedSeconds != 30645 || entry.DisplayTime != "8h 30m 45s" {
		t.Errorf("completed entry = %q/%d/%q", entry.Status, entry.WorkedSeconds, entry.DisplayTime)
	}

	// COMPLETED is terminal
	if _, err := guard.AuthorizePunchOut("EMP1", &lat, &lng, date, out.Add(time.Hour), nil); err != Models.ErrInvalidState {
		t.Errorf("second punch-out: err = %v, want ErrInvalidState", err)
	}
}
