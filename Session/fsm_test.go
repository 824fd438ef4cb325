package Session

import (
	"testing"
	"time"

	"Presence/Models"
)

func workingLog(punchIn time.Time) *Models.DailyEntry {
	entry := Models.NewDailyEntry("EMP1", Models.Today(punchIn))
	entry.PunchInAt(punchIn, nil, "device-1")
	return &entry
}

func TestHappyPathFirstPunch(t *testing.T) {
	m := NewMachine()
	if m.View() != ViewLoading {
		t.Fatalf("initial view = %q, want LOADING", m.View())
	}

	if err := m.DeviceReady("device-1"); err != nil {
		t.Fatal(err)
	}
	if m.View() != ViewLogin || m.DeviceID() != "device-1" {
		t.Fatalf("after fingerprint: view %q device %q", m.View(), m.DeviceID())
	}

	// not marked yet: login leads to the scanner
	if err := m.Verified("EMP1", "Asha", false, nil); err != nil {
		t.Fatal(err)
	}
	if m.View() != ViewScanner {
		t.Fatalf("view = %q, want SCANNER", m.View())
	}

	punchIn := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	if err := m.PunchInSucceeded(workingLog(punchIn)); err != nil {
		t.Fatal(err)
	}
	if m.View() != ViewDashboard {
		t.Fatalf("view = %q, want DASHBOARD", m.View())
	}
	if !m.TimerRunning() {
		t.Error("timer should run while punched in")
	}
	if got := m.ElapsedSeconds(punchIn.Add(90 * time.Second)); got != 90 {
		t.Errorf("elapsed = %d, want 90", got)
	}
}

func TestAlreadyMarkedSkipsScanner(t *testing.T) {
	m := NewMachine()
	if err := m.DeviceFailed(); err != nil { // fingerprint failure is not fatal
		t.Fatal(err)
	}
	if m.View() != ViewLogin || m.DeviceID() != "" {
		t.Fatalf("after failed fingerprint: view %q device %q", m.View(), m.DeviceID())
	}

	punchIn := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	if err := m.Verified("EMP1", "Asha", true, workingLog(punchIn)); err != nil {
		t.Fatal(err)
	}
	if m.View() != ViewDashboard {
		t.Fatalf("view = %q, want DASHBOARD", m.View())
	}
}

func TestCancelScanReturnsToLogin(t *testing.T) {
	m := NewMachine()
	m.DeviceReady("device-1")
	m.Verified("EMP1", "Asha", false, nil)

	if err := m.CancelScan(); err != nil {
		t.Fatal(err)
	}
	if m.View() != ViewLogin {
		t.Fatalf("view = %q, want LOGIN", m.View())
	}
}

func TestPunchOutStopsTimer(t *testing.T) {
	m := NewMachine()
	m.DeviceReady("device-1")
	punchIn := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	m.Verified("EMP1", "Asha", true, workingLog(punchIn))

	completed := workingLog(punchIn)
	if err := completed.PunchOutAt(punchIn.Add(8*time.Hour), nil); err != nil {
		t.Fatal(err)
	}
	if err := m.PunchOutCompleted(completed); err != nil {
		t.Fatal(err)
	}
	if m.TimerRunning() {
		t.Error("timer must stop after punch-out")
	}
	if got := m.ElapsedSeconds(punchIn.Add(24 * time.Hour)); got != 8*3600 {
		t.Errorf("elapsed after punch-out = %d, want %d", got, 8*3600)
	}
}

func TestLogoutClearsEmployee(t *testing.T) {
	m := NewMachine()
	m.DeviceReady("device-1")
	m.Verified("EMP1", "Asha", true, workingLog(time.Now()))

	if err := m.Logout(); err != nil {
		t.Fatal(err)
	}
	if m.View() != ViewLogin || m.EmployeeID() != "" || m.TodayLog() != nil {
		t.Fatalf("after logout: view %q employee %q", m.View(), m.EmployeeID())
	}
	// the fingerprint belongs to the device and survives logout
	if m.DeviceID() != "device-1" {
		t.Errorf("deviceID = %q, want device-1", m.DeviceID())
	}
}

func TestInvalidTransitions(t *testing.T) {
	m := NewMachine()

	if err := m.Verified("EMP1", "Asha", false, nil); err != ErrInvalidTransition {
		t.Errorf("Verified from LOADING: err = %v, want ErrInvalidTransition", err)
	}
	if err := m.PunchInSucceeded(nil); err != ErrInvalidTransition {
		t.Errorf("PunchInSucceeded from LOADING: err = %v, want ErrInvalidTransition", err)
	}
	if err := m.Logout(); err != ErrInvalidTransition {
		t.Errorf("Logout from LOADING: err = %v, want ErrInvalidTransition", err)
	}

	m.DeviceReady("device-1")
	if err := m.DeviceReady("device-2"); err != ErrInvalidTransition {
		t.Errorf("second DeviceReady: err = %v, want ErrInvalidTransition", err)
	}
	if err := m.CancelScan(); err != ErrInvalidTransition {
		t.Errorf("CancelScan from LOGIN: err = %v, want ErrInvalidTransition", err)
	}
}
