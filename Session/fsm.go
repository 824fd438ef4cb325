package Session

import (
	"errors"
	"time"

	"Presence/Models"
)

// View names match what the browser client renders.
const (
	ViewLoading   = "LOADING"
	ViewLogin     = "LOGIN"
	ViewScanner   = "SCANNER"
	ViewDashboard = "DASHBOARD"
)

var ErrInvalidTransition = errors.New("invalid session transition")

// Machine is the client session flow as an explicit state machine, kept
// independent of any rendering so the flow is testable without a browser.
// LOADING acquires the device fingerprint, LOGIN collects the employee id,
// SCANNER waits for a QR detection, DASHBOARD shows the punch state.
type Machine struct {
	view         string
	deviceID     string
	employeeID   string
	employeeName string
	todayLog     *Models.DailyEntry
}

func NewMachine() *Machine {
	return &Machine{view: ViewLoading}
}

func (m *Machine) View() string { return m.view }

func (m *Machine) DeviceID() string { return m.deviceID }

func (m *Machine) EmployeeID() string { return m.employeeID }

func (m *Machine) EmployeeName() string { return m.employeeName }

func (m *Machine) TodayLog() *Models.DailyEntry { return m.todayLog }

// DeviceReady records the fingerprint and moves to LOGIN.
func (m *Machine) DeviceReady(deviceID string) error {
	if m.view != ViewLoading {
		return ErrInvalidTransition
	}
	m.deviceID = deviceID
	m.view = ViewLogin
	return nil
}

// DeviceFailed moves to LOGIN without a fingerprint. Fingerprint absence is
// not fatal to the flow.
func (m *Machine) DeviceFailed() error {
	if m.view != ViewLoading {
		return ErrInvalidTransition
	}
	m.view = ViewLogin
	return nil
}

// Verified applies a verify-employee response: straight to DASHBOARD when
// attendance is already marked, otherwise to SCANNER.
func (m *Machine) Verified(employeeID, name string, attendanceMarked bool, todayLog *Models.DailyEntry) error {
	if m.view != ViewLogin {
		return ErrInvalidTransition
	}
	m.employeeID = employeeID
	m.employeeName = name
	if attendanceMarked {
		m.todayLog = todayLog
		m.view = ViewDashboard
	} else {
		m.view = ViewScanner
	}
	return nil
}

// PunchInSucceeded applies a punch-in response from the scanner.
func (m *Machine) PunchInSucceeded(todayLog *Models.DailyEntry) error {
	if m.view != ViewScanner {
		return ErrInvalidTransition
	}
	m.todayLog = todayLog
	m.view = ViewDashboard
	return nil
}

// CancelScan returns from the scanner to the login form.
func (m *Machine) CancelScan() error {
	if m.view != ViewScanner {
		return ErrInvalidTransition
	}
	m.view = ViewLogin
	return nil
}

// PunchOutCompleted updates the dashboard with the completed entry.
func (m *Machine) PunchOutCompleted(todayLog *Models.DailyEntry) error {
	if m.view != ViewDashboard {
		return ErrInvalidTransition
	}
	m.todayLog = todayLog
	return nil
}

// Logout clears the employee and returns to LOGIN. The fingerprint survives,
// it belongs to the device, not the user.
func (m *Machine) Logout() error {
	if m.view != ViewScanner && m.view != ViewDashboard {
		return ErrInvalidTransition
	}
	m.employeeID = ""
	m.employeeName = ""
	m.todayLog = nil
	m.view = ViewLogin
	return nil
}

// TimerRunning reports whether the dashboard should tick the live timer:
// punched in, not yet out.
func (m *Machine) TimerRunning() bool {
	return m.view == ViewDashboard && m.todayLog != nil &&
		m.todayLog.PunchIn != nil && m.todayLog.PunchOut == nil
}

// ElapsedSeconds is the live timer value; display-only, never persisted.
func (m *Machine) ElapsedSeconds(now time.Time) int {
	if m.todayLog == nil {
		return 0
	}
	return m.todayLog.ElapsedSeconds(now)
}
