package Models

import "errors"

// Sentinel errors for the attendance flow. The messages are returned to the
// client as-is, so they stay human-readable.
var (
	// Validation failures, the user retries with corrected input.
	ErrInvalidQRCode   = errors.New("Invalid QR Code.")
	ErrMissingGPS      = errors.New("GPS Required.")
	ErrMissingDeviceID = errors.New("Device ID Missing.")

	// Conflict, terminal for the request.
	ErrDeviceConflict = errors.New("Device already used by another employee today.")

	ErrUnknownEmployee = errors.New("Invalid employee number")

	// State errors, the entry is not in the phase the operation requires.
	ErrInvalidState       = errors.New("Attendance is not currently in progress.")
	ErrNoOpenIdleInterval = errors.New("No open idle interval.")
)
