package Models

import "gorm.io/gorm"

// Employee is reference data, created out-of-band by an admin. The attendance
// flow only ever reads it.
type Employee struct {
	gorm.Model
	EmployeeID string `json:"employeeId" gorm:"uniqueIndex"`
	Name       string `json:"name"`
}
