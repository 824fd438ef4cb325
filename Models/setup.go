package Models

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(dbPath string) {
	connection, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Error when connect to db: ", err)
	}
	DB = connection

	// 1. Reference data first
	DB.AutoMigrate(&Employee{})

	// 2. Then the per-employee records and their daily entries
	DB.AutoMigrate(
		&AttendanceRecord{},
		&DailyEntry{},
	)
}
