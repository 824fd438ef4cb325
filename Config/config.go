package Config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// EmailConfig holds SMTP settings for the daily summary mail.
// Sending is skipped entirely when Host is empty.
type EmailConfig struct {
	Host     string   `json:"host"`
	Port     int      `json:"port"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	FromName string   `json:"from_name"`
	From     string   `json:"from"`
	To       []string `json:"to"`
}

// GeocodeConfig controls the reverse-geocoding lookup for punch locations.
type GeocodeConfig struct {
	Enabled   bool   `json:"enabled"`
	BaseURL   string `json:"base_url"`
	UserAgent string `json:"user_agent"`
}

// Config is the full deployment configuration, read from config.json5 with
// environment overrides for the values that differ per machine.
type Config struct {
	Port           string        `json:"port"`
	DatabasePath   string        `json:"database_path"`
	OfficeQRCode   string        `json:"office_qr_code"`
	AllowedOrigins string        `json:"allowed_origins"`
	CloseSchedule  string        `json:"close_schedule"`
	Email          EmailConfig   `json:"email"`
	Geocode        GeocodeConfig `json:"geocode"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{
		Port:           "5000",
		DatabasePath:   "database.db",
		AllowedOrigins: "*",
		// 00:05:00 UTC daily, six-field expression (scheduler runs with seconds)
		CloseSchedule: "0 5 0 * * *",
		Geocode: GeocodeConfig{
			Enabled:   true,
			BaseURL:   "https://nominatim.openstreetmap.org",
			UserAgent: "AttendanceApp/1.0",
		},
	}
}

// Load reads config.json5 (if present) and applies .env / environment overrides.
func Load(path string) Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := Default()
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := json5.Unmarshal(data, &cfg); err != nil {
				log.Fatalf("Error parsing %s: %v", path, err)
			}
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("OFFICE_QR_CODE"); v != "" {
		cfg.OfficeQRCode = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			log.Fatal("Error when parse SMTP_PORT: ", err)
		}
		cfg.Email.Port = port
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		cfg.Email.Username = v
	}
	if v := os.Getenv("SMTP_PASS"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("SUMMARY_RECIPIENTS"); v != "" {
		cfg.Email.To = strings.Split(v, ",")
	}

	if cfg.OfficeQRCode == "" {
		log.Println("Warning: no office QR code configured, punch-in will reject every scan")
	}
	return cfg
}
