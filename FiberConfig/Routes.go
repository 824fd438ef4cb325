package FiberConfig

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"
	"gorm.io/gorm"

	"Presence/Config"
	"Presence/Controllers"
	"Presence/CronJobs"
	"Presence/Geocode"
	"Presence/Models"
	"Presence/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg Config.Config, closer *CronJobs.DailyCloser) {
	store := Models.NewAttendanceStore(db)
	guard := Controllers.NewAttendanceGuard(store, cfg.OfficeQRCode)

	var geo *Geocode.Client
	if cfg.Geocode.Enabled {
		geo = Geocode.NewClient(cfg.Geocode.BaseURL, cfg.Geocode.UserAgent)
	}

	attendanceController := Controllers.NewAttendanceController(store, guard, geo)
	employeeController := Controllers.NewEmployeeController(db)
	reportController := Controllers.NewReportController(store)

	// Attendance flow
	attendance := app.Group("/api/attendance")
	attendance.Post("/check-device", attendanceController.CheckDevice)
	attendance.Post("/verify-employee", attendanceController.VerifyEmployee)
	attendance.Post("/punch-in", attendanceController.PunchIn)
	attendance.Post("/punch-out", attendanceController.PunchOut)
	attendance.Post("/idle/start", attendanceController.StartIdle)
	attendance.Post("/idle/end", attendanceController.EndIdle)

	// Reports before the id route to avoid conflicts
	attendance.Get("/reports/monthly", reportController.MonthlyReport)
	attendance.Get("/:employeeId", attendanceController.GetAttendance)

	// Out-of-band employee administration
	app.Post("/api/employees", employeeController.RegisterEmployee)
	app.Get("/api/employees", employeeController.GetEmployees)

	// Manual end-of-day close for ops
	app.Post("/api/admin/close/:date", func(ctx *fiber.Ctx) error {
		summary, err := closer.RunManualClose(ctx.Params("date"))
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.JSON(summary)
	})

	// Mobile client shell
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Render("index", fiber.Map{})
	})
}

func FiberConfig(cfg Config.Config, closer *CronJobs.DailyCloser) {
	fmt.Println("Server Up...")
	engine := html.New("./Templates", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, X-Requested-With",
		MaxAge:       300,
	}))

	SetupRoutes(app, Models.DB, cfg, closer)
	app.Static("/static", "static/")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
