package Controllers

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Presence/Models"
)

// EmployeeController manages the employee reference set. This is the
// out-of-band admin surface, not part of the punch flow.
type EmployeeController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewEmployeeController(db *gorm.DB) *EmployeeController {
	return &EmployeeController{DB: db, Validate: validator.New()}
}

type registerEmployeeRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Name       string `json:"name" validate:"required"`
}

// RegisterEmployee adds an employee to the reference set.
func (c *EmployeeController) RegisterEmployee(ctx *fiber.Ctx) error {
	var req registerEmployeeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := c.Validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "employeeId and name required"})
	}

	employee := Models.Employee{
		EmployeeID: strings.TrimSpace(req.EmployeeID),
		Name:       strings.TrimSpace(req.Name),
	}
	if result := c.DB.Create(&employee); result.Error != nil {
		if strings.Contains(result.Error.Error(), "UNIQUE constraint") ||
			strings.Contains(result.Error.Error(), "Duplicate entry") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "An employee with this id already exists",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register employee"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(employee)
}

// GetEmployees lists the employee reference set.
func (c *EmployeeController) GetEmployees(ctx *fiber.Ctx) error {
	var employees []Models.Employee
	if result := c.DB.Order("employee_id asc").Find(&employees); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve employees"})
	}
	return ctx.JSON(employees)
}
