package controller

import (
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	Readiness(ctx *fiber.Ctx) error
}

type healthController struct {
	healthService service.IHealthService
}

func NewHealthController(healthService service.IHealthService) IHealthController {
	return &healthController{healthService: healthService}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	r.Get("/readiness", c.Readiness)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.healthService.Health(serverutils.Context(ctx)))
}

func (c *healthController) Readiness(ctx *fiber.Ctx) error {
	res := c.healthService.Readiness()
	status := fiber.StatusOK
	if !res.Ready {
		status = fiber.StatusServiceUnavailable
	}
	return ctx.Status(status).JSON(res)
}
