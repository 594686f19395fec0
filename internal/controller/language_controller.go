package controller

import (
	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILanguageController interface {
	RegisterRoutes(r fiber.Router)
	EnhanceTranslation(ctx *fiber.Ctx) error
	Review(ctx *fiber.Ctx) error
	Compare(ctx *fiber.Ctx) error
}

type languageController struct {
	languageService service.ILanguageService
}

func NewLanguageController(languageService service.ILanguageService) ILanguageController {
	return &languageController{
		languageService: languageService,
	}
}

func (c *languageController) RegisterRoutes(r fiber.Router) {
	r.Post("/enhance-translation", c.EnhanceTranslation)
	r.Post("/review", c.Review)
	r.Post("/compare", c.Compare)
}

func (c *languageController) EnhanceTranslation(ctx *fiber.Ctx) error {
	var req dto.EnhanceTranslationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.languageService.Enhance(serverutils.Context(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Translation enhanced", res))
}

func (c *languageController) Review(ctx *fiber.Ctx) error {
	var req dto.ReviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.languageService.Review(serverutils.Context(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Review completed", res))
}

func (c *languageController) Compare(ctx *fiber.Ctx) error {
	var req dto.CompareRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.languageService.Compare(serverutils.Context(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Comparison completed", res))
}
