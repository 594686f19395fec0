package controller

import (
	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGlossaryController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Suggest(ctx *fiber.Ctx) error
}

type glossaryController struct {
	glossaryService service.IGlossaryService
}

func NewGlossaryController(glossaryService service.IGlossaryService) IGlossaryController {
	return &glossaryController{
		glossaryService: glossaryService,
	}
}

func (c *glossaryController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/glossary", auth)
	h.Get("/search", c.Search)
	h.Post("/suggest", c.Suggest)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Delete("/:id", c.Delete)
}

func (c *glossaryController) List(ctx *fiber.Ctx) error {
	res, err := c.glossaryService.List(serverutils.Context(ctx), serverutils.UserID(ctx), ctx.Query("targetLanguage"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list glossary", res))
}

func (c *glossaryController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateGlossaryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.glossaryService.Create(serverutils.Context(ctx), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Glossary entry created", res))
}

func (c *glossaryController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.BadRequest(serverutils.CodeValidation, "Invalid glossary id.")
	}

	if err := c.glossaryService.Delete(serverutils.Context(ctx), serverutils.UserID(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Glossary entry deleted", nil))
}

func (c *glossaryController) Search(ctx *fiber.Ctx) error {
	res, err := c.glossaryService.Search(serverutils.Context(ctx), serverutils.UserID(ctx), ctx.Query("q"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success search glossary", res))
}

func (c *glossaryController) Suggest(ctx *fiber.Ctx) error {
	var req dto.SuggestGlossaryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.glossaryService.Suggest(serverutils.Context(ctx), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success suggest terms", res))
}
