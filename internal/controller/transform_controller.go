package controller

import (
	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/logger"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITransformController interface {
	RegisterRoutes(r fiber.Router)
	Transform(ctx *fiber.Ctx) error
	ReverseTransform(ctx *fiber.Ctx) error
}

type transformController struct {
	transformService service.ITransformService
	logger           logger.ILogger
}

func NewTransformController(transformService service.ITransformService, logger logger.ILogger) ITransformController {
	return &transformController{
		transformService: transformService,
		logger:           logger,
	}
}

func (c *transformController) RegisterRoutes(r fiber.Router) {
	r.Post("/transform", c.Transform)
	r.Post("/reverse-transform", c.ReverseTransform)
}

func (c *transformController) Transform(ctx *fiber.Ctx) error {
	files, err := multipartFiles(ctx, "files")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return serverutils.NoFiles()
	}
	template, err := parseTemplate(ctx.FormValue("template"))
	if err != nil {
		c.logger.Warn("ORCHESTRATOR", "Ignoring malformed template", map[string]interface{}{"error": err.Error()})
	}

	res, err := c.transformService.Transform(serverutils.Context(ctx), &dto.TransformRequest{
		Prompt:         ctx.FormValue("prompt"),
		AiModel:        ctx.FormValue("aiModel"),
		TargetLanguage: ctx.FormValue("targetLanguage"),
		TargetFormat:   ctx.FormValue("targetFormat"),
		Template:       template,
		Files:          files,
	})
	if err != nil {
		return err
	}
	return sendFile(ctx, res)
}

func (c *transformController) ReverseTransform(ctx *fiber.Ctx) error {
	files, err := multipartFiles(ctx, "files")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return serverutils.NoFiles()
	}

	res, err := c.transformService.Reverse(serverutils.Context(ctx), &dto.ReverseTransformRequest{
		Prompt:         ctx.FormValue("prompt"),
		TargetFormat:   ctx.FormValue("targetFormat"),
		AiModel:        ctx.FormValue("aiModel"),
		TargetLanguage: ctx.FormValue("targetLanguage"),
		Files:          files,
	})
	if err != nil {
		return err
	}
	return sendFile(ctx, res)
}
