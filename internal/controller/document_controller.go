package controller

import (
	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Process(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Reingest(ctx *fiber.Ctx) error
	Ingest(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
	ingestService   service.IIngestService
}

func NewDocumentController(documentService service.IDocumentService, ingestService service.IIngestService) IDocumentController {
	return &documentController{
		documentService: documentService,
		ingestService:   ingestService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Post("/ingest", auth, c.Ingest)

	h := r.Group("/documents", auth)
	h.Post("/process", c.Process)
	h.Get("/history", c.History)
	h.Get("/stats", c.Stats)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get("/:id", c.Show)
	h.Delete("/:id", c.Delete)
	h.Post("/:id/ingest", c.Reingest)
}

func documentID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, serverutils.BadRequest(serverutils.CodeValidation, "Invalid document id.")
	}
	return id, nil
}

func (c *documentController) Process(ctx *fiber.Ctx) error {
	file, err := singleFile(ctx, "file")
	if err != nil {
		return err
	}

	res, err := c.documentService.Process(serverutils.Context(ctx), serverutils.UserID(ctx), serverutils.Email(ctx),
		&dto.ProcessDocumentRequest{
			File:        file,
			Operation:   ctx.FormValue("operation"),
			Model:       ctx.FormValue("model"),
			Language:    ctx.FormValue("language"),
			Instruction: ctx.FormValue("instruction"),
		})
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document processed", res))
}

func (c *documentController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.documentService.Create(serverutils.Context(ctx), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Document created", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	var req dto.ListDocumentsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	res, err := c.documentService.List(serverutils.Context(ctx), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	id, err := documentID(ctx)
	if err != nil {
		return err
	}

	res, err := c.documentService.Show(serverutils.Context(ctx), serverutils.UserID(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show document", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	id, err := documentID(ctx)
	if err != nil {
		return err
	}

	if err := c.documentService.Delete(serverutils.Context(ctx), serverutils.UserID(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Document deleted", nil))
}

func (c *documentController) History(ctx *fiber.Ctx) error {
	res, err := c.documentService.History(serverutils.Context(ctx), serverutils.UserID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *documentController) Stats(ctx *fiber.Ctx) error {
	res, err := c.documentService.Stats(serverutils.Context(ctx), serverutils.UserID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get stats", res))
}

func (c *documentController) Reingest(ctx *fiber.Ctx) error {
	id, err := documentID(ctx)
	if err != nil {
		return err
	}

	if err := c.documentService.Reingest(serverutils.Context(ctx), serverutils.UserID(ctx), id); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse[any]("Ingestion queued", nil))
}

func (c *documentController) Ingest(ctx *fiber.Ctx) error {
	file, err := singleFile(ctx, "file")
	if err != nil {
		return err
	}

	res, err := c.ingestService.IngestFile(serverutils.Context(ctx), serverutils.UserID(ctx), file)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document ingested", res))
}
