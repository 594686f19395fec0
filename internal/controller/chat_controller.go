package controller

import (
	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, optionalAuth fiber.Handler)
	Chat(ctx *fiber.Ctx) error
	ChatTranslate(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

// RegisterRoutes mounts the chat endpoints. A token is optional; when present
// chat-translate can use the caller's glossary.
func (c *chatController) RegisterRoutes(r fiber.Router, optionalAuth fiber.Handler) {
	r.Post("/chat", c.Chat)
	r.Post("/chat-translate", optionalAuth, c.ChatTranslate)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(serverutils.Context(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) ChatTranslate(ctx *fiber.Ctx) error {
	var req dto.ChatTranslateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.chatService.ChatTranslate(serverutils.Context(ctx), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
