package serverutils

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type requestIDKey struct{}

// Context returns the request's user context, which carries the tracing span,
// tagged with the request id.
func Context(ctx *fiber.Ctx) context.Context {
	return WithRequestID(ctx.UserContext(), RequestID(ctx))
}

func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
