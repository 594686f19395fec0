package serverutils

import (
	"errors"
	"fmt"
	"time"

	"doccoder-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns returned errors and panics into the JSON error
// contract. Only AppError messages reach the client.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				log.Error("HTTP", "Recovered panic", map[string]interface{}{
					"request_id": RequestID(ctx),
					"path":       ctx.Path(),
					"panic":      fmt.Sprint(r),
				})
				err = ctx.Status(fiber.StatusInternalServerError).JSON(ErrorBody{
					Error:   "Internal Server Error",
					Message: "An unexpected error occurred.",
					Code:    CodeGlobalFault,
				})
			}
		}()

		chainErr := ctx.Next()
		if chainErr == nil {
			return nil
		}
		return writeError(ctx, log, chainErr, start)
	}
}

func writeError(ctx *fiber.Ctx, log logger.ILogger, err error, start time.Time) error {
	var (
		appErr *AppError
		fe     *fiber.Error
		ve     *ValidationError
	)
	switch {
	case errors.As(err, &appErr):
		if appErr.Status >= fiber.StatusInternalServerError {
			log.Error("HTTP", appErr.Message, details(ctx, err, start, appErr.FileName))
		}
		return ctx.Status(appErr.Status).JSON(ErrorBody{
			Error:   appErr.Title,
			Message: appErr.Message,
			Code:    appErr.Code,
			File:    appErr.FileName,
		})

	case errors.As(err, &ve):
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorBody{
			Error:   "Invalid Request",
			Message: ve.Error(),
			Code:    CodeValidation,
		})

	case errors.As(err, &fe):
		return ctx.Status(fe.Code).JSON(ErrorBody{
			Error:   "Request Error",
			Message: fe.Message,
			Code:    CodeRequest,
		})
	}

	log.Error("HTTP", "Unhandled error", details(ctx, err, start, ""))
	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorBody{
		Error:   "Internal Server Error",
		Message: "The request could not be completed.",
		Code:    CodeSystemFault,
	})
}

func details(ctx *fiber.Ctx, err error, start time.Time, file string) map[string]interface{} {
	d := map[string]interface{}{
		"request_id":  RequestID(ctx),
		"method":      ctx.Method(),
		"path":        ctx.Path(),
		"duration_ms": time.Since(start).Milliseconds(),
		"error":       err.Error(),
	}
	if file != "" {
		d["file"] = file
	}
	return d
}

// RequestID returns the id set by the requestid middleware.
func RequestID(ctx *fiber.Ctx) string {
	if id, ok := ctx.Locals("requestid").(string); ok {
		return id
	}
	return ctx.GetRespHeader(fiber.HeaderXRequestID)
}
