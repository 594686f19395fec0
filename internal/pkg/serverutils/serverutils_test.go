package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"doccoder-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(h fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/", h)
	return app
}

func decode(t *testing.T, app *fiber.App) (int, ErrorBody) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	var body ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

type sample struct {
	Query string `validate:"required"`
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		handler fiber.Handler
		status  int
		code    string
		message string
	}{
		{
			name:    "app error",
			handler: func(*fiber.Ctx) error { return UnsupportedFormat("exe") },
			status:  400,
			code:    CodeUnsupportedFormat,
			message: "Output format 'exe' is not supported.",
		},
		{
			name:    "process interrupt hides cause",
			handler: func(*fiber.Ctx) error { return ProcessInterrupt("a.docx", errors.New("secret stack")) },
			status:  500,
			code:    CodeProcessInterrupt,
			message: "Error converting a.docx.",
		},
		{
			name:    "fiber error",
			handler: func(*fiber.Ctx) error { return fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big") },
			status:  413,
			code:    CodeRequest,
			message: "too big",
		},
		{
			name:    "validation error",
			handler: func(*fiber.Ctx) error { return ValidateRequest(sample{}) },
			status:  400,
			code:    CodeValidation,
		},
		{
			name:    "unknown error",
			handler: func(*fiber.Ctx) error { return errors.New("db exploded") },
			status:  500,
			code:    CodeSystemFault,
			message: "The request could not be completed.",
		},
		{
			name:    "panic",
			handler: func(*fiber.Ctx) error { panic("boom") },
			status:  500,
			code:    CodeGlobalFault,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := decode(t, newApp(tt.handler))
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
			assert.NotContains(t, body.Message, "secret stack")
		})
	}
}

func TestInvalidSourceCarriesFile(t *testing.T) {
	_, body := decode(t, newApp(func(*fiber.Ctx) error { return InvalidSource("notes.docx") }))
	assert.Equal(t, "notes.docx", body.File)
	assert.Equal(t, CodeInvalidSource, body.Code)
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/me", NewJwtMiddleware("s3cret"), func(ctx *fiber.Ctx) error {
		return ctx.SendString(UserID(ctx).String() + "|" + Email(ctx))
	})

	userID := "7f1d2a4e-29a4-4c4f-9a43-5b8e1c7e0d11"
	good := signed(t, "s3cret", jwt.MapClaims{"user_id": userID, "email": "a@b.co", "exp": time.Now().Add(time.Hour).Unix()})
	bad := signed(t, "other", jwt.MapClaims{"user_id": userID})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+good)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	for _, header := range []string{"", "Token x", "Bearer " + bad} {
		req := httptest.NewRequest("GET", "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode, header)
	}
}

func TestSuccessResponse(t *testing.T) {
	res := SuccessResponse("ok", map[string]int{"n": 1})
	assert.True(t, res.Success)
	assert.Equal(t, 200, res.Code)
	assert.False(t, ErrorResponse(404, "missing").Success)
}

func TestOptionalJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/who", NewOptionalJwtMiddleware("s3cret"), func(ctx *fiber.Ctx) error {
		return ctx.SendString(UserID(ctx).String())
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/who", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req := httptest.NewRequest("GET", "/who", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, "other", jwt.MapClaims{"user_id": "7f1d2a4e-29a4-4c4f-9a43-5b8e1c7e0d11"}))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestContextCarriesRequestID(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(ctx *fiber.Ctx) error {
		ctx.Locals("requestid", "req-42")
		return ctx.SendString(RequestIDFrom(Context(ctx)))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "req-42", string(body))
}
