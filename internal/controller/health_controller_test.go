package controller

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/logger"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/internal/service"
	"doccoder-be/pkg/ai"
	"doccoder-be/pkg/language"
	"doccoder-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadiness(t *testing.T) {
	tests := []struct {
		name      string
		providers map[string]bool
		status    int
	}{
		{"one provider ready", map[string]bool{"openai": true, "anthropic": false}, fiber.StatusOK},
		{"nothing configured", map[string]bool{"openai": false}, fiber.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			h := NewHealthController(service.NewHealthService(nil, func() map[string]bool { return tt.providers }))
			h.RegisterRoutes(app.Group("/api"))

			resp, err := app.Test(httptest.NewRequest("GET", "/api/readiness", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body dto.ReadinessResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.providers, body.Providers)
		})
	}
}

func TestHealth(t *testing.T) {
	app := fiber.New()
	NewHealthController(service.NewHealthService(nil, nil)).RegisterRoutes(app.Group("/api"))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, body.Database)
}

func TestReviewRequiresText(t *testing.T) {
	aiService := ai.NewService(func(string) (llm.LLMProvider, error) { return scriptedLLM{}, nil }, logger.NewNopLogger())
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(logger.NewNopLogger()))
	NewLanguageController(service.NewLanguageService(aiService, language.Default(), "openai/gpt-4-mini")).
		RegisterRoutes(app.Group("/api"))

	req := httptest.NewRequest("POST", "/api/review", strings.NewReader(`{"language":"es"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body serverutils.ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, serverutils.CodeValidation, body.Code)
}
