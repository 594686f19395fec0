package dto

type EnhanceTranslationRequest struct {
	OriginalText   string `json:"originalText" validate:"required"`
	TranslatedText string `json:"translatedText" validate:"required"`
	Tone           string `json:"tone" validate:"omitempty,oneof=formal casual legal academic"`
	TargetLanguage string `json:"targetLanguage"`
	Model          string `json:"model"`
}

type ReviewRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language"`
	Culture  string `json:"culture"`
	Model    string `json:"model"`
}

type CompareRequest struct {
	Original   string `json:"original" validate:"required"`
	Translated string `json:"translated" validate:"required"`
	Language   string `json:"language"`
	Model      string `json:"model"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Uptime   string `json:"uptime"`
}

type ReadinessResponse struct {
	Ready     bool            `json:"ready"`
	Providers map[string]bool `json:"providers"`
}
