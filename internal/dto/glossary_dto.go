package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateGlossaryRequest struct {
	Term           string `json:"term" validate:"required,max=255"`
	Translation    string `json:"translation" validate:"required,max=255"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language" validate:"required"`
	Context        string `json:"context"`
	Category       string `json:"category"`
}

type GlossaryResponse struct {
	Id             uuid.UUID `json:"id"`
	Term           string    `json:"term"`
	Translation    string    `json:"translation"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	Context        string    `json:"context,omitempty"`
	Category       string    `json:"category,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type SuggestGlossaryRequest struct {
	Text string `json:"text" validate:"required"`
}

type GlossarySuggestResponse struct {
	Terms []string `json:"terms"`
}
