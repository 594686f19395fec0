package dto

import "doccoder-be/pkg/rag"

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Query      string        `json:"query" validate:"required"`
	Context    string        `json:"context"`
	DocumentId string        `json:"documentId" validate:"omitempty,uuid"`
	SourceName string        `json:"sourceName"`
	Language   string        `json:"language"`
	Mode       string        `json:"mode" validate:"omitempty,oneof=strict explainer summary"`
	Model      string        `json:"model"`
	Messages   []ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Answer     string             `json:"answer"`
	Citations  string             `json:"citations"`
	Confidence string             `json:"confidence"`
	Retrieval  *rag.RetrievalMeta `json:"retrieval,omitempty"`
}

type ChatTranslateRequest struct {
	Messages       []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	TargetLanguage string        `json:"targetLanguage"`
	Tone           string        `json:"tone"`
	Model          string        `json:"model"`
	UseGlossary    bool          `json:"useGlossary"`
}

type ChatTranslateResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
