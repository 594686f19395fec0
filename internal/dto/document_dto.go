package dto

import (
	"encoding/json"
	"time"

	"doccoder-be/pkg/content"

	"github.com/google/uuid"
)

type ProcessDocumentRequest struct {
	File        content.UploadedFile
	Operation   string `validate:"required,oneof=translate summarize ocr edit"`
	Model       string
	Language    string
	Instruction string
}

type CreateDocumentRequest struct {
	FileName string `json:"file_name" validate:"required"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
	Content  string `json:"content" validate:"required"`
	Language string `json:"language"`
}

type ListDocumentsRequest struct {
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
	Status string `query:"status" validate:"omitempty,oneof=processing completed failed"`
}

type DocumentResponse struct {
	Id             uuid.UUID       `json:"id"`
	FileName       string          `json:"file_name"`
	FileType       string          `json:"file_type"`
	FileSize       int64           `json:"file_size"`
	ContentPreview string          `json:"content_preview"`
	Operation      string          `json:"operation"`
	Model          string          `json:"model,omitempty"`
	Language       string          `json:"language,omitempty"`
	Status         string          `json:"status"`
	ResultText     string          `json:"result_text,omitempty"`
	Result         json.RawMessage `json:"result,omitempty"`
	Error          string          `json:"error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at"`
}

type DocumentListResponse struct {
	Items  []*DocumentResponse `json:"items"`
	Total  int64               `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

type ProcessDocumentResponse struct {
	Document *DocumentResponse `json:"document"`
	Result   interface{}       `json:"result"`
}

// TranslateResult is the result payload of the translate operation.
type TranslateResult struct {
	Sections []content.StructuredData `json:"sections"`
	Review   []string                 `json:"review"`
}

type TextResult struct {
	Text string `json:"text"`
}

type IngestResponse struct {
	DocumentId *uuid.UUID `json:"document_id,omitempty"`
	FileName   string     `json:"file_name"`
	Chunks     int        `json:"chunks"`
	Embedded   bool       `json:"embedded"`
}

// IngestDocumentMessage is the INGEST_DOCUMENT queue payload.
type IngestDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
