package dto

import "doccoder-be/pkg/content"

// TemplateOptions is the optional `template` multipart field.
type TemplateOptions struct {
	Id          string   `json:"id"`
	Orientation string   `json:"orientation"`
	Margin      *float64 `json:"margin"`
}

type TransformRequest struct {
	Prompt         string
	AiModel        string
	TargetLanguage string
	TargetFormat   string
	Template       TemplateOptions
	Files          []content.UploadedFile
}

type ReverseTransformRequest struct {
	Prompt         string
	TargetFormat   string
	AiModel        string
	TargetLanguage string
	Files          []content.UploadedFile
}

// FileResponse is a binary download: one file, or a ZIP of several.
type FileResponse struct {
	Name             string
	MimeType         string
	Bytes            []byte
	AssistantMessage string
	LowFidelity      bool
}
