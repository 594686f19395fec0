package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"doccoder-be/internal/config"
	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/logger"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/pkg/codec"
	"doccoder-be/pkg/content"
	"doccoder-be/pkg/language"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransformService(p *fakeLLM, workers int) ITransformService {
	return NewTransformService(
		newFakeAI(p),
		codec.NewReader(codec.PlaceholderExtractor{}),
		codec.NewRegistry(codec.RegistryConfig{}),
		language.Default(),
		"openai/gpt-4-mini",
		config.OrchestratorConfig{Workers: workers, RequestTimeout: 10 * time.Second},
		logger.NewNopLogger(),
	)
}

func textFile(name, body string) content.UploadedFile {
	return content.UploadedFile{Name: name, MimeType: "text/plain", Data: []byte(body)}
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func zipNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestTransformValidation(t *testing.T) {
	svc := newTestTransformService(&fakeLLM{}, 1)

	tests := []struct {
		name string
		req  *dto.TransformRequest
		code string
	}{
		{"no files", &dto.TransformRequest{}, serverutils.CodeNoFiles},
		{
			"unsupported format",
			&dto.TransformRequest{TargetFormat: "exe", Files: []content.UploadedFile{textFile("a.txt", "hi")}},
			serverutils.CodeUnsupportedFormat,
		},
		{
			"unsupported language",
			&dto.TransformRequest{TargetLanguage: "xx-YY", Files: []content.UploadedFile{textFile("a.txt", "hi")}},
			serverutils.CodeUnsupportedLanguage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Transform(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, appCode(t, err))
		})
	}
}

func TestTransformDetectedLanguageIsValidated(t *testing.T) {
	p := &fakeLLM{replies: map[string]string{
		"You classify document conversion requests": `{"langs": ["klingon"], "format": "pdf"}`,
	}}
	svc := newTestTransformService(p, 1)

	_, err := svc.Transform(context.Background(), &dto.TransformRequest{
		Prompt: "translate to klingon",
		Files:  []content.UploadedFile{textFile("a.txt", "hello")},
	})
	require.Error(t, err)
	assert.Equal(t, serverutils.CodeUnsupportedLanguage, appCode(t, err))
}

func TestTransformTwoFilesTwoLanguages(t *testing.T) {
	p := &fakeLLM{replies: map[string]string{
		"You classify document conversion requests": `{"langs": ["en", "es"], "format": "pdf"}`,
		"Deliver the final content in English":      "hello world",
		"Deliver the final content in Spanish":      "hola mundo",
		"one-line title":                            "Quarterly Report",
		"friendly sentence":                         "All done!",
	}}
	svc := newTestTransformService(p, 2)

	res, err := svc.Transform(context.Background(), &dto.TransformRequest{
		Prompt: "give me English and Spanish",
		Files: []content.UploadedFile{
			textFile("report.txt", "hello world"),
			textFile("a.txt", "more text"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "transformed-documents.zip", res.Name)
	assert.Equal(t, "application/zip", res.MimeType)
	assert.Equal(t, "All done!", res.AssistantMessage)
	// file-major, then language; the default language keeps the bare name
	assert.Equal(t, []string{
		"report.pdf",
		"report (Spanish).pdf",
		"a.pdf",
		"a (Spanish).pdf",
	}, zipNames(t, res.Bytes))
	assert.Equal(t, 4, p.count("Deliver the final content in"))
}

func TestTransformSingleFileWithoutAI(t *testing.T) {
	p := &fakeLLM{}
	svc := newTestTransformService(p, 1)

	res, err := svc.Transform(context.Background(), &dto.TransformRequest{
		TargetFormat: "md",
		Files:        []content.UploadedFile{textFile("readme.txt", "line one\nline two")},
	})
	require.NoError(t, err)

	assert.Equal(t, "readme.md", res.Name)
	assert.Contains(t, string(res.Bytes), "line one")
	assert.Zero(t, p.count("Deliver the final content in"))
}

func TestTransformFailureNamesFile(t *testing.T) {
	p := &fakeLLM{replies: map[string]string{
		"You classify document conversion requests": `{"langs": ["es"], "format": "pdf"}`,
	}}
	svc := newTestTransformService(p, 1)

	_, err := svc.Transform(context.Background(), &dto.TransformRequest{
		Prompt: "spanish please",
		Files:  []content.UploadedFile{textFile("empty-answer.txt", "hello")},
	})
	require.Error(t, err)

	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.CodeProcessInterrupt, appErr.Code)
	assert.Equal(t, "empty-answer.txt", appErr.FileName)
}

func TestReverseRejectsNonPDF(t *testing.T) {
	svc := newTestTransformService(&fakeLLM{}, 1)

	_, err := svc.Reverse(context.Background(), &dto.ReverseTransformRequest{
		TargetFormat: "docx",
		Files:        []content.UploadedFile{textFile("letter.txt", "not a pdf")},
	})
	require.Error(t, err)

	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.CodeInvalidSource, appErr.Code)
	assert.Contains(t, appErr.Message, "letter.txt")
}

func TestReverseRejectsUnknownTarget(t *testing.T) {
	svc := newTestTransformService(&fakeLLM{}, 1)

	_, err := svc.Reverse(context.Background(), &dto.ReverseTransformRequest{
		TargetFormat: "pdf",
		Files:        []content.UploadedFile{{Name: "a.pdf", MimeType: "application/pdf", Data: []byte("%PDF-1.4")}},
	})
	require.Error(t, err)
	assert.Equal(t, serverutils.CodeUnsupportedFormat, appCode(t, err))
}
