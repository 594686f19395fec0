package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/pkg/content"
	"doccoder-be/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderAssistantMessage   = "X-Assistant-Message"
	HeaderConversionFidelity = "X-Conversion-Fidelity"
)

func readUpload(fh *multipart.FileHeader) (content.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return content.UploadedFile{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return content.UploadedFile{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return content.UploadedFile{
		Name:     fh.Filename,
		MimeType: fh.Header.Get(fiber.HeaderContentType),
		Data:     data,
	}, nil
}

// multipartFiles reads every part named field. A request without a form yields none.
func multipartFiles(ctx *fiber.Ctx, field string) ([]content.UploadedFile, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, nil
	}
	var out []content.UploadedFile
	for _, fh := range form.File[field] {
		f, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func singleFile(ctx *fiber.Ctx, field string) (content.UploadedFile, error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		return content.UploadedFile{}, serverutils.NoFiles()
	}
	return readUpload(fh)
}

// parseTemplate decodes the optional template field. A malformed value falls back
// to the default template and returns the decode error for logging.
func parseTemplate(raw string) (dto.TemplateOptions, error) {
	var t dto.TemplateOptions
	if raw == "" {
		return t, nil
	}
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return dto.TemplateOptions{}, err
	}
	return t, nil
}

// sendFile writes a binary download with the assistant message and fidelity headers.
func sendFile(ctx *fiber.Ctx, res *dto.FileResponse) error {
	ctx.Set(fiber.HeaderContentType, res.MimeType)
	ctx.Set(fiber.HeaderContentDisposition, utils.ContentDisposition(res.Name))
	if res.AssistantMessage != "" {
		ctx.Set(HeaderAssistantMessage, utils.HeaderEscape(res.AssistantMessage))
	}
	if res.LowFidelity {
		ctx.Set(HeaderConversionFidelity, "low")
	}
	return ctx.Status(fiber.StatusOK).Send(res.Bytes)
}
