package ai

import (
	"context"
	"fmt"

	"doccoder-be/pkg/content"
	"doccoder-be/pkg/llm"
)

const ocrPrompt = `Transcribe all text visible in this image.
Preserve reading order, line breaks and table layout (use Markdown tables for tables).
Return ONLY the transcribed text. If the image contains no text, return an empty response.`

// OCR reads an image through a vision-capable model.
func (s *Service) OCR(ctx context.Context, alias string, img *content.ImagePayload) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", fmt.Errorf("%w: no image data", ErrEmptyGeneration)
	}

	p, err := s.resolve(alias)
	if err != nil {
		return "", err
	}
	vp, ok := p.(llm.VisionProvider)
	if !ok {
		return "", ErrVisionUnsupported
	}

	out, err := vp.DescribeImage(ctx, ocrPrompt, img.MimeType, img.Data, llm.WithTemperature(0))
	if err != nil {
		s.logger.Warn(logModule, "ocr failed", map[string]interface{}{"error": err.Error(), "model": alias})
		return "", fmt.Errorf("%w: %v", ErrEmptyGeneration, err)
	}
	return content.Sanitize(out), nil
}
