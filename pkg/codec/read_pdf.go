package codec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"doccoder-be/pkg/content"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PdfTextExtractor turns PDF bytes into ExtractedContent. Implementations can be
// swapped (OCR service, layout engine) without touching writers or handlers.
type PdfTextExtractor interface {
	Extract(ctx context.Context, data []byte, name string) (*content.ExtractedContent, error)
}

// PdfcpuExtractor validates and reads metadata with pdfcpu. Page text comes from
// ledongthuc/pdf, with the raw content-stream scan as fallback for pages it
// cannot decode.
type PdfcpuExtractor struct{}

var _ PdfTextExtractor = PdfcpuExtractor{}

func NewPdfcpuExtractor() PdfcpuExtractor {
	return PdfcpuExtractor{}
}

func (PdfcpuExtractor) Extract(ctx context.Context, data []byte, name string) (*content.ExtractedContent, error) {
	pctx, err := loadPDF(data)
	if err != nil {
		return nil, err
	}

	out := &content.ExtractedContent{Metadata: pdfMetadata(pctx, name)}
	plain := openPlainText(data)

	pages := make([]string, 0, pctx.PageCount)
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := plainPageText(plain, pageNr)
		if strings.TrimSpace(text) == "" {
			text = pageText(pctx, pageNr)
		}
		if strings.TrimSpace(text) == "" {
			text = fmt.Sprintf("[Page %d - No readable text detected]", pageNr)
		} else {
			out.Tables = append(out.Tables, DetectTables(text)...)
		}
		pages = append(pages, text)
	}

	out.Pages = pages
	out.Text = strings.Join(pages, "\n\n")
	return out, nil
}

// PlaceholderExtractor only reads metadata and describes the document.
type PlaceholderExtractor struct{}

var _ PdfTextExtractor = PlaceholderExtractor{}

func (PlaceholderExtractor) Extract(_ context.Context, data []byte, name string) (*content.ExtractedContent, error) {
	pctx, err := loadPDF(data)
	if err != nil {
		return nil, err
	}
	meta := pdfMetadata(pctx, name)

	plural := "s"
	if meta.PageCount == 1 {
		plural = ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n\n", meta.Title)
	fmt.Fprintf(&b, "Total Pages: %d\n\n", meta.PageCount)
	fmt.Fprintf(&b, "This PDF has been converted from %s.\n", name)
	fmt.Fprintf(&b, "The original document contained %d page%s.\n\n", meta.PageCount, plural)
	b.WriteString("Note: For full text extraction from PDFs, the document would need to be processed with specialized OCR tools.\n")
	b.WriteString("This conversion preserves the document structure and metadata.\n")

	return &content.ExtractedContent{Text: b.String(), Metadata: meta}, nil
}

// PageCount returns the number of pages without extracting text.
func PageCount(data []byte) (int, error) {
	pctx, err := loadPDF(data)
	if err != nil {
		return 0, err
	}
	return pctx.PageCount, nil
}

func loadPDF(data []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: pdf may be corrupted or encrypted: %v", ErrCorruptFile, err)
	}
	return pctx, nil
}

func pdfMetadata(pctx *model.Context, name string) content.Metadata {
	meta := content.Metadata{PageCount: pctx.PageCount}
	if pctx.XRefTable != nil {
		meta.Title = strings.TrimSpace(pctx.Title)
		meta.Author = strings.TrimSpace(pctx.Author)
		meta.CreationDate = strings.TrimSpace(pctx.XRefTable.CreationDate)
	}
	if meta.Title == "" {
		meta.Title = name
	}
	return meta
}

func pageText(pctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return contentStreamText(data)
}

// openPlainText returns nil when ledongthuc/pdf cannot parse the file.
func openPlainText(data []byte) (r *lpdf.Reader) {
	defer func() {
		if recover() != nil {
			r = nil
		}
	}()
	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil
	}
	return r
}

func plainPageText(r *lpdf.Reader, pageNr int) (text string) {
	if r == nil || pageNr > r.NumPage() {
		return ""
	}
	// malformed font dictionaries panic inside the decoder
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	page := r.Page(pageNr)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return tidyLines(text)
}
