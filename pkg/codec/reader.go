package codec

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"doccoder-be/pkg/content"

	"golang.org/x/text/encoding/charmap"
)

// Reader turns an upload into canonical text and structure.
type Reader struct {
	pdf PdfTextExtractor
}

func NewReader(pdf PdfTextExtractor) *Reader {
	if pdf == nil {
		pdf = NewPdfcpuExtractor()
	}
	return &Reader{pdf: pdf}
}

// Read extracts content from file. Unknown kinds fail with ErrUnsupportedFormat,
// unreadable containers with ErrCorruptFile.
func (r *Reader) Read(ctx context.Context, file content.UploadedFile) (*content.ExtractedContent, error) {
	kind := Detect(file.Name, file.MimeType, file.Data)

	var (
		out *content.ExtractedContent
		err error
	)
	switch kind {
	case FormatPDF:
		out, err = r.pdf.Extract(ctx, file.Data, file.Name)
	case FormatDOCX:
		out, err = readDocx(file.Data)
	case FormatXLSX:
		out, err = readXlsx(file.Data)
	case FormatCSV:
		out, err = readCSV(file.Name, file.Data)
	case FormatXLS:
		out, err = readXls(file.Data)
	case FormatHTML:
		out, err = readHTML(file.Data)
	case FormatTXT, FormatMD, FormatCode, FormatJSON, FormatXML, FormatRTF:
		out = &content.ExtractedContent{Text: decodeText(file.Data)}
	case FormatImage:
		mime := file.MimeType
		if !strings.HasPrefix(mime, "image/") {
			mime = SniffMime(file.Data)
		}
		out = &content.ExtractedContent{
			Image: &content.ImagePayload{MimeType: mime, Data: file.Data},
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, file.Name)
	}
	if err != nil {
		return nil, err
	}

	out.Text = content.Sanitize(out.Text)
	for i, p := range out.Pages {
		out.Pages[i] = content.Sanitize(p)
	}
	out.Tables = content.NormalizeTables(out.Tables)
	if out.Metadata.Title == "" {
		out.Metadata.Title = file.Name
	}
	if out.Metadata.PageCount == 0 {
		out.Metadata.PageCount = 1
	}
	return out, nil
}

// decodeText strips a UTF-8 BOM and decodes legacy single-byte text as cp1252.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
