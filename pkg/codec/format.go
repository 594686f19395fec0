package codec

import (
	"errors"
	"strings"

	"doccoder-be/pkg/utils"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrCorruptFile       = errors.New("corrupt or unreadable file")
	ErrEmptyContent      = errors.New("nothing to write")
)

type Format string

const (
	FormatUnknown Format = ""
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatXLSX    Format = "xlsx"
	FormatXLS     Format = "xls"
	FormatCSV     Format = "csv"
	FormatTXT     Format = "txt"
	FormatMD      Format = "md"
	FormatHTML    Format = "html"
	FormatJSON    Format = "json"
	FormatXML     Format = "xml"
	FormatRTF     Format = "rtf"
	FormatPPTX    Format = "pptx"
	FormatPNG     Format = "png"
	FormatJPG     Format = "jpg"
	FormatImages  Format = "images"

	// source-only kinds
	FormatCode  Format = "code"
	FormatImage Format = "image"
)

var mimeTypes = map[Format]string{
	FormatPDF:    "application/pdf",
	FormatDOCX:   "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	FormatXLSX:   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatXLS:    "application/vnd.ms-excel",
	FormatCSV:    "text/csv",
	FormatTXT:    "text/plain",
	FormatMD:     "text/markdown",
	FormatHTML:   "text/html",
	FormatJSON:   "application/json",
	FormatXML:    "application/xml",
	FormatRTF:    "application/rtf",
	FormatPPTX:   "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	FormatPNG:    "image/png",
	FormatJPG:    "image/jpeg",
	FormatImages: "application/zip",
}

// MimeType returns the content type a writer declares for f.
func MimeType(f Format) string {
	if m, ok := mimeTypes[f]; ok {
		return m
	}
	return "application/octet-stream"
}

var codeExts = map[string]bool{
	"css": true, "scss": true, "sass": true, "less": true, "js": true, "jsx": true,
	"ts": true, "tsx": true, "py": true, "java": true, "c": true, "cpp": true, "h": true,
	"hpp": true, "cs": true, "php": true, "rb": true, "go": true, "rs": true, "swift": true,
	"kt": true, "sql": true, "sh": true, "bash": true, "yaml": true, "yml": true,
	"toml": true, "ini": true, "conf": true, "env": true,
}

var extFormats = map[string]Format{
	"pdf":      FormatPDF,
	"docx":     FormatDOCX,
	"xlsx":     FormatXLSX,
	"xls":      FormatXLS,
	"csv":      FormatCSV,
	"txt":      FormatTXT,
	"text":     FormatTXT,
	"md":       FormatMD,
	"markdown": FormatMD,
	"html":     FormatHTML,
	"htm":      FormatHTML,
	"json":     FormatJSON,
	"xml":      FormatXML,
	"rtf":      FormatRTF,
	"png":      FormatImage,
	"jpg":      FormatImage,
	"jpeg":     FormatImage,
	"gif":      FormatImage,
	"webp":     FormatImage,
	"heic":     FormatImage,
}

var mimeFormats = map[string]Format{
	"application/pdf": FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       FormatXLSX,
	"application/vnd.ms-excel": FormatXLS,
	"text/csv":                 FormatCSV,
	"text/plain":               FormatTXT,
	"text/markdown":            FormatMD,
	"text/html":                FormatHTML,
	"application/json":         FormatJSON,
	"application/xml":          FormatXML,
	"text/xml":                 FormatXML,
	"application/rtf":          FormatRTF,
	"text/rtf":                 FormatRTF,
}

// Detect resolves the source kind by extension, then declared MIME type, then content sniffing.
func Detect(name, declaredMime string, data []byte) Format {
	ext := utils.Ext(name)
	if f, ok := extFormats[ext]; ok {
		return f
	}
	if codeExts[ext] {
		return FormatCode
	}

	if f := fromMime(declaredMime); f != FormatUnknown {
		return f
	}

	if len(data) == 0 {
		return FormatUnknown
	}
	sniffed := mimetype.Detect(data)
	if f := fromMime(sniffed.String()); f != FormatUnknown {
		return f
	}
	if f, ok := extFormats[strings.TrimPrefix(sniffed.Extension(), ".")]; ok {
		return f
	}
	return FormatUnknown
}

func fromMime(m string) Format {
	m = strings.ToLower(strings.TrimSpace(m))
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = strings.TrimSpace(m[:i])
	}
	if m == "" {
		return FormatUnknown
	}
	if f, ok := mimeFormats[m]; ok {
		return f
	}
	if strings.HasPrefix(m, "image/") {
		return FormatImage
	}
	return FormatUnknown
}

// SniffMime returns the MIME type detected from content alone.
func SniffMime(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsPDF reports whether the upload is a PDF by extension and by MIME type,
// accepting either the declared or the sniffed type.
func IsPDF(name, declaredMime string, data []byte) bool {
	if utils.Ext(name) != "pdf" {
		return false
	}
	if fromMime(declaredMime) == FormatPDF {
		return true
	}
	return len(data) > 0 && mimetype.Detect(data).Is("application/pdf")
}

// ParseTarget validates a requested output format.
func ParseTarget(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, ".")))
	switch s {
	case "jpeg":
		s = "jpg"
	case "markdown":
		s = "md"
	case "word":
		s = "docx"
	case "excel":
		s = "xlsx"
	case "text":
		s = "txt"
	}
	f := Format(s)
	if _, ok := mimeTypes[f]; ok && f != FormatXLS && f != FormatHTML {
		return f, true
	}
	return FormatUnknown, false
}
