package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mime     string
		data     []byte
		want     Format
	}{
		{name: "extension wins", filename: "Report.PDF", mime: "text/plain", want: FormatPDF},
		{name: "code extension", filename: "main.go", want: FormatCode},
		{name: "yaml is code", filename: "values.yml", want: FormatCode},
		{name: "declared mime", filename: "upload", mime: "text/csv; charset=utf-8", want: FormatCSV},
		{name: "image mime", filename: "upload", mime: "image/webp", want: FormatImage},
		{name: "sniffed pdf", filename: "upload", data: []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), want: FormatPDF},
		{name: "heic extension", filename: "photo.heic", want: FormatImage},
		{name: "unknown", filename: "archive.xyz", want: FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.filename, tt.mime, tt.data))
		})
	}
}

func TestIsPDF(t *testing.T) {
	pdfBytes := []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	tests := []struct {
		name     string
		filename string
		mime     string
		data     []byte
		want     bool
	}{
		{name: "declared mime", filename: "a.pdf", mime: "application/pdf", want: true},
		{name: "sniffed mime", filename: "a.pdf", data: pdfBytes, want: true},
		{name: "pdf extension but text body", filename: "a.pdf", mime: "text/plain", data: []byte("hello there"), want: false},
		{name: "pdf mime but wrong extension", filename: "a.txt", mime: "application/pdf", data: pdfBytes, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPDF(tt.filename, tt.mime, tt.data))
		})
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in     string
		want   Format
		wantOK bool
	}{
		{in: "pdf", want: FormatPDF, wantOK: true},
		{in: "JPEG", want: FormatJPG, wantOK: true},
		{in: ".md", want: FormatMD, wantOK: true},
		{in: "markdown", want: FormatMD, wantOK: true},
		{in: "word", want: FormatDOCX, wantOK: true},
		{in: "images", want: FormatImages, wantOK: true},
		{in: "xls", want: FormatUnknown, wantOK: false},
		{in: "html", want: FormatUnknown, wantOK: false},
		{in: "exe", want: FormatUnknown, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTarget(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "application/pdf", MimeType(FormatPDF))
	assert.Equal(t, "application/zip", MimeType(FormatImages))
	assert.Equal(t, "application/octet-stream", MimeType(Format("nope")))
}
