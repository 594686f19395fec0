package codec

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"testing"
	"time"

	"doccoder-be/pkg/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

func newTestRegistry() *Registry {
	return NewRegistry(RegistryConfig{Now: fixedNow})
}

func zipEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = string(b)
	}
	return out
}

func samplePipeline() *content.PipelineOutput {
	return &content.PipelineOutput{
		TargetLanguage: "fr",
		Structure: content.Structure{Sections: []content.Section{{
			Heading:    "Résumé",
			Paragraphs: []string{"Premier paragraphe.", "Second paragraphe."},
			Tables: []content.TableData{{
				Headers: []string{"A", "B", "C"},
				Rows:    [][]string{{"1"}, {"1", "2", "3", "4"}},
			}},
		}}},
	}
}

func TestRegistry_Errors(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	_, err := r.Write(ctx, FormatHTML, WriteInput{Name: "a", Text: "x"})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = r.Write(ctx, FormatTXT, WriteInput{Name: "a", Text: "   "})
	assert.True(t, errors.Is(err, ErrEmptyContent))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.Write(cancelled, FormatTXT, WriteInput{Name: "a", Text: "x"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRegistry_Formats(t *testing.T) {
	r := newTestRegistry()
	for _, f := range []Format{FormatPDF, FormatDOCX, FormatXLSX, FormatCSV, FormatTXT, FormatMD, FormatJSON,
		FormatXML, FormatRTF, FormatPPTX, FormatPNG, FormatJPG, FormatImages} {
		assert.True(t, r.Has(f), "missing writer for %s", f)
	}
	assert.False(t, r.Has(FormatHTML))
}

func TestWriters_Signatures(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	in := WriteInput{Name: "report", SourceName: "report.pdf", Text: "Line one\nLine two", Provenance: &Provenance{
		SourceName: "report.pdf", PageCount: 2, ConvertedAt: fixedNow(),
	}}

	tests := []struct {
		format Format
		parts  []string
	}{
		{format: FormatDOCX, parts: []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"}},
		{format: FormatXLSX, parts: []string{"[Content_Types].xml", "xl/workbook.xml"}},
		{format: FormatPPTX, parts: []string{"[Content_Types].xml", "_rels/.rels", "ppt/presentation.xml",
			"ppt/_rels/presentation.xml.rels", "ppt/slides/slide1.xml", "ppt/slides/_rels/slide1.xml.rels"}},
		{format: FormatImages, parts: []string{"report-page-1.png", "report-page-2.png", "README.txt"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			res, err := r.Write(ctx, tt.format, in)
			require.NoError(t, err)
			assert.Equal(t, "PK", string(res.Bytes[:2]))
			entries := zipEntries(t, res.Bytes)
			for _, p := range tt.parts {
				assert.Contains(t, entries, p)
			}
		})
	}

	t.Run("pdf", func(t *testing.T) {
		res, err := r.Write(ctx, FormatPDF, in)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(res.Bytes, []byte("%PDF")))
		assert.Equal(t, "report.pdf", res.SuggestedName)
		assert.Equal(t, "application/pdf", res.MimeType)
	})
}

func TestTextAndMarkdown_RoundTrip(t *testing.T) {
	r := newTestRegistry()
	text := "Héllo wörld\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"

	for _, f := range []Format{FormatTXT, FormatMD} {
		res, err := r.Write(context.Background(), f, WriteInput{Name: "notes", Text: text})
		require.NoError(t, err)
		assert.Equal(t, text, string(res.Bytes))
		assert.Equal(t, "notes."+string(f), res.SuggestedName)
	}
}

func TestTextWriter_Structured(t *testing.T) {
	res, err := newTestRegistry().Write(context.Background(), FormatTXT, WriteInput{
		Name:       "t",
		Structured: []content.StructuredData{{Title: "One", Content: "uno", Language: "es"}},
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(res.Bytes, utf8BOM))
	assert.Contains(t, string(res.Bytes), "Title: One\nLanguage: es\n\nuno\n\n"+strings.Repeat("=", 50))
}

func TestMarkdownWriter_Provenance(t *testing.T) {
	res, err := newTestRegistry().Write(context.Background(), FormatMD, WriteInput{
		Name:       "scan",
		Text:       "first\n\n\nsecond",
		Provenance: &Provenance{SourceName: "scan.pdf", PageCount: 4, ConvertedAt: fixedNow()},
	})

	require.NoError(t, err)
	out := string(res.Bytes)
	assert.True(t, strings.HasPrefix(out, "# scan.pdf\n\n## Document Information\n\n"))
	assert.Contains(t, out, "- **Total Pages**: 4\n")
	assert.Contains(t, out, "- **Conversion Date**: 2025-03-01T12:00:00.000Z\n")
	assert.True(t, strings.HasSuffix(out, "## Content\n\nfirst\n\nsecond\n\n"))
}

func TestDocxWriter_TableCellsMatchHeaders(t *testing.T) {
	res, err := newTestRegistry().Write(context.Background(), FormatDOCX, WriteInput{Name: "t", Pipeline: samplePipeline()})
	require.NoError(t, err)

	doc := zipEntries(t, res.Bytes)["word/document.xml"]
	assert.Equal(t, 3, strings.Count(doc, "<w:tr>"))
	assert.Equal(t, 9, strings.Count(doc, "<w:tc>"))
	assert.Contains(t, doc, `<w:pStyle w:val="Heading1"/>`)
	assert.Contains(t, doc, "Résumé")
}

func TestDocxWriter_ReadBack(t *testing.T) {
	res, err := newTestRegistry().Write(context.Background(), FormatDOCX, WriteInput{Name: "t", Text: "Hello & welcome\n\nSecond <para>"})
	require.NoError(t, err)

	out, err := readDocx(res.Bytes)
	require.NoError(t, err)
	assert.Equal(t, "Hello & welcome\nSecond <para>\n", out.Text)
}

func TestXlsxWriter_Sheets(t *testing.T) {
	p := &content.PipelineOutput{Structure: content.Structure{Sheets: []content.Sheet{
		{Name: "Q1/Report", Headers: []string{"k", "v"}, Rows: [][]string{{"a", "1"}}},
		{Name: "q1report", Headers: []string{"k"}, Rows: [][]string{{"b"}}},
	}}}

	res, err := newTestRegistry().Write(context.Background(), FormatXLSX, WriteInput{Name: "book", Pipeline: p})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(res.Bytes))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Q1Report", "q1report (2)"}, f.GetSheetList())
	rows, err := f.GetRows("Q1Report")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"k", "v"}, {"a", "1"}}, rows)
}

func TestXlsxWriter_SectionModes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		mode   SectionMode
		sheets []string
	}{
		{mode: SectionsFlatten, sheets: []string{"Content"}},
		{mode: SectionsSheetPerTable, sheets: []string{"Content", "Résumé T1"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r := NewRegistry(RegistryConfig{SectionMode: tt.mode, Now: fixedNow})
			res, err := r.Write(ctx, FormatXLSX, WriteInput{Name: "s", Pipeline: samplePipeline()})
			require.NoError(t, err)

			f, err := excelize.OpenReader(bytes.NewReader(res.Bytes))
			require.NoError(t, err)
			defer f.Close()
			assert.Equal(t, tt.sheets, f.GetSheetList())
		})
	}
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "ab", SheetName("a[]:*?/\\b"))
	assert.Equal(t, "Sheet", SheetName("  "))
	assert.Len(t, []rune(SheetName(strings.Repeat("x", 40))), 31)
}

func TestJSONWriter_Provenance(t *testing.T) {
	res, err := newTestRegistry().Write(context.Background(), FormatJSON, WriteInput{
		Name:       "r",
		Text:       "a\n\nb",
		Provenance: &Provenance{SourceName: "r.pdf", PageCount: 2, ConvertedAt: fixedNow()},
	})
	require.NoError(t, err)

	var doc jsonProvenanceDoc
	require.NoError(t, json.Unmarshal(res.Bytes, &doc))
	assert.Equal(t, "r.pdf", doc.Document.Filename)
	assert.Equal(t, 2, doc.Document.TotalPages)
	assert.Equal(t, []string{"a", "b"}, doc.Document.Content)
	assert.Equal(t, "PDF", doc.Document.Metadata.Source)
}

func TestCSVWriter(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	t.Run("structured has bom", func(t *testing.T) {
		res, err := r.Write(ctx, FormatCSV, WriteInput{Name: "c", Structured: []content.StructuredData{{Title: "T", Content: "x, y", Language: "de"}}})
		require.NoError(t, err)
		assert.Equal(t, string(utf8BOM)+"Title,Content,Language\nT,\"x, y\",de\n", string(res.Bytes))
	})

	t.Run("sheet text keeps first sheet", func(t *testing.T) {
		res, err := r.Write(ctx, FormatCSV, WriteInput{Name: "c", Text: "Sheet 1: S\n\na,b\n1,2\n\nSheet 2: T\n\nz\n\n"})
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", string(res.Bytes))
	})
}

func TestRTFEscape(t *testing.T) {
	assert.Equal(t, `a\{b\}\\\u233?`, rtfEscape(`a{b}\é`))
}

func TestXMLWriter_Escapes(t *testing.T) {
	res, err := newTestRegistry().Write(context.Background(), FormatXML, WriteInput{Name: "x", Text: "a < b & c"})
	require.NoError(t, err)
	assert.Contains(t, string(res.Bytes), `<line index="1">a &lt; b &amp; c</line>`)
}

func TestLabelImages(t *testing.T) {
	r := newTestRegistry()
	for _, f := range []Format{FormatPNG, FormatJPG} {
		res, err := r.Write(context.Background(), f, WriteInput{Name: "p", Text: "x", Provenance: &Provenance{SourceName: "p.pdf", PageCount: 3}})
		require.NoError(t, err)
		cfg, kind, err := image.DecodeConfig(bytes.NewReader(res.Bytes))
		require.NoError(t, err)
		assert.Equal(t, 800, cfg.Width)
		assert.Equal(t, 600, cfg.Height)
		if f == FormatPNG {
			assert.Equal(t, "png", kind)
		} else {
			assert.Equal(t, "jpeg", kind)
		}
		assert.True(t, res.LowFidelity)
	}
}
