package codec

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"doccoder-be/pkg/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeWidth measures every rune as one unit.
func runeWidth(s string) float64 { return float64(len([]rune(s))) }

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{name: "greedy fill", text: "aa bb cc", width: 5, want: []string{"aa bb", "cc"}},
		{name: "keeps blank lines", text: "a\n\nb", width: 10, want: []string{"a", "", "b"}},
		{name: "splits long words", text: "abcdefgh", width: 3, want: []string{"abc", "def", "gh"}},
		{name: "long word after short", text: "xy abcdef", width: 4, want: []string{"xy", "abcd", "ef"}},
		{name: "crlf", text: "one\r\ntwo", width: 10, want: []string{"one", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width, runeWidth))
		})
	}
}

func TestPlanTable(t *testing.T) {
	plan := planTable([]string{"A", "B", "C"}, [][]string{{"1"}, {"1", "2", "3", "4"}, {}}, 300)

	assert.Equal(t, 100.0, plan.colWidth)
	require.Len(t, plan.rows, 3)
	for _, r := range plan.rows {
		assert.Len(t, r, 3)
	}
	assert.Equal(t, []string{"1", "", ""}, plan.rows[0])

	assert.Empty(t, planTable(nil, [][]string{{"x"}}, 300).rows)
}

func TestFitCell(t *testing.T) {
	assert.Equal(t, "short", fitCell("short", 8, runeWidth))
	assert.Equal(t, "hello...", fitCell("hello world", 8, runeWidth))
}

func TestFitToPage(t *testing.T) {
	w, h := fitToPage(200, 100, 100, 100)
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 50.0, h)
}

func TestStyleFor(t *testing.T) {
	assert.Equal(t, bodyStyle{size: 11.5, gap: 4}, styleFor(ThemeProfessional, false))
	assert.Equal(t, bodyStyle{size: 11, gap: 6}, styleFor(ThemePhoto, false))
	assert.Equal(t, bodyStyle{size: 11, gap: 4}, styleFor(ThemeMinimal, false))
	assert.Equal(t, bodyStyle{size: 9.5, gap: 3}, styleFor(ThemeProfessional, true))
}

func TestNewGeometry(t *testing.T) {
	g := newGeometry(true, 0)
	assert.Equal(t, a4Height, g.width)
	assert.Equal(t, a4Width, g.height)
	assert.Equal(t, defaultMargin, g.margin)
}

func TestCP1252Safe(t *testing.T) {
	assert.True(t, cp1252Safe("Café – “quoted”"))
	assert.False(t, cp1252Safe("日本語"))
}

func TestPDFWriter(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	t.Run("text with cover", func(t *testing.T) {
		res, err := r.Write(ctx, FormatPDF, WriteInput{Name: "memo", SourceName: "memo.txt", Text: "Hello world",
			PDF: PDFOptions{CoverLine: "Quarterly memo", Theme: ThemeProfessional}})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(res.Bytes, []byte("%PDF")))
		n, err := PageCount(res.Bytes)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("unicode text without font gives error page", func(t *testing.T) {
		res, err := r.Write(ctx, FormatPDF, WriteInput{Name: "jp", Text: "日本語のテキスト"})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(res.Bytes, []byte("%PDF")))
	})

	t.Run("structured sections paginate", func(t *testing.T) {
		res, err := r.Write(ctx, FormatPDF, WriteInput{Name: "s", Pipeline: &content.PipelineOutput{
			Structure: content.Structure{Sections: []content.Section{{
				Heading:    "Resume",
				Paragraphs: []string{"First.", "Second."},
				Tables:     []content.TableData{{Headers: []string{"A", "B"}, Rows: [][]string{{"1", "2"}}}},
			}}},
		}})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(res.Bytes, []byte("%PDF")))
	})

	t.Run("heic is unsupported", func(t *testing.T) {
		_, err := r.Write(ctx, FormatPDF, WriteInput{Name: "i", PDF: PDFOptions{Image: &content.ImagePayload{MimeType: "image/heic", Data: []byte("ftypheic")}}})
		assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	})

	t.Run("gif image is converted", func(t *testing.T) {
		frame := image.NewPaletted(image.Rect(0, 0, 10, 10), color.Palette{color.White, color.Black})
		var buf bytes.Buffer
		require.NoError(t, gif.Encode(&buf, frame, nil))

		res, err := r.Write(ctx, FormatPDF, WriteInput{Name: "i", PDF: PDFOptions{Image: &content.ImagePayload{MimeType: "image/gif", Data: buf.Bytes()}}})
		require.NoError(t, err)
		n, err := PageCount(res.Bytes)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("broken gif is corrupt", func(t *testing.T) {
		_, err := r.Write(ctx, FormatPDF, WriteInput{Name: "i", PDF: PDFOptions{Image: &content.ImagePayload{MimeType: "image/gif", Data: []byte("GIF89a")}}})
		assert.True(t, errors.Is(err, ErrCorruptFile))
	})

	t.Run("png image", func(t *testing.T) {
		png, err := encodeImage(renderLabel([]string{"x"}), FormatPNG)
		require.NoError(t, err)
		res, err := r.Write(ctx, FormatPDF, WriteInput{Name: "i", PDF: PDFOptions{Image: &content.ImagePayload{MimeType: "image/png", Data: png}}})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(res.Bytes, []byte("%PDF")))
	})

	t.Run("source pdf passthrough", func(t *testing.T) {
		src, err := r.Write(ctx, FormatPDF, WriteInput{Name: "src", Text: "original body"})
		require.NoError(t, err)

		res, err := r.Write(ctx, FormatPDF, WriteInput{Name: "src", PDF: PDFOptions{SourcePDF: src.Bytes}})
		require.NoError(t, err)
		assert.Equal(t, src.Bytes, res.Bytes)
	})

	t.Run("source pdf with cover is merged", func(t *testing.T) {
		src, err := r.Write(ctx, FormatPDF, WriteInput{Name: "src", Text: "original body"})
		require.NoError(t, err)

		res, err := r.Write(ctx, FormatPDF, WriteInput{Name: "src", SourceName: "src.pdf", PDF: PDFOptions{SourcePDF: src.Bytes, CoverLine: "A cover"}})
		require.NoError(t, err)
		n, err := PageCount(res.Bytes)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("unicode cover without font keeps a cover page", func(t *testing.T) {
		src, err := r.Write(ctx, FormatPDF, WriteInput{Name: "src", Text: "original body"})
		require.NoError(t, err)

		res, err := r.Write(ctx, FormatPDF, WriteInput{Name: "src", SourceName: "src.pdf", PDF: PDFOptions{SourcePDF: src.Bytes, CoverLine: "報告書"}})
		require.NoError(t, err)
		assert.NotEqual(t, src.Bytes, res.Bytes)
		n, err := PageCount(res.Bytes)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestPdfcpuExtractor(t *testing.T) {
	src, err := newTestRegistry().Write(context.Background(), FormatPDF, WriteInput{Name: "invoice", Text: "Invoice total 42"})
	require.NoError(t, err)

	out, err := NewPdfcpuExtractor().Extract(context.Background(), src.Bytes, "invoice.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, out.Metadata.PageCount)
	require.Len(t, out.Pages, 1)
	assert.Contains(t, out.Text, "Invoice")

	_, err = NewPdfcpuExtractor().Extract(context.Background(), []byte("%PDF-1.4 broken"), "broken.pdf")
	assert.True(t, errors.Is(err, ErrCorruptFile))
}
