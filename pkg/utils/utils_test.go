package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitText(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"hello"}, SplitText("  hello  ", 1000, 200))
	})

	t.Run("empty text yields nothing", func(t *testing.T) {
		assert.Empty(t, SplitText("", 1000, 200))
	})

	t.Run("chunks respect the window", func(t *testing.T) {
		text := strings.Repeat("abcdefghij", 250) // 2500 runes, no break points
		chunks := SplitText(text, 1000, 200)

		assert.Len(t, chunks, 3)
		for _, c := range chunks {
			assert.LessOrEqual(t, len([]rune(c)), 1000)
		}
		// hard boundary plus overlap
		assert.Equal(t, text[800:1000], chunks[1][:200])
	})

	t.Run("prefers newline in the trailing window", func(t *testing.T) {
		text := strings.Repeat("a", 850) + "\n" + strings.Repeat("b", 400)
		chunks := SplitText(text, 1000, 200)

		assert.Equal(t, strings.Repeat("a", 850), chunks[0])
	})

	t.Run("falls back to sentence end", func(t *testing.T) {
		text := strings.Repeat("a", 900) + ". " + strings.Repeat("b", 400)
		chunks := SplitText(text, 1000, 200)

		assert.True(t, strings.HasSuffix(chunks[0], "."))
		assert.Len(t, []rune(chunks[0]), 901)
	})

	t.Run("later sentence end beats earlier newline", func(t *testing.T) {
		// newline at 750, ". " at 950
		text := strings.Repeat("a", 750) + "\n" + strings.Repeat("b", 199) + ". " + strings.Repeat("c", 500)
		chunks := SplitText(text, 1000, 200)

		assert.Len(t, []rune(chunks[0]), 951)
		assert.True(t, strings.HasSuffix(chunks[0], "b."))
	})

	t.Run("later newline beats earlier sentence end", func(t *testing.T) {
		text := strings.Repeat("a", 750) + ". " + strings.Repeat("b", 198) + "\n" + strings.Repeat("c", 500)
		chunks := SplitText(text, 1000, 200)

		assert.Len(t, []rune(chunks[0]), 950)
		assert.True(t, strings.HasSuffix(chunks[0], "b"))
	})

	t.Run("ignores breaks in the first 70 percent", func(t *testing.T) {
		text := strings.Repeat("a", 100) + "\n" + strings.Repeat("b", 1500)
		chunks := SplitText(text, 1000, 200)

		assert.Len(t, []rune(chunks[0]), 1000)
	})

	t.Run("always progresses", func(t *testing.T) {
		text := strings.Repeat("x", 5000)
		chunks := SplitText(text, 10, 9)
		assert.NotEmpty(t, chunks)
	})
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name, src, suffix, ext, want string
	}{
		{"no suffix", "report.docx", "", "pdf", "report.pdf"},
		{"language suffix", "report.docx", "Spanish", "pdf", "report (Spanish).pdf"},
		{"dotted base", "q1.final.xlsx", "French", "csv", "q1.final (French).csv"},
		{"path stripped", "../../etc/passwd", "", "txt", "passwd.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputName(tt.src, tt.suffix, tt.ext))
		})
	}
}

func TestDeduper(t *testing.T) {
	d := NewDeduper()
	assert.Equal(t, "a.pdf", d.Unique("a.pdf"))
	assert.Equal(t, "a-2.pdf", d.Unique("a.pdf"))
	assert.Equal(t, "A-3.pdf", d.Unique("A.pdf"))
	assert.Equal(t, "b.pdf", d.Unique("b.pdf"))
}

func TestContentDisposition(t *testing.T) {
	got := ContentDisposition("report (Español).pdf")
	assert.Contains(t, got, `filename="report (Espa_ol).pdf"`)
	assert.Contains(t, got, "filename*=UTF-8''report%20%28Espa%C3%B1ol%29.pdf")
}

func TestHeaderEscape(t *testing.T) {
	assert.Equal(t, "Converted%202%20file%28s%29%20to%20PDF.", HeaderEscape("Converted 2 file(s) to PDF."))
	assert.Equal(t, "caf%C3%A9%2Bbar", HeaderEscape("café+bar"))
}
