package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text untouched", in: "hello world", want: "hello world"},
		{name: "keeps whitespace controls", in: "a\tb\nc\r\n", want: "a\tb\nc\r\n"},
		{name: "strips C0 and C1 controls", in: "a\x00b\x07c\u0085d", want: "abcd"},
		{name: "drops invalid utf8", in: "ok\xff\xfeok", want: "okok"},
		{name: "drops replacement rune", in: "x\uFFFDy", want: "xy"},
		{name: "drops inner BOM", in: "\uFEFFtitle", want: "title"},
		{name: "normalizes to NFC", in: "e\u0301", want: "\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestNormalizeTables(t *testing.T) {
	tables := []TableData{
		{Headers: nil, Rows: [][]string{{"orphan"}}},
		{Headers: []string{"A", "B", "C"}, Rows: [][]string{{"1"}, {"1", "2", "3", "4"}}},
	}

	out := NormalizeTables(tables)

	assert.Len(t, out, 1)
	for _, row := range out[0].Rows {
		assert.Len(t, row, 3)
	}
	assert.Equal(t, []string{"1", "", ""}, out[0].Rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, out[0].Rows[1])
}

func TestIsSpreadsheet(t *testing.T) {
	assert.True(t, (&PipelineOutput{OutputFormat: "xlsx"}).IsSpreadsheet())
	assert.True(t, (&PipelineOutput{OutputFormat: "csv"}).IsSpreadsheet())
	assert.False(t, (&PipelineOutput{OutputFormat: "docx"}).IsSpreadsheet())
}
