package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	tbl := Default()

	assert.Len(t, tbl.Codes(), 28)
	assert.Equal(t, "en", tbl.DefaultCode())

	tests := []struct {
		code      string
		supported bool
		full      string
		short     string
	}{
		{code: "es", supported: true, full: "Spanish", short: "Spanish"},
		{code: "fr-FR", supported: true, full: "French (France)", short: "French"},
		{code: "en-gb", supported: true, full: "English (United Kingdom)", short: "English"},
		{code: "zh", supported: true, full: "Chinese (Simplified)", short: "Chinese"},
		{code: "xx", supported: false, full: "xx", short: "xx"},
		{code: "", supported: false, full: "English", short: "English"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.supported, tbl.Supported(tt.code))
			assert.Equal(t, tt.full, tbl.Full(tt.code))
			assert.Equal(t, tt.short, tbl.Short(tt.code))
		})
	}
}

func TestIsDefault(t *testing.T) {
	tbl := Default()
	assert.True(t, tbl.IsDefault("en"))
	assert.True(t, tbl.IsDefault(""))
	assert.False(t, tbl.IsDefault("en-GB"))
	assert.False(t, tbl.IsDefault("es"))
}

func TestCodesIsACopy(t *testing.T) {
	tbl := Default()
	codes := tbl.Codes()
	codes[0] = "mutated"
	assert.NotEqual(t, "mutated", tbl.Codes()[0])
}

func TestLoadRejectsUnknownDefault(t *testing.T) {
	_, err := Load([]byte("default: xx\nlanguages:\n  - {code: en, name: English}\n"))
	require.Error(t, err)
}
