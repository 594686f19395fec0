package language

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var languagesYAML []byte

type Language struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type tableFile struct {
	Default   string     `yaml:"default"`
	Languages []Language `yaml:"languages"`
}

// Table is a read-only lookup of supported target languages.
type Table struct {
	defaultCode string
	byCode      map[string]Language
	byFold      map[string]string
	codes       []string
}

var builtin = mustLoad(languagesYAML)

// Default returns the table compiled into the binary.
func Default() *Table {
	return builtin
}

func mustLoad(data []byte) *Table {
	t, err := Load(data)
	if err != nil {
		panic(fmt.Sprintf("language: invalid embedded table: %v", err))
	}
	return t
}

// Load builds a table from YAML. The returned table is never mutated.
func Load(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Languages) == 0 {
		return nil, fmt.Errorf("no languages defined")
	}

	t := &Table{
		defaultCode: f.Default,
		byCode:      make(map[string]Language, len(f.Languages)),
		byFold:      make(map[string]string, len(f.Languages)),
	}
	for _, l := range f.Languages {
		if l.Code == "" || l.Name == "" {
			return nil, fmt.Errorf("language entry with empty code or name")
		}
		t.byCode[l.Code] = l
		t.byFold[strings.ToLower(l.Code)] = l.Code
		t.codes = append(t.codes, l.Code)
	}
	if _, ok := t.byCode[t.defaultCode]; !ok {
		return nil, fmt.Errorf("default language %q not in table", t.defaultCode)
	}
	sort.Strings(t.codes)
	return t, nil
}

// Canonical returns the table's spelling of code ("en-gb" -> "en-GB").
func (t *Table) Canonical(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if _, ok := t.byCode[code]; ok {
		return code, true
	}
	c, ok := t.byFold[strings.ToLower(code)]
	return c, ok
}

func (t *Table) Supported(code string) bool {
	_, ok := t.Canonical(code)
	return ok
}

// Full is the display name used inside prompts. Unknown codes are returned as is.
func (t *Table) Full(code string) string {
	if code == "" {
		return "English"
	}
	if c, ok := t.Canonical(code); ok {
		return t.byCode[c].Name
	}
	return code
}

// Short drops the region qualifier: "French (Canada)" -> "French".
func (t *Table) Short(code string) string {
	full := t.Full(code)
	if i := strings.Index(full, " ("); i > 0 {
		return full[:i]
	}
	return full
}

func (t *Table) DefaultCode() string {
	return t.defaultCode
}

// IsDefault reports whether code is the default language. Empty counts as default.
func (t *Table) IsDefault(code string) bool {
	if code == "" {
		return true
	}
	c, ok := t.Canonical(code)
	return ok && c == t.defaultCode
}

func (t *Table) Codes() []string {
	out := make([]string, len(t.codes))
	copy(out, t.codes)
	return out
}
