package codec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"

	"doccoder-be/pkg/content"
	"doccoder-be/pkg/utils"

	"github.com/xuri/excelize/v2"
)

// readXlsx serializes every worksheet as "Sheet N: <name>\n\n<csv-body>\n\n".
func readXlsx(data []byte) (*content.ExtractedContent, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	defer f.Close()

	var (
		b      strings.Builder
		tables []content.TableData
	)
	for i, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", ErrCorruptFile, name, err)
		}

		body, err := csvBody(rows)
		if err != nil {
			return nil, err
		}
		writeSheetBlock(&b, i+1, name, body)

		if t, ok := tableFromRows(rows); ok {
			tables = append(tables, t)
		}
	}

	return &content.ExtractedContent{
		Text:     b.String(),
		Tables:   tables,
		Metadata: content.Metadata{PageCount: len(f.GetSheetList())},
	}, nil
}

func readCSV(name string, data []byte) (*content.ExtractedContent, error) {
	body := decodeText(data)

	r := csv.NewReader(strings.NewReader(body))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}

	var b strings.Builder
	writeSheetBlock(&b, 1, utils.StripExt(name), strings.TrimRight(body, "\r\n"))

	out := &content.ExtractedContent{Text: b.String()}
	if t, ok := tableFromRows(rows); ok {
		out.Tables = []content.TableData{t}
	}
	return out, nil
}

func writeSheetBlock(b *strings.Builder, n int, name, body string) {
	fmt.Fprintf(b, "Sheet %d: %s\n\n%s\n\n", n, name, body)
}

func csvBody(rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// tableFromRows uses the first row as header, widened to the widest row.
func tableFromRows(rows [][]string) (content.TableData, bool) {
	if len(rows) < 2 {
		return content.TableData{}, false
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	if width == 0 {
		return content.TableData{}, false
	}
	headers := make([]string, width)
	copy(headers, rows[0])

	t := content.TableData{Headers: headers, Rows: rows[1:]}
	t.Normalize()
	return t, true
}

var sheetHeaderRe = regexp.MustCompile(`(?m)^Sheet \d+: (.*)$`)

// ParseSheetBlocks recovers sheets from canonical spreadsheet text. Text that
// carries no sheet headers yields nil.
func ParseSheetBlocks(text string) []content.Sheet {
	locs := sheetHeaderRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	var sheets []content.Sheet
	for i, loc := range locs {
		name := strings.TrimSpace(text[loc[2]:loc[3]])
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := strings.TrimSpace(text[loc[1]:end])

		r := csv.NewReader(strings.NewReader(body))
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		rows, err := r.ReadAll()
		if err != nil || len(rows) == 0 {
			sheets = append(sheets, content.Sheet{Name: name, Headers: []string{"Content"}, Rows: linesAsRows(body)})
			continue
		}
		sheets = append(sheets, content.Sheet{Name: name, Headers: rows[0], Rows: rows[1:]})
	}
	return sheets
}

func linesAsRows(text string) [][]string {
	var rows [][]string
	for _, l := range NonEmptyLines(text) {
		rows = append(rows, []string{l})
	}
	return rows
}

// NonEmptyLines splits text and drops blank lines.
func NonEmptyLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
