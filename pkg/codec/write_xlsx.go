package codec

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"doccoder-be/pkg/content"

	"github.com/xuri/excelize/v2"
)

type xlsxWriter struct {
	mode SectionMode
}

func (xlsxWriter) Format() Format { return FormatXLSX }

type sheetSpec struct {
	name string
	rows [][]string
	// header marks the first row bold
	header bool
}

func (w xlsxWriter) Write(_ context.Context, in WriteInput) (*content.ConversionResult, error) {
	specs := w.plan(in)
	if len(specs) == 0 {
		return nil, ErrEmptyContent
	}

	f := excelize.NewFile()
	defer f.Close()

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	names := newSheetNamer()
	for i, spec := range specs {
		name := names.name(spec.name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}

		for r, row := range spec.rows {
			if len(row) == 0 {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return nil, err
			}
			values := make([]interface{}, len(row))
			for c, v := range row {
				values[c] = v
			}
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return nil, err
			}
		}

		if spec.header && len(spec.rows) > 0 && len(spec.rows[0]) > 0 {
			last, err := excelize.CoordinatesToCellName(len(spec.rows[0]), 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(name, "A1", last, boldStyle); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return result(in, FormatXLSX, buf.Bytes()), nil
}

func (w xlsxWriter) plan(in WriteInput) []sheetSpec {
	switch {
	case in.Provenance != nil:
		rows := [][]string{
			{"Document Name", in.displayName()},
			{"Total Pages", strconv.Itoa(in.Provenance.PageCount)},
			{"Conversion Date", in.Provenance.Date()},
			{},
			{"Line", "Content"},
		}
		for i, l := range NonEmptyLines(in.Text) {
			rows = append(rows, []string{strconv.Itoa(i + 1), l})
		}
		return []sheetSpec{{name: "PDF Content", rows: rows}}

	case len(in.Structured) > 0:
		return structuredSheets(in.Structured)

	case in.Pipeline != nil && len(in.Pipeline.Structure.Sheets) > 0:
		var specs []sheetSpec
		for _, s := range in.Pipeline.Structure.Sheets {
			specs = append(specs, sheetSpec{name: s.Name, rows: withHeader(s.Headers, s.Rows), header: true})
		}
		return specs

	case in.hasPipeline():
		return w.sectionSheets(in.Pipeline.Structure.Sections)
	}

	if sheets := ParseSheetBlocks(in.Text); len(sheets) > 0 {
		var specs []sheetSpec
		for _, s := range sheets {
			specs = append(specs, sheetSpec{name: s.Name, rows: withHeader(s.Headers, s.Rows), header: true})
		}
		return specs
	}
	rows := [][]string{{"Content"}}
	rows = append(rows, linesAsRows(in.Text)...)
	return []sheetSpec{{name: "Content", rows: rows, header: true}}
}

// structuredSheets lays out translated records. Records whose content parses as
// CSV with at least two columns also get a sheet of their own.
func structuredSheets(records []content.StructuredData) []sheetSpec {
	rows := [][]string{{"Title", "Content", "Language"}}
	var extra []sheetSpec
	for _, r := range records {
		rows = append(rows, []string{r.Title, r.Content, r.Language})
		if grid, ok := csvGrid(r.Content); ok {
			extra = append(extra, sheetSpec{name: r.Title, rows: grid, header: true})
		}
	}
	return append([]sheetSpec{{name: "Translated Data", rows: rows, header: true}}, extra...)
}

func csvGrid(text string) ([][]string, bool) {
	if !strings.Contains(text, ",") || !strings.Contains(text, "\n") {
		return nil, false
	}
	r := csv.NewReader(strings.NewReader(strings.TrimSpace(text)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil || len(rows) < 2 || len(rows[0]) < 2 {
		return nil, false
	}
	return rows, true
}

func (w xlsxWriter) sectionSheets(sections []content.Section) []sheetSpec {
	if w.mode == SectionsSheetPerTable {
		main := sheetSpec{name: "Content", rows: [][]string{{"Section", "Content"}}, header: true}
		var tables []sheetSpec
		for _, s := range sections {
			main.rows = append(main.rows, []string{s.Heading, strings.Join(s.Paragraphs, "\n\n")})
			for i, t := range s.Tables {
				heading := strings.TrimSpace(s.Heading)
				if heading == "" {
					heading = "Table"
				}
				name := fmt.Sprintf("%s T%d", heading, i+1)
				tables = append(tables, sheetSpec{name: name, rows: withHeader(t.Headers, t.Rows), header: true})
			}
		}
		return append([]sheetSpec{main}, tables...)
	}

	// flatten: one sheet, section headings as marker rows, tables inline
	var rows [][]string
	for _, s := range sections {
		if s.Heading != "" {
			rows = append(rows, []string{s.Heading})
		}
		for _, p := range s.Paragraphs {
			rows = append(rows, []string{p})
		}
		for _, t := range s.Tables {
			rows = append(rows, withHeader(t.Headers, t.Rows)...)
		}
		rows = append(rows, []string{})
	}
	return []sheetSpec{{name: "Content", rows: rows}}
}

func withHeader(headers []string, rows [][]string) [][]string {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, headers)
	return append(out, rows...)
}

// sheetNamer produces valid, unique worksheet names.
type sheetNamer struct {
	seen map[string]int
}

func newSheetNamer() *sheetNamer {
	return &sheetNamer{seen: make(map[string]int)}
}

const maxSheetName = 31

func (n *sheetNamer) name(raw string) string {
	base := SheetName(raw)
	key := strings.ToLower(base)
	n.seen[key]++
	if n.seen[key] == 1 {
		return base
	}
	for i := n.seen[key]; ; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		runes := []rune(base)
		if len(runes)+len(suffix) > maxSheetName {
			runes = runes[:maxSheetName-len(suffix)]
		}
		candidate := string(runes) + suffix
		ck := strings.ToLower(candidate)
		if n.seen[ck] == 0 {
			n.seen[ck] = 1
			return candidate
		}
	}
}

// SheetName strips characters Excel rejects and truncates to 31 runes.
func SheetName(raw string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return -1
		}
		return r
	}, raw)
	clean = strings.Trim(strings.TrimSpace(clean), "'")
	if clean == "" {
		clean = "Sheet"
	}
	if runes := []rune(clean); len(runes) > maxSheetName {
		clean = string(runes[:maxSheetName])
	}
	return clean
}
