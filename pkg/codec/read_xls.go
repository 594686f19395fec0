package codec

import (
	"bytes"
	"fmt"
	"strings"

	"doccoder-be/pkg/content"

	"github.com/extrame/xls"
)

// readXls reads legacy BIFF workbooks into the same sheet blocks as readXlsx.
func readXls(data []byte) (out *content.ExtractedContent, err error) {
	// the BIFF parser panics on some truncated files
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: xls: %v", ErrCorruptFile, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrCorruptFile)
	}

	var (
		b      strings.Builder
		tables []content.TableData
	)
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		rows := xlsRows(sheet)

		body, err := csvBody(rows)
		if err != nil {
			return nil, err
		}
		writeSheetBlock(&b, i+1, sheet.Name, body)

		if t, ok := tableFromRows(rows); ok {
			tables = append(tables, t)
		}
	}

	return &content.ExtractedContent{
		Text:     b.String(),
		Tables:   tables,
		Metadata: content.Metadata{PageCount: wb.NumSheets()},
	}, nil
}

func xlsRows(sheet *xls.WorkSheet) [][]string {
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for r := 0; r <= int(sheet.MaxRow); r++ {
		row := sheet.Row(r)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return trimRows(rows)
}

// trimRows drops trailing blank cells and trailing blank rows, matching what
// excelize yields for xlsx.
func trimRows(rows [][]string) [][]string {
	for i, cells := range rows {
		n := len(cells)
		for n > 0 && strings.TrimSpace(cells[n-1]) == "" {
			n--
		}
		rows[i] = cells[:n]
	}
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}
