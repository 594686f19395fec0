package codec

import (
	"fmt"
	"regexp"
	"strings"

	"doccoder-be/pkg/content"
)

var (
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
	cellSplitRe  = regexp.MustCompile(`\||\s{2,}`)
	separatorRe  = regexp.MustCompile(`^[\s|:\-]+$`)
)

// isTableRow: at least two pipes, or column-aligned whitespace on a long line.
func isTableRow(line string) bool {
	if strings.Count(line, "|") >= 2 {
		return true
	}
	return multiSpaceRe.MatchString(line) && len(line) > 20
}

func parseTableRows(lines []string) content.TableData {
	var parsed [][]string
	for _, l := range lines {
		if separatorRe.MatchString(l) {
			continue
		}
		var cells []string
		for _, c := range cellSplitRe.Split(l, -1) {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) > 0 {
			parsed = append(parsed, cells)
		}
	}
	if len(parsed) == 0 {
		return content.TableData{}
	}
	return content.TableData{Headers: parsed[0], Rows: parsed[1:]}
}

// DetectTables finds runs of table-looking lines. A run becomes a table when
// it has a header row and at least one data row.
func DetectTables(text string) []content.TableData {
	var (
		tables []content.TableData
		run    []string
	)
	flush := func() {
		if len(run) > 0 {
			if t := parseTableRows(run); len(t.Rows) > 0 {
				t.Normalize()
				tables = append(tables, t)
			}
		}
		run = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if isTableRow(line) {
			run = append(run, line)
			continue
		}
		flush()
	}
	flush()
	return tables
}

// FormatExtracted renders extracted content as the Markdown document used as
// canonical text for PDF exports.
func FormatExtracted(c *content.ExtractedContent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Metadata.Title)
	if c.Metadata.Author != "" {
		fmt.Fprintf(&b, "**Author**: %s\n", c.Metadata.Author)
	}
	fmt.Fprintf(&b, "**Pages**: %d\n\n", c.Metadata.PageCount)
	fmt.Fprintf(&b, "## Content\n\n%s\n\n", strings.TrimSpace(c.Text))

	if len(c.Tables) > 0 {
		b.WriteString("## Tables\n\n")
		for i, t := range c.Tables {
			fmt.Fprintf(&b, "### Table %d\n\n", i+1)
			b.WriteString(MarkdownTable(t))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func MarkdownTable(t content.TableData) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(escapePipes(t.Headers), " | ") + " |\n")
	seps := make([]string, len(t.Headers))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, r := range t.Rows {
		b.WriteString("| " + strings.Join(escapePipes(r), " | ") + " |\n")
	}
	return b.String()
}

func escapePipes(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(strings.ReplaceAll(c, "|", `\|`), "\n", " ")
	}
	return out
}
