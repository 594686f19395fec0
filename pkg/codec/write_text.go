package codec

import (
	"context"
	"fmt"
	"strings"

	"doccoder-be/pkg/content"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type textWriter struct{}

func (textWriter) Format() Format { return FormatTXT }

func (textWriter) Write(_ context.Context, in WriteInput) (*content.ConversionResult, error) {
	switch {
	case len(in.Structured) > 0:
		records := make([]string, 0, len(in.Structured))
		for _, r := range in.Structured {
			records = append(records, fmt.Sprintf("Title: %s\nLanguage: %s\n\n%s\n\n%s\n",
				r.Title, r.Language, r.Content, strings.Repeat("=", 50)))
		}
		data := append(append([]byte{}, utf8BOM...), strings.Join(records, "\n")...)
		return result(in, FormatTXT, data), nil
	case in.hasPipeline():
		return result(in, FormatTXT, []byte(plainSections(pipelineSections(in.Pipeline)))), nil
	}
	return result(in, FormatTXT, []byte(in.Text)), nil
}

type markdownWriter struct{}

func (markdownWriter) Format() Format { return FormatMD }

func (markdownWriter) Write(_ context.Context, in WriteInput) (*content.ConversionResult, error) {
	var b strings.Builder

	switch {
	case in.Provenance != nil:
		fmt.Fprintf(&b, "# %s\n\n", in.displayName())
		b.WriteString("## Document Information\n\n")
		fmt.Fprintf(&b, "- **Total Pages**: %d\n", in.Provenance.PageCount)
		fmt.Fprintf(&b, "- **Conversion Date**: %s\n", in.Provenance.Date())
		b.WriteString("- **Source Format**: PDF\n")
		b.WriteString("- **Converted By**: Doccoder\n\n")
		b.WriteString("## Content\n\n")
		for _, l := range NonEmptyLines(in.Text) {
			b.WriteString(l + "\n\n")
		}
	case len(in.Structured) > 0:
		for _, r := range in.Structured {
			fmt.Fprintf(&b, "# %s\n\n_Language: %s_\n\n%s\n\n", r.Title, r.Language, strings.TrimSpace(r.Content))
		}
	case in.hasPipeline():
		for _, s := range pipelineSections(in.Pipeline) {
			if s.Heading != "" {
				fmt.Fprintf(&b, "## %s\n\n", s.Heading)
			}
			for _, p := range s.Paragraphs {
				b.WriteString(p + "\n\n")
			}
			for _, t := range s.Tables {
				b.WriteString(MarkdownTable(t) + "\n")
			}
		}
	default:
		// canonical text is already Markdown-ish; keep it byte for byte
		return result(in, FormatMD, []byte(in.Text)), nil
	}

	return result(in, FormatMD, []byte(b.String())), nil
}
