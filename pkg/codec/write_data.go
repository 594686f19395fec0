package codec

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"doccoder-be/pkg/content"
)

type jsonWriter struct{}

func (jsonWriter) Format() Format { return FormatJSON }

type jsonProvenanceDoc struct {
	Document struct {
		Filename       string   `json:"filename"`
		TotalPages     int      `json:"totalPages"`
		ConversionDate string   `json:"conversionDate"`
		Content        []string `json:"content"`
		Metadata       struct {
			Source string `json:"source"`
			Tool   string `json:"tool"`
		} `json:"metadata"`
	} `json:"document"`
}

type jsonDoc struct {
	Document struct {
		Filename string                   `json:"filename"`
		Sections []content.StructuredData `json:"sections,omitempty"`
		Pipeline *content.PipelineOutput  `json:"pipeline,omitempty"`
		Content  []string                 `json:"content,omitempty"`
	} `json:"document"`
}

func (jsonWriter) Write(_ context.Context, in WriteInput) (*content.ConversionResult, error) {
	var v interface{}
	if in.Provenance != nil {
		var d jsonProvenanceDoc
		d.Document.Filename = in.displayName()
		d.Document.TotalPages = in.Provenance.PageCount
		d.Document.ConversionDate = in.Provenance.Date()
		d.Document.Content = nonNil(NonEmptyLines(in.Text))
		d.Document.Metadata.Source = "PDF"
		d.Document.Metadata.Tool = "Doccoder"
		v = d
	} else {
		var d jsonDoc
		d.Document.Filename = in.displayName()
		switch {
		case len(in.Structured) > 0:
			d.Document.Sections = in.Structured
		case in.hasPipeline():
			d.Document.Pipeline = in.Pipeline
		default:
			d.Document.Content = nonNil(NonEmptyLines(in.Text))
		}
		v = d
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return result(in, FormatJSON, bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type xmlWriter struct{}

func (xmlWriter) Format() Format { return FormatXML }

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func (xmlWriter) Write(_ context.Context, in WriteInput) (*content.ConversionResult, error) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<document>\n  <metadata>\n")
	fmt.Fprintf(&b, "    <filename>%s</filename>\n", xmlEscape(in.displayName()))
	if in.Provenance != nil {
		fmt.Fprintf(&b, "    <totalPages>%d</totalPages>\n", in.Provenance.PageCount)
		fmt.Fprintf(&b, "    <conversionDate>%s</conversionDate>\n", in.Provenance.Date())
		b.WriteString("    <source>PDF</source>\n")
	}
	b.WriteString("    <tool>Doccoder</tool>\n  </metadata>\n  <content>\n")

	switch {
	case in.Provenance == nil && len(in.Structured) > 0:
		for i, r := range in.Structured {
			fmt.Fprintf(&b, "    <section index=\"%d\" language=\"%s\">\n", i+1, xmlEscape(r.Language))
			fmt.Fprintf(&b, "      <title>%s</title>\n", xmlEscape(r.Title))
			fmt.Fprintf(&b, "      <body>%s</body>\n", xmlEscape(r.Content))
			b.WriteString("    </section>\n")
		}
	case in.Provenance == nil && in.hasPipeline():
		for i, s := range pipelineSections(in.Pipeline) {
			fmt.Fprintf(&b, "    <section index=\"%d\">\n", i+1)
			fmt.Fprintf(&b, "      <heading>%s</heading>\n", xmlEscape(s.Heading))
			for _, p := range s.Paragraphs {
				fmt.Fprintf(&b, "      <paragraph>%s</paragraph>\n", xmlEscape(p))
			}
			for _, t := range s.Tables {
				b.WriteString("      <table>\n")
				writeXMLRow(&b, "header", t.Headers)
				for _, r := range t.Rows {
					writeXMLRow(&b, "row", r)
				}
				b.WriteString("      </table>\n")
			}
			b.WriteString("    </section>\n")
		}
	default:
		for i, l := range NonEmptyLines(in.Text) {
			fmt.Fprintf(&b, "    <line index=\"%d\">%s</line>\n", i+1, xmlEscape(l))
		}
	}

	b.WriteString("  </content>\n</document>")
	return result(in, FormatXML, []byte(b.String())), nil
}

func writeXMLRow(b *strings.Builder, tag string, cells []string) {
	fmt.Fprintf(b, "        <%s>", tag)
	for _, c := range cells {
		fmt.Fprintf(b, "<cell>%s</cell>", xmlEscape(c))
	}
	fmt.Fprintf(b, "</%s>\n", tag)
}

type rtfWriter struct{}

func (rtfWriter) Format() Format { return FormatRTF }

// rtfEscape escapes control characters and encodes non-ASCII as \uN? words.
func rtfEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\t':
			b.WriteString(`\tab `)
		case r < 0x80:
			b.WriteRune(r)
		case r > 0xFFFF:
			r1, r2 := utf16.EncodeRune(r)
			b.WriteString(`\u` + strconv.Itoa(int(int16(r1))) + "?")
			b.WriteString(`\u` + strconv.Itoa(int(int16(r2))) + "?")
		default:
			b.WriteString(`\u` + strconv.Itoa(int(int16(r))) + "?")
		}
	}
	return b.String()
}

func (rtfWriter) Write(_ context.Context, in WriteInput) (*content.ConversionResult, error) {
	var b strings.Builder
	b.WriteString("{\\rtf1\\ansi\\ansicpg1252\\deff0\\uc1\n")
	b.WriteString("{\\fonttbl{\\f0\\fswiss Helvetica;}}\n")
	b.WriteString("{\\colortbl;\\red0\\green0\\blue0;}\n")
	b.WriteString("\\margl1440\\margr1440\\margt1440\\margb1440\\viewkind4\\pard\\plain\\f0\\fs24\\cf0\\sl360\\slmult1\n")

	fmt.Fprintf(&b, "\\b %s\\b0\\par\n\\par\n", rtfEscape(in.displayName()))
	if in.Provenance != nil {
		fmt.Fprintf(&b, "Total Pages: %d\\par\n", in.Provenance.PageCount)
		fmt.Fprintf(&b, "Conversion Date: %s\\par\n\\par\n", in.Provenance.Date())
	}

	switch {
	case in.Provenance == nil && len(in.Structured) > 0:
		for _, r := range in.Structured {
			fmt.Fprintf(&b, "\\b %s\\b0\\par\n", rtfEscape(r.Title))
			fmt.Fprintf(&b, "\\i Language: %s\\i0\\par\n", rtfEscape(r.Language))
			for _, l := range NonEmptyLines(r.Content) {
				b.WriteString(rtfEscape(l) + "\\par\n")
			}
			b.WriteString("\\par\n")
		}
	case in.Provenance == nil && in.hasPipeline():
		for _, l := range NonEmptyLines(plainSections(pipelineSections(in.Pipeline))) {
			b.WriteString(rtfEscape(l) + "\\par\n")
		}
	default:
		for _, l := range NonEmptyLines(in.Text) {
			b.WriteString(rtfEscape(l) + "\\par\n")
		}
	}
	b.WriteString("}")
	return result(in, FormatRTF, []byte(b.String())), nil
}

type csvWriter struct{}

func (csvWriter) Format() Format { return FormatCSV }

func (csvWriter) Write(_ context.Context, in WriteInput) (*content.ConversionResult, error) {
	var rows [][]string
	bom := false

	switch {
	case in.Provenance != nil:
		rows = append(rows,
			[]string{"Field", "Value"},
			[]string{"Document Name", in.displayName()},
			[]string{"Total Pages", strconv.Itoa(in.Provenance.PageCount)},
			[]string{"Conversion Date", in.Provenance.Date()},
		)
		for i, l := range NonEmptyLines(in.Text) {
			rows = append(rows, []string{fmt.Sprintf("Line %d", i+1), l})
		}
	case len(in.Structured) > 0:
		bom = true
		rows = append(rows, []string{"Title", "Content", "Language"})
		for _, r := range in.Structured {
			rows = append(rows, []string{r.Title, r.Content, r.Language})
		}
	case in.Pipeline != nil && len(in.Pipeline.Structure.Sheets) > 0:
		s := in.Pipeline.Structure.Sheets[0]
		rows = append(rows, s.Headers)
		rows = append(rows, s.Rows...)
	case in.hasPipeline():
		rows = append(rows, []string{"Section", "Content"})
		for _, s := range in.Pipeline.Structure.Sections {
			rows = append(rows, []string{s.Heading, strings.Join(s.Paragraphs, "\n\n")})
		}
	default:
		if sheets := ParseSheetBlocks(in.Text); len(sheets) > 0 {
			rows = append(rows, sheets[0].Headers)
			rows = append(rows, sheets[0].Rows...)
		} else {
			rows = append(rows, []string{"Content"})
			rows = append(rows, linesAsRows(in.Text)...)
		}
	}

	var buf bytes.Buffer
	if bom {
		buf.Write(utf8BOM)
	}
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return result(in, FormatCSV, buf.Bytes()), nil
}
