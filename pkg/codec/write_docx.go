package codec

import (
	"context"
	"fmt"
	"strings"
	"time"

	"doccoder-be/pkg/content"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

const docxDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

const docxStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:eastAsia="Calibri" w:cs="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault></w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:pPr><w:spacing w:after="120"/></w:pPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
<w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/><w:tblPr><w:tblBorders><w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/></w:tblBorders></w:tblPr></w:style>
</w:styles>`

type docxWriter struct {
	now func() time.Time
}

func (docxWriter) Format() Format { return FormatDOCX }

// docxBody accumulates WordprocessingML body content.
type docxBody struct {
	b strings.Builder
}

type runStyle struct {
	bold   bool
	italic bool
	size   int // half-points, 0 keeps the style default
}

func (d *docxBody) paragraph(text string, style string, rs runStyle) {
	d.b.WriteString("<w:p>")
	if style != "" {
		fmt.Fprintf(&d.b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, style)
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		d.b.WriteString("<w:r>")
		d.runProps(rs)
		if i > 0 {
			d.b.WriteString("<w:br/>")
		}
		fmt.Fprintf(&d.b, `<w:t xml:space="preserve">%s</w:t>`, xmlEscape(line))
		d.b.WriteString("</w:r>")
	}
	d.b.WriteString("</w:p>")
}

func (d *docxBody) runProps(rs runStyle) {
	if !rs.bold && !rs.italic && rs.size == 0 {
		return
	}
	d.b.WriteString("<w:rPr>")
	if rs.bold {
		d.b.WriteString("<w:b/>")
	}
	if rs.italic {
		d.b.WriteString("<w:i/>")
	}
	if rs.size > 0 {
		fmt.Fprintf(&d.b, `<w:sz w:val="%d"/>`, rs.size)
	}
	d.b.WriteString("</w:rPr>")
}

// table writes one w:tc per header in every row, so the grid is always rectangular.
func (d *docxBody) table(t content.TableData) {
	t.Normalize()
	width := len(t.Headers)
	if width == 0 {
		return
	}
	d.b.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="0" w:type="auto"/></w:tblPr><w:tblGrid>`)
	for i := 0; i < width; i++ {
		d.b.WriteString(`<w:gridCol w:w="2000"/>`)
	}
	d.b.WriteString("</w:tblGrid>")
	d.row(t.Headers, true)
	for _, r := range t.Rows {
		d.row(r, false)
	}
	d.b.WriteString("</w:tbl>")
	// Word requires a paragraph between adjacent tables
	d.b.WriteString("<w:p/>")
}

func (d *docxBody) row(cells []string, header bool) {
	d.b.WriteString("<w:tr>")
	for _, c := range cells {
		d.b.WriteString(`<w:tc><w:tcPr><w:tcW w:w="2000" w:type="dxa"/></w:tcPr>`)
		d.paragraph(c, "", runStyle{bold: header})
		d.b.WriteString("</w:tc>")
	}
	d.b.WriteString("</w:tr>")
}

func (d *docxBody) document() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		d.b.String() +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>` +
		`</w:body></w:document>`
}

func (w docxWriter) Write(_ context.Context, in WriteInput) (*content.ConversionResult, error) {
	body := &docxBody{}

	switch {
	case in.Provenance != nil:
		body.paragraph("Converted from PDF: "+in.displayName(), "", runStyle{bold: true, size: 32})
		body.paragraph(fmt.Sprintf("Pages: %d", in.Provenance.PageCount), "", runStyle{italic: true, size: 24})
		for _, l := range NonEmptyLines(in.Text) {
			body.paragraph(l, "", runStyle{})
		}
	case len(in.Structured) > 0:
		for _, r := range in.Structured {
			body.paragraph(r.Title, "Heading1", runStyle{})
			body.paragraph("Language: "+r.Language, "", runStyle{italic: true})
			for _, p := range paragraphs(r.Content) {
				body.paragraph(p, "", runStyle{})
			}
		}
	case in.hasPipeline():
		for _, s := range pipelineSections(in.Pipeline) {
			if s.Heading != "" {
				body.paragraph(s.Heading, "Heading1", runStyle{})
			}
			for _, p := range s.Paragraphs {
				body.paragraph(p, "", runStyle{})
			}
			for _, t := range s.Tables {
				body.table(t)
			}
		}
	default:
		for _, p := range NonEmptyLines(in.Text) {
			body.paragraph(p, "", runStyle{})
		}
	}

	data, err := writeZip([]zipPart{
		{name: "[Content_Types].xml", data: []byte(docxContentTypes)},
		{name: "_rels/.rels", data: []byte(docxRootRels)},
		{name: "word/_rels/document.xml.rels", data: []byte(docxDocumentRels)},
		{name: "word/document.xml", data: []byte(body.document())},
		{name: "word/styles.xml", data: []byte(docxStyles)},
		{name: "docProps/core.xml", data: []byte(w.coreProps(in))},
	})
	if err != nil {
		return nil, err
	}
	return result(in, FormatDOCX, data), nil
}

func (w docxWriter) coreProps(in WriteInput) string {
	now := time.Now
	if w.now != nil {
		now = w.now
	}
	ts := now().UTC().Format(time.RFC3339)
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + xmlEscape(in.displayName()) + `</dc:title>` +
		`<dc:creator>Doccoder</dc:creator>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:modified>` +
		`</cp:coreProperties>`
}
