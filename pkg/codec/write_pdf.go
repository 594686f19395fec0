package codec

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/png"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"doccoder-be/pkg/content"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	_ "golang.org/x/image/webp"
	"golang.org/x/text/encoding/charmap"
)

const unicodeFamily = "body"

// FontMissingMessage is drawn instead of the body when the text needs glyphs
// that the core fonts cannot encode and no Unicode font is configured.
const FontMissingMessage = "Font asset missing: this document contains characters outside Windows-1252 and no Unicode font is configured."

var subtitleUnsafe = regexp.MustCompile(`[^\w\-.]+`)

type pdfWriter struct {
	fontPath string

	once     sync.Once
	fontData []byte
	fontErr  error
}

func newPDFWriter(fontPath string) Writer {
	return &pdfWriter{fontPath: fontPath}
}

func (*pdfWriter) Format() Format { return FormatPDF }

func (w *pdfWriter) font() []byte {
	w.once.Do(func() {
		if w.fontPath == "" {
			return
		}
		w.fontData, w.fontErr = os.ReadFile(w.fontPath)
	})
	if w.fontErr != nil {
		return nil
	}
	return w.fontData
}

// pdfDoc wraps fpdf with the font choice made once per document.
type pdfDoc struct {
	pdf     *fpdf.Fpdf
	geo     pageGeometry
	unicode bool
	tr      func(string) string
}

func (w *pdfWriter) newDoc(geo pageGeometry, needsUnicode bool) (*pdfDoc, bool) {
	orientation := "P"
	if geo.width > geo.height {
		orientation = "L"
	}
	pdf := fpdf.New(orientation, "pt", "A4", "")
	pdf.SetMargins(geo.margin, geo.margin, geo.margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("Doccoder", true)

	d := &pdfDoc{pdf: pdf, geo: geo}
	if data := w.font(); data != nil {
		pdf.AddUTF8FontFromBytes(unicodeFamily, "", data)
		d.unicode = true
		d.tr = func(s string) string { return s }
		return d, true
	}
	d.tr = pdf.UnicodeTranslatorFromDescriptor("")
	return d, !needsUnicode
}

func (d *pdfDoc) setFont(mono, bold bool, size float64) {
	switch {
	case d.unicode:
		d.pdf.SetFont(unicodeFamily, "", size)
	case mono:
		d.pdf.SetFont("Courier", "", size)
	case bold:
		d.pdf.SetFont("Helvetica", "B", size)
	default:
		d.pdf.SetFont("Helvetica", "", size)
	}
}

func (d *pdfDoc) measure(s string) float64 {
	return d.pdf.GetStringWidth(d.tr(s))
}

func (d *pdfDoc) text(x, y float64, s string) {
	d.pdf.Text(x, y, d.tr(s))
}

func (d *pdfDoc) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *pdfDoc) cover(line, sourceName string, theme Theme) {
	g := d.geo
	d.pdf.AddPage()
	titleY := g.margin + 48

	titleSize := 24.0
	if theme == ThemeProfessional {
		titleSize = 28
	}
	d.setFont(false, true, titleSize)
	d.pdf.SetTextColor(0, 0, 0)
	d.text(g.margin, titleY, fitCell(line, g.contentWidth(), d.measure))

	d.setFont(false, false, 12)
	d.pdf.SetTextColor(51, 51, 51)
	d.text(g.margin, titleY+28, fitCell(subtitleUnsafe.ReplaceAllString(sourceName, "_"), g.contentWidth(), d.measure))
	d.pdf.SetTextColor(0, 0, 0)

	if theme != ThemeMinimal {
		d.pdf.SetDrawColor(31, 71, 250)
		d.pdf.SetLineWidth(2)
		d.pdf.Line(g.margin, titleY+38, g.width-g.margin, titleY+38)
		d.pdf.SetDrawColor(0, 0, 0)
		d.pdf.SetLineWidth(1)
	}
}

// cursor tracks the baseline position on the current page.
type cursor struct {
	d *pdfDoc
	y float64
}

func (d *pdfDoc) newCursor() *cursor {
	d.pdf.AddPage()
	return &cursor{d: d, y: d.geo.margin}
}

func (c *cursor) ensure(h float64) {
	if c.y+h > c.d.geo.height-c.d.geo.margin {
		c.d.pdf.AddPage()
		c.y = c.d.geo.margin
	}
}

func (c *cursor) lines(text string, mono bool, st bodyStyle) {
	c.d.setFont(mono, false, st.size)
	for _, line := range wrapText(text, c.d.geo.contentWidth(), c.d.measure) {
		c.ensure(st.lineHeight())
		if line != "" {
			c.d.text(c.d.geo.margin, c.y+st.size, line)
		}
		c.y += st.lineHeight()
	}
}

func (c *cursor) heading(text string, st bodyStyle) {
	size := st.size + 4
	c.ensure(size + st.gap*2)
	c.y += st.gap
	c.d.setFont(false, true, size)
	c.d.text(c.d.geo.margin, c.y+size, fitCell(text, c.d.geo.contentWidth(), c.d.measure))
	c.y += size + st.gap
}

func (c *cursor) table(t content.TableData, st bodyStyle) {
	plan := planTable(t.Headers, t.Rows, c.d.geo.contentWidth())
	if len(plan.header) == 0 {
		return
	}
	rowH := st.size + st.gap + 4
	pad := 2.0

	drawRow := func(cells []string, bold bool) {
		c.ensure(rowH)
		c.d.setFont(false, bold, st.size)
		x := c.d.geo.margin
		for _, cell := range cells {
			c.d.pdf.Rect(x, c.y, plan.colWidth, rowH, "D")
			c.d.text(x+pad, c.y+st.size+pad, fitCell(cell, plan.colWidth-2*pad, c.d.measure))
			x += plan.colWidth
		}
		c.y += rowH
	}

	drawRow(plan.header, true)
	for _, r := range plan.rows {
		drawRow(r, false)
	}
	c.y += st.gap
}

func (w *pdfWriter) Write(ctx context.Context, in WriteInput) (*content.ConversionResult, error) {
	opts := in.PDF
	geo := newGeometry(opts.Landscape || opts.Spreadsheet, opts.Margin)
	st := styleFor(opts.Theme, opts.Code)

	if len(opts.SourcePDF) > 0 && in.Text == "" && len(in.Structured) == 0 && !in.hasPipeline() {
		return w.passThrough(in, geo)
	}

	d, ok := w.newDoc(geo, needsUnicode(in))
	if !ok {
		c := d.newCursor()
		c.lines(FontMissingMessage, false, styleFor(ThemeMinimal, false))
		return w.finish(in, d)
	}

	if opts.CoverLine != "" {
		d.cover(opts.CoverLine, in.displayName(), opts.Theme)
	}

	switch {
	case opts.Image != nil:
		if err := d.image(opts.Image); err != nil {
			return nil, err
		}
	case len(in.Structured) > 0:
		c := d.newCursor()
		for _, s := range structuredSections(in.Structured) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			c.section(s, st)
		}
	case in.hasPipeline():
		c := d.newCursor()
		for _, s := range pipelineSections(in.Pipeline) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			c.section(s, st)
		}
	default:
		c := d.newCursor()
		c.lines(in.Text, opts.Code, st)
	}

	return w.finish(in, d)
}

func (c *cursor) section(s content.Section, st bodyStyle) {
	if s.Heading != "" {
		c.heading(s.Heading, st)
	}
	for _, p := range s.Paragraphs {
		c.lines(p, false, st)
		c.y += st.gap
	}
	for _, t := range s.Tables {
		c.table(t, st)
	}
}

func (w *pdfWriter) finish(in WriteInput, d *pdfDoc) (*content.ConversionResult, error) {
	if err := d.pdf.Error(); err != nil {
		return nil, err
	}
	data, err := d.bytes()
	if err != nil {
		return nil, err
	}
	return result(in, FormatPDF, data), nil
}

// passThrough keeps the source pages. A cover line adds a rendered cover page in front.
func (w *pdfWriter) passThrough(in WriteInput, geo pageGeometry) (*content.ConversionResult, error) {
	if in.PDF.CoverLine == "" {
		return result(in, FormatPDF, in.PDF.SourcePDF), nil
	}

	d, ok := w.newDoc(geo, !cp1252Safe(in.PDF.CoverLine))
	if ok {
		d.cover(in.PDF.CoverLine, in.displayName(), in.PDF.Theme)
	} else {
		// the cover page states why the requested title is missing
		d.newCursor().lines(FontMissingMessage, false, styleFor(ThemeMinimal, false))
	}
	if err := d.pdf.Error(); err != nil {
		return nil, err
	}
	cover, err := d.bytes()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	sources := []io.ReadSeeker{bytes.NewReader(cover), bytes.NewReader(in.PDF.SourcePDF)}
	if err := api.MergeRaw(sources, &out, false, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("%w: merge cover: %v", ErrCorruptFile, err)
	}
	return result(in, FormatPDF, out.Bytes()), nil
}

func (d *pdfDoc) image(img *content.ImagePayload) error {
	data := img.Data
	var imageType string
	switch strings.ToLower(img.MimeType) {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg", "image/jpg":
		imageType = "JPG"
	case "image/gif", "image/webp":
		converted, err := reencodePNG(img.Data)
		if err != nil {
			return err
		}
		data, imageType = converted, "PNG"
	default:
		return fmt.Errorf("%w: unsupported image format: %s", ErrUnsupportedFormat, img.MimeType)
	}

	opts := fpdf.ImageOptions{ImageType: imageType}
	info := d.pdf.RegisterImageOptionsReader("source", opts, bytes.NewReader(data))
	if err := d.pdf.Error(); err != nil || info == nil {
		return fmt.Errorf("%w: image could not be decoded: %v", ErrCorruptFile, err)
	}

	g := d.geo
	wd, ht := fitToPage(info.Width(), info.Height(), g.contentWidth(), g.contentHeight())
	d.pdf.AddPage()
	d.pdf.ImageOptions("source", (g.width-wd)/2, (g.height-ht)/2, wd, ht, false, opts, 0, "")
	return nil
}

// reencodePNG decodes GIF (first frame) or WebP and re-encodes it as PNG.
func reencodePNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: image could not be decoded: %v", ErrCorruptFile, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func needsUnicode(in WriteInput) bool {
	if !cp1252Safe(in.PDF.CoverLine) || !cp1252Safe(in.Text) {
		return true
	}
	for _, r := range in.Structured {
		if !cp1252Safe(r.Title) || !cp1252Safe(r.Content) {
			return true
		}
	}
	if in.hasPipeline() {
		return !cp1252Safe(plainSections(pipelineSections(in.Pipeline)))
	}
	return false
}

// cp1252Safe reports whether the core PDF fonts can encode s.
func cp1252Safe(s string) bool {
	if s == "" {
		return true
	}
	_, err := charmap.Windows1252.NewEncoder().String(s)
	return err == nil
}
