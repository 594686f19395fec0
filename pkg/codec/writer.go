package codec

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"doccoder-be/pkg/content"
)

// Provenance marks output converted from an existing PDF. Writers that see it
// prepend the document-information header.
type Provenance struct {
	SourceName  string
	PageCount   int
	ConvertedAt time.Time
}

func (p *Provenance) Date() string {
	return p.ConvertedAt.UTC().Format("2006-01-02T15:04:05.000Z")
}

type Theme string

const (
	ThemeMinimal      Theme = "minimal"
	ThemeProfessional Theme = "professional"
	ThemePhoto        Theme = "photo"
)

// PDFOptions drives page layout for the PDF writer.
type PDFOptions struct {
	CoverLine   string
	Theme       Theme
	Landscape   bool
	Margin      float64
	Code        bool
	Spreadsheet bool
	// SourcePDF is set when the input already is a PDF and the body pages should be kept.
	SourcePDF []byte
	Image     *content.ImagePayload
}

// WriteInput is everything a writer may need. Writers pick the richest of
// Pipeline, Structured and Text that is populated.
type WriteInput struct {
	// Name is the output file name without extension.
	Name       string
	SourceName string
	Text       string
	Structured []content.StructuredData
	Pipeline   *content.PipelineOutput
	Provenance *Provenance
	PDF        PDFOptions
}

func (in *WriteInput) hasPipeline() bool {
	return in.Pipeline != nil && (len(in.Pipeline.Structure.Sections) > 0 || len(in.Pipeline.Structure.Sheets) > 0)
}

func (in *WriteInput) isEmpty() bool {
	return strings.TrimSpace(in.Text) == "" && len(in.Structured) == 0 && !in.hasPipeline() &&
		in.PDF.Image == nil && len(in.PDF.SourcePDF) == 0 && in.Provenance == nil
}

func (in *WriteInput) displayName() string {
	if in.Provenance != nil && in.Provenance.SourceName != "" {
		return in.Provenance.SourceName
	}
	if in.SourceName != "" {
		return in.SourceName
	}
	return in.Name
}

type Writer interface {
	Format() Format
	Write(ctx context.Context, in WriteInput) (*content.ConversionResult, error)
}

type SectionMode string

const (
	SectionsFlatten       SectionMode = "flatten"
	SectionsSheetPerTable SectionMode = "sheet_per_table"
)

type RegistryConfig struct {
	FontPath    string
	SectionMode SectionMode
	Now         func() time.Time
}

// Registry maps target formats to writers. It never falls back to echoing the input.
type Registry struct {
	writers map[Format]Writer
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SectionMode == "" {
		cfg.SectionMode = SectionsFlatten
	}

	r := &Registry{writers: make(map[Format]Writer)}
	for _, w := range []Writer{
		textWriter{},
		markdownWriter{},
		jsonWriter{},
		xmlWriter{},
		rtfWriter{},
		csvWriter{},
		docxWriter{now: cfg.Now},
		xlsxWriter{mode: cfg.SectionMode},
		pptxWriter{},
		labelImageWriter{format: FormatPNG},
		labelImageWriter{format: FormatJPG},
		imageSetWriter{},
		newPDFWriter(cfg.FontPath),
	} {
		r.Register(w)
	}
	return r
}

func (r *Registry) Register(w Writer) {
	r.writers[w.Format()] = w
}

func (r *Registry) Has(f Format) bool {
	_, ok := r.writers[f]
	return ok
}

func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.writers))
	for f := range r.writers {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Write dispatches to the writer for f. A missing writer or an empty result is an error.
func (r *Registry) Write(ctx context.Context, f Format, in WriteInput) (*content.ConversionResult, error) {
	w, ok := r.writers[f]
	if !ok {
		return nil, fmt.Errorf("%w: no writer for %q", ErrUnsupportedFormat, f)
	}
	if in.isEmpty() {
		return nil, ErrEmptyContent
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := w.Write(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", f, err)
	}
	if res == nil || len(res.Bytes) == 0 {
		return nil, fmt.Errorf("write %s: %w", f, ErrEmptyContent)
	}
	if res.SuggestedName == "" {
		res.SuggestedName = in.Name + "." + string(f)
	}
	if res.MimeType == "" {
		res.MimeType = MimeType(f)
	}
	return res, nil
}

func result(in WriteInput, f Format, data []byte) *content.ConversionResult {
	return &content.ConversionResult{
		Bytes:         data,
		SuggestedName: in.Name + "." + string(f),
		MimeType:      MimeType(f),
	}
}

// pipelineSections returns sections for document-like rendering. Sheets are
// turned into one section each whose content is the sheet table.
func pipelineSections(p *content.PipelineOutput) []content.Section {
	if p == nil {
		return nil
	}
	if len(p.Structure.Sections) > 0 {
		return p.Structure.Sections
	}
	var out []content.Section
	for _, s := range p.Structure.Sheets {
		out = append(out, content.Section{
			Heading: s.Name,
			Tables:  []content.TableData{{Headers: s.Headers, Rows: s.Rows}},
		})
	}
	return out
}

func structuredSections(records []content.StructuredData) []content.Section {
	out := make([]content.Section, 0, len(records))
	for _, r := range records {
		out = append(out, content.Section{Heading: r.Title, Paragraphs: paragraphs(r.Content)})
	}
	return out
}

// paragraphs splits on blank lines.
func paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// plainSections renders sections back to flowing text.
func plainSections(sections []content.Section) string {
	var b strings.Builder
	for _, s := range sections {
		if s.Heading != "" {
			b.WriteString(s.Heading + "\n\n")
		}
		for _, p := range s.Paragraphs {
			b.WriteString(p + "\n\n")
		}
		for _, t := range s.Tables {
			b.WriteString(strings.Join(t.Headers, "\t") + "\n")
			for _, r := range t.Rows {
				b.WriteString(strings.Join(r, "\t") + "\n")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

type zipPart struct {
	name string
	data []byte
}

func writeZip(parts []zipPart) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write(p.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Entry is one file of a packaged archive.
type Entry struct {
	Name string
	Data []byte
}

// Zip packs entries in order. Names must already be unique.
func Zip(entries []Entry) ([]byte, error) {
	parts := make([]zipPart, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, zipPart{name: e.Name, data: e.Data})
	}
	return writeZip(parts)
}
