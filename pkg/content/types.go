package content

// UploadedFile is one multipart upload. It lives only for the duration of a request.
type UploadedFile struct {
	Name     string
	MimeType string
	Data     []byte
}

type Metadata struct {
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	CreationDate string `json:"creation_date,omitempty"`
	PageCount    int    `json:"page_count"`
}

// ImagePayload carries an image source untouched so a vision model can read it.
type ImagePayload struct {
	MimeType string
	Data     []byte
}

// ExtractedContent is what every reader produces. Text is always sanitized.
type ExtractedContent struct {
	Text     string        `json:"text"`
	Pages    []string      `json:"pages,omitempty"`
	Tables   []TableData   `json:"tables"`
	Metadata Metadata      `json:"metadata"`
	Image    *ImagePayload `json:"-"`
}

type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Normalize pads or truncates every row to the header cardinality.
func (t *TableData) Normalize() {
	width := len(t.Headers)
	for i, row := range t.Rows {
		switch {
		case len(row) > width:
			t.Rows[i] = row[:width]
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			t.Rows[i] = padded
		}
	}
}

// NormalizeTables drops header-less tables and normalizes the rest.
func NormalizeTables(tables []TableData) []TableData {
	out := make([]TableData, 0, len(tables))
	for _, t := range tables {
		if len(t.Headers) == 0 {
			continue
		}
		t.Normalize()
		out = append(out, t)
	}
	return out
}

type Section struct {
	Heading    string      `json:"heading"`
	Paragraphs []string    `json:"paragraphs"`
	Tables     []TableData `json:"tables,omitempty"`
}

type Sheet struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

type Structure struct {
	Sections []Section `json:"sections,omitempty"`
	Sheets   []Sheet   `json:"sheets,omitempty"`
}

// PipelineOutput is the rich structured form. Exactly one of Sections or Sheets
// is expected to be populated, but writers accept either being empty.
type PipelineOutput struct {
	SourceLanguage    string    `json:"source_language"`
	TargetLanguage    string    `json:"target_language"`
	OutputFormat      string    `json:"output_format"`
	TranslatedContent string    `json:"translated_content"`
	Structure         Structure `json:"structure"`
}

func (p *PipelineOutput) IsSpreadsheet() bool {
	return IsSpreadsheetFormat(p.OutputFormat)
}

func IsSpreadsheetFormat(format string) bool {
	switch format {
	case "xlsx", "xls", "csv":
		return true
	}
	return false
}

// StructuredData is the flat record produced by structured translation.
type StructuredData struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// ConversionResult is the terminal artifact of a writer.
type ConversionResult struct {
	Bytes         []byte
	SuggestedName string
	MimeType      string
	LowFidelity   bool
}
