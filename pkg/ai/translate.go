package ai

import (
	"context"
	"fmt"
	"strings"

	"doccoder-be/pkg/content"
	"doccoder-be/pkg/llm"
)

const (
	FallbackTitle = "Processed Document"
	coverTitleMax = 60
)

func instructionLine(instruction string) string {
	if strings.TrimSpace(instruction) == "" {
		return "No additional instructions."
	}
	return instruction
}

// Translate transforms text per instruction into langFull. The output is
// required, so an empty result is an error.
func (s *Service) Translate(ctx context.Context, alias, text, langFull, instruction string) (string, error) {
	prompt := fmt.Sprintf(`You are the Doccoder AI Assistant.
Apply the user's instructions to the document below. Preserve the original structure, headings, lists and tables.
Deliver the final content in %s.
Return ONLY the transformed document text.

User instructions: %s

Document:
%s`, langFull, instructionLine(instruction), s.truncate(text))

	out, err := s.generate(ctx, alias, "translate", prompt, llm.WithTemperature(0.3))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyGeneration, err)
	}
	if out == "" {
		return "", ErrEmptyGeneration
	}
	return out, nil
}

// TranslateStructured translates and segments text into titled records. It
// always returns at least one non-empty record.
func (s *Service) TranslateStructured(ctx context.Context, alias, text, langFull, langCode, instruction string) []content.StructuredData {
	fallback := []content.StructuredData{{Title: FallbackTitle, Content: text, Language: langCode}}

	prompt := fmt.Sprintf(`You are the Doccoder AI Assistant.
Translate the document below into %s and split it into logical sections.
User instructions: %s

Return ONLY a JSON array. Each element must have:
- "title": the section title
- "content": the translated section body. Keep tables as CSV lines.
- "language": "%s"

Document:
%s`, langFull, instructionLine(instruction), langCode, s.truncate(text))

	raw, err := s.generate(ctx, alias, "structured", prompt, llm.WithTemperature(0.3))
	if err != nil {
		return fallback
	}

	records := ParseJSON[[]content.StructuredData](raw, nil)
	out := make([]content.StructuredData, 0, len(records))
	for _, r := range records {
		r.Title = strings.TrimSpace(r.Title)
		r.Content = strings.TrimSpace(r.Content)
		if r.Content == "" {
			continue
		}
		if r.Title == "" {
			r.Title = FallbackTitle
		}
		if r.Language == "" {
			r.Language = langCode
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// TranslatePipeline asks for the rich sections/sheets form for format.
func (s *Service) TranslatePipeline(ctx context.Context, alias, text, sourceLang, targetLang, format string) *content.PipelineOutput {
	fallback := &content.PipelineOutput{
		SourceLanguage:    sourceLang,
		TargetLanguage:    targetLang,
		OutputFormat:      format,
		TranslatedContent: text,
		Structure: content.Structure{
			Sections: []content.Section{{Paragraphs: splitParagraphs(text)}},
		},
	}

	shape := `"sections": [{"heading": "...", "paragraphs": ["..."], "tables": [{"headers": ["..."], "rows": [["..."]]}]}]`
	if content.IsSpreadsheetFormat(format) {
		shape = `"sheets": [{"name": "...", "headers": ["..."], "rows": [["..."]]}]`
	}

	prompt := fmt.Sprintf(`You are the Doccoder AI Assistant.
Translate the document below from %s into %s and organise it for a %s file.
Every table row must have exactly as many cells as its headers.

Return ONLY JSON:
{"source_language": "%s", "target_language": "%s", "output_format": "%s", "translated_content": "...", "structure": {%s}}

Document:
%s`, sourceLang, targetLang, format, sourceLang, targetLang, format, shape, s.truncate(text))

	raw, err := s.generate(ctx, alias, "pipeline", prompt, llm.WithTemperature(0.3))
	if err != nil {
		return fallback
	}

	out := ParseJSON[*content.PipelineOutput](raw, nil)
	if out == nil || (len(out.Structure.Sections) == 0 && len(out.Structure.Sheets) == 0) {
		return fallback
	}
	for i := range out.Structure.Sections {
		out.Structure.Sections[i].Tables = content.NormalizeTables(out.Structure.Sections[i].Tables)
	}
	for i := range out.Structure.Sheets {
		t := content.TableData{Headers: out.Structure.Sheets[i].Headers, Rows: out.Structure.Sheets[i].Rows}
		t.Normalize()
		out.Structure.Sheets[i].Rows = t.Rows
	}
	if out.OutputFormat == "" {
		out.OutputFormat = format
	}
	return out
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CoverTitle returns a one-line PDF cover title, or "" when the model fails.
func (s *Service) CoverTitle(ctx context.Context, alias, filename, userPrompt string) string {
	prompt := fmt.Sprintf(`Create a professional, concise one-line title for converting the file "%s" into a PDF.

User's transformation goal: %s

Instructions:
- Analyze the file type and purpose
- Create a clear, descriptive title that reflects the document's content
- Keep it under 60 characters
- Use professional language
- Return ONLY the title, no quotes or extra text

Title:`, filename, userPrompt)

	out, err := s.generate(ctx, alias, "cover_title", prompt,
		llm.WithSystem("You are a helpful assistant and expert document analyzer."),
		llm.WithTemperature(0.7), llm.WithMaxTokens(150))
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.Trim(strings.TrimSpace(line), `"'`)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > coverTitleMax {
			line = strings.TrimSpace(string(r[:coverTitleMax]))
		}
		return line
	}
	return ""
}

// SuccessMessage is the one-line status sent back in X-Assistant-Message.
func (s *Service) SuccessMessage(ctx context.Context, alias string, n int, format string, langs []string) string {
	fallback := fmt.Sprintf("Converted %d file(s) to %s.", n, strings.ToUpper(format))

	prompt := fmt.Sprintf(`Write one short, friendly sentence confirming that %d file(s) were converted to %s in %s.
Return ONLY the sentence.`, n, strings.ToUpper(format), strings.Join(langs, ", "))

	out, err := s.generate(ctx, alias, "success_message", prompt, llm.WithTemperature(0.7), llm.WithMaxTokens(60))
	if err != nil || out == "" {
		return fallback
	}
	return strings.TrimSpace(strings.SplitN(out, "\n", 2)[0])
}

// Edit applies a free-form instruction. The output is required.
func (s *Service) Edit(ctx context.Context, alias, text, instruction string) (string, error) {
	prompt := fmt.Sprintf(`You are the Doccoder AI Assistant. Edit the document below according to the instruction.
Keep everything the instruction does not ask you to change.
Return ONLY the edited document.

Instruction: %s

Document:
%s`, instruction, s.truncate(text))

	out, err := s.generate(ctx, alias, "edit", prompt, llm.WithTemperature(0.4))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyGeneration, err)
	}
	if out == "" {
		return "", ErrEmptyGeneration
	}
	return out, nil
}

// ChatTranslate answers the last message entirely in langFull. A provider
// resolution failure is returned untouched so callers can tell key errors apart.
func (s *Service) ChatTranslate(ctx context.Context, alias string, messages []llm.Message, langFull, tone string) (string, error) {
	p, err := s.resolve(alias)
	if err != nil {
		return "", err
	}

	system := fmt.Sprintf(`You are the Doccoder AI Assistant, a high-fidelity AI assistant.

COMMAND OF LANGUAGE SELECTION: The system is currently focused on %[1]s.

OPERATIONAL PROTOCOLS:
1. RESPOND ENTIRELY IN %[1]s. This is a critical system-level override.
2. Execute document synchronization, analysis, and generation tasks as per user prompts.
3. Prioritize precision, technical clarity, and natural flow.
4. Voice mode is active: maintain audio-friendly, professional, and conversational speech patterns.
5. Support all requested output formats (Excel, Word, CSV, TXT, PDF) by processing content correctly for the output generation core.

SYSTEM STATUS: All linguistic and transformation modules are synchronized in %[1]s.`, langFull)
	if desc, ok := toneDescriptions[tone]; ok {
		system += "\nTONE: " + desc + "."
	}

	var last string
	if len(messages) > 0 {
		last = messages[len(messages)-1].Content
	}
	out, err := p.Chat(ctx, []llm.Message{{Role: "user", Content: last}},
		llm.WithSystem(system), llm.WithTemperature(0.7))
	if err != nil {
		s.logger.Error(logModule, "chat translation failed", map[string]interface{}{"error": err.Error(), "model": alias})
		return "", err
	}
	return strings.TrimSpace(out), nil
}
