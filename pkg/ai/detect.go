package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"doccoder-be/pkg/llm"
)

// Metadata is the intent extracted from a free-text prompt.
type Metadata struct {
	Langs  []string `json:"langs"`
	Format string   `json:"format"`
}

// keyword families in priority order; the first family with a hit wins
var formatFamilies = []struct {
	format   string
	keywords []string
}{
	{"xlsx", []string{"excel", "xlsx", "xls", "spreadsheet", "sheet", "workbook"}},
	{"csv", []string{"csv", "comma separated", "comma-separated"}},
	{"docx", []string{"word", "docx", "doc", "word document"}},
	{"txt", []string{"txt", "plain text", "text file", "notepad"}},
	{"pdf", []string{"pdf"}},
}

var keywordRes = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp)
	for _, fam := range formatFamilies {
		for _, k := range fam.keywords {
			out[k] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`)
		}
	}
	return out
}()

// FormatFromKeywords classifies a prompt by keyword. "pdf" when nothing matches.
func FormatFromKeywords(prompt string) string {
	for _, fam := range formatFamilies {
		for _, k := range fam.keywords {
			if keywordRes[k].MatchString(prompt) {
				return fam.format
			}
		}
	}
	return "pdf"
}

func detectPrompt(prompt, uiLang string) string {
	var table strings.Builder
	for i, fam := range formatFamilies {
		fmt.Fprintf(&table, "%d. %s: %s\n", i+1, fam.format, strings.Join(fam.keywords, ", "))
	}
	return fmt.Sprintf(`You classify document conversion requests.
Read the user's request and return the target languages and the output format.

FORMAT PRIORITY (first matching family wins):
%s
If no keyword matches, the format is "pdf".

LANGUAGES: return ISO codes such as "es", "fr-FR", "en-GB". If the request names no language, return ["%s"].

Return ONLY JSON of the form {"langs": ["es"], "format": "xlsx"}.

Request: "%s"`, table.String(), uiLang, prompt)
}

// DetectMetadata turns a prompt into target languages and a format. It never
// fails: any error gives {[uiLang], "pdf"}.
func (s *Service) DetectMetadata(ctx context.Context, alias, prompt, uiLang string) Metadata {
	fallback := Metadata{Langs: []string{uiLang}, Format: "pdf"}
	if strings.TrimSpace(prompt) == "" {
		return fallback
	}

	raw, err := s.generate(ctx, alias, "detect", detectPrompt(s.truncate(prompt), uiLang),
		llm.WithTemperature(0.1))
	if err != nil {
		return fallback
	}

	md := ParseJSON(raw, fallback)
	var langs []string
	for _, l := range md.Langs {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		langs = fallback.Langs
	}
	md.Langs = langs

	md.Format = strings.ToLower(strings.TrimSpace(md.Format))
	if md.Format == "" {
		md.Format = FormatFromKeywords(prompt)
	}
	return md
}
