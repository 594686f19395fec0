package ai

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"doccoder-be/pkg/llm"
)

type DiffSegment struct {
	Type       string  `json:"type"` // added, removed, unchanged, modified
	Original   string  `json:"original"`
	Translated string  `json:"translated"`
	Similarity float64 `json:"similarity"`
}

type Synonym struct {
	Original     string   `json:"original"`
	Alternatives []string `json:"alternatives"`
}

type ComparisonResult struct {
	Segments          []DiffSegment `json:"segments"`
	ChangedMeanings   []string      `json:"changedMeanings"`
	Synonyms          []Synonym     `json:"synonyms"`
	OverallSimilarity float64       `json:"overallSimilarity"`
}

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	bulletPrefix  = regexp.MustCompile(`^[-•*]\s*`)
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true,
}

const maxSynonymTerms = 5

// Compare aligns sentences, asks the model for meaning changes and synonyms,
// and reports an overall similarity. AI parts fall back to empty lists.
func (s *Service) Compare(ctx context.Context, alias, original, translated, lang string) ComparisonResult {
	return ComparisonResult{
		Segments:          Segments(original, translated),
		ChangedMeanings:   s.changedMeanings(ctx, alias, original, translated, lang),
		Synonyms:          s.synonyms(ctx, alias, original, lang),
		OverallSimilarity: math.Round(Similarity(original, translated)*100) / 100,
	}
}

func sentences(text string) []string {
	var out []string
	for _, p := range sentenceSplit.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Segments pairs sentences by position.
func Segments(original, translated string) []DiffSegment {
	a, b := sentences(original), sentences(translated)
	n := max(len(a), len(b))
	out := make([]DiffSegment, 0, n)
	for i := 0; i < n; i++ {
		var orig, trans string
		if i < len(a) {
			orig = a[i]
		}
		if i < len(b) {
			trans = b[i]
		}
		switch {
		case orig == "":
			out = append(out, DiffSegment{Type: "added", Translated: trans})
		case trans == "":
			out = append(out, DiffSegment{Type: "removed", Original: orig})
		default:
			sim := Similarity(orig, trans)
			typ := "modified"
			if sim > 0.8 {
				typ = "unchanged"
			}
			out = append(out, DiffSegment{Type: typ, Original: orig, Translated: trans, Similarity: sim})
		}
	}
	return out
}

// Similarity is 1 - editDistance/len(longer), 1 when both are empty.
func Similarity(s1, s2 string) float64 {
	a, b := []rune(s1), []rune(s2)
	longer, shorter := a, b
	if len(b) > len(a) {
		longer, shorter = b, a
	}
	if len(longer) == 0 {
		return 1.0
	}
	return float64(len(longer)-editDistance(longer, shorter)) / float64(len(longer))
}

func editDistance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func (s *Service) changedMeanings(ctx context.Context, alias, original, translated, lang string) []string {
	prompt := fmt.Sprintf(`Analyze the following original text and its %s translation.
Identify any significant changes in meaning, tone, or emphasis.
List each change as a separate point:

Original: "%s"
Translation: "%s"

Meaning Changes:`, lang, s.truncate(original), s.truncate(translated))

	out, err := s.generate(ctx, alias, "compare", prompt, llm.WithTemperature(0.3))
	if err != nil {
		return []string{}
	}
	changes := []string{}
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(line), "")); line != "" {
			changes = append(changes, line)
		}
	}
	return changes
}

// KeyTerms picks up to five words longer than five characters that are not stop words.
func KeyTerms(text string) []string {
	var terms []string
	for _, w := range strings.Fields(text) {
		if len([]rune(w)) > 5 && !stopWords[strings.ToLower(w)] {
			terms = append(terms, w)
			if len(terms) == maxSynonymTerms {
				break
			}
		}
	}
	return terms
}

func (s *Service) synonyms(ctx context.Context, alias, text, lang string) []Synonym {
	out := []Synonym{}
	for _, term := range KeyTerms(text) {
		prompt := fmt.Sprintf(`Provide 3 alternative %s translations for the word "%s".
Return them as a comma-separated list:`, lang, term)

		raw, err := s.generate(ctx, alias, "synonyms", prompt, llm.WithTemperature(0.7))
		if err != nil {
			return []Synonym{}
		}
		alts := []string{}
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				alts = append(alts, a)
			}
		}
		out = append(out, Synonym{Original: term, Alternatives: alts})
	}
	return out
}
