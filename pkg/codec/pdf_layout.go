package codec

import (
	"math"
	"strings"
)

// A4 in points.
const (
	a4Width       = 595.28
	a4Height      = 841.89
	defaultMargin = 36.0
)

type pageGeometry struct {
	width, height, margin float64
}

func newGeometry(landscape bool, margin float64) pageGeometry {
	if margin <= 0 {
		margin = defaultMargin
	}
	g := pageGeometry{width: a4Width, height: a4Height, margin: margin}
	if landscape {
		g.width, g.height = g.height, g.width
	}
	return g
}

func (g pageGeometry) contentWidth() float64  { return g.width - 2*g.margin }
func (g pageGeometry) contentHeight() float64 { return g.height - 2*g.margin }

type bodyStyle struct {
	size float64
	gap  float64
}

func (s bodyStyle) lineHeight() float64 { return s.size + s.gap }

func styleFor(theme Theme, code bool) bodyStyle {
	if code {
		return bodyStyle{size: 9.5, gap: 3}
	}
	st := bodyStyle{size: 11, gap: 4}
	if theme == ThemeProfessional {
		st.size = 11.5
	}
	if theme == ThemePhoto {
		st.gap = 6
	}
	return st
}

// wrapText breaks text into lines no wider than maxWidth. Source line breaks
// are kept, blank lines survive as empty entries and words wider than a line
// are split by characters.
func wrapText(text string, maxWidth float64, measure func(string) float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.ReplaceAll(raw, "\t", "    ")
		words := strings.Fields(raw)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		line := ""
		for _, w := range words {
			if measure(w) > maxWidth {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				pieces := splitWord(w, maxWidth, measure)
				out = append(out, pieces[:len(pieces)-1]...)
				line = pieces[len(pieces)-1]
				continue
			}
			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if measure(candidate) <= maxWidth {
				line = candidate
				continue
			}
			out = append(out, line)
			line = w
		}
		out = append(out, line)
	}
	return out
}

func splitWord(w string, maxWidth float64, measure func(string) float64) []string {
	var (
		out []string
		cur []rune
	)
	for _, r := range w {
		next := append(cur, r)
		if len(cur) > 0 && measure(string(next)) > maxWidth {
			out = append(out, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

// tablePlan is a fixed-width grid where every row has exactly len(headers) cells.
type tablePlan struct {
	colWidth float64
	header   []string
	rows     [][]string
}

func planTable(headers []string, rows [][]string, width float64) tablePlan {
	n := len(headers)
	if n == 0 {
		return tablePlan{}
	}
	p := tablePlan{colWidth: width / float64(n), header: append([]string(nil), headers...)}
	for _, r := range rows {
		cells := make([]string, n)
		copy(cells, r)
		p.rows = append(p.rows, cells)
	}
	return p
}

// fitCell truncates s with an ellipsis so it fits in width.
func fitCell(s string, width float64, measure func(string) float64) string {
	s = strings.Join(strings.Fields(s), " ")
	if measure(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && measure(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	if len(runes) == 0 {
		return ""
	}
	return string(runes) + "..."
}

// fitToPage scales w×h down or up to fit inside maxW×maxH keeping aspect ratio.
func fitToPage(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	ratio := math.Min(maxW/w, maxH/h)
	return math.Max(1, w*ratio), math.Max(1, h*ratio)
}
