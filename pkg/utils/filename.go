package utils

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// StripExt removes the last extension from name ("report.final.pdf" -> "report.final").
func StripExt(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// Ext returns the lower-cased extension without the dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// SanitizeFilename replaces path separators and characters most filesystems reject.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(filepath.Base(name))
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", "\x00", "",
	)
	name = replacer.Replace(name)
	if name == "" || name == "." {
		return "document"
	}
	return name
}

// OutputName builds "<base> (<suffix>).<ext>"; an empty suffix means no language tag.
func OutputName(sourceName, suffix, ext string) string {
	base := StripExt(SanitizeFilename(sourceName))
	if suffix != "" {
		base = fmt.Sprintf("%s (%s)", base, suffix)
	}
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// Deduper hands out unique names for entries packed into one archive.
type Deduper struct {
	seen map[string]int
}

func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]int)}
}

func (d *Deduper) Unique(name string) string {
	key := strings.ToLower(name)
	n, ok := d.seen[key]
	if !ok {
		d.seen[key] = 1
		return name
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for {
		n++
		candidate := fmt.Sprintf("%s-%d%s", stem, n, ext)
		if _, taken := d.seen[strings.ToLower(candidate)]; !taken {
			d.seen[key] = n
			d.seen[strings.ToLower(candidate)] = 1
			return candidate
		}
	}
}

// ContentDisposition builds an attachment header with an ASCII fallback and an
// RFC 5987 encoded UTF-8 name.
func ContentDisposition(name string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, url.PathEscape(name))
}

// HeaderEscape percent-encodes a value for an HTTP header. Spaces become %20.
func HeaderEscape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
