// Package naming builds filesystem-safe output names from detected fields.
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/a3tai/mcp-pdf-renamer/internal/detect"
)

// Placeholders used when fields are missing.
const (
	UnknownDate  = "UnknownDate"
	UnknownStart = "UnknownStart"
	UnknownEnd   = "UnknownEnd"
	UnknownName  = "Unknown_Name"

	PDFExt = ".pdf"
	ZipExt = ".zip"

	DefaultArchivePrefix = "OrderSlips"
	DefaultTemplate      = "Name_DateRange"
)

// Length limits in bytes. A built name plus a "_1000" collision suffix stays
// under the 255 byte NAME_MAX of common filesystems.
const (
	maxSlotBytes = 64
	maxBaseBytes = 200
)

var (
	unsafeCharsRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// Slugify strips characters outside word, space, hyphen and dot, and joins
// the remaining words with underscores.
func Slugify(s string) string {
	s = unsafeCharsRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), "_")
	return strings.Trim(s, "_.")
}

// Build renders fields through tmpl and appends the .pdf extension. Absent
// name, order and site slots are left out; date slots always contribute a
// value or a placeholder.
func Build(f detect.Fields, tmpl Template) string {
	parts := make([]string, 0, len(tmpl.Slots))

	for _, slot := range tmpl.Slots {
		var part string
		switch slot {
		case SlotName:
			part = clip(Slugify(f.Name), maxSlotBytes)
		case SlotOrder:
			part = clip(Slugify(f.OrderCode), maxSlotBytes)
		case SlotSite:
			part = clip(Slugify(f.SiteCode), maxSlotBytes)
		case SlotDateRange:
			part = DateRange(f.StartDate, f.EndDate)
		case SlotStart:
			part = isoOr(f.StartDate, UnknownStart)
		case SlotEnd:
			part = isoOr(f.EndDate, UnknownEnd)
		}
		if part != "" {
			parts = append(parts, part)
		}
	}

	if len(parts) == 0 {
		return UnknownName + "_" + UnknownDate + PDFExt
	}

	return clip(strings.Join(parts, tmpl.separator()), maxBaseBytes) + PDFExt
}

// clip shortens s to at most n bytes on a rune boundary and drops separators
// left dangling at the cut.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return strings.TrimRight(s[:cut], "_.-")
}

// DateRange formats "2025.10.05-10.09". The end year is repeated only when it
// differs. A single known date is rendered alone; no dates give UnknownDate.
func DateRange(start, end *time.Time) string {
	switch {
	case start != nil && end != nil:
		endLayout := "01.02"
		if start.Year() != end.Year() {
			endLayout = "2006.01.02"
		}
		return start.Format("2006.01.02") + "-" + end.Format(endLayout)
	case start != nil:
		return start.Format("2006.01.02")
	case end != nil:
		return end.Format("2006.01.02")
	default:
		return UnknownDate
	}
}

func isoOr(t *time.Time, placeholder string) string {
	if t == nil {
		return placeholder
	}
	return t.Format("2006-01-02")
}

// ArchiveName names a batch archive after the overall date range of its
// records, or just the prefix when no record has a date.
func ArchiveName(prefix string, records []detect.Fields) string {
	prefix = Slugify(prefix)
	if prefix == "" {
		prefix = DefaultArchivePrefix
	}

	var lo, hi *time.Time
	for _, r := range records {
		for _, d := range []*time.Time{r.StartDate, r.EndDate} {
			if d == nil {
				continue
			}
			if lo == nil || d.Before(*lo) {
				lo = d
			}
			if hi == nil || d.After(*hi) {
				hi = d
			}
		}
	}

	if lo == nil {
		return prefix + ZipExt
	}
	if lo.Equal(*hi) {
		hi = nil
	}

	return prefix + "_" + DateRange(lo, hi) + ZipExt
}

// Dedupe returns names with repeats suffixed "_2", "_3", ... before the
// extension. The first occurrence keeps its name.
func Dedupe(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]bool, len(names))

	for i, name := range names {
		candidate := name
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		for n := 2; seen[strings.ToLower(candidate)]; n++ {
			candidate = fmt.Sprintf("%s_%d%s", base, n, ext)
		}
		seen[strings.ToLower(candidate)] = true
		out[i] = candidate
	}

	return out
}

// IsSafe reports whether name only uses characters Build can produce.
func IsSafe(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_-.", r)) {
			return false
		}
	}
	return true
}
