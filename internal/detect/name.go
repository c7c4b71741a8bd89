package detect

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NamePolicy decides between several plausible names found by one strategy.
type NamePolicy int

const (
	// NameFirst keeps the earliest match.
	NameFirst NamePolicy = iota
	// NameLongest keeps the match with the most characters.
	NameLongest
	// NameMostTokens keeps the match with the most words.
	NameMostTokens
)

func (p NamePolicy) String() string {
	switch p {
	case NameFirst:
		return "first"
	case NameLongest:
		return "longest"
	case NameMostTokens:
		return "most-tokens"
	default:
		return fmt.Sprintf("NamePolicy(%d)", int(p))
	}
}

// ParseNamePolicy maps a configuration string to a NamePolicy. The empty
// string is NameFirst.
func ParseNamePolicy(s string) (NamePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return NameFirst, nil
	case "longest":
		return NameLongest, nil
	case "most-tokens", "most_tokens":
		return NameMostTokens, nil
	default:
		return NameFirst, fmt.Errorf("unknown name policy %q (expected first, longest or most-tokens)", s)
	}
}

func (p NamePolicy) picker() Picker {
	switch p {
	case NameLongest:
		return PickLongest
	case NameMostTokens:
		return PickMostTokens
	default:
		return PickFirst
	}
}

const (
	minNameWords = 2
	maxNameWords = 5

	monthAbbrev = `(?:jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)`
)

var (
	nameLabelRe = regexp.MustCompile(`(?i)^\s*(?:(?:full|customer|employee)\s+)?name\b\s*[:\-]?\s*(.*)$`)

	// Month abbreviations only count next to a digit; "Jun" alone is a given name.
	badContextRe = regexp.MustCompile(`(?i)\b(?:start\s*date|end\s*date|` +
		`january|february|march|april|may|june|july|august|september|october|november|december)\b|` +
		`\d[-/. \t]*` + monthAbbrev + `\b|\b` + monthAbbrev + `[-/. \t]*\d`)

	companyHintRe = regexp.MustCompile(`(?i)\b(?:ltd|limited|inc|corp|corporation|company|co|` +
		`solutions|technologies|technology|group|llc|llp|pte|plc|gmbh|services|enterprises|` +
		`holdings|industries|consulting|systems)\b`)

	// Form vocabulary that forms capitalised runs on slips but is never a name.
	labelWordRe = regexp.MustCompile(`(?i)\b(?:order|date|name|number|no|ref|reference|site|page|slip|` +
		`customer|employee|full|start|end|total|invoice|po|so|id|code|details|summary)\b`)

	nameSanitizeRe = regexp.MustCompile(`[^\p{L}\s'\-]+`)
	wordSpanRe     = regexp.MustCompile(`\S+`)

	capTokenRe  = `[A-Z](?:[a-z]+(?:[A-Z][a-z]+)?|'[A-Z][a-z]+)(?:-[A-Z][a-z]+)*`
	capsTokenRe = `[A-Z](?:[A-Z]+|'[A-Z]{2,})(?:-[A-Z]{2,})*`

	capRunRe  = tokenRun(capTokenRe)
	capsRunRe = tokenRun(capsTokenRe)
)

func tokenRun(token string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`\b%[1]s(?:[ \t]+%[1]s){%d,%d}\b`, token, minNameWords-1, maxNameWords-1))
}

// nameStrategies is the ordered name heuristic list.
var nameStrategies = []Strategy{
	{Name: "label", Find: findLabelledNames, Accept: acceptWordCount},
	{Name: "capitalised", Find: runFinder(capRunRe), Accept: acceptWordCount},
	{Name: "all-caps", Find: runFinder(capsRunRe), Accept: acceptWordCount},
}

// DetectName returns the person name in text, title-cased, or "" when no
// candidate qualifies.
func DetectName(text string, policy NamePolicy) string {
	c, _, ok := FirstMatch(text, policy.picker(), nameStrategies...)
	if !ok {
		return ""
	}
	return titleName(c.Value)
}

// findLabelledNames reads "Name: ..." style lines. When the label stands
// alone the value is taken from the next non-empty line.
func findLabelledNames(text string) []Candidate {
	var out []Candidate
	lines := strings.Split(text, "\n")
	offset := 0

	for i, line := range lines {
		lineStart := offset
		offset += len(line) + 1

		m := nameLabelRe.FindStringSubmatch(line)
		if m == nil || rejectedLine(line) {
			continue
		}

		value := m[1]
		valueStart := lineStart
		if strings.TrimSpace(value) == "" {
			next, at := nextNonEmpty(lines, i+1, offset)
			if next == "" || rejectedLine(next) || nameLabelRe.MatchString(next) {
				continue
			}
			value, valueStart = next, at
		}

		cleaned := nameWords(nameSanitizeRe.ReplaceAllString(value, " "))
		if cleaned == "" {
			continue
		}
		out = append(out, Candidate{
			Value:  cleaned,
			Start:  valueStart,
			End:    valueStart + len(value),
			Tokens: len(strings.Fields(cleaned)),
		})
	}

	return out
}

func nextNonEmpty(lines []string, from, offset int) (string, int) {
	for j := from; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) != "" {
			return lines[j], offset
		}
		offset += len(lines[j]) + 1
	}
	return "", 0
}

func rejectedLine(line string) bool {
	return badContextRe.MatchString(line) || companyHintRe.MatchString(line)
}

// runFinder reports capitalised runs on single lines. Words touching dates,
// company hints, or form labels cut a run into the pieces around them.
func runFinder(re *regexp.Regexp) func(string) []Candidate {
	return func(text string) []Candidate {
		bad := append(spansOf(badContextRe, text), spansOf(companyHintRe, text)...)
		bad = append(bad, spansOf(labelWordRe, text)...)

		var out []Candidate
		for _, m := range re.FindAllStringIndex(text, -1) {
			out = append(out, cleanRuns(text, m[0], m[1], bad)...)
		}
		return out
	}
}

// cleanRuns splits text[start:end] at every word overlapping a bad span.
func cleanRuns(text string, start, end int, bad []span) []Candidate {
	var (
		out      []Candidate
		from, to int
		words    int
	)
	flush := func() {
		if words > 0 {
			out = append(out, Candidate{
				Value:  collapseSpace(text[from:to]),
				Start:  from,
				End:    to,
				Tokens: words,
			})
		}
		words = 0
	}

	for _, w := range wordSpanRe.FindAllStringIndex(text[start:end], -1) {
		ws, we := start+w[0], start+w[1]
		if overlapsAny(ws, we, bad) {
			flush()
			continue
		}
		if words == 0 {
			from = ws
		}
		to = we
		words++
	}
	flush()

	return out
}

func acceptWordCount(c Candidate) bool {
	return c.Tokens >= minNameWords && c.Tokens <= maxNameWords
}

// titleName capitalises every hyphen or apostrophe separated piece of each
// word independently.
func titleName(s string) string {
	caser := cases.Title(language.Und)
	words := strings.Fields(s)

	for i, w := range words {
		var b strings.Builder
		piece := 0
		for j, r := range w {
			if r == '-' || r == '\'' {
				b.WriteString(caser.String(w[piece:j]))
				b.WriteRune(r)
				piece = j + 1
			}
		}
		b.WriteString(caser.String(w[piece:]))
		words[i] = b.String()
	}

	return strings.Join(words, " ")
}

// nameWords keeps the words of s that contain a letter.
func nameWords(s string) string {
	var kept []string
	for _, w := range strings.Fields(s) {
		if strings.IndexFunc(w, unicode.IsLetter) >= 0 {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
