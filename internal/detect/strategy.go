// Package detect locates order-slip fields (person name, order code, dates,
// site code) in extracted page text.
//
// Every field is found by an ordered list of strategies. Each strategy pairs
// a candidate finder with a validator, and FirstMatch evaluates them lazily,
// stopping at the first strategy that produces an accepted candidate. New
// heuristics are added as list entries.
package detect

import (
	"regexp"
	"unicode/utf8"
)

// Candidate is one possible field value found in a text.
type Candidate struct {
	Value string
	// Start and End are byte offsets of the match in the scanned text.
	Start, End int
	// Tokens is the number of words in Value, when the strategy counts them.
	Tokens int
}

// Strategy finds candidates in a text and filters them.
type Strategy struct {
	Name   string
	Find   func(text string) []Candidate
	Accept func(c Candidate) bool
}

// Picker chooses one candidate among those accepted from a single strategy.
// It is never called with an empty slice.
type Picker func(cands []Candidate) Candidate

// PickFirst returns the earliest candidate.
func PickFirst(cands []Candidate) Candidate {
	return cands[0]
}

// PickLongest returns the candidate with the most characters, earliest on ties.
func PickLongest(cands []Candidate) Candidate {
	best := cands[0]
	for _, c := range cands[1:] {
		if utf8.RuneCountInString(c.Value) > utf8.RuneCountInString(best.Value) {
			best = c
		}
	}
	return best
}

// PickMostTokens returns the candidate with the most words, earliest on ties.
func PickMostTokens(cands []Candidate) Candidate {
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Tokens > best.Tokens {
			best = c
		}
	}
	return best
}

// FirstMatch runs strategies in order and returns the candidate picked from
// the first strategy that yields at least one accepted candidate. A nil
// picker means PickFirst.
func FirstMatch(text string, pick Picker, strategies ...Strategy) (Candidate, string, bool) {
	if pick == nil {
		pick = PickFirst
	}

	for _, s := range strategies {
		var accepted []Candidate
		for _, c := range s.Find(text) {
			if s.Accept == nil || s.Accept(c) {
				accepted = append(accepted, c)
			}
		}
		if len(accepted) > 0 {
			return pick(accepted), s.Name, true
		}
	}

	return Candidate{}, "", false
}

// regexFinder returns a Find function reporting capture group `group` of
// every match of re.
func regexFinder(re *regexp.Regexp, group int) func(string) []Candidate {
	return func(text string) []Candidate {
		var out []Candidate
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			s, e := m[2*group], m[2*group+1]
			if s < 0 {
				continue
			}
			out = append(out, Candidate{Value: text[s:e], Start: s, End: e, Tokens: 1})
		}
		return out
	}
}

type span struct{ start, end int }

func spansOf(re *regexp.Regexp, text string) []span {
	var out []span
	for _, m := range re.FindAllStringIndex(text, -1) {
		out = append(out, span{m[0], m[1]})
	}
	return out
}

func overlapsAny(start, end int, spans []span) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}
