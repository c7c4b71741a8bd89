package detect

import "regexp"

const orderValue = `\s*[:\-]?\s*([A-Za-z0-9-]{5,})`

// orderLabels are tried in order; the first label with an acceptable value wins.
var orderLabels = []struct {
	name    string
	pattern string
}{
	{"order-no", `(?i)\bOrder\s*No\b\.?`},
	{"order-number", `(?i)\bOrder\s*Number\b`},
	{"order-hash", `(?i)\bOrder\s*#`},
	{"order-id", `(?i)\bOrder\s*ID\b`},
	// Upper-case PO/SO stand alone; any other casing needs a ":", "#" or "-"
	// after it, so the English word "so" never starts a code.
	{"po", `(?:\bP\.?O\b\.?|(?i:\bp\.?o\b)\.?\s*[:#\-])`},
	{"so", `(?:\bS\.?O\b\.?|(?i:\bs\.?o\b)\.?\s*[:#\-])`},
}

var (
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	orderStrategies = buildOrderStrategies()
)

func buildOrderStrategies() []Strategy {
	out := make([]Strategy, 0, len(orderLabels))
	for _, l := range orderLabels {
		re := regexp.MustCompile(l.pattern + orderValue)
		out = append(out, Strategy{
			Name:   l.name,
			Find:   regexFinder(re, 1),
			Accept: acceptOrderCode,
		})
	}
	return out
}

func acceptOrderCode(c Candidate) bool {
	return !isoDateRe.MatchString(c.Value)
}

// DetectOrderCode returns the order or reference code in text, or "".
func DetectOrderCode(text string) string {
	c, _, ok := FirstMatch(text, PickFirst, orderStrategies...)
	if !ok {
		return ""
	}
	return c.Value
}
