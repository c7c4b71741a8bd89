// Package dates turns raw date tokens found on order slips into calendar dates.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// Policy selects which raw date shapes are accepted.
type Policy int

const (
	// Auto tries every known layout in a fixed order; first success wins.
	Auto Policy = iota
	// DMonY accepts "05-Oct-2025".
	DMonY
	// DMY accepts "05/10/2025".
	DMY
	// ISO accepts "2025-10-05".
	ISO
)

const (
	layoutDMonY = "02-Jan-2006"
	layoutDMY   = "02/01/2006"
	layoutISO   = "2006-01-02"
)

var autoLayouts = []string{layoutDMonY, layoutDMY, layoutISO}

// String returns the configuration spelling of the policy.
func (p Policy) String() string {
	switch p {
	case Auto:
		return "auto"
	case DMonY:
		return "DD-Mon-YYYY"
	case DMY:
		return "DD/MM/YYYY"
	case ISO:
		return "YYYY-MM-DD"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

func (p Policy) layouts() []string {
	switch p {
	case DMonY:
		return []string{layoutDMonY}
	case DMY:
		return []string{layoutDMY}
	case ISO:
		return []string{layoutISO}
	default:
		return autoLayouts
	}
}

// ParsePolicy maps a configuration string to a Policy. The empty string is Auto.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "dd-mon-yyyy":
		return DMonY, nil
	case "dd/mm/yyyy":
		return DMY, nil
	case "yyyy-mm-dd":
		return ISO, nil
	default:
		return Auto, fmt.Errorf("unknown date format %q (expected auto, DD-Mon-YYYY, DD/MM/YYYY or YYYY-MM-DD)", s)
	}
}

// Policies lists the accepted configuration spellings.
func Policies() []string {
	return []string{Auto.String(), DMonY.String(), DMY.String(), ISO.String()}
}

// Parse strictly parses raw under the given policy. Unparsable or empty input
// reports false rather than an error. Month abbreviations match case-insensitively.
func Parse(raw string, p Policy) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range p.layouts() {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Format renders a date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(layoutISO)
}
