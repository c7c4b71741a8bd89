package detect

import (
	"time"

	"github.com/a3tai/mcp-pdf-renamer/internal/dates"
)

// Fields holds everything detected in one segment. Empty strings and nil
// dates mean the field is absent.
type Fields struct {
	Name         string     `json:"name,omitempty"`
	OrderCode    string     `json:"order_code,omitempty"`
	SiteCode     string     `json:"site_code,omitempty"`
	StartDateRaw string     `json:"start_date_raw,omitempty"`
	EndDateRaw   string     `json:"end_date_raw,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

// Options configures Detect.
type Options struct {
	DatePolicy dates.Policy
	NamePolicy NamePolicy
}

// Detect runs every field detector over text. A normalised date is set only
// when its raw value parses under opts.DatePolicy.
func Detect(text string, opts Options) Fields {
	f := Fields{
		Name:         DetectName(text, opts.NamePolicy),
		OrderCode:    DetectOrderCode(text),
		SiteCode:     DetectSiteCode(text),
		StartDateRaw: DetectStartDate(text),
		EndDateRaw:   DetectEndDate(text),
	}

	if t, ok := dates.Parse(f.StartDateRaw, opts.DatePolicy); ok {
		f.StartDate = &t
	}
	if t, ok := dates.Parse(f.EndDateRaw, opts.DatePolicy); ok {
		f.EndDate = &t
	}

	return f
}
