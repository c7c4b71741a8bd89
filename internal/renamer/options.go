package renamer

import (
	"github.com/a3tai/mcp-pdf-renamer/internal/dates"
	"github.com/a3tai/mcp-pdf-renamer/internal/detect"
	"github.com/a3tai/mcp-pdf-renamer/internal/naming"
	"github.com/a3tai/mcp-pdf-renamer/internal/splitter"
)

// Options is the per-call configuration of a run. Hosts build one from their
// defaults and request arguments; nothing is read from globals.
type Options struct {
	AllowOCR   bool
	DatePolicy dates.Policy
	NamePolicy detect.NamePolicy
	Template   naming.Template
	// Anchor marks the first page of each record.
	Anchor string
	// Split cuts merged documents into one output per record. When false the
	// whole document is one record.
	Split bool
	// Archive bundles the outputs of a batch into one ZIP when there is more
	// than one.
	Archive       bool
	ArchivePrefix string
}

// DefaultOptions returns the settings used when a host passes none.
func DefaultOptions() Options {
	return Options{
		AllowOCR:      true,
		DatePolicy:    dates.Auto,
		NamePolicy:    detect.NameFirst,
		Template:      naming.MustParseTemplate(naming.DefaultTemplate),
		Anchor:        splitter.DefaultAnchor,
		Split:         true,
		Archive:       true,
		ArchivePrefix: naming.DefaultArchivePrefix,
	}
}

func (o Options) detectOptions() detect.Options {
	return detect.Options{DatePolicy: o.DatePolicy, NamePolicy: o.NamePolicy}
}

func (o Options) anchor() string {
	if o.Anchor == "" {
		return splitter.DefaultAnchor
	}
	return o.Anchor
}

func (o Options) template() naming.Template {
	if len(o.Template.Slots) == 0 {
		return naming.MustParseTemplate(naming.DefaultTemplate)
	}
	return o.Template
}
