package naming

import (
	"fmt"
	"strings"
	"unicode"
)

// Slot is one field position in a filename template.
type Slot int

const (
	SlotName Slot = iota
	SlotOrder
	SlotSite
	SlotDateRange
	SlotStart
	SlotEnd
)

var slotNames = map[string]Slot{
	"name":      SlotName,
	"order":     SlotOrder,
	"site":      SlotSite,
	"daterange": SlotDateRange,
	"start":     SlotStart,
	"end":       SlotEnd,
}

func (s Slot) String() string {
	switch s {
	case SlotName:
		return "Name"
	case SlotOrder:
		return "Order"
	case SlotSite:
		return "Site"
	case SlotDateRange:
		return "DateRange"
	case SlotStart:
		return "Start"
	case SlotEnd:
		return "End"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

// Template is an ordered list of slots joined by Separator.
type Template struct {
	Slots     []Slot
	Separator string
}

func (t Template) separator() string {
	if t.Separator == "" {
		return "_"
	}
	return t.Separator
}

// String renders the template in the form ParseTemplate accepts.
func (t Template) String() string {
	names := make([]string, len(t.Slots))
	for i, s := range t.Slots {
		names[i] = s.String()
	}
	return strings.Join(names, t.separator())
}

// ParseTemplate reads templates such as "Name_DateRange" or
// "Order-Name-DateRange". The first non-alphanumeric character is the
// separator; slot names are case-insensitive.
func ParseTemplate(s string) (Template, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Template{}, fmt.Errorf("empty filename template")
	}

	sep := "_"
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			sep = string(r)
			break
		}
	}
	if sep != "_" && sep != "-" && sep != "." {
		return Template{}, fmt.Errorf("template separator %q is not filename safe", sep)
	}

	var tmpl Template
	tmpl.Separator = sep
	for _, part := range strings.Split(s, sep) {
		slot, ok := slotNames[strings.ToLower(part)]
		if !ok {
			return Template{}, fmt.Errorf("unknown template slot %q in %q", part, s)
		}
		tmpl.Slots = append(tmpl.Slots, slot)
	}

	return tmpl, nil
}

// MustParseTemplate is ParseTemplate for known-good constants.
func MustParseTemplate(s string) Template {
	t, err := ParseTemplate(s)
	if err != nil {
		panic(err)
	}
	return t
}
