package naming

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-renamer/internal/detect"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"John Smith", "John_Smith"},
		{"  John \t  Smith  ", "John_Smith"},
		{"O'Connor / Mary-Jane", "OConnor_Mary-Jane"},
		{"ORD-123.45", "ORD-123.45"},
		{"José Álvarez", "José_Álvarez"},
		{"../../etc/passwd", "etcpasswd"},
		{"***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestBuild(t *testing.T) {
	nameRange := MustParseTemplate("Name_DateRange")

	tests := []struct {
		name   string
		fields detect.Fields
		tmpl   Template
		want   string
	}{
		{
			name:   "name and range",
			fields: detect.Fields{Name: "John Smith", StartDate: day(2025, 10, 5), EndDate: day(2025, 10, 9)},
			tmpl:   nameRange,
			want:   "John_Smith_2025.10.05-10.09.pdf",
		},
		{
			name:   "no dates",
			fields: detect.Fields{Name: "John Smith"},
			tmpl:   nameRange,
			want:   "John_Smith_UnknownDate.pdf",
		},
		{
			name:   "range across years",
			fields: detect.Fields{Name: "Ann Lee", StartDate: day(2025, 12, 29), EndDate: day(2026, 1, 2)},
			tmpl:   nameRange,
			want:   "Ann_Lee_2025.12.29-2026.01.02.pdf",
		},
		{
			name:   "start only",
			fields: detect.Fields{Name: "Ann Lee", StartDate: day(2025, 10, 5)},
			tmpl:   nameRange,
			want:   "Ann_Lee_2025.10.05.pdf",
		},
		{
			name:   "absent name omitted",
			fields: detect.Fields{EndDate: day(2025, 10, 9)},
			tmpl:   nameRange,
			want:   "2025.10.09.pdf",
		},
		{
			name:   "order first with dash separator",
			fields: detect.Fields{Name: "John Smith", OrderCode: "ORD-1", StartDate: day(2025, 10, 5), EndDate: day(2025, 10, 9)},
			tmpl:   MustParseTemplate("Order-Name-DateRange"),
			want:   "ORD-1-John_Smith-2025.10.05-10.09.pdf",
		},
		{
			name:   "absent order omitted",
			fields: detect.Fields{Name: "John Smith"},
			tmpl:   MustParseTemplate("Order_Site_Name_DateRange"),
			want:   "John_Smith_UnknownDate.pdf",
		},
		{
			name:   "site slot",
			fields: detect.Fields{Name: "John Smith", SiteCode: "DA11", StartDate: day(2025, 10, 5), EndDate: day(2025, 10, 9)},
			tmpl:   MustParseTemplate("Site_Name_DateRange"),
			want:   "DA11_John_Smith_2025.10.05-10.09.pdf",
		},
		{
			name:   "start and end slots",
			fields: detect.Fields{Name: "John Smith", StartDate: day(2025, 10, 5)},
			tmpl:   MustParseTemplate("Name_Start_End"),
			want:   "John_Smith_2025-10-05_UnknownEnd.pdf",
		},
		{
			name:   "everything absent",
			fields: detect.Fields{},
			tmpl:   MustParseTemplate("Name_Order"),
			want:   "Unknown_Name_UnknownDate.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.fields, tt.tmpl)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsSafe(got), "unsafe name %q", got)
		})
	}
}

func TestBuildCapsLongFields(t *testing.T) {
	fields := detect.Fields{
		Name:      strings.Repeat("Maria ", 40) + "Garcia",
		OrderCode: "ORD-" + strings.Repeat("9", 300),
		SiteCode:  strings.Repeat("Ä", 100),
		StartDate: day(2025, time.October, 5),
		EndDate:   day(2025, time.October, 9),
	}

	got := Build(fields, MustParseTemplate("Order_Site_Name_DateRange"))

	assert.LessOrEqual(t, len(got), maxBaseBytes+len(PDFExt))
	assert.LessOrEqual(t, len(got+"_1000"), 255)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, IsSafe(got), "unsafe name %q", got)
	assert.True(t, strings.HasPrefix(got, "ORD-999"))
	assert.True(t, strings.HasSuffix(got, PDFExt))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", clip("abc", 5))
	assert.Equal(t, "ab", clip("abcdef", 2))
	assert.Equal(t, "ab", clip("ab__cd", 4))
	assert.Equal(t, "Ä", clip("ÄÄ", 3))
}

func TestParseTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("order.name.daterange")
	require.NoError(t, err)
	assert.Equal(t, []Slot{SlotOrder, SlotName, SlotDateRange}, tmpl.Slots)
	assert.Equal(t, ".", tmpl.Separator)
	assert.Equal(t, "Order.Name.DateRange", tmpl.String())

	single, err := ParseTemplate("Name")
	require.NoError(t, err)
	assert.Equal(t, []Slot{SlotName}, single.Slots)

	for _, bad := range []string{"", "Name_Bogus", "Name/DateRange", "Name__DateRange"} {
		_, err := ParseTemplate(bad)
		assert.Error(t, err, bad)
	}
}

func TestArchiveName(t *testing.T) {
	records := []detect.Fields{
		{StartDate: day(2025, 10, 5), EndDate: day(2025, 10, 9)},
		{StartDate: day(2025, 10, 1)},
		{EndDate: day(2025, 11, 2)},
		{},
	}

	assert.Equal(t, "OrderSlips_2025.10.01-11.02.zip", ArchiveName("OrderSlips", records))
	assert.Equal(t, "OrderSlips.zip", ArchiveName("", []detect.Fields{{Name: "x"}}))
	assert.Equal(t, "Batch_2025.10.05.zip", ArchiveName("Batch", []detect.Fields{{StartDate: day(2025, 10, 5)}}))
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"a.pdf", "b.pdf", "a.pdf", "A.pdf", "a_2.pdf"})
	assert.Equal(t, []string{"a.pdf", "b.pdf", "a_2.pdf", "A_3.pdf", "a_2_2.pdf"}, got)
}

func TestIsSafe(t *testing.T) {
	assert.True(t, IsSafe("John_Smith_2025.10.05-10.09.pdf"))
	assert.False(t, IsSafe("../x.pdf"))
	assert.False(t, IsSafe("a b.pdf"))
	assert.False(t, IsSafe(""))
}
