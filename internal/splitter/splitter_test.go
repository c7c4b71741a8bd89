package splitter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pagesWithAnchors(n int, anchors ...int) []string {
	pages := make([]string, n)
	for i := range pages {
		pages[i] = fmt.Sprintf("page %d body", i)
	}
	for _, a := range anchors {
		pages[a] = fmt.Sprintf("Order Slip\nstart date : 0%d-Oct-2025", a%10)
	}
	return pages
}

func assertPartition(t *testing.T, segs []Segment, n int) {
	t.Helper()
	require.NotEmpty(t, segs)
	assert.Equal(t, 0, segs[0].StartPage)
	assert.Equal(t, n-1, segs[len(segs)-1].EndPage)

	covered := 0
	for i, s := range segs {
		assert.LessOrEqual(t, s.StartPage, s.EndPage)
		if i > 0 {
			assert.Equal(t, segs[i-1].EndPage+1, s.StartPage, "gap or overlap before segment %d", i)
		}
		covered += s.Pages()
	}
	assert.Equal(t, n, covered)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		pages   int
		anchors []int
		want    [][2]int
	}{
		{"no anchor", 4, nil, [][2]int{{0, 3}}},
		{"single page no anchor", 1, nil, [][2]int{{0, 0}}},
		{"anchor on first page only", 3, []int{0}, [][2]int{{0, 2}}},
		{"three records", 7, []int{0, 2, 5}, [][2]int{{0, 1}, {2, 4}, {5, 6}}},
		{"every page", 3, []int{0, 1, 2}, [][2]int{{0, 0}, {1, 1}, {2, 2}}},
		{"anchor on last page", 4, []int{0, 3}, [][2]int{{0, 2}, {3, 3}}},
		{"leading pages absorbed", 5, []int{2, 4}, [][2]int{{0, 3}, {4, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := Split(pagesWithAnchors(tt.pages, tt.anchors...), DefaultAnchor)

			got := make([][2]int, len(segs))
			for i, s := range segs {
				got[i] = [2]int{s.StartPage, s.EndPage}
			}
			assert.Equal(t, tt.want, got)
			assertPartition(t, segs, tt.pages)
		})
	}
}

func TestSplitEmpty(t *testing.T) {
	assert.Nil(t, Split(nil, DefaultAnchor))
}

func TestSplitText(t *testing.T) {
	pages := []string{"Start Date : a", "middle", "", "START DATE: b"}
	segs := Split(pages, DefaultAnchor)

	require.Len(t, segs, 2)
	assert.Equal(t, "Start Date : a\nmiddle\n", segs[0].Text)
	assert.Equal(t, "START DATE: b", segs[1].Text)
}

func TestSplitCustomAnchor(t *testing.T) {
	pages := []string{"Quotation No. 1", "terms", "quotation no. 2"}
	segs := Split(pages, "Quotation No.")

	require.Len(t, segs, 2)
	assert.Equal(t, 1, segs[0].EndPage)
	assert.Equal(t, 2, segs[1].StartPage)
}

func TestBoundaries(t *testing.T) {
	pages := []string{"x", "Start Date", "y", "start   date", "START DATE"}
	assert.Equal(t, []int{1, 4}, Boundaries(pages, DefaultAnchor))
	assert.Nil(t, Boundaries(pages, "  "))
}
