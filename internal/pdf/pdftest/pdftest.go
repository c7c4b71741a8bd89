// Package pdftest builds small, valid PDF documents for tests. Every text
// line is written as its own text object so extractors see one line each.
package pdftest

import (
	"fmt"
	"strings"
)

// Build returns a PDF with one page per entry; each page shows its lines top
// to bottom. A page with no lines has an empty content stream.
func Build(pages ...[]string) []byte {
	if len(pages) == 0 {
		pages = [][]string{nil}
	}

	n := len(pages)
	// Objects: 1 catalog, 2 pages, 3 font, then a page and content object per page.
	offsets := make([]int, 0, 3+2*n)
	var b strings.Builder

	b.WriteString("%PDF-1.4\n")

	obj := func(num int, body string) {
		offsets = append(offsets, b.Len())
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	obj(1, "<<\n/Type /Catalog\n/Pages 2 0 R\n>>")
	obj(2, fmt.Sprintf("<<\n/Type /Pages\n/Kids [%s]\n/Count %d\n>>", strings.Join(kids, " "), n))
	obj(3, "<<\n/Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n>>")

	for i, lines := range pages {
		pageNum, contentNum := 4+2*i, 5+2*i
		obj(pageNum, fmt.Sprintf("<<\n/Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 612 792]\n"+
			"/Contents %d 0 R\n/Resources <<\n/Font <<\n/F1 3 0 R\n>>\n>>\n>>", contentNum))

		content := contentStream(lines)
		obj(contentNum, fmt.Sprintf("<<\n/Length %d\n>>\nstream\n%sendstream", len(content), content))
	}

	xrefStart := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<<\n/Size %d\n/Root 1 0 R\n>>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefStart)

	return []byte(b.String())
}

// Pages is a convenience for single-line pages.
func Pages(texts ...string) []byte {
	pages := make([][]string, len(texts))
	for i, t := range texts {
		if t != "" {
			pages[i] = strings.Split(t, "\n")
		}
	}
	return Build(pages...)
}

func contentStream(lines []string) string {
	var b strings.Builder
	y := 740
	for _, line := range lines {
		fmt.Fprintf(&b, "BT\n/F1 12 Tf\n72 %d Td\n(%s) Tj\nET\n", y, escape(line))
		y -= 16
	}
	return b.String()
}

var escaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

func escape(s string) string {
	return escaper.Replace(s)
}
