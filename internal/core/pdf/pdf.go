// Package pdf extracts text from uploaded PDF documents.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrNoText = errors.New("pdf contains no extractable text")

// Document is the extracted text of a PDF, page by page.
type Document struct {
	Pages []string
}

// Text joins the pages with blank lines.
func (d *Document) Text() string {
	return strings.TrimSpace(strings.Join(d.Pages, "\n\n"))
}

// Markdown applies ToMarkdown to every page.
func (d *Document) Markdown() string {
	out := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		out[i] = ToMarkdown(p)
	}
	return strings.TrimSpace(strings.Join(out, "\n\n"))
}

// Extract reads every page of the PDF in data. Pages whose text cannot be
// decoded are kept as empty strings so page numbers stay aligned.
func Extract(data []byte) (*Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	n := r.NumPage()
	doc := &Document{Pages: make([]string, 0, n)}
	empty := true
	for i := 1; i <= n; i++ {
		text := strings.Join(strings.Fields(pageText(r, i)), " ")
		if text != "" {
			empty = false
		}
		doc.Pages = append(doc.Pages, text)
	}
	if empty {
		return nil, ErrNoText
	}
	return doc, nil
}

// pageText returns "" for pages that are missing or fail to decode. The
// content stream parser panics on some malformed fonts.
func pageText(r *pdf.Reader, i int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	p := r.Page(i)
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

var (
	blankRuns = regexp.MustCompile(`\n{3,}`)
	headings  = regexp.MustCompile(`(?m)^#+\s*(.*)`)
	links     = regexp.MustCompile(`https?://[^\s)\]]+`)
)

// ToMarkdown lightly formats extracted page text: blank line runs collapse
// to one, any heading becomes a level one heading and bare URLs become links.
func ToMarkdown(text string) string {
	text = blankRuns.ReplaceAllString(text, "\n\n")
	text = headings.ReplaceAllString(text, "# $1")
	return links.ReplaceAllString(text, "[$0]($0)")
}
