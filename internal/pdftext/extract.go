// Package pdftext acquires per-page text from source PDFs and normalizes it
// for the parsing pipeline.
package pdftext

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ExtractPages returns the plain text of every page of the document, in
// page order. A page whose text layer cannot be decoded yields an empty
// string rather than failing the document.
func ExtractPages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
