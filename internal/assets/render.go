// Package assets renders PDF pages into image files for questions whose
// visual content the text pipeline cannot recover.
package assets

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"github.com/pavelanni/examdoc/internal/model"
)

// Renderer renders full pages of one source document as PNG files. File
// naming depends only on the question ID and page index, so repeated runs
// over the same input produce identical paths.
type Renderer struct {
	doc    *fitz.Document
	outDir string
}

// NewRenderer opens the document and prepares the output directory.
func NewRenderer(docPath, outDir string) (*Renderer, error) {
	doc, err := fitz.New(docPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf for rendering: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		doc.Close()
		return nil, fmt.Errorf("create assets dir: %w", err)
	}
	return &Renderer{doc: doc, outDir: outDir}, nil
}

// Close releases the underlying document.
func (r *Renderer) Close() error {
	return r.doc.Close()
}

// RenderPages renders each requested zero-based page into
// <outDir>/<questionID>/page_<idx>.png. Every file is fully written and
// closed before the call returns.
func (r *Renderer) RenderPages(pages []int, questionID string) ([]model.Asset, error) {
	dir := filepath.Join(r.outDir, questionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create question assets dir: %w", err)
	}

	rendered := make([]model.Asset, 0, len(pages))
	for _, pageIndex := range pages {
		img, err := r.doc.Image(pageIndex)
		if err != nil {
			return rendered, fmt.Errorf("render page %d: %w", pageIndex, err)
		}
		name := fmt.Sprintf("page_%d.png", pageIndex)
		if err := writePNG(filepath.Join(dir, name), img); err != nil {
			return rendered, fmt.Errorf("write page %d: %w", pageIndex, err)
		}
		rendered = append(rendered, model.Asset{
			Type: model.AssetFullPage,
			Page: pageIndex,
			File: questionID + "/" + name,
		})
	}
	return rendered, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
