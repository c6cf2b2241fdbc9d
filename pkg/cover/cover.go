// Package cover renders book cover previews from the first page of a PDF.
package cover

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"

	"tableflip.dev/shelf/pkg/doc"
)

// RenderScale is the rasterization scale for cover previews.
const RenderScale = 1.5

// Render encodes the first page of the document as PNG.
func Render(d doc.Document) ([]byte, error) {
	if d.PageCount() < 1 {
		return nil, errors.New("cover: document has no pages")
	}
	img, err := d.RenderPage(1, RenderScale)
	if err != nil {
		return nil, fmt.Errorf("cover: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("cover: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate opens the PDF at path and renders its cover.
func Generate(path string) ([]byte, error) {
	d, err := doc.Open(path)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return Render(d)
}
