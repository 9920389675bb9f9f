package service

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"contract-analyzer/internal/domain"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"
)

// FitzOpener opens PDF documents through MuPDF (go-fitz).
type FitzOpener struct{}

// NewFitzOpener creates a new MuPDF-backed document opener.
func NewFitzOpener() *FitzOpener {
	return &FitzOpener{}
}

// Open parses the PDF bytes into a document handle.
func (o *FitzOpener) Open(pdf []byte) (domain.PDFDocument, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

// fitzDocument adapts *fitz.Document to domain.PDFDocument. go-fitz
// serializes access to the underlying MuPDF context internally, so the
// handle may be shared across page workers.
type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) PageText(index int) (string, error) {
	return d.doc.Text(index)
}

// RenderPage rasterizes one page at the given DPI and encodes it as a
// grayscale PNG. Color carries nothing Tesseract needs and the smaller
// bitmap shortens recognition time.
func (d *fitzDocument) RenderPage(index, dpi int) ([]byte, error) {
	img, err := d.doc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", index, err)
	}

	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("failed to encode page %d: %w", index, err)
	}
	return buf.Bytes(), nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
