package pdf

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/go-fitz"
)

var (
	ErrNotPDF        = errors.New("input is not a PDF document")
	ErrEmptyDocument = errors.New("document has no pages")
)

// Rasterizer renders the pages of one opened source document.
type Rasterizer interface {
	PageCount() int
	Rasterize(ctx context.Context, index int) (*image.RGBA, error)
	Close() error
}

// OpenFunc opens a source document held in memory.
type OpenFunc func(data []byte) (Rasterizer, error)

// SniffPDF checks the magic bytes of data.
func SniffPDF(data []byte) error {
	if len(data) == 0 {
		return ErrNotPDF
	}
	if mt := mimetype.Detect(data); !mt.Is("application/pdf") {
		return fmt.Errorf("%w: detected %s", ErrNotPDF, mt.String())
	}
	return nil
}

type fitzRasterizer struct {
	doc *fitz.Document
	dpi float64
}

// OpenFitz opens data with MuPDF. Pages render at RasterDPI.
func OpenFitz(data []byte) (Rasterizer, error) {
	if err := SniffPDF(data); err != nil {
		return nil, &DecodeError{Page: NoPage, Err: err}
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, &DecodeError{Page: NoPage, Err: fmt.Errorf("failed to open PDF: %w", err)}
	}

	if doc.NumPage() == 0 {
		doc.Close()
		return nil, &DecodeError{Page: NoPage, Err: ErrEmptyDocument}
	}

	return &fitzRasterizer{doc: doc, dpi: RasterDPI}, nil
}

func (r *fitzRasterizer) PageCount() int {
	return r.doc.NumPage()
}

// Rasterize is safe for concurrent use; go-fitz serialises access to the document.
func (r *fitzRasterizer) Rasterize(ctx context.Context, index int) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	//Page numbers are zero indexed in the fitz package.
	if index < 0 || index >= r.doc.NumPage() {
		return nil, &DecodeError{
			Page: index,
			Err:  fmt.Errorf("page index out of range, document has %d pages", r.doc.NumPage()),
		}
	}

	img, err := r.doc.ImageDPI(index, r.dpi)
	if err != nil {
		return nil, &DecodeError{Page: index, Err: fmt.Errorf("failed to render page: %w", err)}
	}
	return img, nil
}

func (r *fitzRasterizer) Close() error {
	return r.doc.Close()
}
