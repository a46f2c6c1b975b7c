package models

import (
	"image"
)

// PageDimensions is a physical page size in PDF points (1/72 inch).
type PageDimensions struct {
	Width  float64
	Height float64
}

type Half int

const (
	HalfTop Half = iota
	HalfBottom
)

func (h Half) String() string {
	switch h {
	case HalfTop:
		return "top"
	case HalfBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Placement describes where an encoded half is drawn on its output page.
// YOffset is measured from the bottom edge of the page, like PDF user space.
type Placement struct {
	PageWidth      float64
	PageHeight     float64
	TargetWidthPx  int
	TargetHeightPx int
	DisplayHeight  float64
	YOffset        float64
}

// Overflows reports whether the image bleeds past the top and bottom edges.
func (p Placement) Overflows() bool {
	return p.DisplayHeight > p.PageHeight
}

// TopFromUpperEdge returns the distance between the upper page edge and the
// upper image edge, for writers whose origin is the top-left corner.
func (p Placement) TopFromUpperEdge() float64 {
	return p.PageHeight - p.YOffset - p.DisplayHeight
}

type EncodedHalf struct {
	SourcePage int
	Half       Half
	// Width and Height are the pixel dimensions of the rotated half.
	Width     int
	Height    int
	Data      []byte
	Placement Placement
}

// OutputIndex is the zero-based page this half occupies in the output document.
func (e EncodedHalf) OutputIndex() int {
	return e.SourcePage*2 + int(e.Half)
}

// PagePair holds both halves produced from one source page.
type PagePair struct {
	Top    EncodedHalf
	Bottom EncodedHalf
}

type Preview struct {
	OutputPage int
	Image      image.Image
}

type ConversionResult struct {
	Hash             string
	SourcePages      int
	PDF              []byte
	Previews         []Preview
	PreviewTruncated bool
}

func (r *ConversionResult) OutputPages() int {
	return r.SourcePages * 2
}
