// Package pdftest builds small label documents and bitmaps for tests.
package pdftest

import (
	"bytes"
	"image"
	"image/color"

	"github.com/jung-kurt/gofpdf"
)

// LabelPageWidth and LabelPageHeight rasterise to exactly 600x800 px at 300 DPI.
const (
	LabelPageWidth  = 144.0
	LabelPageHeight = 192.0
)

// TopColor and BottomColor identify the two labels of source page n.
func TopColor(n int) color.RGBA {
	return color.RGBA{R: 255, G: uint8(n * 60 % 240), B: 0, A: 255}
}

func BottomColor(n int) color.RGBA {
	return color.RGBA{R: 0, G: uint8(n * 60 % 240), B: 255, A: 255}
}

// LabelPDF returns a document of pages pages, each filled with TopColor in
// its upper half and BottomColor in its lower half.
func LabelPDF(pages int, width, height float64) ([]byte, error) {
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	for n := 0; n < pages; n++ {
		doc.AddPage()
		top, bottom := TopColor(n), BottomColor(n)
		doc.SetFillColor(int(top.R), int(top.G), int(top.B))
		doc.Rect(0, 0, width, height/2, "F")
		doc.SetFillColor(int(bottom.R), int(bottom.G), int(bottom.B))
		doc.Rect(0, height/2, width, height/2, "F")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LabelBitmap is the in-memory equivalent of one LabelPDF page.
func LabelBitmap(n, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	top, bottom := TopColor(n), BottomColor(n)
	for y := 0; y < height; y++ {
		c := top
		if y >= height/2 {
			c = bottom
		}
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Close reports whether a and b differ by at most tolerance on every channel.
func Close(a, b color.Color, tolerance int) bool {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	within := func(x, y uint32) bool {
		d := int(x>>8) - int(y>>8)
		if d < 0 {
			d = -d
		}
		return d <= tolerance
	}
	return within(ar, br) && within(ag, bg) && within(ab, bb)
}
