package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

// SplitHalves cuts src at height/2. The bottom half gets the extra row of an
// odd height. Both halves own their pixels and start at the origin.
func SplitHalves(page int, src *image.RGBA) (*image.RGBA, *image.RGBA, error) {
	bounds := src.Bounds()
	height := bounds.Dy()
	if height < 2 {
		return nil, nil, &InvalidGeometryError{Page: page, Height: height}
	}

	midPoint := bounds.Min.Y + height/2
	top := copyRows(src, bounds.Min.Y, midPoint)
	bottom := copyRows(src, midPoint, bounds.Max.Y)
	return top, bottom, nil
}

func copyRows(src *image.RGBA, y0, y1 int) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), y1-y0))
	rowLen := bounds.Dx() * 4
	for y := y0; y < y1; y++ {
		s := src.PixOffset(bounds.Min.X, y)
		d := dst.PixOffset(0, y-y0)
		copy(dst.Pix[d:d+rowLen], src.Pix[s:s+rowLen])
	}
	return dst
}

// Rotate turns src by degrees (counter-clockwise positive, multiples of 90
// only) and grows the canvas so nothing is cropped. Pixels are moved, never
// resampled.
func Rotate(src *image.RGBA, degrees int) (*image.RGBA, error) {
	if degrees%90 != 0 {
		return nil, fmt.Errorf("unsupported rotation %d, must be a multiple of 90", degrees)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var dst *image.RGBA
	var target func(x, y int) (int, int)

	switch ((degrees % 360) + 360) % 360 {
	case 0:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		target = func(x, y int) (int, int) { return x, y }
	case 90:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		target = func(x, y int) (int, int) { return y, w - 1 - x }
	case 180:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		target = func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 270:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		target = func(x, y int) (int, int) { return h - 1 - y, x }
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			tx, ty := target(x, y)
			d := dst.PixOffset(tx, ty)
			copy(dst.Pix[d:d+4], src.Pix[s:s+4])
		}
	}
	return dst, nil
}

func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
