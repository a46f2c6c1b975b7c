package pdf

import (
	"bytes"
	"image"
	"image/jpeg"

	xdraw "golang.org/x/image/draw"

	"github.com/kpauljoseph/labelsplit/pkg/models"
)

// PreviewWidth is the maximum width of a preview thumbnail in pixels.
const PreviewWidth = 480

// BuildPreviews decodes the first limit halves back from their JPEG data and
// shrinks them for display. truncated is set when halves were left out.
func BuildPreviews(halves []models.EncodedHalf, limit int) (previews []models.Preview, truncated bool, err error) {
	n := len(halves)
	if n > limit {
		n = limit
		truncated = true
	}

	previews = make([]models.Preview, 0, n)
	for _, half := range halves[:n] {
		img, err := jpeg.Decode(bytes.NewReader(half.Data))
		if err != nil {
			return nil, false, &DecodeError{Page: half.SourcePage, Err: err}
		}
		previews = append(previews, models.Preview{
			OutputPage: half.OutputIndex(),
			Image:      Thumbnail(img, PreviewWidth),
		})
	}
	return previews, truncated, nil
}

// Thumbnail scales img down to maxWidth, keeping its aspect ratio. Narrower
// images are returned as they are.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxWidth {
		return img
	}

	height := bounds.Dy() * maxWidth / bounds.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}
