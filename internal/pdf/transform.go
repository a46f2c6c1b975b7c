package pdf

import (
	"image"

	"github.com/kpauljoseph/labelsplit/pkg/models"
)

// TransformPage splits one rasterised source page into its two encoded halves,
// top first, each rotated by RotationAngle and placed on target.
func TransformPage(page int, bitmap *image.RGBA, target models.PageDimensions) (models.PagePair, error) {
	top, bottom, err := SplitHalves(page, bitmap)
	if err != nil {
		return models.PagePair{}, err
	}

	topHalf, err := transformHalf(page, models.HalfTop, top, target)
	if err != nil {
		return models.PagePair{}, err
	}

	bottomHalf, err := transformHalf(page, models.HalfBottom, bottom, target)
	if err != nil {
		return models.PagePair{}, err
	}

	return models.PagePair{Top: topHalf, Bottom: bottomHalf}, nil
}

func transformHalf(page int, half models.Half, img *image.RGBA, target models.PageDimensions) (models.EncodedHalf, error) {
	rotated, err := Rotate(img, RotationAngle)
	if err != nil {
		return models.EncodedHalf{}, &EncodeError{Stage: "rotate", Err: err}
	}

	width, height := rotated.Bounds().Dx(), rotated.Bounds().Dy()

	data, err := EncodeJPEG(rotated, JPEGQuality)
	if err != nil {
		return models.EncodedHalf{}, &EncodeError{Stage: "jpeg", Err: err}
	}

	return models.EncodedHalf{
		SourcePage: page,
		Half:       half,
		Width:      width,
		Height:     height,
		Data:       data,
		Placement:  ComputePlacement(width, height, target, RasterDPI),
	}, nil
}
