package pdf

import (
	"math"

	"github.com/kpauljoseph/labelsplit/pkg/models"
)

// ComputePlacement scales an image of widthPx x heightPx, rasterised at dpi,
// so that it fills the page width exactly and centres it vertically. The
// height is not clamped: an image taller than the page bleeds evenly past
// both edges.
func ComputePlacement(widthPx, heightPx int, page models.PageDimensions, dpi int) models.Placement {
	targetWidthPx := int(math.Round(page.Width / PointsPerInch * float64(dpi)))
	scale := float64(targetWidthPx) / float64(widthPx)
	targetHeightPx := int(math.Round(float64(heightPx) * scale))
	displayHeight := float64(targetHeightPx) / float64(dpi) * PointsPerInch

	return models.Placement{
		PageWidth:      page.Width,
		PageHeight:     page.Height,
		TargetWidthPx:  targetWidthPx,
		TargetHeightPx: targetHeightPx,
		DisplayHeight:  displayHeight,
		YOffset:        (page.Height - displayHeight) / 2,
	}
}
