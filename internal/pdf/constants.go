package pdf

import "github.com/kpauljoseph/labelsplit/pkg/models"

const (
	// RotationAngle is applied to every half, counter-clockwise positive.
	RotationAngle = -90
	RasterDPI     = 300
	PointsPerInch = 72.0

	A5PtWidth  = 420.0
	A5PtHeight = 595.0

	JPEGQuality = 95
	PreviewCap  = 6

	OutputSuffix = "_split"
)

// A5 is the output page format.
var A5 = models.PageDimensions{Width: A5PtWidth, Height: A5PtHeight}
