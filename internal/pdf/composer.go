package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/signintech/gopdf"

	"github.com/kpauljoseph/labelsplit/pkg/logger"
	"github.com/kpauljoseph/labelsplit/pkg/models"
)

// Fixed creation date stamped into every output document.
var documentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func init() {
	api.DisableConfigDir()
}

// Composer lays encoded halves out on fixed size pages, one half per page.
type Composer struct {
	page   models.PageDimensions
	logger *logger.Logger
}

func NewComposer(page models.PageDimensions, logger *logger.Logger) *Composer {
	return &Composer{
		page:   page,
		logger: logger,
	}
}

// Compose renders halves, which must be in output order, and returns the
// finalised document. Nothing is returned on failure.
func (c *Composer) Compose(halves []models.EncodedHalf) ([]byte, error) {
	if len(halves) == 0 {
		return nil, &EncodeError{Stage: "compose", Err: errors.New("no pages to compose")}
	}

	doc := &gopdf.GoPdf{}
	doc.Start(gopdf.Config{
		Unit:     gopdf.UnitPT,
		PageSize: gopdf.Rect{W: c.page.Width, H: c.page.Height},
	})
	doc.SetInfo(gopdf.PdfInfo{
		Creator:      "labelsplit",
		CreationDate: documentDate,
	})

	for i, half := range halves {
		if half.OutputIndex() != i {
			return nil, &EncodeError{
				Stage: "compose",
				Err:   fmt.Errorf("half %s of source page %d arrived at position %d", half.Half, half.SourcePage, i),
			}
		}

		img, err := gopdf.ImageHolderByBytes(half.Data)
		if err != nil {
			return nil, &EncodeError{Stage: "compose", Err: err}
		}

		// Origin is the upper left corner, y grows downwards.
		doc.AddPage()
		if err := doc.ImageByHolder(img, 0, half.Placement.TopFromUpperEdge(), &gopdf.Rect{
			W: c.page.Width,
			H: half.Placement.DisplayHeight,
		}); err != nil {
			return nil, &EncodeError{
				Stage: "compose",
				Err:   fmt.Errorf("place %s half of page %d: %w", half.Half, half.SourcePage, err),
			}
		}

		c.logger.Trace("Placed %s half of page %d: y=%.2fpt h=%.2fpt",
			half.Half, half.SourcePage, half.Placement.YOffset, half.Placement.DisplayHeight)
	}

	// gopdf writes objects in insertion order.
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, &EncodeError{Stage: "write", Err: err}
	}

	if err := verifyPageCount(buf.Bytes(), len(halves)); err != nil {
		return nil, &EncodeError{Stage: "verify", Err: err}
	}

	return buf.Bytes(), nil
}

func verifyPageCount(data []byte, expected int) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	count, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("failed to read back output: %w", err)
	}
	if count != expected {
		return fmt.Errorf("output has %d pages, expected %d", count, expected)
	}
	return nil
}
