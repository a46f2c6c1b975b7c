package pdf

import (
	"context"

	"github.com/kpauljoseph/labelsplit/pkg/models"
)

type Converter interface {
	Convert(ctx context.Context, data []byte) (*models.ConversionResult, error)
}

type PDFProcessor interface {
	Converter
	ProcessPDF(ctx context.Context, pdfPath string) (ProcessingStats, error)
	ProcessRelative(ctx context.Context, pdfPath, relativePath string) (ProcessingStats, error)
}
