package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kpauljoseph/labelsplit/pkg/logger"
	"github.com/kpauljoseph/labelsplit/pkg/models"
	"github.com/kpauljoseph/labelsplit/pkg/utils"
)

type ProcessingStats struct {
	SourcePages      int
	OutputPages      int
	OutputPath       string
	PreviewPaths     []string
	PreviewTruncated bool
	Duration         time.Duration
}

type Processor struct {
	outputDir  string
	previewDir string
	pageSize   models.PageDimensions
	workers    int
	open       OpenFunc
	composer   *Composer
	logger     *logger.Logger
}

var _ PDFProcessor = (*Processor)(nil)

type ProcessorOption func(*Processor)

// WithWorkers bounds how many pages are transformed at once. Values below one
// select one worker per CPU.
func WithWorkers(n int) ProcessorOption {
	return func(p *Processor) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		p.workers = n
	}
}

func WithOpener(open OpenFunc) ProcessorOption {
	return func(p *Processor) {
		p.open = open
	}
}

// WithPreviewDir makes ProcessPDF write the preview thumbnails as JPEG files.
func WithPreviewDir(dir string) ProcessorOption {
	return func(p *Processor) {
		p.previewDir = dir
	}
}

func NewProcessor(outputDir string, logger *logger.Logger, opts ...ProcessorOption) (*Processor, error) {
	p := &Processor{
		outputDir: outputDir,
		pageSize:  A5,
		workers:   runtime.NumCPU(),
		open:      OpenFitz,
		logger:    logger,
	}

	for _, opt := range opts {
		opt(p)
	}

	for _, dir := range []string{p.outputDir, p.previewDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	p.composer = NewComposer(p.pageSize, logger)
	return p, nil
}

func (p *Processor) Workers() int {
	return p.workers
}

// Convert splits every page of the PDF in data and returns the composed
// document. Any failing page aborts the whole conversion.
func (p *Processor) Convert(ctx context.Context, data []byte) (*models.ConversionResult, error) {
	doc, err := p.open(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	pageCount := doc.PageCount()
	p.logger.Debug("Converting %d pages with %d workers", pageCount, p.workers)

	pairs, err := p.transformPages(ctx, doc, pageCount)
	if err != nil {
		return nil, err
	}

	halves := make([]models.EncodedHalf, 0, 2*pageCount)
	for _, pair := range pairs {
		halves = append(halves, pair.Top, pair.Bottom)
	}

	out, err := p.composer.Compose(halves)
	if err != nil {
		return nil, err
	}

	previews, truncated, err := BuildPreviews(halves, PreviewCap)
	if err != nil {
		return nil, err
	}

	return &models.ConversionResult{
		Hash:             utils.ContentHash(data),
		SourcePages:      pageCount,
		PDF:              out,
		Previews:         previews,
		PreviewTruncated: truncated,
	}, nil
}

// transformPages runs the pages through a bounded pool. Each worker writes
// only its own slot, so the result is in source order however the pool
// schedules the work.
func (p *Processor) transformPages(ctx context.Context, doc Rasterizer, pageCount int) ([]models.PagePair, error) {
	pairs := make([]models.PagePair, pageCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := 0; i < pageCount; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			bitmap, err := doc.Rasterize(gctx, i)
			if err != nil {
				return err
			}
			p.logger.Trace("Page %d rasterised to %dx%d px", i, bitmap.Bounds().Dx(), bitmap.Bounds().Dy())

			pair, err := TransformPage(i, bitmap, p.pageSize)
			if err != nil {
				return err
			}

			for _, half := range []models.EncodedHalf{pair.Top, pair.Bottom} {
				if half.Placement.Overflows() {
					p.logger.Debug("Page %d %s half is %.2fpt tall and bleeds past the %.0fpt page",
						i, half.Half, half.Placement.DisplayHeight, half.Placement.PageHeight)
				}
			}

			pairs[i] = pair
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// ProcessPDF converts the file at pdfPath and writes <base>_split.pdf into
// the output directory.
func (p *Processor) ProcessPDF(ctx context.Context, pdfPath string) (ProcessingStats, error) {
	return p.ProcessRelative(ctx, pdfPath, filepath.Base(pdfPath))
}

// ProcessRelative is ProcessPDF for a file found below a scanned directory.
// Outputs mirror relativePath under the output and preview directories.
func (p *Processor) ProcessRelative(ctx context.Context, pdfPath, relativePath string) (ProcessingStats, error) {
	start := time.Now()
	p.logger.Info("Processing PDF: %s", pdfPath)

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return ProcessingStats{}, fmt.Errorf("failed to read PDF: %w", err)
	}

	result, err := p.Convert(ctx, data)
	if err != nil {
		return ProcessingStats{}, err
	}

	subDir := relativeDir(relativePath)
	outputDir := filepath.Join(p.outputDir, subDir)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return ProcessingStats{}, fmt.Errorf("failed to create directory %s: %w", outputDir, err)
	}

	outputPath := filepath.Join(outputDir, OutputFileName(relativePath))
	if err := os.WriteFile(outputPath, result.PDF, 0644); err != nil {
		return ProcessingStats{}, fmt.Errorf("failed to write output: %w", err)
	}

	stats := ProcessingStats{
		SourcePages:      result.SourcePages,
		OutputPages:      result.OutputPages(),
		OutputPath:       outputPath,
		PreviewTruncated: result.PreviewTruncated,
	}

	if p.previewDir != "" && len(result.Previews) > 0 {
		previewDir := filepath.Join(p.previewDir, subDir)
		if err := os.MkdirAll(previewDir, 0755); err != nil {
			return ProcessingStats{}, fmt.Errorf("failed to create directory %s: %w", previewDir, err)
		}
		for n, preview := range result.Previews {
			path := filepath.Join(previewDir, PreviewFileName(relativePath, n))
			if err := writePreview(path, preview); err != nil {
				return ProcessingStats{}, err
			}
			stats.PreviewPaths = append(stats.PreviewPaths, path)
		}
	}

	stats.Duration = time.Since(start)
	p.logger.Debug("Wrote %d pages to %s in %s", stats.OutputPages, outputPath, stats.Duration)
	return stats, nil
}

// relativeDir returns the folder part of relativePath, or "" when it would
// leave the output directory.
func relativeDir(relativePath string) string {
	dir := filepath.Dir(filepath.Clean(relativePath))
	if dir == "." || filepath.IsAbs(dir) || dir == ".." || strings.HasPrefix(dir, ".."+string(filepath.Separator)) {
		return ""
	}
	return dir
}

func writePreview(path string, preview models.Preview) error {
	data, err := EncodeJPEG(preview.Image, JPEGQuality)
	if err != nil {
		return &EncodeError{Stage: "preview", Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save preview %s: %w", path, err)
	}
	return nil
}
