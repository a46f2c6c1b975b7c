package main

import (
	"time"

	"github.com/kpauljoseph/labelsplit/internal/pdf"
	"github.com/kpauljoseph/labelsplit/pkg/logger"
)

type failure struct {
	Path string
	Err  error
}

type ProcessingReport struct {
	StartTime       time.Time
	EndTime         time.Time
	ProcessedPDFs   int
	SourcePages     int
	OutputPages     int
	PreviewsWritten int
	Outputs         []string
	Failures        []failure
}

func (r *ProcessingReport) Add(stats pdf.ProcessingStats) {
	r.ProcessedPDFs++
	r.SourcePages += stats.SourcePages
	r.OutputPages += stats.OutputPages
	r.PreviewsWritten += len(stats.PreviewPaths)
	r.Outputs = append(r.Outputs, stats.OutputPath)
}

func (r *ProcessingReport) Fail(path string, err error) {
	r.Failures = append(r.Failures, failure{Path: path, Err: err})
}

func (r *ProcessingReport) Print(log *logger.Logger) {
	log.Info("Processing complete:")
	log.Info("- PDFs split: %d", r.ProcessedPDFs)
	log.Info("- Source pages: %d", r.SourcePages)
	log.Info("- Output pages: %d", r.OutputPages)
	if r.PreviewsWritten > 0 {
		log.Info("- Previews written: %d", r.PreviewsWritten)
	}
	for _, out := range r.Outputs {
		log.Info("- Wrote %s", out)
	}
	for _, f := range r.Failures {
		log.Error("- Failed %s: %v", f.Path, f.Err)
	}
	log.Info("- Took %s", r.EndTime.Sub(r.StartTime).Round(time.Millisecond))
}
