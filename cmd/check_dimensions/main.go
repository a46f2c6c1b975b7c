package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/kpauljoseph/labelsplit/internal/pdf"
	"github.com/kpauljoseph/labelsplit/pkg/models"
)

func main() {
	pdfPath := flag.String("file", "", "Path to PDF file")
	flag.Parse()

	if *pdfPath == "" {
		fmt.Println("Please provide a PDF file path using -file flag")
		os.Exit(1)
	}

	fmt.Printf("Analyzing PDF: %s\n", *pdfPath)

	dims, err := api.PageDimsFile(*pdfPath)
	if err != nil {
		fmt.Printf("Error getting page dimensions: %v\n", err)
		os.Exit(1)
	}

	for i, dim := range dims {
		widthPx := toPixels(dim.Width)
		heightPx := toPixels(dim.Height)
		mid := heightPx / 2

		fmt.Printf("\nPage %d:\n", i+1)
		fmt.Printf("Dimensions (Width x Height): %.3f x %.3f points\n", dim.Width, dim.Height)
		fmt.Printf("Raster at %d DPI: ~%d x %d px\n", pdf.RasterDPI, widthPx, heightPx)

		if mid < 1 {
			fmt.Printf("Too short to split: %d px tall\n", heightPx)
			continue
		}

		// Rotation swaps the axes, so a half is drawn mid px wide by widthPx tall.
		printHalf(models.HalfTop, mid, widthPx)
		printHalf(models.HalfBottom, heightPx-mid, widthPx)
	}
}

func toPixels(points float64) int {
	return int(math.Round(points / pdf.PointsPerInch * pdf.RasterDPI))
}

func printHalf(half models.Half, widthPx, heightPx int) {
	p := pdf.ComputePlacement(widthPx, heightPx, pdf.A5, pdf.RasterDPI)
	fmt.Printf("  %-6s %dx%d px -> %dx%d px, %.2f pt tall at y=%.2f",
		half, widthPx, heightPx, p.TargetWidthPx, p.TargetHeightPx, p.DisplayHeight, p.YOffset)
	if p.Overflows() {
		fmt.Printf(" (overflows by %.2f pt)", p.DisplayHeight-p.PageHeight)
	}
	fmt.Println()
}
