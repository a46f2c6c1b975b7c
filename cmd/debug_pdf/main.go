package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"github.com/kpauljoseph/labelsplit/internal/pdf"
	"github.com/kpauljoseph/labelsplit/pkg/utils"
)

// debug_pdf renders two PDFs page by page and compares the pixels, e.g. the
// outputs of two runs over the same input.
func main() {
	if len(os.Args) != 3 {
		fmt.Println("Usage: debug_pdf file1.pdf file2.pdf")
		os.Exit(1)
	}

	pdf1Path := os.Args[1]
	pdf2Path := os.Args[2]

	tempDir, err := os.MkdirTemp("", "labelsplit-debug-*")
	if err != nil {
		fmt.Printf("Error creating temp dir: %v\n", err)
		os.Exit(1)
	}

	doc1, err := fitz.New(pdf1Path)
	if err != nil {
		fmt.Printf("Error opening first PDF: %v\n", err)
		os.Exit(1)
	}
	defer doc1.Close()

	doc2, err := fitz.New(pdf2Path)
	if err != nil {
		fmt.Printf("Error opening second PDF: %v\n", err)
		os.Exit(1)
	}
	defer doc2.Close()

	fmt.Printf("\nBasic Properties:\n")
	fmt.Printf("PDF 1 pages: %d\n", doc1.NumPage())
	fmt.Printf("PDF 2 pages: %d\n", doc2.NumPage())

	maxPages := min(doc1.NumPage(), doc2.NumPage())
	mismatches := 0

	for pageNum := 0; pageNum < maxPages; pageNum++ {
		fmt.Printf("\nAnalyzing Page %d:\n", pageNum+1)

		img1, err := doc1.ImageDPI(pageNum, pdf.RasterDPI)
		if err != nil {
			fmt.Printf("Error rendering page from PDF 1: %v\n", err)
			continue
		}
		img2, err := doc2.ImageDPI(pageNum, pdf.RasterDPI)
		if err != nil {
			fmt.Printf("Error rendering page from PDF 2: %v\n", err)
			continue
		}

		fmt.Printf("PDF 1 raster: %dx%d px\n", img1.Bounds().Dx(), img1.Bounds().Dy())
		fmt.Printf("PDF 2 raster: %dx%d px\n", img2.Bounds().Dx(), img2.Bounds().Dy())

		hash1, _ := utils.GenerateImageHash(img1)
		hash2, _ := utils.GenerateImageHash(img2)
		fmt.Printf("Hashes match: %v\n", hash1 == hash2)
		if hash1 == hash2 {
			continue
		}

		mismatches++
		fmt.Printf("PDF 1 hash: %s\n", hash1)
		fmt.Printf("PDF 2 hash: %s\n", hash2)

		// Keep differing pages for manual inspection.
		for idx, img := range []image.Image{img1, img2} {
			path := filepath.Join(tempDir, fmt.Sprintf("page%d_pdf%d.png", pageNum+1, idx+1))
			f, err := os.Create(path)
			if err != nil {
				fmt.Printf("Error saving %s: %v\n", path, err)
				continue
			}
			_ = png.Encode(f, img)
			f.Close()
			fmt.Printf("Saved %s\n", path)
		}
	}

	if doc1.NumPage() != doc2.NumPage() {
		mismatches++
	}
	if mismatches > 0 {
		fmt.Printf("\n%d differences found, page images in %s\n", mismatches, tempDir)
		os.Exit(1)
	}
	os.RemoveAll(tempDir)
	fmt.Println("\nDocuments render identically")
}
