package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/draw"
)

// GenerateImageHash hashes the RGBA pixels of img row by row, ignoring its bounds origin.
func GenerateImageHash(img image.Image) (string, error) {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
		bounds = rgba.Bounds()
	}

	hasher := sha256.New()
	rowLen := bounds.Dx() * 4
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		start := rgba.PixOffset(bounds.Min.X, y)
		hasher.Write(rgba.Pix[start : start+rowLen])
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// ContentHash identifies an uploaded document by its bytes.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
