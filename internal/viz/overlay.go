// Package viz renders debug overlays of OCR token boxes. It is an
// optional collaborator invoked by callers (the CLI's -overlay flag);
// the extraction core never branches on it.
package viz

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/medscan/facesheet-extractor/internal/facesheet"
)

var defaultBoxColor = color.NRGBA{R: 255, A: 255}

// DrawTokenBoxes returns a copy of img with a border drawn around every
// token's bounding box.
func DrawTokenBoxes(img image.Image, tokens []facesheet.Token, border int) *image.NRGBA {
	if border <= 0 {
		border = 2
	}
	out := imaging.Clone(img)
	for _, t := range tokens {
		drawRect(out, t.Box, defaultBoxColor, border)
	}
	return out
}

// ResizeToWidth scales img to the given width, keeping the aspect ratio.
func ResizeToWidth(img image.Image, width int) *image.NRGBA {
	if width <= 0 || img.Bounds().Dx() == 0 {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// SaveOverlay reads the page at srcPath, draws the token boxes and writes
// the result to dstPath.
func SaveOverlay(srcPath, dstPath string, tokens []facesheet.Token) error {
	img, err := imaging.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	if err := imaging.Save(DrawTokenBoxes(img, tokens, 2), dstPath); err != nil {
		return fmt.Errorf("save overlay: %w", err)
	}
	return nil
}

func drawRect(img *image.NRGBA, b facesheet.Box, c color.NRGBA, border int) {
	x1, y1 := b.X+b.Width, b.Y+b.Height
	for i := 0; i < border; i++ {
		drawHLine(img, b.X, x1, b.Y+i, c)
		drawHLine(img, b.X, x1, y1-i, c)
		drawVLine(img, b.X+i, b.Y, y1, c)
		drawVLine(img, x1-i, b.Y, y1, c)
	}
}

func drawHLine(img *image.NRGBA, x0, x1, y int, c color.NRGBA) {
	for x := x0; x <= x1; x++ {
		if image.Pt(x, y).In(img.Bounds()) {
			img.SetNRGBA(x, y, c)
		}
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	for y := y0; y <= y1; y++ {
		if image.Pt(x, y).In(img.Bounds()) {
			img.SetNRGBA(x, y, c)
		}
	}
}
