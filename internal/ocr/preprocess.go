package ocr

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
)

// minPageHeight is the scan height below which pages get upscaled; small
// fax-quality scans lose too many words at native resolution.
const (
	minPageHeight = 800
	targetHeight  = 1200
)

// preprocessPage writes a grayscale (and, for small scans, upscaled) copy
// of the page to cacheDir and returns its path with a cleanup func.
func preprocessPage(path, cacheDir string) (string, func(), error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open image: %w", err)
	}
	gray := imaging.Grayscale(img)
	if gray.Bounds().Dy() < minPageHeight {
		gray = imaging.Resize(gray, 0, targetHeight, imaging.Lanczos)
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(cacheDir, "facesheet-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("temp file: %w", err)
	}
	name := tmp.Name()
	_ = tmp.Close()
	if err := imaging.Save(gray, name); err != nil {
		_ = os.Remove(name)
		return "", nil, fmt.Errorf("save preprocessed: %w", err)
	}
	return name, func() { _ = os.Remove(name) }, nil
}
