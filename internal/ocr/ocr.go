// Package ocr turns a scanned facesheet page into the flat token stream
// the extraction core consumes. Two sources are available: the default
// shells out to the tesseract binary in TSV mode, the other drives
// libtesseract in-process through gosseract.
package ocr

import (
	"context"
	"time"

	"github.com/medscan/facesheet-extractor/internal/facesheet"
)

// Config holds token-source settings. The engine path is explicit
// per-source state, never a process-global.
type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Lang      string // default "eng"

	TessdataDir string
	PSM         int // e.g., 6 is good for uniform block of text
	OEM         int // 1 = LSTM; leave 0 to use default

	Preprocess bool   // grayscale + upscale small scans before OCR
	CacheDir   string // where preprocessed artifacts are written
}

func (c Config) withDefaults() Config {
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.Lang == "" {
		c.Lang = "eng"
	}
	if c.CacheDir == "" {
		c.CacheDir = "./tmp"
	}
	return c
}

// Result is one page's worth of recognized tokens plus run metadata.
type Result struct {
	Tokens   []facesheet.Token
	MeanConf float64 // mean word confidence, 0..100; 0 when no words
	Duration time.Duration
	Warnings []string
}

// Source produces the token stream for a page image. Implementations
// guarantee index-aligned text/box/conf per token; they make no promise
// about token order.
type Source interface {
	Tokens(ctx context.Context, path string) (Result, error)
}
