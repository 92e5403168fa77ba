package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/medscan/facesheet-extractor/internal/facesheet"
)

// GosseractSource tokenizes pages through libtesseract in-process. It
// avoids the exec round-trip but requires cgo and an installed
// libtesseract; the CLI TSV source is the default.
type GosseractSource struct {
	cfg    Config
	logger *slog.Logger
}

func NewGosseractSource(cfg Config, logger *slog.Logger) *GosseractSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &GosseractSource{cfg: cfg.withDefaults(), logger: logger}
}

func (s *GosseractSource) Tokens(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var warns []string
	if s.cfg.Preprocess {
		out, cleanup, err := preprocessPage(path, s.cfg.CacheDir)
		if err != nil {
			warns = append(warns, fmt.Sprintf("preprocess: %v", err))
		} else {
			defer cleanup()
			path = out
		}
	}

	client := gosseract.NewClient()
	defer client.Close()
	if s.cfg.TessdataDir != "" {
		_ = client.SetTessdataPrefix(s.cfg.TessdataDir)
	}
	_ = client.SetLanguage(s.cfg.Lang)
	if err := client.SetImage(path); err != nil {
		return Result{Warnings: warns}, fmt.Errorf("set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return Result{Warnings: warns}, fmt.Errorf("bounding boxes: %w", err)
	}

	tokens := make([]facesheet.Token, 0, len(boxes))
	var sum float64
	for _, b := range boxes {
		if b.Word == "" {
			continue
		}
		tokens = append(tokens, facesheet.Token{
			Text: b.Word,
			Box: facesheet.Box{
				X:      b.Box.Min.X,
				Y:      b.Box.Min.Y,
				Width:  b.Box.Dx(),
				Height: b.Box.Dy(),
			},
			Conf: b.Confidence,
		})
		sum += b.Confidence
	}
	var mean float64
	if len(tokens) > 0 {
		mean = sum / float64(len(tokens))
	}

	s.logger.Debug("page tokenized in-process",
		"path", path, "tokens", len(tokens), "mean_conf", mean,
	)
	return Result{
		Tokens:   tokens,
		MeanConf: mean,
		Duration: time.Since(start),
		Warnings: warns,
	}, nil
}
