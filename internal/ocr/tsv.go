package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/medscan/facesheet-extractor/internal/facesheet"
)

// TesseractSource runs the tesseract binary in TSV mode and parses the
// word rows into tokens.
type TesseractSource struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewTesseractSource(cfg Config, logger *slog.Logger) *TesseractSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &TesseractSource{cfg: cfg.withDefaults(), runner: execRunner{}, logger: logger}
}

func (s *TesseractSource) Tokens(ctx context.Context, path string) (Result, error) {
	start := time.Now()

	var warns []string
	if s.cfg.Preprocess {
		out, cleanup, err := preprocessPage(path, s.cfg.CacheDir)
		if err != nil {
			// OCR the original rather than failing the page
			warns = append(warns, fmt.Sprintf("preprocess: %v", err))
		} else {
			defer cleanup()
			path = out
		}
	}

	args := []string{path, "stdout", "-l", s.cfg.Lang}
	if s.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(s.cfg.PSM))
	}
	if s.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(s.cfg.OEM))
	}
	if s.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", s.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, errb, err := s.runner.Run(ctx, s.cfg.Tesseract, args...)
	if err != nil {
		warns = append(warns, string(errb))
		return Result{Warnings: warns}, fmt.Errorf("tesseract TSV: %w", err)
	}

	tokens, mean, parseWarns := parseTSV(string(out))
	warns = append(warns, parseWarns...)

	s.logger.Debug("page tokenized",
		"path", path, "tokens", len(tokens), "mean_conf", mean,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return Result{
		Tokens:   tokens,
		MeanConf: mean,
		Duration: time.Since(start),
		Warnings: warns,
	}, nil
}

// parseTSV reads tesseract's TSV output into tokens. Columns are resolved
// by header name, so left/top/width/height/text/conf stay index-aligned no
// matter what tesseract version emitted them. Rows with conf -1 are layout
// rows (page/block/line), not words, and are skipped, as are empty texts.
func parseTSV(out string) ([]facesheet.Token, float64, []string) {
	lines := strings.Split(out, "\n")
	if len(lines) == 0 {
		return nil, 0, nil
	}

	col := map[string]int{}
	for i, name := range strings.Split(strings.TrimRight(lines[0], "\r"), "\t") {
		col[name] = i
	}
	var warns []string
	for _, need := range []string{"left", "top", "width", "height", "conf", "text"} {
		if _, ok := col[need]; !ok {
			warns = append(warns, fmt.Sprintf("tsv header missing column %q", need))
			return nil, 0, warns
		}
	}
	maxCol := col["left"]
	for _, i := range col {
		if i > maxCol {
			maxCol = i
		}
	}

	var tokens []facesheet.Token
	var sum float64
	for _, ln := range lines[1:] {
		ln = strings.TrimRight(ln, "\r")
		if ln == "" {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) <= maxCol {
			continue
		}
		conf, err := strconv.ParseFloat(cols[col["conf"]], 64)
		if err != nil || conf < 0 {
			continue
		}
		text := strings.TrimSpace(cols[col["text"]])
		if text == "" {
			continue
		}
		x, _ := strconv.Atoi(cols[col["left"]])
		y, _ := strconv.Atoi(cols[col["top"]])
		w, _ := strconv.Atoi(cols[col["width"]])
		h, _ := strconv.Atoi(cols[col["height"]])
		tokens = append(tokens, facesheet.Token{
			Text: text,
			Box:  facesheet.Box{X: x, Y: y, Width: w, Height: h},
			Conf: conf,
		})
		sum += conf
	}
	if len(tokens) == 0 {
		return tokens, 0, warns
	}
	return tokens, sum / float64(len(tokens)), warns
}
