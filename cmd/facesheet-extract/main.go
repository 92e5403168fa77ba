// facesheet-extract runs field extraction over a directory of scanned
// facesheet pages and prints the results. Optionally it persists pages to
// the embedded store, writes an XLSX report, and saves token-box overlays.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/medscan/facesheet-extractor/internal/common"
	"github.com/medscan/facesheet-extractor/internal/export"
	"github.com/medscan/facesheet-extractor/internal/facesheet"
	"github.com/medscan/facesheet-extractor/internal/fieldconfig"
	"github.com/medscan/facesheet-extractor/internal/ingest"
	"github.com/medscan/facesheet-extractor/internal/ocr"
	"github.com/medscan/facesheet-extractor/internal/pipeline"
	"github.com/medscan/facesheet-extractor/internal/repository"
	"github.com/medscan/facesheet-extractor/internal/viz"
)

func main() {
	var (
		imagesDir  = flag.String("images", "facesheets", "directory of page images")
		configPath = flag.String("config", "config.xlsx", "field configuration (.xlsx or .json)")
		dbPath     = flag.String("db", "", "persist results to this SQLite store (optional)")
		outPath    = flag.String("out", "", "write an XLSX report to this path (optional)")
		overlayDir = flag.String("overlay", "", "write token-box overlay images to this directory (optional)")
		engine     = flag.String("engine", "tesseract", "token source: tesseract (CLI) or gosseract (in-process)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*imagesDir, *configPath, *dbPath, *outPath, *overlayDir, *engine, logger); err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}
}

func run(imagesDir, configPath, dbPath, outPath, overlayDir, engine string, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if outPath != "" && dbPath == "" {
		return fmt.Errorf("-out requires -db: the report is built from the store")
	}

	specs, err := fieldconfig.Load(configPath)
	if err != nil {
		return err
	}
	logger.Info("field config loaded", "path", configPath, "fields", len(specs))

	envCfg := common.LoadConfig()
	ocrCfg := ocr.Config{
		Tesseract:   envCfg.OCR.Tesseract,
		Lang:        envCfg.OCR.Lang,
		TessdataDir: envCfg.OCR.TessdataDir,
		PSM:         envCfg.OCR.PSM,
		OEM:         envCfg.OCR.OEM,
		Preprocess:  envCfg.OCR.Preprocess,
		CacheDir:    envCfg.OCR.CacheDir,
	}
	var source ocr.Source
	switch engine {
	case "tesseract":
		source = ocr.NewTesseractSource(ocrCfg, logger)
	case "gosseract":
		source = ocr.NewGosseractSource(ocrCfg, logger)
	default:
		return fmt.Errorf("unknown engine %q", engine)
	}

	extractor := facesheet.NewExtractor(envCfg.Fields.MinConfidence, logger)

	var pagesRepo repository.PageRepository
	var jobsRepo repository.ExtractJobRepository
	if dbPath != "" {
		db, err := repository.Open(ctx, repository.Config{Path: dbPath, BusyTimeout: envCfg.Store.BusyTimeout}, logger)
		if err != nil {
			return err
		}
		defer repository.Close(db, logger)
		pagesRepo = repository.NewPageRepository(db, logger)
		jobsRepo = repository.NewExtractJobRepository(db, logger)
	}

	paths, err := ingest.ScanDir(imagesDir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", imagesDir, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no page images under %s", imagesDir)
	}

	proc := pipeline.NewProcessor(logger, source, extractor, specs, pagesRepo, jobsRepo)
	for _, path := range paths {
		fmt.Printf("Page: %s\n", filepath.Base(path))

		res, err := source.Tokens(ctx, path)
		if err != nil {
			logger.Error("page skipped", "path", path, "error", err)
			continue
		}

		var fields []facesheet.Field
		if pagesRepo != nil {
			if _, fields, err = proc.ProcessTokens(ctx, path, res); err != nil {
				logger.Error("page skipped", "path", path, "error", err)
				continue
			}
		} else {
			fields = extractor.ExtractAll(res.Tokens, specs)
		}

		printFields(fields)

		if overlayDir != "" {
			if err := writeOverlay(overlayDir, path, res.Tokens); err != nil {
				logger.Warn("overlay failed", "path", path, "error", err)
			}
		}
	}

	if outPath != "" {
		exporter := export.NewService(pagesRepo, specs, logger)
		b, err := exporter.ExportXLSX(ctx)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, b, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("report written", "path", outPath)
	}
	return nil
}

func printFields(fields []facesheet.Field) {
	for _, f := range fields {
		fmt.Printf("  %s: %s\n", f.Label, f.Value)
		if f.Name != nil {
			fmt.Printf("  %s Parsed: first=%q middle=%q last=%q\n",
				f.Label, f.Name.First, f.Name.Middle, f.Name.Last)
		}
	}
}

func writeOverlay(dir, pagePath string, tokens []facesheet.Token) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	base := filepath.Base(pagePath)
	ext := filepath.Ext(base)
	dst := filepath.Join(dir, strings.TrimSuffix(base, ext)+"_boxes"+ext)
	return viz.SaveOverlay(pagePath, dst, tokens)
}
