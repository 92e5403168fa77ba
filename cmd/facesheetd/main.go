// facesheetd serves the extraction pipeline over HTTP and, when
// WATCH_ROOTS is set, processes facesheet scans appearing under the
// watched directories.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/medscan/facesheet-extractor/internal/common"
	"github.com/medscan/facesheet-extractor/internal/export"
	"github.com/medscan/facesheet-extractor/internal/facesheet"
	"github.com/medscan/facesheet-extractor/internal/fieldconfig"
	"github.com/medscan/facesheet-extractor/internal/ingest"
	"github.com/medscan/facesheet-extractor/internal/ocr"
	"github.com/medscan/facesheet-extractor/internal/pipeline"
	"github.com/medscan/facesheet-extractor/internal/repository"
	"github.com/medscan/facesheet-extractor/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	specs, err := fieldconfig.Load(cfg.Fields.Path)
	if err != nil {
		logger.Error("field config load failed", "path", cfg.Fields.Path, "error", err)
		os.Exit(1)
	}
	logger.Info("field config loaded", "path", cfg.Fields.Path, "fields", len(specs))

	db, err := repository.Open(ctx, repository.Config{
		Path:        cfg.Store.Path,
		BusyTimeout: cfg.Store.BusyTimeout,
	}, logger)
	if err != nil {
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	pagesRepo := repository.NewPageRepository(db, logger)
	jobsRepo := repository.NewExtractJobRepository(db, logger)

	ocrCfg := ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		TessdataDir: cfg.OCR.TessdataDir,
		PSM:         cfg.OCR.PSM,
		OEM:         cfg.OCR.OEM,
		Preprocess:  cfg.OCR.Preprocess,
		CacheDir:    cfg.OCR.CacheDir,
	}
	var source ocr.Source
	if cfg.OCR.Engine == "gosseract" {
		source = ocr.NewGosseractSource(ocrCfg, logger)
	} else {
		source = ocr.NewTesseractSource(ocrCfg, logger)
	}

	extractor := facesheet.NewExtractor(cfg.Fields.MinConfidence, logger)
	proc := pipeline.NewProcessor(logger, source, extractor, specs, pagesRepo, jobsRepo)

	if len(cfg.Watch.Roots) > 0 {
		queue := pipeline.NewQueue(proc, logger)
		defer queue.Close()

		events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       cfg.Watch.Roots,
			InitialScan: true,
			Debounce:    cfg.Watch.Debounce,
		}, logger)
		if err != nil {
			logger.Error("watcher start failed", "error", err)
			os.Exit(1)
		}
		go func() {
			for {
				select {
				case path, ok := <-events:
					if !ok {
						return
					}
					queue.Enqueue(path)
				case <-errs:
				}
			}
		}()
		logger.Info("watching for facesheets", "roots", cfg.Watch.Roots)
	}

	exporter := export.NewService(pagesRepo, specs, logger)
	srv := server.New(proc, pagesRepo, exporter, cfg.OCR.CacheDir, logger)
	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
