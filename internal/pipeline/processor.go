// Package pipeline coordinates the per-page flow: tokenize via OCR,
// extract configured fields, persist results.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/medscan/facesheet-extractor/internal/facesheet"
	"github.com/medscan/facesheet-extractor/internal/ocr"
	"github.com/medscan/facesheet-extractor/internal/repository"
)

// Processor runs the OCR -> extract -> persist sequence for one page at a
// time. It keeps no per-page state; pages may be processed concurrently by
// the queue's workers.
type Processor struct {
	logger    *slog.Logger
	source    ocr.Source
	extractor *facesheet.Extractor
	specs     []facesheet.FieldSpec
	pages     repository.PageRepository
	jobs      repository.ExtractJobRepository
}

func NewProcessor(
	logger *slog.Logger,
	source ocr.Source,
	extractor *facesheet.Extractor,
	specs []facesheet.FieldSpec,
	pages repository.PageRepository,
	jobs repository.ExtractJobRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		source:    source,
		extractor: extractor,
		specs:     specs,
		pages:     pages,
		jobs:      jobs,
	}
}

// ProcessPage tokenizes the image at path, extracts all configured fields
// and persists page, job and fields. Missing labels are normal per-field
// outcomes; only OCR or storage failures fail the page.
func (p *Processor) ProcessPage(ctx context.Context, path string) (uuid.UUID, []facesheet.Field, error) {
	res, err := p.source.Tokens(ctx, path)
	if err != nil {
		p.logger.Error("page tokenize failed", "path", path, "err", err)
		return uuid.Nil, nil, fmt.Errorf("tokenize %s: %w", path, err)
	}
	return p.ProcessTokens(ctx, path, res)
}

// ProcessTokens extracts and persists fields for an already-tokenized
// page. Callers that need the raw tokens (e.g. for overlays) tokenize
// once and hand the result here.
func (p *Processor) ProcessTokens(ctx context.Context, path string, res ocr.Result) (uuid.UUID, []facesheet.Field, error) {
	for _, w := range res.Warnings {
		p.logger.Warn("ocr warning", "path", path, "warning", w)
	}

	page, err := p.pages.Create(ctx, path, len(res.Tokens), res.MeanConf)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("create page: %w", err)
	}
	job, err := p.jobs.Start(ctx, page.ID)
	if err != nil {
		return page.ID, nil, fmt.Errorf("start job: %w", err)
	}

	fields := p.extractor.ExtractAll(res.Tokens, p.specs)

	if err := p.pages.SaveFields(ctx, page.ID, fields); err != nil {
		_ = p.jobs.FinishFailure(ctx, job.ID, err.Error())
		return page.ID, fields, fmt.Errorf("save fields: %w", err)
	}
	if err := p.jobs.FinishSuccess(ctx, job.ID); err != nil {
		return page.ID, fields, err
	}

	p.logger.Info("page processed",
		"page_id", page.ID, "path", path,
		"tokens", len(res.Tokens), "fields", len(fields),
		"mean_conf", res.MeanConf,
	)
	return page.ID, fields, nil
}
