// Package export produces XLSX workbooks of extracted facesheet fields
// for downstream reporting.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/medscan/facesheet-extractor/internal/entity"
	"github.com/medscan/facesheet-extractor/internal/facesheet"
	"github.com/medscan/facesheet-extractor/internal/repository"
)

// Service is a tiny façade over the page repository that renders one row
// per page, one column per configured field (plus the decomposed name
// columns for Name-typed fields).
type Service struct {
	pages  repository.PageRepository
	specs  []facesheet.FieldSpec
	logger *slog.Logger
}

func NewService(pages repository.PageRepository, specs []facesheet.FieldSpec, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{pages: pages, specs: specs, logger: logger}
}

// ExportXLSX returns an XLSX workbook (as bytes) of all stored pages.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	pages, err := s.pages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	fieldsByPage := make(map[string][]entity.PageField, len(pages))
	for _, p := range pages {
		fields, err := s.pages.ListFields(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("list fields for %s: %w", p.ID, err)
		}
		fieldsByPage[p.ID.String()] = fields
	}

	b, err := BuildWorkbook(pages, fieldsByPage, s.specs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("export built",
		"pages", len(pages), "bytes", len(b),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// BuildWorkbook renders the workbook from already-loaded rows.
func BuildWorkbook(pages []entity.Page, fieldsByPage map[string][]entity.PageField, specs []facesheet.FieldSpec) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	const sheet = "Facesheets"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}
	if idx, _ := f.GetSheetIndex(sheet); idx != -1 {
		f.SetActiveSheet(idx)
	}
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Source Path", "Ingested At", "Mean Confidence"}
	for _, spec := range specs {
		headers = append(headers, spec.Label)
		if spec.Type == facesheet.FieldTypeName {
			headers = append(headers,
				spec.Label+" First", spec.Label+" Middle", spec.Label+" Last")
		}
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, p := range pages {
		// fields are stored keyed by position, which is the spec index;
		// duplicate labels stay distinct columns
		byPos := map[int]entity.PageField{}
		for _, fld := range fieldsByPage[p.ID.String()] {
			byPos[fld.Position] = fld
		}

		row := []any{p.SourcePath, p.IngestedAt.UTC().Format(time.RFC3339), p.MeanConf}
		for i, spec := range specs {
			fld := byPos[i]
			row = append(row, fld.Value)
			if spec.Type == facesheet.FieldTypeName {
				row = append(row, strOrEmpty(fld.First), strOrEmpty(fld.Middle), strOrEmpty(fld.Last))
			}
		}
		for colIdx, v := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
