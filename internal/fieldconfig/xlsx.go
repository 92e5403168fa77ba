package fieldconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/medscan/facesheet-extractor/internal/facesheet"
)

// expected header row of the workbook's first sheet
var xlsxHeader = []string{"Label", "MaxDistance", "Type"}

// LoadXLSX reads field specs from the first sheet of an XLSX workbook.
// Row 1 is the header; each following row is one field. Blank rows are
// skipped, anything else malformed is an error.
func LoadXLSX(path string) ([]facesheet.FieldSpec, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open field config: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("field config %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read field config rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("field config %s is empty", path)
	}

	if err := checkHeader(rows[0]); err != nil {
		return nil, fmt.Errorf("field config %s: %w", path, err)
	}

	var specs []facesheet.FieldSpec
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("field config row %d: need at least Label and MaxDistance", i+2)
		}
		label := strings.TrimSpace(row[0])
		if label == "" {
			return nil, fmt.Errorf("field config row %d: empty label", i+2)
		}
		maxDX, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil || maxDX <= 0 {
			return nil, fmt.Errorf("field config row %d: MaxDistance must be a positive integer, got %q", i+2, row[1])
		}
		typ := ""
		if len(row) > 2 {
			typ = strings.TrimSpace(row[2])
		}
		specs = append(specs, facesheet.FieldSpec{
			Label: label,
			MaxDX: maxDX,
			Type:  facesheet.NormalizeFieldType(typ),
		})
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("field config %s has no field rows", path)
	}
	return specs, nil
}

func checkHeader(row []string) error {
	if len(row) < len(xlsxHeader) {
		return fmt.Errorf("header row needs columns %v", xlsxHeader)
	}
	for i, want := range xlsxHeader {
		if !strings.EqualFold(strings.TrimSpace(row[i]), want) {
			return fmt.Errorf("header column %d is %q, want %q", i+1, row[i], want)
		}
	}
	return nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
