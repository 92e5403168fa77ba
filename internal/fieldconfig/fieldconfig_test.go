package fieldconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/medscan/facesheet-extractor/internal/facesheet"
)

func writeTestXLSX(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "config.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadXLSX(t *testing.T) {
	path := writeTestXLSX(t, [][]any{
		{"Label", "MaxDistance", "Type"},
		{"Patient", 400, "Name"},
		{"Visit", 100, "Plain"},
		{"MR#", 120, ""},
	})
	specs, err := LoadXLSX(path)
	if err != nil {
		t.Fatalf("LoadXLSX: %v", err)
	}
	want := []facesheet.FieldSpec{
		{Label: "Patient", MaxDX: 400, Type: facesheet.FieldTypeName},
		{Label: "Visit", MaxDX: 100, Type: facesheet.FieldTypePlain},
		{Label: "MR#", MaxDX: 120, Type: facesheet.FieldTypePlain},
	}
	if len(specs) != len(want) {
		t.Fatalf("got %d specs: %+v", len(specs), specs)
	}
	for i := range want {
		if specs[i] != want[i] {
			t.Fatalf("spec %d = %+v, want %+v", i, specs[i], want[i])
		}
	}
}

func TestLoadXLSXBadHeader(t *testing.T) {
	path := writeTestXLSX(t, [][]any{
		{"Field", "Width", "Kind"},
		{"Patient", 400, "Name"},
	})
	if _, err := LoadXLSX(path); err == nil {
		t.Fatal("expected header error")
	}
}

func TestLoadXLSXBadDistance(t *testing.T) {
	path := writeTestXLSX(t, [][]any{
		{"Label", "MaxDistance", "Type"},
		{"Patient", "wide", "Name"},
	})
	if _, err := LoadXLSX(path); err == nil {
		t.Fatal("expected error for non-numeric MaxDistance")
	}
}

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeTempJSON(t, `{
		"fields": [
			{"label": "Patient", "max_horizontal_distance": 400, "field_type": "Name"},
			{"label": "Visit", "max_horizontal_distance": 100, "field_type": "Plain"},
			{"label": "Age", "max_horizontal_distance": 80, "field_type": "Numeric"}
		]
	}`)
	specs, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if len(specs) != 3 {
		t.Fatalf("got %d specs", len(specs))
	}
	// unknown field_type is normalized to Plain, not rejected
	if specs[2].Type != facesheet.FieldTypePlain {
		t.Fatalf("Numeric should normalize to Plain, got %q", specs[2].Type)
	}
}

func TestLoadJSONSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing label":    `{"fields": [{"max_horizontal_distance": 100}]}`,
		"zero distance":    `{"fields": [{"label": "Visit", "max_horizontal_distance": 0}]}`,
		"empty fields":     `{"fields": []}`,
		"unknown property": `{"fields": [{"label": "Visit", "max_horizontal_distance": 100, "color": "red"}]}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadJSON(writeTempJSON(t, content)); err == nil {
				t.Fatal("expected schema validation error")
			}
		})
	}
}

func TestLoadDispatch(t *testing.T) {
	if _, err := Load("config.yaml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
