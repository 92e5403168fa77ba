// Package fieldconfig loads the ordered field specifications that drive
// extraction. Two formats are supported: the operator-maintained XLSX
// workbook (the format facesheet configs have historically shipped in)
// and JSON. Row order in the source is preserved; it determines output
// order downstream.
//
// Malformed configuration is fatal here, at the loading boundary. The
// extraction core never sees a partial or invalid spec.
package fieldconfig

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/medscan/facesheet-extractor/internal/facesheet"
)

// Load dispatches on the file extension.
func Load(path string) ([]facesheet.FieldSpec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path)
	case ".json":
		return LoadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported field config format: %s", path)
	}
}
