package facesheet

import "log/slog"

// FieldType selects post-processing for an extracted value.
type FieldType string

const (
	FieldTypePlain FieldType = "Plain"
	FieldTypeName  FieldType = "Name"
)

// NormalizeFieldType maps configuration strings onto a known type.
// Unrecognized values are treated as Plain.
func NormalizeFieldType(s string) FieldType {
	if FieldType(s) == FieldTypeName {
		return FieldTypeName
	}
	return FieldTypePlain
}

// FieldSpec is one configured field: the label to look for on the page,
// the maximum horizontal distance of value tokens from the label (narrow
// for short codes like MR numbers, wide for names), and the field type.
type FieldSpec struct {
	Label string    `json:"label"`
	MaxDX int       `json:"max_horizontal_distance"`
	Type  FieldType `json:"field_type"`
}

// Field is one extracted result. Name is set only for Name-typed specs.
type Field struct {
	Label string      `json:"label"`
	Value string      `json:"value"`
	Name  *ParsedName `json:"parsed,omitempty"`
}

// Extractor runs the configured field specs against a page's token stream.
// It holds no per-page state; a single Extractor is safe to share across
// goroutines processing different pages.
type Extractor struct {
	minConf float64
	logger  *slog.Logger
}

func NewExtractor(minConf float64, logger *slog.Logger) *Extractor {
	if minConf <= 0 {
		minConf = DefaultMinConf
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{minConf: minConf, logger: logger}
}

// ExtractAll runs every spec in configuration order and returns one Field
// per spec, in the same order. A label missing from the page yields an
// empty value, never an error. Fields are independent: a token may
// contribute to several fields, and no field consumes tokens from another.
func (e *Extractor) ExtractAll(tokens []Token, specs []FieldSpec) []Field {
	out := make([]Field, 0, len(specs))
	for _, spec := range specs {
		f := Field{Label: spec.Label}
		if idx, ok := Locate(spec.Label, tokens); ok {
			f.Value = Associate(tokens, idx, spec.MaxDX, e.minConf)
		} else {
			e.logger.Debug("label not found on page", "label", spec.Label)
		}
		if spec.Type == FieldTypeName {
			parsed := DecomposeName(f.Value)
			f.Name = &parsed
		}
		out = append(out, f)
	}
	return out
}
