package fieldconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/medscan/facesheet-extractor/internal/facesheet"
)

// fieldConfigSchema constrains JSON field configs before decoding.
// field_type accepts any string; unknown types are normalized to Plain
// rather than rejected.
const fieldConfigSchema = `{
	"type": "object",
	"additionalProperties": false,
	"required": ["fields"],
	"properties": {
		"fields": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"additionalProperties": false,
				"required": ["label", "max_horizontal_distance"],
				"properties": {
					"label": {"type": "string", "minLength": 1},
					"max_horizontal_distance": {"type": "integer", "minimum": 1},
					"field_type": {"type": "string"}
				}
			}
		}
	}
}`

type jsonConfig struct {
	Fields []struct {
		Label string `json:"label"`
		MaxDX int    `json:"max_horizontal_distance"`
		Type  string `json:"field_type"`
	} `json:"fields"`
}

// LoadJSON reads and schema-validates a JSON field config.
func LoadJSON(path string) ([]facesheet.FieldSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field config: %w", err)
	}
	if err := validateJSON(data); err != nil {
		return nil, fmt.Errorf("field config %s: %w", path, err)
	}

	var cfg jsonConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode field config: %w", err)
	}

	specs := make([]facesheet.FieldSpec, 0, len(cfg.Fields))
	for _, f := range cfg.Fields {
		specs = append(specs, facesheet.FieldSpec{
			Label: f.Label,
			MaxDX: f.MaxDX,
			Type:  facesheet.NormalizeFieldType(f.Type),
		})
	}
	return specs, nil
}

func validateJSON(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("fieldconfig.json", bytes.NewReader([]byte(fieldConfigSchema))); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("fieldconfig.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
