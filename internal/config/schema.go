package config

import (
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var (
	fileSchemaLoader gojsonschema.JSONLoader
	fileSchemaOnce   sync.Once
)

// fileSchema describes the accepted shape of the config file. Unknown keys
// are rejected so typos surface as errors instead of silently doing nothing.
func fileSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"output_dir": map[string]any{
				"type": "string",
			},
			"name_separator": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"patch_extension": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
		},
	}
}

func validateAgainstSchema(raw []byte) error {
	fileSchemaOnce.Do(func() {
		fileSchemaLoader = gojsonschema.NewGoLoader(fileSchema())
	})

	result, err := gojsonschema.Validate(fileSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return schemaValidationError{issues: issues}
}

type schemaValidationError struct {
	issues []string
}

func (e schemaValidationError) Error() string {
	if len(e.issues) == 0 {
		return "config failed schema validation"
	}
	return strings.Join(e.issues, "; ")
}
