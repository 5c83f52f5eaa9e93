package appconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mwiater/perfview/internal/perflog"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidConfig wraps every schema violation.
var ErrInvalidConfig = errors.New("configuration does not match schema")

func configSchema() map[string]any {
	metrics := make([]any, 0)
	for _, m := range perflog.ChartableMetrics() {
		metrics = append(metrics, string(m))
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"debug":          map[string]any{"type": "boolean"},
			"logFile":        map[string]any{"type": "string"},
			"listen":         map[string]any{"type": "string"},
			"maxUploadMB":    map[string]any{"type": "integer", "minimum": 0},
			"exportDir":      map[string]any{"type": "string"},
			"defaultMetric":  map[string]any{"type": "string", "enum": metrics},
			"deltaPlacement": map[string]any{"type": "string", "enum": []any{"trailing", "beforeLast"}},
			"chartWidth":     map[string]any{"type": "integer", "minimum": 0},
			"chartHeight":    map[string]any{"type": "integer", "minimum": 0},
			"corsOrigins":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"reportTitle":    map[string]any{"type": "string"},
		},
	}
}

// Validate checks a JSON config document and reports every violation at once.
func Validate(document []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(configSchema()), gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(details, "; "))
}
