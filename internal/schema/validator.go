package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// DeveloperImport describes a developer import document:
// {"developers": [{"devId": "...", "name": "...", "project": "..."}]}.
var DeveloperImport = map[string]any{
	"type":     "object",
	"required": []string{"developers"},
	"properties": map[string]any{
		"developers": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"required":             []string{"devId", "name", "project"},
				"additionalProperties": false,
				"properties": map[string]any{
					"devId":   map[string]any{"type": "string", "minLength": 1},
					"name":    map[string]any{"type": "string"},
					"project": map[string]any{"type": "string"},
				},
			},
		},
	},
}

// Validator checks documents against JSON schemas, caching compiled
// schemas.
type Validator struct {
	cache sync.Map // map[string]*gojsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks doc (any JSON-compatible Go value) against schemaData
// (a map, a JSON string, or a struct).
func (v *Validator) Validate(schemaData any, doc any) error {
	s, err := v.compile(schemaData)
	if err != nil {
		return fmt.Errorf("invalid schema definition: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validation execution failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("schema validation failed:\n- %s", dumpErrors(errs))
}

func (v *Validator) compile(schemaData any) (*gojsonschema.Schema, error) {
	var key []byte
	if s, ok := schemaData.(string); ok {
		key = []byte(s)
	} else {
		b, err := json.Marshal(schemaData)
		if err != nil {
			return nil, err
		}
		key = b
	}

	if val, ok := v.cache.Load(string(key)); ok {
		return val.(*gojsonschema.Schema), nil
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(key))
	if err != nil {
		return nil, err
	}
	v.cache.Store(string(key), s)
	return s, nil
}

// dumpErrors keeps the first three messages.
func dumpErrors(errs []string) string {
	truncated := ""
	if len(errs) > 3 {
		truncated = fmt.Sprintf("\n... and %d more", len(errs)-3)
		errs = errs[:3]
	}
	return strings.Join(errs, "\n- ") + truncated
}
