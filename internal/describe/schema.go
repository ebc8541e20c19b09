package describe

import (
	"encoding/json"
	"fmt"
	"strings"
)

// jsonSchema is the subset of JSON Schema needed to describe the result shape.
// Order and KeyName only drive the prose rendering used in prompts.
type jsonSchema struct {
	Type                 string                 `json:"type"`
	Description          string                 `json:"description,omitempty"`
	Properties           map[string]*jsonSchema `json:"properties,omitempty"`
	Items                *jsonSchema            `json:"items,omitempty"`
	AdditionalProperties *jsonSchema            `json:"additionalProperties,omitempty"`
	Required             []string               `json:"required,omitempty"`

	Order   []string `json:"-"`
	KeyName string   `json:"-"`
}

const resultSchemaName = "productResponseSchema"

// resultShape is the canonical response shape. The primary prompt renders it
// as prose and the repair call sends it as a machine-readable schema.
var resultShape = &jsonSchema{
	Type: "object",
	Properties: map[string]*jsonSchema{
		"productNames": {
			Type:                 "object",
			Description:          "the name of the product, keyed by language code",
			AdditionalProperties: &jsonSchema{Type: "string"},
			KeyName:              "language",
		},
		"descriptions": {
			Type: "array",
			Items: &jsonSchema{
				Type: "object",
				Properties: map[string]*jsonSchema{
					"language":    {Type: "string", Description: "the language specified"},
					"description": {Type: "string", Description: "the description of the product in the language specified"},
				},
				Order:    []string{"language", "description"},
				Required: []string{"language", "description"},
			},
		},
	},
	Order:    []string{"productNames", "descriptions"},
	Required: []string{"productNames", "descriptions"},
}

var (
	resultSchema      = mustMarshalSchema(resultShape)
	resultShapePrompt = renderShape(resultShape)
)

func mustMarshalSchema(s *jsonSchema) json.RawMessage {
	b, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Errorf("describe: marshal result schema: %w", err))
	}
	return b
}

// renderShape prints a schema in the compact TypeScript-like notation models
// follow well, e.g. {"a": string, "b": [{"c": string}, ...]}.
func renderShape(s *jsonSchema) string {
	switch s.Type {
	case "object":
		if s.AdditionalProperties != nil {
			key := s.KeyName
			if key == "" {
				key = "key"
			}
			return fmt.Sprintf("{[%s: string]: %s}", key, renderShape(s.AdditionalProperties))
		}
		parts := make([]string, 0, len(s.Order))
		for _, name := range s.Order {
			parts = append(parts, fmt.Sprintf("%q: %s", name, renderShape(s.Properties[name])))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case "array":
		return "[" + renderShape(s.Items) + ", ...]"
	default:
		return s.Type
	}
}
