package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Violation describes a single failed field constraint.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every violation found in a request body.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.Field+": "+v.Message)
	}
	return strings.Join(lines, "\n")
}

// Is lets callers match any ValidationError against ErrInvalidRequest.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ParseGenerationRequest decodes and validates a generation request body.
// It never stops at the first problem: the returned *ValidationError lists
// every violated constraint in field order.
func ParseGenerationRequest(body []byte) (GenerationRequest, error) {
	var req GenerationRequest
	verr := &ValidationError{}

	var fields map[string]json.RawMessage
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &fields) != nil {
		verr.add("(root)", "expected a JSON object")
		return req, verr
	}

	req.ImageURL = requiredString(verr, fields, "imageUrl", true)
	req.Languages = requiredLanguages(verr, fields)
	req.Model = requiredString(verr, fields, "model", true)
	req.Length = requiredString(verr, fields, "length", false)
	req.Tone = requiredString(verr, fields, "tone", false)

	if len(verr.Violations) > 0 {
		return GenerationRequest{}, verr
	}
	return req, nil
}

func requiredString(verr *ValidationError, fields map[string]json.RawMessage, name string, nonEmpty bool) string {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		verr.add(name, "required")
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		verr.add(name, "expected string, received %s", jsonKind(raw))
		return ""
	}
	if nonEmpty && strings.TrimSpace(s) == "" {
		verr.add(name, "must not be empty")
		return ""
	}
	return strings.TrimSpace(s)
}

func requiredLanguages(verr *ValidationError, fields map[string]json.RawMessage) []string {
	raw, ok := fields["languages"]
	if !ok || isNull(raw) {
		verr.add("languages", "required")
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		verr.add("languages", "expected array, received %s", jsonKind(raw))
		return nil
	}
	if len(items) == 0 {
		verr.add("languages", "must contain at least 1 element")
		return nil
	}
	languages := make([]string, 0, len(items))
	for i, item := range items {
		var code string
		if err := json.Unmarshal(item, &code); err != nil {
			verr.add(fmt.Sprintf("languages[%d]", i), "expected string, received %s", jsonKind(item))
			continue
		}
		code = strings.TrimSpace(code)
		if code == "" {
			verr.add(fmt.Sprintf("languages[%d]", i), "must not be empty")
			continue
		}
		languages = append(languages, code)
	}
	return languages
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "undefined"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
