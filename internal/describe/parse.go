package describe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"productcopy/internal/domain"
)

var (
	errEmptyPayload = errors.New("empty payload")
	errMissingKeys  = errors.New("missing required keys")
)

// modelPayload is what a model may return: either the canonical per-language
// productNames map, the flat productName, or both.
type modelPayload struct {
	ProductName  string
	ProductNames map[string]string
	Descriptions []domain.Description
}

// parseStrict accepts the primary model's output: a surrounding code fence is
// removed, then the remainder must be a single JSON object.
func parseStrict(raw string) (*modelPayload, error) {
	return decodePayload(trimCodeFence(raw))
}

// parseLenient accepts the repair model's output, which may still carry
// prose around the JSON object.
func parseLenient(raw string) (*modelPayload, error) {
	return decodePayload(extractJSONFragment(raw))
}

func decodePayload(text string) (*modelPayload, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errEmptyPayload
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, err
	}
	rawDescriptions, hasDescriptions := fields["descriptions"]
	rawNames, hasNames := fields["productNames"]
	rawName, hasName := fields["productName"]
	if !hasDescriptions || isNull(rawDescriptions) || (!hasNames && !hasName) {
		return nil, errMissingKeys
	}

	var p modelPayload
	if err := json.Unmarshal(rawDescriptions, &p.Descriptions); err != nil {
		return nil, fmt.Errorf("descriptions: %w", err)
	}
	if hasNames && !isNull(rawNames) {
		if err := json.Unmarshal(rawNames, &p.ProductNames); err != nil {
			// Some models put a single string under productNames.
			if err := json.Unmarshal(rawNames, &p.ProductName); err != nil {
				return nil, fmt.Errorf("productNames: %w", err)
			}
		}
	}
	if hasName && !isNull(rawName) && p.ProductName == "" {
		if err := json.Unmarshal(rawName, &p.ProductName); err != nil {
			return nil, fmt.Errorf("productName: %w", err)
		}
	}
	if len(p.ProductNames) == 0 && strings.TrimSpace(p.ProductName) == "" {
		return nil, errMissingKeys
	}
	return &p, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

// trimCodeFence removes a leading ```json (or bare ```) fence and the closing
// fence. Input without a fence is returned trimmed, so the step is idempotent.
func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if len(trimmed) >= 4 && strings.EqualFold(trimmed[:4], "json") {
		trimmed = trimmed[4:]
	}
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
