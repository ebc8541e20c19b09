package describe

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"productcopy/internal/domain"
)

// shapeResult maps a parsed model payload onto the canonical result for the
// requested languages.
func shapeResult(languages []string, p *modelPayload) *domain.GenerationResult {
	languages = uniqueLanguages(languages)
	return &domain.GenerationResult{
		ProductNames: shapeNames(languages, p),
		Descriptions: shapeDescriptions(languages, p.Descriptions),
	}
}

func shapeNames(languages []string, p *modelPayload) map[string]string {
	names := make(map[string]string, len(languages))
	keys := make([]string, 0, len(p.ProductNames))
	for k := range p.ProductNames {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := strings.TrimSpace(p.ProductNames[k])
		if v == "" {
			continue
		}
		if lang := matchLanguage(k, languages); lang != "" && names[lang] == "" {
			names[lang] = v
		}
	}

	fallback := strings.TrimSpace(p.ProductName)
	if fallback == "" {
		for _, lang := range languages {
			if names[lang] != "" {
				fallback = names[lang]
				break
			}
		}
	}
	if fallback == "" {
		for _, k := range keys {
			if v := strings.TrimSpace(p.ProductNames[k]); v != "" {
				fallback = v
				break
			}
		}
	}
	if fallback == "" {
		return names
	}
	for _, lang := range languages {
		if names[lang] == "" {
			names[lang] = fallback
		}
	}
	return names
}

// shapeDescriptions keeps one description per requested language in request
// order. When nothing matches, the model's list is returned as-is minus
// empty entries.
func shapeDescriptions(languages []string, descs []domain.Description) []domain.Description {
	byLang := make(map[string]domain.Description, len(languages))
	for _, d := range descs {
		text := strings.TrimSpace(d.Description)
		if text == "" {
			continue
		}
		lang := matchLanguage(d.Language, languages)
		if lang == "" {
			continue
		}
		if _, seen := byLang[lang]; seen {
			continue
		}
		byLang[lang] = domain.Description{Language: lang, Description: text}
	}

	out := make([]domain.Description, 0, len(languages))
	if len(byLang) == 0 {
		for _, d := range descs {
			text := strings.TrimSpace(d.Description)
			if text == "" {
				continue
			}
			out = append(out, domain.Description{Language: strings.TrimSpace(d.Language), Description: text})
		}
		return out
	}
	for _, lang := range languages {
		if d, ok := byLang[lang]; ok {
			out = append(out, d)
		}
	}
	return out
}

// uniqueLanguages drops repeated codes, keeping the first spelling.
func uniqueLanguages(languages []string) []string {
	out := make([]string, 0, len(languages))
	seen := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		key := strings.ToLower(strings.TrimSpace(lang))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, lang)
	}
	return out
}

// matchLanguage resolves a model-provided language label to one of the
// requested codes by exact code, base language, or display name.
func matchLanguage(label string, requested []string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	for _, code := range requested {
		if strings.EqualFold(label, strings.TrimSpace(code)) {
			return code
		}
	}

	if tag, err := language.Parse(label); err == nil {
		base, _ := tag.Base()
		for _, code := range requested {
			reqTag, err := language.Parse(strings.TrimSpace(code))
			if err != nil {
				continue
			}
			if reqBase, _ := reqTag.Base(); reqBase == base {
				return code
			}
		}
	}

	for _, code := range requested {
		reqTag, err := language.Parse(strings.TrimSpace(code))
		if err != nil {
			continue
		}
		if strings.EqualFold(display.English.Languages().Name(reqTag), label) ||
			strings.EqualFold(display.Self.Name(reqTag), label) {
			return code
		}
	}
	return ""
}
