package describe

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"productcopy/internal/domain"
)

const (
	primarySystemPrompt = "You are a helpful product description generator that ONLY responds with JSON."
	repairSystemPrompt  = "Parse out the valid JSON from this text. Only answer in JSON."

	defaultLength = "medium"
	defaultTone   = "professional"
)

var lengthGuidance = map[string]string{
	"short":  "short (two or three sentences)",
	"medium": "medium-length (one paragraph)",
	"long":   "long (two or three paragraphs)",
}

var toneGuidance = map[string]string{
	"professional": "professional",
	"casual":       "casual, friendly",
	"enthusiastic": "enthusiastic, energetic",
	"formal":       "formal",
}

// buildPrompt renders the user instruction for the primary model. Known
// length and tone values are expanded; anything else is passed verbatim.
func buildPrompt(req domain.GenerationRequest) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Given this product image, return JSON with a product name and an Amazon-like %s sales product description in a %s tone for each of these languages: %s.\n\n",
		interpret(req.Length, defaultLength, lengthGuidance),
		interpret(req.Tone, defaultTone, toneGuidance),
		languageList(uniqueLanguages(req.Languages)),
	)
	sb.WriteString("Return a JSON object in the following shape:\n")
	sb.WriteString(resultShapePrompt)
	sb.WriteString("\n\n")
	sb.WriteString("Use exactly the language codes listed above as the keys of productNames and as the language of each description. ")
	sb.WriteString("Write every product name and description in its own language. Please only return valid JSON, with no additional text.")
	return sb.String()
}

func interpret(value, fallback string, guidance map[string]string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		v = fallback
	}
	if phrase, ok := guidance[strings.ToLower(v)]; ok {
		return phrase
	}
	return v
}

func languageList(codes []string) string {
	items := make([]string, 0, len(codes))
	for _, code := range codes {
		if name := displayName(code); name != "" && !strings.EqualFold(name, code) {
			items = append(items, fmt.Sprintf("%q (%s)", code, name))
			continue
		}
		items = append(items, fmt.Sprintf("%q", code))
	}
	return strings.Join(items, ", ")
}

// displayName returns the English name of a language code, or "" when the
// code is not a well-formed BCP 47 tag.
func displayName(code string) string {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(tag)
}

// LanguageOptions returns the UI language list named in the caller's locale,
// plus each language's own name. Unknown locales fall back to English.
func LanguageOptions(codes []string, locale string) []domain.LanguageOption {
	namer := display.English.Languages()
	if tag, err := language.Parse(locale); err == nil {
		if n := display.Languages(tag); n != nil {
			namer = n
		}
	}
	out := make([]domain.LanguageOption, 0, len(codes))
	for _, code := range codes {
		opt := domain.LanguageOption{Code: code, Name: code, NativeName: code}
		if tag, err := language.Parse(code); err == nil {
			if name := namer.Name(tag); name != "" {
				opt.Name = name
			}
			if native := display.Self.Name(tag); native != "" {
				opt.NativeName = native
			}
		}
		out = append(out, opt)
	}
	return out
}
