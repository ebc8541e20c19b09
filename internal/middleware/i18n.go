package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// LocaleHeader overrides Accept-Language when present.
const LocaleHeader = "X-Locale"

type localeContextKey struct{}

var LocaleKey = localeContextKey{}

// Locale stores the caller's UI locale in the request context. X-Locale wins
// over Accept-Language; both are matched against supported, and anything
// unmatched resolves to defaultLocale.
func Locale(defaultLocale string, supported []string) func(http.Handler) http.Handler {
	codes, matcher := newLocaleMatcher(defaultLocale, supported)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, codes, matcher)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			w.Header().Set("Content-Language", locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// newLocaleMatcher puts the default first so it wins when nothing matches.
func newLocaleMatcher(defaultLocale string, supported []string) ([]string, language.Matcher) {
	if strings.TrimSpace(defaultLocale) == "" {
		defaultLocale = "en"
	}
	codes := []string{defaultLocale}
	tags := []language.Tag{language.Make(defaultLocale)}
	for _, code := range supported {
		if code == defaultLocale {
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		codes = append(codes, code)
		tags = append(tags, tag)
	}
	return codes, language.NewMatcher(tags)
}

func detectLocale(r *http.Request, codes []string, matcher language.Matcher) string {
	if v := strings.TrimSpace(r.Header.Get(LocaleHeader)); v != "" {
		if tag, err := language.Parse(v); err == nil {
			if _, idx, conf := matcher.Match(tag); conf != language.No {
				return codes[idx]
			}
		}
	}
	if v := r.Header.Get("Accept-Language"); v != "" {
		if tags, _, err := language.ParseAcceptLanguage(v); err == nil && len(tags) > 0 {
			if _, idx, conf := matcher.Match(tags...); conf != language.No {
				return codes[idx]
			}
		}
	}
	return codes[0]
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}
