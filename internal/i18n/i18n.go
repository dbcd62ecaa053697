// Package i18n resolves display strings for the supported interface
// languages. Lookups fall back to English, then to the key itself, so a
// missing translation degrades the text but never fails the caller.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language identifies a display language.
type Language string

const (
	English   Language = "en"
	Norwegian Language = "no"
)

// Supported lists the languages in toggle order.
var Supported = []Language{English, Norwegian}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Norwegian,
})

// ParseLanguage maps user or persisted input onto a supported language.
// BCP 47 variants are accepted ("en-GB", "nb", "nn"). Unknown input yields
// English and false.
func ParseLanguage(raw string) (Language, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return English, false
	}
	switch Language(strings.ToLower(raw)) {
	case English:
		return English, true
	case Norwegian:
		return Norwegian, true
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return English, false
	}
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return English, false
	}
	return Supported[idx], true
}

// Valid reports whether l has its own table.
func (l Language) Valid() bool {
	_, ok := tables[l]
	return ok
}

// Next returns the language after l in toggle order.
func (l Language) Next() Language {
	for i, candidate := range Supported {
		if candidate == l {
			return Supported[(i+1)%len(Supported)]
		}
	}
	return English
}

func (l Language) String() string {
	return string(l)
}

// Resolve returns the display string for key in lang.
func Resolve(lang Language, key string) string {
	if table, ok := tables[lang]; ok {
		if value, ok := table[key]; ok {
			return value
		}
	}
	if value, ok := tables[English][key]; ok {
		return value
	}
	return key
}

// Resolvef resolves key and formats it with args.
func Resolvef(lang Language, key string, args ...any) string {
	return fmt.Sprintf(Resolve(lang, key), args...)
}
