package variables

import (
	"fmt"
	"strings"
	"time"
)

// Supported locales.
const (
	LocalePortuguese = "pt"
	LocaleEnglish    = "en"
)

var monthsPT = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// dateLayouts are tried in order when parsing an emission date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// FormatDate renders t as a long date in the given locale.
// Unknown locales fall back to Portuguese.
func FormatDate(t time.Time, locale string) string {
	switch normalizeLocale(locale) {
	case LocaleEnglish:
		return t.Format("January 2, 2006")
	default:
		return fmt.Sprintf("%d de %s de %d", t.Day(), monthsPT[t.Month()-1], t.Year())
	}
}

// ParseDate parses an emission date in one of the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeLocale reduces "pt-PT", "pt_BR", "EN-us" and similar to a base language.
func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i >= 0 {
		locale = locale[:i]
	}
	if locale == LocaleEnglish {
		return LocaleEnglish
	}
	return LocalePortuguese
}
