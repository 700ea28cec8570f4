package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatInt renders n with thousands separators, e.g. 12,345.
func FormatInt(n int) string {
	return message.NewPrinter(language.BritishEnglish).Sprintf("%d", n)
}

// Truncate shortens s to max runes, ending with "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
