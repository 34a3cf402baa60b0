package enums

import (
	"fmt"
	"strings"
)

// Lang is the active UI language.
type Lang string

const (
	LangArabic  Lang = "ar"
	LangEnglish Lang = "en"
)

// DefaultLang is used whenever nothing valid is persisted.
const DefaultLang = LangEnglish

var validLangs = []Lang{LangArabic, LangEnglish}

// String implements fmt.Stringer.
func (l Lang) String() string {
	return string(l)
}

// IsValid reports whether the value is a supported language.
func (l Lang) IsValid() bool {
	for _, candidate := range validLangs {
		if candidate == l {
			return true
		}
	}
	return false
}

// IsRTL reports whether the language renders right to left.
func (l Lang) IsRTL() bool {
	return l == LangArabic
}

// ParseLang converts a raw value into a Lang.
func ParseLang(value string) (Lang, error) {
	normalized := Lang(strings.ToLower(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid lang %q", value)
}
