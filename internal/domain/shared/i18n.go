package shared

import "strings"

// Language is a document output language
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
	LanguageTurkish Language = "tr"
)

// DefaultLanguage is used when a template has no file for the requested language
const DefaultLanguage = LanguageEnglish

// ParseLanguage normalizes s and reports whether it is a supported language
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	return l, l.IsValid()
}

// IsValid checks if the Language is a supported value
func (l Language) IsValid() bool {
	switch l {
	case LanguageArabic, LanguageEnglish, LanguageTurkish:
		return true
	}
	return false
}

// String returns the string representation of Language
func (l Language) String() string {
	return string(l)
}

// Upper returns the language code as used in output file names
func (l Language) Upper() string {
	return strings.ToUpper(string(l))
}

// IsRTL reports whether the language is written right to left
func (l Language) IsRTL() bool {
	return l == LanguageArabic
}

// AllLanguages returns all supported languages
func AllLanguages() []Language {
	return []Language{LanguageArabic, LanguageEnglish, LanguageTurkish}
}

// LocalizedText holds one value per supported language
type LocalizedText struct {
	AR string `json:"ar"`
	EN string `json:"en"`
	TR string `json:"tr"`
}

// In returns the text for lang, falling back to English, then Arabic.
func (t LocalizedText) In(lang Language) string {
	var v string
	switch lang {
	case LanguageArabic:
		v = t.AR
	case LanguageTurkish:
		v = t.TR
	default:
		v = t.EN
	}
	if v != "" {
		return v
	}
	if t.EN != "" {
		return t.EN
	}
	return t.AR
}
