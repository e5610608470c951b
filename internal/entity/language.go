package entity

import "strings"

// Language is one of the supported two-letter codes. English is the pivot
// language agents write in.
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageHindi      Language = "hi"
	LanguageSpanish    Language = "es"
	LanguageFrench     Language = "fr"
	LanguageGerman     Language = "de"
	LanguageArabic     Language = "ar"
	LanguagePortuguese Language = "pt"
	LanguageChinese    Language = "zh"

	PivotLanguage = LanguageEnglish
)

var languageNames = map[Language]string{
	LanguageEnglish:    "english",
	LanguageHindi:      "hindi",
	LanguageSpanish:    "spanish",
	LanguageFrench:     "french",
	LanguageGerman:     "german",
	LanguageArabic:     "arabic",
	LanguagePortuguese: "portuguese",
	LanguageChinese:    "chinese",
}

func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// Name returns the lowercase English name of the language, or "" if unsupported.
func (l Language) Name() string {
	return languageNames[l]
}

// ParseLanguage accepts a code ("es") or a name ("Spanish").
func ParseLanguage(raw string) (Language, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if l := Language(v); l.Valid() {
		return l, true
	}
	for code, name := range languageNames {
		if name == v {
			return code, true
		}
	}
	return "", false
}

func SupportedLanguages() []Language {
	return []Language{
		LanguageEnglish, LanguageHindi, LanguageSpanish, LanguageFrench,
		LanguageGerman, LanguageArabic, LanguagePortuguese, LanguageChinese,
	}
}
