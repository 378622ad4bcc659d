package relay

import (
	"strings"

	"golang.org/x/text/language"
)

// LanguageNames maps locale codes to human-readable names for AI prompts.
var LanguageNames = map[string]string{
	"en_US": "English (United States)",
	"en_GB": "English (United Kingdom)",
	"de_DE": "German (Germany)",
	"es_ES": "Spanish (Spain)",
	"es_MX": "Spanish (Mexico)",
	"fr_FR": "French (France)",
	"it_IT": "Italian (Italy)",
	"ja_JP": "Japanese (Japan)",
	"pt_BR": "Portuguese (Brazil)",
	"pt_PT": "Portuguese (Portugal)",
	"zh_CN": "Chinese (Simplified)",
	"zh_TW": "Chinese (Traditional)",
	"ar_SA": "Arabic (Saudi Arabia)",
	"bn_BD": "Bengali (Bangladesh)",
	"hi_IN": "Hindi (India)",
	"id_ID": "Indonesian (Indonesia)",
	"ko_KR": "Korean (South Korea)",
	"nl_NL": "Dutch (Netherlands)",
	"pl_PL": "Polish (Poland)",
	"ru_RU": "Russian (Russia)",
	"sv_SE": "Swedish (Sweden)",
	"ta_IN": "Tamil (India)",
	"te_IN": "Telugu (India)",
	"tr_TR": "Turkish (Turkey)",
	"uk_UA": "Ukrainian (Ukraine)",
	"ur_PK": "Urdu (Pakistan)",
	"vi_VN": "Vietnamese (Vietnam)",
	"he_IL": "Hebrew (Israel)",
	"fa_IR": "Persian (Iran)",
	"sw_KE": "Swahili (Kenya)",
}

// ShortCodeToLocale maps short language codes to full locale codes.
var ShortCodeToLocale = map[string]string{
	"en": "en_US",
	"de": "de_DE",
	"es": "es_ES",
	"fr": "fr_FR",
	"it": "it_IT",
	"ja": "ja_JP",
	"pt": "pt_BR",
	"zh": "zh_CN",
	"ko": "ko_KR",
	"ru": "ru_RU",
	"ar": "ar_SA",
	"bn": "bn_BD",
	"he": "he_IL",
	"hi": "hi_IN",
	"id": "id_ID",
	"nl": "nl_NL",
	"pl": "pl_PL",
	"sv": "sv_SE",
	"ta": "ta_IN",
	"te": "te_IN",
	"tr": "tr_TR",
	"uk": "uk_UA",
	"ur": "ur_PK",
	"vi": "vi_VN",
	"fa": "fa_IR",
	"sw": "sw_KE",
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	normalized := NormalizeLocale(langCode)
	if name, ok := LanguageNames[normalized]; ok {
		return name
	}
	if locale, ok := ShortCodeToLocale[strings.ToLower(normalized)]; ok {
		if name, ok := LanguageNames[locale]; ok {
			return name
		}
	}
	return langCode
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(langCode string) string {
	if RTLLanguages[baseLang(langCode)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}

// NormalizeLocale converts a language code to the standard format (e.g., "es-ES" → "es_ES").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(strings.TrimSpace(langCode), "-", "_")
}

// ToHTMLLang converts a locale code to HTML lang attribute format (e.g., "es_ES" → "es-ES").
func ToHTMLLang(langCode string) string {
	return strings.ReplaceAll(langCode, "_", "-")
}

// SameLanguage reports whether translating from source to target is a no-op: both name the
// same tag, ignoring case and separator style. An "auto" or empty source never matches.
func SameLanguage(source, target string) bool {
	if source == "" || strings.EqualFold(source, SourceAuto) {
		return false
	}
	return canonicalLang(source) == canonicalLang(target)
}

// canonicalLang returns the whole BCP 47 form of a tag ("zh_hant" → "zh-Hant"), so regional and
// script variants stay distinct. Tags that do not parse are compared case-insensitively with
// "-" and "_" treated alike.
func canonicalLang(lang string) string {
	dashed := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if tag, err := language.Parse(dashed); err == nil {
		return tag.String()
	}
	return strings.ToLower(dashed)
}

// baseLang extracts the base language code (e.g., "en" from "en_US" or "en-GB"). Tags that
// do not parse as BCP 47 fall back to the text before the first separator.
func baseLang(lang string) string {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(lang), "_", "-"))
	if err == nil {
		if base, conf := tag.Base(); conf != language.No {
			return base.String()
		}
	}
	return strings.ToLower(strings.Split(NormalizeLocale(lang), "_")[0])
}
