package relay

import "testing"

func TestGetLanguageName(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"es_ES", "Spanish (Spain)"},
		{"ja_JP", "Japanese (Japan)"},
		{"fr", "French (France)"},
		{"pt-BR", "Portuguese (Brazil)"},
		{"FR", "French (France)"},
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			result := GetLanguageName(tt.code)
			if result != tt.expected {
				t.Errorf("GetLanguageName(%q) = %q, want %q", tt.code, result, tt.expected)
			}
		})
	}
}

func TestGetDirection(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"ar_SA", "rtl"},
		{"he-IL", "rtl"},
		{"fa", "rtl"},
		{"ur_PK", "rtl"},
		{"es_ES", "ltr"},
		{"en", "ltr"},
		{"zh_CN", "ltr"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := GetDirection(tt.code); got != tt.expected {
				t.Errorf("GetDirection(%q) = %q, want %q", tt.code, got, tt.expected)
			}
		})
	}
}

func TestSameLanguage(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
		want   bool
	}{
		{"identical", "fr", "fr", true},
		{"case insensitive", "EN", "en", true},
		{"separator and case", "en_us", "EN-US", true},
		{"region variants", "en_US", "en-GB", false},
		{"portuguese regions", "pt-BR", "pt-PT", false},
		{"chinese regions", "zh-CN", "zh-TW", false},
		{"script variants", "zh_Hans", "zh_Hant", false},
		{"script against region", "zh_Hant", "zh_CN", false},
		{"same script", "zh_hant", "zh-Hant", true},
		{"base against region", "en", "en-US", false},
		{"deprecated code", "iw", "he", true},
		{"different", "en", "fr", false},
		{"unparseable identical", "xx-not-a-tag", "XX_not_a_tag", true},
		{"unparseable different", "xx-not-a-tag", "xx", false},
		{"auto source", "auto", "auto", false},
		{"auto mixed case", "Auto", "en", false},
		{"empty source", "", "en", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameLanguage(tt.source, tt.target); got != tt.want {
				t.Errorf("SameLanguage(%q, %q) = %v, want %v", tt.source, tt.target, got, tt.want)
			}
		})
	}
}

func TestLocaleConversions(t *testing.T) {
	if got := NormalizeLocale(" es-ES "); got != "es_ES" {
		t.Errorf("NormalizeLocale = %q, want es_ES", got)
	}
	if got := ToHTMLLang("es_ES"); got != "es-ES" {
		t.Errorf("ToHTMLLang = %q, want es-ES", got)
	}
	if !IsRTL("ar") || IsRTL("de") {
		t.Error("IsRTL returned wrong direction")
	}
}
