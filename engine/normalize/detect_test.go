package normalize

import "testing"

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "family SUV under 150k", "en"},
		{"short latin defaults to english", "x", "en"},
		{"empty", "", "en"},
		{"arabic", "سيارة عائلية رخيصة", "ar"},
		{"gulf arabic via dubai marker", "سيارة في دبي", "ar-AE"},
		{"urdu markers win over arabic", "گاڑی کی قیمت", "ur"},
		{"hindi", "पारिवारिक कार", "hi"},
		{"tamil", "குடும்ப கார்", "ta"},
		{"telugu", "కుటుంబ కారు", "te"},
		{"malayalam", "കുടുംബ കാർ", "ml"},
		{"bengali", "পারিবারিক গাড়ি", "bn"},
		{"russian", "семейный автомобиль", "ru"},
		{"chinese", "家庭用车", "zh"},
		{"japanese kana beats han", "家族の車です", "ja"},
		{"korean", "가족용 자동차", "ko"},
		{"thai", "รถครอบครัว", "th"},
		{"mixed latin and arabic", "Toyota سيارة", "ar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.text); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
