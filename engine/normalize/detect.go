package normalize

import (
	"regexp"
	"strings"
)

// Script-range patterns for the non-Latin languages common among showroom
// customers. Character-class detection is more reliable than statistical
// detection for short queries in these scripts.
var (
	arabicRe     = regexp.MustCompile(`[\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}]`)
	devanagariRe = regexp.MustCompile(`[\x{0900}-\x{097F}]`)
	tamilRe      = regexp.MustCompile(`[\x{0B80}-\x{0BFF}]`)
	teluguRe     = regexp.MustCompile(`[\x{0C00}-\x{0C7F}]`)
	malayalamRe  = regexp.MustCompile(`[\x{0D00}-\x{0D7F}]`)
	bengaliRe    = regexp.MustCompile(`[\x{0980}-\x{09FF}]`)
	cyrillicRe   = regexp.MustCompile(`[\x{0400}-\x{04FF}]`)
	hanRe        = regexp.MustCompile(`[\x{4E00}-\x{9FFF}]`)
	kanaRe       = regexp.MustCompile(`[\x{3040}-\x{30FF}]`)
	hangulRe     = regexp.MustCompile(`[\x{AC00}-\x{D7AF}\x{1100}-\x{11FF}]`)
	thaiRe       = regexp.MustCompile(`[\x{0E00}-\x{0E7F}]`)
)

// gulfMarkers distinguish Gulf/UAE Arabic from standard Arabic.
var gulfMarkers = []string{"الإمارات", "دبي", "أبوظبي", "ديرهم"}

// urduMarkers distinguish Urdu from Arabic; both use the Arabic script.
var urduMarkers = []string{"ہے", "کے", "میں", "کی"}

// DetectLanguage returns the language code for text. Short or ambiguous
// Latin-script text defaults to English.
func DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if len(text) < 2 {
		return "en"
	}

	if arabicRe.MatchString(text) {
		for _, m := range urduMarkers {
			if strings.Contains(text, m) {
				return "ur"
			}
		}
		for _, m := range gulfMarkers {
			if strings.Contains(text, m) {
				return "ar-AE"
			}
		}
		return "ar"
	}
	if devanagariRe.MatchString(text) {
		return "hi"
	}
	if tamilRe.MatchString(text) {
		return "ta"
	}
	if teluguRe.MatchString(text) {
		return "te"
	}
	if malayalamRe.MatchString(text) {
		return "ml"
	}
	if bengaliRe.MatchString(text) {
		return "bn"
	}
	if cyrillicRe.MatchString(text) {
		return "ru"
	}
	if kanaRe.MatchString(text) {
		return "ja"
	}
	if hanRe.MatchString(text) {
		return "zh"
	}
	if hangulRe.MatchString(text) {
		return "ko"
	}
	if thaiRe.MatchString(text) {
		return "th"
	}
	return "en"
}
