package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Multipliers for the regional price shorthand showroom customers actually
// type: "300k", "2 lakh", "1.5 crore", "2m".
const (
	thousand = 1_000
	lakh     = 100_000
	million  = 1_000_000
	crore    = 10_000_000
)

var currencyRe = regexp.MustCompile(`(?i)(AED|USD|RS|INR|DIRHAMS?|RUPEES?|\$|₹|£|€)`)
var nonNumericRe = regexp.MustCompile(`[^\d.]`)

var wordDigits = []struct {
	re    *regexp.Regexp
	digit string
}{
	{regexp.MustCompile(`\bONE\b`), "1"}, {regexp.MustCompile(`\bTWO\b`), "2"},
	{regexp.MustCompile(`\bTHREE\b`), "3"}, {regexp.MustCompile(`\bFOUR\b`), "4"},
	{regexp.MustCompile(`\bFIVE\b`), "5"}, {regexp.MustCompile(`\bSIX\b`), "6"},
	{regexp.MustCompile(`\bSEVEN\b`), "7"}, {regexp.MustCompile(`\bEIGHT\b`), "8"},
	{regexp.MustCompile(`\bNINE\b`), "9"}, {regexp.MustCompile(`\bTEN\b`), "10"},
}

// NormalizePrice parses a price expression in any of the regional formats
// into an absolute amount. Returns false when no number can be extracted.
func NormalizePrice(s string) (float64, bool) {
	if strings.TrimSpace(s) == "" {
		return 0, false
	}

	cleaned := strings.ToUpper(strings.TrimSpace(currencyRe.ReplaceAllString(s, "")))
	for _, w := range wordDigits {
		cleaned = w.re.ReplaceAllString(cleaned, w.digit)
	}

	for _, unit := range []struct {
		terms []string
		mult  float64
	}{
		{[]string{"CRORES", "CRORE", "CR"}, crore},
		{[]string{"LAKHS", "LAKH", "LACS", "LAC"}, lakh},
		{[]string{"THOUSAND", "K"}, thousand},
		{[]string{"MILLION", "M"}, million},
	} {
		for _, term := range unit.terms {
			if strings.Contains(cleaned, term) {
				num, ok := parseNumber(strings.ReplaceAll(cleaned, term, ""))
				if !ok {
					return 0, false
				}
				return num * unit.mult, true
			}
		}
	}

	return parseNumber(cleaned)
}

func parseNumber(s string) (float64, bool) {
	s = nonNumericRe.ReplaceAllString(s, "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
