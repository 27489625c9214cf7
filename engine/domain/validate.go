package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Model year bounds for catalog records.
const (
	MinModelYear = 1950
	MaxModelYear = 2030
)

// Injection patterns: query fragments that should never appear in user text.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(DROP|DELETE|INSERT|UPDATE|ALTER|EXEC|UNION)\b.*\b(TABLE|FROM|INTO|SELECT|SET)\b`),
	regexp.MustCompile(`(?i)(--|;)\s*(DROP|DELETE|SELECT|MATCH|MERGE)`),
	regexp.MustCompile(`(?i)\$\{.*\}`),
}

// ValidateRecord validates a VehicleRecord at the knowledge-store boundary.
func ValidateRecord(v VehicleRecord) error {
	if strings.TrimSpace(v.ID) == "" {
		return NewValidationError("id", v.ID, ErrInvalidRecord)
	}
	if strings.TrimSpace(v.Make) == "" {
		return NewValidationError("make", v.Make, ErrInvalidRecord)
	}
	if strings.TrimSpace(v.Model) == "" {
		return NewValidationError("model", v.Model, ErrInvalidRecord)
	}
	if v.Year < MinModelYear || v.Year > MaxModelYear {
		return NewValidationError("year", fmt.Sprintf("%d", v.Year), ErrYearOutOfRange)
	}
	if v.Price < 0 {
		return NewValidationError("price", fmt.Sprintf("%g", v.Price), ErrInvalidRecord)
	}
	if v.Stock < 0 {
		return NewValidationError("stock", fmt.Sprintf("%d", v.Stock), ErrInvalidRecord)
	}
	return nil
}

// ValidateQueryText rejects blank or suspicious query text. Language is not
// checked here; non-English text is handled by the normalizer.
func ValidateQueryText(text string) error {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) == 0 {
		return NewValidationError("text", text, ErrInvalidQuery)
	}
	for _, pat := range injectionPatterns {
		if pat.MatchString(trimmed) {
			return NewValidationError("text", trimmed, ErrQueryInjection)
		}
	}
	return nil
}

// EmbedText renders the record fields that carry search meaning into the
// text the embedding provider sees. Deterministic for a given record.
func EmbedText(v VehicleRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s %s", v.Year, v.Make, v.Model)
	if len(v.Features) > 0 {
		b.WriteString(". ")
		b.WriteString(strings.Join(v.Features, ", "))
	}
	if v.Description != "" {
		b.WriteString(". ")
		b.WriteString(v.Description)
	}
	return b.String()
}
