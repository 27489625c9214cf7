package domain

import (
	"errors"
	"strings"
	"testing"
)

func validRecord() VehicleRecord {
	return VehicleRecord{
		ID:          "V001",
		Make:        "Toyota",
		Model:       "Land Cruiser",
		Year:        2024,
		Price:       180000,
		Features:    []string{"4WD", "7 Seater"},
		Stock:       5,
		Description: "Legendary SUV",
	}
}

func TestValidateRecord_Valid(t *testing.T) {
	if err := ValidateRecord(validRecord()); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}
}

func TestValidateRecord_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*VehicleRecord)
		wantErr error
	}{
		{"missing id", func(r *VehicleRecord) { r.ID = "  " }, ErrInvalidRecord},
		{"missing make", func(r *VehicleRecord) { r.Make = "" }, ErrInvalidRecord},
		{"missing model", func(r *VehicleRecord) { r.Model = "" }, ErrInvalidRecord},
		{"year too old", func(r *VehicleRecord) { r.Year = 1949 }, ErrYearOutOfRange},
		{"year too new", func(r *VehicleRecord) { r.Year = 2031 }, ErrYearOutOfRange},
		{"negative price", func(r *VehicleRecord) { r.Price = -1 }, ErrInvalidRecord},
		{"negative stock", func(r *VehicleRecord) { r.Stock = -1 }, ErrInvalidRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			err := ValidateRecord(rec)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestValidateQueryText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"valid", "family SUV under 150k", nil},
		{"blank", "   ", ErrInvalidQuery},
		{"empty", "", ErrInvalidQuery},
		{"sql injection", "suv'; DROP TABLE vehicles", ErrQueryInjection},
		{"cypher injection", "x -- MATCH (n) DETACH", ErrQueryInjection},
		{"template injection", "show me ${secret}", ErrQueryInjection},
		{"arabic ok", "سيارة عائلية", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQueryText(tt.text)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("got %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEmbedText(t *testing.T) {
	rec := validRecord()
	text := EmbedText(rec)

	if !strings.HasPrefix(text, "2024 Toyota Land Cruiser") {
		t.Errorf("unexpected prefix: %q", text)
	}
	if !strings.Contains(text, "4WD, 7 Seater") {
		t.Errorf("features missing: %q", text)
	}
	if !strings.Contains(text, "Legendary SUV") {
		t.Errorf("description missing: %q", text)
	}

	// Deterministic for identical input.
	if text != EmbedText(rec) {
		t.Error("EmbedText is not deterministic")
	}
}

func TestEmbedText_Minimal(t *testing.T) {
	rec := VehicleRecord{ID: "V9", Make: "Kia", Model: "Sportage", Year: 2023}
	if got := EmbedText(rec); got != "2023 Kia Sportage" {
		t.Errorf("got %q", got)
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	err := NewValidationError("year", "3000", ErrYearOutOfRange)
	if !errors.Is(err, ErrYearOutOfRange) {
		t.Error("unwrap chain broken")
	}
	if !strings.Contains(err.Error(), "year") {
		t.Errorf("field missing from message: %v", err)
	}
}
