package ingest

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ShowroomAI/showroom-mvp/engine/domain"
	"github.com/ShowroomAI/showroom-mvp/engine/intent"
)

// upsertMessage is the wire form of a catalog record. Upload sources disagree
// on field names and representations, so aliases and flexible scalar types
// absorb the differences before validation sees the record.
type upsertMessage struct {
	ID          string      `json:"id"`
	VehicleID   string      `json:"vehicle_id"`
	Make        string      `json:"make"`
	Brand       string      `json:"brand"`
	Model       string      `json:"model"`
	Year        flexInt     `json:"year"`
	ModelYear   flexInt     `json:"model_year"`
	Price       flexPrice   `json:"price"`
	Features    flexStrings `json:"features"`
	Stock       flexInt     `json:"stock"`
	Image       string      `json:"image"`
	ImageURL    string      `json:"image_url"`
	Description string      `json:"description"`
}

// VehicleRecord normalizes the message into the canonical record shape.
func (m upsertMessage) VehicleRecord() domain.VehicleRecord {
	return domain.VehicleRecord{
		ID:          firstNonEmpty(m.ID, m.VehicleID),
		Make:        firstNonEmpty(m.Make, m.Brand),
		Model:       m.Model,
		Year:        int(firstNonZero(int64(m.Year), int64(m.ModelYear))),
		Price:       float64(m.Price),
		Features:    m.Features,
		Stock:       int(m.Stock),
		Image:       firstNonEmpty(m.Image, m.ImageURL),
		Description: m.Description,
	}
}

// ParseRecords decodes a JSON array of upload records into canonical form.
// Decoding is permissive; validation happens later in the pipeline.
func ParseRecords(data []byte) ([]domain.VehicleRecord, error) {
	var msgs []upsertMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, err
	}
	records := make([]domain.VehicleRecord, len(msgs))
	for i, m := range msgs {
		records[i] = m.VehicleRecord()
	}
	return records, nil
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		// Leave zero; validation rejects the record with a named reason.
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// flexPrice accepts a JSON number or a human price string like "180k",
// "2 lakh", or "AED 180,000".
type flexPrice float64

func (f *flexPrice) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexPrice(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if v, ok := intent.NormalizePrice(s); ok {
		*f = flexPrice(v)
	} else {
		*f = 0
	}
	return nil
}

// flexStrings accepts a JSON array of strings or a comma-separated string.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*f = out
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(vals ...int64) int64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
