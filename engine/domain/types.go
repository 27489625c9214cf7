// Package domain defines the canonical types, constants, and validation for
// the showroom retrieval engine. It acts as the validation gate at pipeline
// entry points: heterogeneous upload formats are normalized into these
// structures before the engine ever sees them.
package domain

import "time"

// CanonicalLanguage is the single language all query text is normalized to
// before embedding.
const CanonicalLanguage = "en"

// VehicleRecord is a catalog entry. ID is the sole join key between the
// knowledge store and the vector index and is immutable once assigned.
type VehicleRecord struct {
	ID          string    `json:"id"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	Price       float64   `json:"price"`
	Features    []string  `json:"features,omitempty"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image,omitempty"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// SearchQuery is a user query after normalization.
type SearchQuery struct {
	Raw              string `json:"raw"`
	LanguageHint     string `json:"language_hint,omitempty"`
	DetectedLanguage string `json:"detected_language"`
	Canonical        string `json:"canonical"`
	// Normalized is false when the translation delegate failed and the raw
	// text was used as-is.
	Normalized bool `json:"normalized"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
}

// RankedCandidate is a single search hit. Rank is 1-based and dense; the
// candidate list is always sorted by descending score, ties broken by
// ascending ID, before filtering or pagination.
type RankedCandidate struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// RelevanceJudgment is a ground-truth input for offline evaluation. It is
// never persisted by the engine.
type RelevanceJudgment struct {
	QueryID  string   `json:"query_id"`
	Relevant []string `json:"relevant"`
}

// AccuracyReport is the metrics snapshot attached to every result set.
// In offline mode Precision/Recall/F1 are measured against a judgment; in
// online mode they are derived from the filter's own accept/reject split
// and make no ground-truth claim.
type AccuracyReport struct {
	Precision    float64   `json:"precision"`
	Recall       float64   `json:"recall"`
	F1           float64   `json:"f1"`
	Retained     int       `json:"retained"`
	Rejected     int       `json:"rejected"`
	MeanScore    float64   `json:"mean_score"`
	Scores       []float64 `json:"scores,omitempty"`
	GroundTruth  bool      `json:"ground_truth"`
}

// PagedResult is the final response for a search. It is constructed fresh
// per query and never mutated after return.
type PagedResult struct {
	Items      []RankedCandidate `json:"items"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	Query      SearchQuery       `json:"query"`
	Accuracy   AccuracyReport    `json:"accuracy"`
}
