package accuracy

import (
	"math"
	"testing"

	"github.com/ShowroomAI/showroom-mvp/engine/domain"
)

func candidates(ids ...string) []domain.RankedCandidate {
	out := make([]domain.RankedCandidate, len(ids))
	for i, id := range ids {
		out[i] = domain.RankedCandidate{ID: id, Score: 0.9 - float64(i)*0.1, Rank: i + 1}
	}
	return out
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEvaluate(t *testing.T) {
	retrieved := candidates("V001", "V002", "V003")
	judgment := domain.RelevanceJudgment{QueryID: "q1", Relevant: []string{"V001", "V002", "V004"}}

	report := Evaluate(retrieved, judgment)

	if !approx(report.Precision, 2.0/3.0) {
		t.Errorf("precision = %v", report.Precision)
	}
	if !approx(report.Recall, 2.0/3.0) {
		t.Errorf("recall = %v", report.Recall)
	}
	if !approx(report.F1, 2.0/3.0) {
		t.Errorf("f1 = %v", report.F1)
	}
	if !report.GroundTruth {
		t.Error("offline report must claim ground truth")
	}
	if report.Retained != 3 {
		t.Errorf("retained = %d", report.Retained)
	}
}

func TestEvaluate_EmptyRetrieved(t *testing.T) {
	report := Evaluate(nil, domain.RelevanceJudgment{Relevant: []string{"V001"}})
	if report.Precision != 0 || report.Recall != 0 || report.F1 != 0 {
		t.Errorf("empty retrieved must zero out: %+v", report)
	}
}

func TestEvaluate_EmptyJudgment(t *testing.T) {
	report := Evaluate(candidates("V001"), domain.RelevanceJudgment{})
	if report.Recall != 0 {
		t.Errorf("recall = %v for empty relevant set", report.Recall)
	}
}

func TestEvaluate_PerfectRetrieval(t *testing.T) {
	report := Evaluate(candidates("V001", "V002"), domain.RelevanceJudgment{Relevant: []string{"V001", "V002"}})
	if !approx(report.Precision, 1) || !approx(report.Recall, 1) || !approx(report.F1, 1) {
		t.Errorf("perfect retrieval: %+v", report)
	}
}

func TestObserve(t *testing.T) {
	kept := []domain.RankedCandidate{
		{ID: "V001", Score: 0.8, Rank: 1},
		{ID: "V002", Score: 0.6, Rank: 2},
	}

	report := Observe(kept, 10)

	if !approx(report.Precision, 0.2) {
		t.Errorf("precision = %v", report.Precision)
	}
	if !approx(report.Recall, 1.0) {
		t.Errorf("online recall = %v, want 1", report.Recall)
	}
	if report.Rejected != 8 {
		t.Errorf("rejected = %d", report.Rejected)
	}
	if !approx(report.MeanScore, 0.7) {
		t.Errorf("mean = %v", report.MeanScore)
	}
	if len(report.Scores) != 2 || report.Scores[0] != 0.8 {
		t.Errorf("scores = %v", report.Scores)
	}
	if report.GroundTruth {
		t.Error("online report must not claim ground truth")
	}
}

func TestObserve_NothingSearched(t *testing.T) {
	report := Observe(nil, 0)
	if report.Precision != 0 || report.Recall != 0 || report.F1 != 0 {
		t.Errorf("zero searched must zero out: %+v", report)
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00%"},
		{1, "100.00%"},
		{2.0 / 3.0, "66.67%"},
		{0.305, "30.50%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
