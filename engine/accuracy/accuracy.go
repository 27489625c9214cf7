// Package accuracy computes the precision/recall/F1 machinery used to
// validate and monitor retrieval quality. Offline mode measures against a
// ground-truth judgment; online mode reports the filter's own accept/reject
// split without claiming ground truth.
package accuracy

import (
	"fmt"

	"github.com/ShowroomAI/showroom-mvp/engine/domain"
)

// Evaluate computes exact precision, recall, and F1 for a retrieved set
// against a relevance judgment. All ratios are zero-guarded: an empty
// retrieved set has precision 0, an empty relevant set has recall 0, and
// F1 is 0 when P+R is 0.
func Evaluate(retrieved []domain.RankedCandidate, judgment domain.RelevanceJudgment) domain.AccuracyReport {
	relevant := make(map[string]struct{}, len(judgment.Relevant))
	for _, id := range judgment.Relevant {
		relevant[id] = struct{}{}
	}

	hits := 0
	for _, c := range retrieved {
		if _, ok := relevant[c.ID]; ok {
			hits++
		}
	}

	var precision, recall, f1 float64
	if len(retrieved) > 0 {
		precision = float64(hits) / float64(len(retrieved))
	}
	if len(relevant) > 0 {
		recall = float64(hits) / float64(len(relevant))
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return domain.AccuracyReport{
		Precision:   precision,
		Recall:      recall,
		F1:          f1,
		Retained:    len(retrieved),
		GroundTruth: true,
	}
}

// Observe builds the online per-request report from the filter's decision:
// per-candidate scores, retained vs rejected counts, and the mean retained
// score. Precision here is the retained share of all candidates searched,
// an accuracy indicator for the caller rather than a ground-truth claim.
func Observe(kept []domain.RankedCandidate, searched int) domain.AccuracyReport {
	scores := make([]float64, len(kept))
	var sum float64
	for i, c := range kept {
		scores[i] = c.Score
		sum += c.Score
	}

	var mean, precision float64
	if len(kept) > 0 {
		mean = sum / float64(len(kept))
	}
	if searched > 0 {
		precision = float64(len(kept)) / float64(searched)
	}

	// Recall is fixed at 1 online: every candidate the index holds was
	// considered. F1 then degenerates to a function of precision alone.
	recall := 0.0
	f1 := 0.0
	if searched > 0 {
		recall = 1.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
	}

	return domain.AccuracyReport{
		Precision: precision,
		Recall:    recall,
		F1:        f1,
		Retained:  len(kept),
		Rejected:  searched - len(kept),
		MeanScore: mean,
		Scores:    scores,
	}
}

// FormatPercent renders a ratio for presentation, the only place rounding
// happens.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
