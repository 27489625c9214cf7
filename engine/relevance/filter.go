// Package relevance drops low-confidence candidates from a ranked list so
// the engine never presents matches it cannot stand behind.
package relevance

import (
	"fmt"

	"github.com/ShowroomAI/showroom-mvp/engine/domain"
)

// Policy is the explicit filtering contract: a hard score floor plus an
// adaptive margin below the top candidate. A candidate c is kept iff
// score(c) >= max(TauMin, score(top) - Margin). Raising TauMin or lowering
// Margin never grows the retained set for a fixed candidate list.
type Policy struct {
	// TauMin is the hard floor: candidates scoring below it are always
	// dropped regardless of rank.
	TauMin float64 `json:"tau_min"`
	// Margin is the allowed distance below the top candidate's score.
	Margin float64 `json:"margin"`
}

// DefaultPolicy holds the calibrated defaults. The floor matches the
// original relevance cutoff of 0.30; the margin keeps the long tail of
// near-irrelevant matches out when only one result is strong. Both are
// configuration, not contract.
var DefaultPolicy = Policy{TauMin: 0.30, Margin: 0.50}

// Validate rejects nonsensical policies.
func (p Policy) Validate() error {
	if p.Margin < 0 {
		return fmt.Errorf("relevance: margin must be non-negative, got %g", p.Margin)
	}
	return nil
}

// Filter returns the candidates retained under the policy, re-ranked
// densely. The input must already be sorted by descending score. An empty
// input yields an empty output: "no matches" is distinct from "all matches
// rejected".
func Filter(candidates []domain.RankedCandidate, p Policy) []domain.RankedCandidate {
	if len(candidates) == 0 {
		return []domain.RankedCandidate{}
	}

	cutoff := p.TauMin
	if adaptive := candidates[0].Score - p.Margin; adaptive > cutoff {
		cutoff = adaptive
	}

	kept := make([]domain.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= cutoff {
			c.Rank = len(kept) + 1
			kept = append(kept, c)
		}
	}
	return kept
}
