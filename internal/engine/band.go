package engine

import "github.com/Huzaifa1910/openaibot/internal/domain"

// ComputeBand classifies the gap between a target payment and the offer
// on the table. It is total over optional inputs: either side missing
// yields no classification.
//
//	delta <= 0  → A: offer at or below target, straightforward close
//	1..40       → B: slightly over, anchor-value / split-the-difference
//	> 40        → C: far apart, reset expectations
//
// An offer far below target still reads as band A; there is no
// too-good-to-be-true band.
func ComputeBand(target, offer *int) domain.Band {
	if target == nil || offer == nil {
		return domain.BandNone
	}
	delta := *offer - *target
	switch {
	case delta <= 0:
		return domain.BandA
	case delta <= 40:
		return domain.BandB
	default:
		return domain.BandC
	}
}
