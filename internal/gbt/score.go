package gbt

import (
	"sort"

	"mmo-analytics-lab/internal/domain"
)

// Score predicts for every row (train and test alike) and assigns decile
// ranks and value segments. Rank lookup is a binary search for the first
// sorted prediction >= the row's prediction, which fixes the tie-break at
// percentile boundaries.
func (m *Model) Score(rows []domain.FeatureRow) []domain.ScoreRow {
	n := len(rows)
	if n == 0 {
		return nil
	}

	preds := make([]float64, n)
	for i, r := range rows {
		preds[i] = m.Predict(r)
	}

	sorted := make([]float64, n)
	copy(sorted, preds)
	sort.Float64s(sorted)

	// Threshold such that the top ~1% of rows sit at or above it.
	topCount := n / 100
	if topCount < 1 {
		topCount = 1
	}
	p99 := sorted[n-topCount]

	out := make([]domain.ScoreRow, n)
	for i, r := range rows {
		rank := sort.SearchFloat64s(sorted, preds[i])
		if rank >= n {
			rank = n - 1
		}
		decile := rank*10/n + 1
		if decile > 10 {
			decile = 10
		}

		top := preds[i] >= p99

		out[i] = domain.ScoreRow{
			GameUserID: r.GameUserID,
			Pred:       preds[i],
			Decile:     decile,
			IsTop1Pct:  top,
			Segment:    segment(top, decile),
		}
	}
	return out
}

// Report returns the model identity and evaluation attached to every
// exported score row.
func (m *Model) Report() domain.ModelReport {
	return domain.ModelReport{
		ModelID:   m.ID,
		ModelType: m.Track,
		TrainSize: m.TrainSize,
		TestSize:  m.TestSize,
		MAE:       m.Eval.MAE,
		RMSE:      m.Eval.RMSE,
		R2:        m.Eval.R2,
	}
}

func segment(top bool, decile int) string {
	switch {
	case top:
		return domain.SegmentWhale
	case decile >= 9:
		return domain.SegmentHigh
	case decile >= 7:
		return domain.SegmentMid
	case decile >= 4:
		return domain.SegmentLow
	default:
		return domain.SegmentMinimal
	}
}
