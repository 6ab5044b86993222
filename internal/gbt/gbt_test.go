package gbt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/rng"
)

// syntheticRows builds rows where the target is a known function of two
// features plus noise, so the ensemble has real signal to learn.
func syntheticRows(n int, seed int64) []domain.FeatureRow {
	stream := rng.New(seed)
	rows := make([]domain.FeatureRow, n)
	for i := range rows {
		sessions := float64(stream.IntRange(0, 40))
		level := float64(stream.IntRange(1, 60))
		payer := 0.0
		if stream.Chance(0.2) {
			payer = 1
		}
		target := 3*sessions + 0.5*level + 40*payer + stream.Normal()*2
		if target < 0 {
			target = 0
		}
		rows[i] = domain.FeatureRow{
			GameUserID: "u",
			Values: map[string]float64{
				domain.FeatSessionsCntW7D: sessions,
				domain.FeatMaxLevelW7D:    level,
				domain.FeatIsPayerByD7:    payer,
			},
			Target: target,
		}
	}
	return rows
}

var testFeatures = []string{
	domain.FeatSessionsCntW7D,
	domain.FeatMaxLevelW7D,
	domain.FeatIsPayerByD7,
}

func TestTrain_Deterministic(t *testing.T) {
	rows := syntheticRows(400, 11)
	a, err := Train(rows, testFeatures, Config{})
	require.NoError(t, err)
	b, err := Train(rows, testFeatures, Config{})
	require.NoError(t, err)

	assert.Equal(t, a.Eval, b.Eval)
	assert.Equal(t, a.ID, b.ID)
	for i, r := range rows {
		require.Equal(t, a.Predict(r), b.Predict(r), "row %d", i)
	}
}

func TestTrain_LearnsSignal(t *testing.T) {
	rows := syntheticRows(800, 22)
	m, err := Train(rows, testFeatures, Config{})
	require.NoError(t, err)

	assert.Equal(t, 640, m.TrainSize)
	assert.Equal(t, 160, m.TestSize)
	assert.Greater(t, m.Eval.R2, 0.3, "strongly predictive synthetic data should beat the mean baseline")
	assert.Greater(t, m.Eval.RMSE, 0.0)
}

func TestTrain_ColdTrackExcludesMonetizationFeatures(t *testing.T) {
	rows := syntheticRows(400, 33)
	m, err := Train(rows, testFeatures, Config{ModelTrack: TrackCold})
	require.NoError(t, err)

	assert.NotContains(t, m.Features, domain.FeatIsPayerByD7)
	assert.Contains(t, m.Features, domain.FeatSessionsCntW7D)

	// A prediction must be insensitive to a blacklisted column.
	row := rows[0]
	base := m.Predict(row)
	row.Values[domain.FeatIsPayerByD7] = 1 - row.Values[domain.FeatIsPayerByD7]
	assert.Equal(t, base, m.Predict(row))
}

func TestTrain_ColdTrackWithOnlyBlacklistedFeaturesFails(t *testing.T) {
	rows := syntheticRows(100, 44)
	_, err := Train(rows, []string{domain.FeatIsPayerByD7, domain.FeatLTVD7}, Config{ModelTrack: TrackCold})
	assert.Error(t, err)
}

func TestTrain_ZeroVarianceTargetDegradesGracefully(t *testing.T) {
	rows := syntheticRows(200, 55)
	for i := range rows {
		rows[i].Target = 5.0
	}
	m, err := Train(rows, testFeatures, Config{})
	require.NoError(t, err)

	assert.InDelta(t, 5.0, m.Predict(rows[0]), 0.01)
	assert.Zero(t, m.Eval.R2)
}

func TestTrain_LogTargetPredictionsNonNegative(t *testing.T) {
	rows := syntheticRows(400, 66)
	m, err := Train(rows, testFeatures, Config{UseLogTarget: true})
	require.NoError(t, err)

	for _, r := range rows {
		require.GreaterOrEqual(t, m.Predict(r), 0.0)
	}
}

func TestTrain_EmptyInput(t *testing.T) {
	_, err := Train(nil, testFeatures, Config{})
	assert.Error(t, err)
}

func TestScore_DecilesAndTopPercent(t *testing.T) {
	rows := syntheticRows(1000, 77)
	m, err := Train(rows, testFeatures, Config{})
	require.NoError(t, err)

	scores := m.Score(rows)
	require.Len(t, scores, len(rows))

	top := 0
	for _, s := range scores {
		require.GreaterOrEqual(t, s.Decile, 1)
		require.LessOrEqual(t, s.Decile, 10)
		require.NotEmpty(t, s.Segment)
		if s.IsTop1Pct {
			top++
			require.Equal(t, 10, s.Decile, "top-1%% rows must sit in the top decile")
			require.Equal(t, domain.SegmentWhale, s.Segment)
		}
	}
	// Exactly 1% of 1000 rows, modulo prediction ties.
	assert.GreaterOrEqual(t, top, 10)
	assert.Less(t, top, 30)
}

func TestScore_SegmentThresholds(t *testing.T) {
	assert.Equal(t, domain.SegmentWhale, segment(true, 10))
	assert.Equal(t, domain.SegmentHigh, segment(false, 9))
	assert.Equal(t, domain.SegmentMid, segment(false, 7))
	assert.Equal(t, domain.SegmentLow, segment(false, 4))
	assert.Equal(t, domain.SegmentMinimal, segment(false, 3))
}

func TestScore_EmptyRows(t *testing.T) {
	rows := syntheticRows(100, 88)
	m, err := Train(rows, testFeatures, Config{})
	require.NoError(t, err)
	assert.Nil(t, m.Score(nil))
}

func TestReport_CarriesIdentity(t *testing.T) {
	rows := syntheticRows(200, 99)
	m, err := Train(rows, testFeatures, Config{ModelTrack: TrackCold})
	require.NoError(t, err)

	rep := m.Report()
	assert.Equal(t, m.ID, rep.ModelID)
	assert.Equal(t, TrackCold, rep.ModelType)
	assert.Equal(t, m.TrainSize, rep.TrainSize)
	assert.Equal(t, m.TestSize, rep.TestSize)
}
