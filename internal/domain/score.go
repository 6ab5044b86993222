package domain

// Value segments assigned by the pLTV scorer.
const (
	SegmentWhale   = "Whale (Top 1%)"
	SegmentHigh    = "High Value"
	SegmentMid     = "Mid Value"
	SegmentLow     = "Low Value"
	SegmentMinimal = "Minimal Value"
)

// ScoreRow is one scored player. Corresponds to one row of pltv_scores.csv.
type ScoreRow struct {
	GameUserID string
	Pred       float64
	Decile     int // 1..10
	IsTop1Pct  bool
	Segment    string
}

// ModelReport carries the identity and held-out evaluation of one trained
// ensemble, repeated on every score row of its export.
type ModelReport struct {
	ModelID   string
	ModelType string // "full" | "cold"
	TrainSize int
	TestSize  int
	MAE       float64
	RMSE      float64
	R2        float64
}
