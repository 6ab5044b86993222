// Package gbt implements a histogram-binned gradient-boosted regression tree
// ensemble trained on squared-error residuals, used to score predicted
// lifetime value.
package gbt

import (
	"errors"
	"fmt"
	"math"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/idhash"
	"mmo-analytics-lab/internal/rng"
)

// Model tracks.
const (
	TrackFull = "full"
	TrackCold = "cold"
)

// coldBlacklist names the monetization features a cold-start model must
// never see, no matter what the caller requests: at serving time, a
// day-zero scorer has none of these signals.
var coldBlacklist = map[string]bool{
	domain.FeatIsPayerByD7:     true,
	domain.FeatNumTxnD7:        true,
	domain.FeatLTVD7:           true,
	domain.FeatFirstPurchaseHr: true,
}

// Config controls training. Zero values fall back to the reference
// hyperparameters.
type Config struct {
	UseLogTarget bool
	TestSplit    float64
	ModelTrack   string

	Trees        int
	MaxDepth     int
	LearningRate float64
	MinLeaf      int
	BagFraction  float64
	Seed         int64
}

// Reference hyperparameters.
const (
	defaultTrees        = 120
	defaultMaxDepth     = 4
	defaultLearningRate = 0.08
	defaultMinLeaf      = 5
	defaultBagFraction  = 0.8
	defaultSeed         = 777

	// Features with more distinct values than this are binned down to 31
	// quantile candidates, bounding split-search cost.
	maxExactCandidates = 32
	quantileCandidates = 31
)

func (c Config) withDefaults() Config {
	if c.Trees == 0 {
		c.Trees = defaultTrees
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = defaultMaxDepth
	}
	if c.LearningRate == 0 {
		c.LearningRate = defaultLearningRate
	}
	if c.MinLeaf == 0 {
		c.MinLeaf = defaultMinLeaf
	}
	if c.BagFraction == 0 {
		c.BagFraction = defaultBagFraction
	}
	if c.Seed == 0 {
		c.Seed = defaultSeed
	}
	if c.TestSplit == 0 {
		c.TestSplit = 0.2
	}
	if c.ModelTrack == "" {
		c.ModelTrack = TrackFull
	}
	return c
}

// Evaluation holds held-out metrics on original-scale targets.
type Evaluation struct {
	MAE  float64
	RMSE float64
	R2   float64
}

// node is one tree node. Leaves carry the learning-rate-scaled mean
// residual; internal nodes split on feature <= threshold.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	value     float64
	leaf      bool
}

// Model is a trained ensemble. Features lists the columns the trees may
// reference, in matrix order; a cold-track model's list never contains
// blacklisted columns.
type Model struct {
	ID       string
	Track    string
	Features []string
	Eval     Evaluation

	TrainSize int
	TestSize  int

	cfg   Config
	trees []*node
}

// Train fits an ensemble on the given rows. The split and bagging draws come
// from a dedicated stream seeded by cfg.Seed, independent of the data
// generator's stream.
func Train(rows []domain.FeatureRow, features []string, cfg Config) (*Model, error) {
	cfg = cfg.withDefaults()

	if len(rows) == 0 {
		return nil, errors.New("no feature rows to train on")
	}
	if cfg.TestSplit < 0 || cfg.TestSplit >= 1 {
		return nil, fmt.Errorf("test split must be in [0,1), got %f", cfg.TestSplit)
	}

	used := selectFeatures(features, cfg.ModelTrack)
	if len(used) == 0 {
		return nil, errors.New("no usable features after track filtering")
	}

	// Dense matrix view of the rows.
	n := len(rows)
	x := make([][]float64, n)
	y := make([]float64, n)
	for i, r := range rows {
		x[i] = make([]float64, len(used))
		for j, f := range used {
			x[i][j] = r.Values[f]
		}
		y[i] = r.Target
	}

	// Deterministic Fisher-Yates split on the model stream.
	stream := rng.New(cfg.Seed)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	stream.ShuffleInts(order)

	trainN := int(float64(n) * (1 - cfg.TestSplit))
	trainIdx := order[:trainN]
	testIdx := order[trainN:]

	target := func(v float64) float64 {
		if cfg.UseLogTarget {
			return math.Log1p(v)
		}
		return v
	}

	residual := make([]float64, n)
	for _, i := range trainIdx {
		residual[i] = target(y[i])
	}

	m := &Model{
		ID:        idhash.ModelID(cfg.ModelTrack, cfg.Seed, cfg.Trees, cfg.MaxDepth),
		Track:     cfg.ModelTrack,
		Features:  used,
		TrainSize: len(trainIdx),
		TestSize:  len(testIdx),
		cfg:       cfg,
	}

	b := &builder{
		x:        x,
		residual: residual,
		minLeaf:  cfg.MinLeaf,
		maxDepth: cfg.MaxDepth,
		lr:       cfg.LearningRate,
	}

	bagSize := int(cfg.BagFraction * float64(len(trainIdx)))
	if bagSize < 1 {
		bagSize = 1
	}

	for t := 0; t < cfg.Trees; t++ {
		// Bootstrap sample of the training indices, drawn with replacement.
		bag := make([]int, bagSize)
		for i := range bag {
			bag[i] = trainIdx[stream.IntRange(0, len(trainIdx)-1)]
		}

		tree := b.build(bag, 0)
		m.trees = append(m.trees, tree)

		// Residuals advance over the full training set, not just the bag.
		for _, i := range trainIdx {
			residual[i] -= predictNode(tree, x[i])
		}
	}

	m.Eval = m.evaluate(x, y, testIdx)
	return m, nil
}

// selectFeatures applies the cold-track blacklist to the requested feature
// subset.
func selectFeatures(features []string, track string) []string {
	var out []string
	for _, f := range features {
		if track == TrackCold && coldBlacklist[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Predict returns the model's original-scale prediction for one row.
func (m *Model) Predict(row domain.FeatureRow) float64 {
	vec := make([]float64, len(m.Features))
	for j, f := range m.Features {
		vec[j] = row.Values[f]
	}
	return m.predictVec(vec)
}

func (m *Model) predictVec(vec []float64) float64 {
	sum := 0.0
	for _, t := range m.trees {
		sum += predictNode(t, vec)
	}
	if m.cfg.UseLogTarget {
		if sum < 0 {
			sum = 0
		}
		return math.Expm1(sum)
	}
	if sum < 0 {
		sum = 0
	}
	return sum
}

func predictNode(nd *node, vec []float64) float64 {
	for !nd.leaf {
		if vec[nd.feature] <= nd.threshold {
			nd = nd.left
		} else {
			nd = nd.right
		}
	}
	return nd.value
}

// evaluate computes MAE, RMSE and R2 on the held-out rows against
// original-scale targets. Degenerate cases (empty test split, zero-variance
// target) report zeros instead of NaN.
func (m *Model) evaluate(x [][]float64, y []float64, testIdx []int) Evaluation {
	if len(testIdx) == 0 {
		return Evaluation{}
	}

	var sumAbs, sumSq, sumY float64
	preds := make([]float64, len(testIdx))
	for k, i := range testIdx {
		preds[k] = m.predictVec(x[i])
		diff := preds[k] - y[i]
		sumAbs += math.Abs(diff)
		sumSq += diff * diff
		sumY += y[i]
	}

	nf := float64(len(testIdx))
	meanY := sumY / nf

	var ssTot float64
	for _, i := range testIdx {
		d := y[i] - meanY
		ssTot += d * d
	}

	ev := Evaluation{
		MAE:  sumAbs / nf,
		RMSE: math.Sqrt(sumSq / nf),
	}
	if ssTot > 0 {
		ev.R2 = 1 - sumSq/ssTot
	}
	return ev
}
