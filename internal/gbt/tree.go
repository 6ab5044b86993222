package gbt

import "sort"

// builder grows one regression tree over residuals. The training matrix is
// borrowed read-only; each node owns only its index list.
type builder struct {
	x        [][]float64
	residual []float64
	minLeaf  int
	maxDepth int
	lr       float64
}

// build recursively splits indices until depth, leaf size or gain stops it.
func (b *builder) build(indices []int, depth int) *node {
	if depth >= b.maxDepth || len(indices) < 2*b.minLeaf {
		return b.leaf(indices)
	}

	parentVar := b.variance(indices)
	if parentVar == 0 {
		return b.leaf(indices)
	}

	bestScore := parentVar
	bestFeature := -1
	bestThreshold := 0.0

	for f := range b.x[indices[0]] {
		for _, threshold := range b.candidates(indices, f) {
			score, ok := b.splitScore(indices, f, threshold)
			if ok && score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return b.leaf(indices)
	}

	var left, right []int
	for _, i := range indices {
		if b.x[i][bestFeature] <= bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &node{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

// leaf returns a terminal node valued at the learning-rate-scaled mean
// residual.
func (b *builder) leaf(indices []int) *node {
	return &node{leaf: true, value: b.mean(indices) * b.lr}
}

// candidates returns the thresholds to evaluate for a feature: all distinct
// values when there are at most 32, else 31 evenly spaced quantiles of the
// sorted distinct values.
func (b *builder) candidates(indices []int, feature int) []float64 {
	seen := make(map[float64]struct{}, len(indices))
	for _, i := range indices {
		seen[b.x[i][feature]] = struct{}{}
	}

	distinct := make([]float64, 0, len(seen))
	for v := range seen {
		distinct = append(distinct, v)
	}
	sort.Float64s(distinct)

	if len(distinct) <= maxExactCandidates {
		return distinct
	}

	out := make([]float64, 0, quantileCandidates)
	for k := 1; k <= quantileCandidates; k++ {
		idx := k * len(distinct) / (quantileCandidates + 1)
		out = append(out, distinct[idx])
	}
	return out
}

// splitScore evaluates a candidate split: the sum of child residual
// variances, rejected when either child violates the minimum leaf size.
func (b *builder) splitScore(indices []int, feature int, threshold float64) (float64, bool) {
	var ln, rn int
	var lSum, rSum float64
	for _, i := range indices {
		v := b.residual[i]
		if b.x[i][feature] <= threshold {
			ln++
			lSum += v
		} else {
			rn++
			rSum += v
		}
	}
	if ln < b.minLeaf || rn < b.minLeaf {
		return 0, false
	}

	lMean := lSum / float64(ln)
	rMean := rSum / float64(rn)

	var lVar, rVar float64
	for _, i := range indices {
		v := b.residual[i]
		if b.x[i][feature] <= threshold {
			d := v - lMean
			lVar += d * d
		} else {
			d := v - rMean
			rVar += d * d
		}
	}

	return lVar/float64(ln) + rVar/float64(rn), true
}

func (b *builder) mean(indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range indices {
		sum += b.residual[i]
	}
	return sum / float64(len(indices))
}

func (b *builder) variance(indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	m := b.mean(indices)
	sum := 0.0
	for _, i := range indices {
		d := b.residual[i] - m
		sum += d * d
	}
	return sum / float64(len(indices))
}
