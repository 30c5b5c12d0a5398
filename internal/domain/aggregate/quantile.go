package aggregate

import "sort"

// NewBoxStats computes five-number statistics over values. The input is
// copied before sorting, so callers keep their row order.
func NewBoxStats(values []float64) BoxStats {
	if len(values) == 0 {
		return BoxStats{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return BoxStats{
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.50),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
		Count:  len(sorted),
	}
}

// quantile interpolates linearly between the closest ranks of an already
// sorted slice. p is clamped to [0, 1].
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	pos := p * float64(n-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := pos - float64(lo)

	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
