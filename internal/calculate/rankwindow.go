package calculate

import (
	"math"
	"sort"
)

// rankWindow tracks the samples currently inside a sliding window and
// answers rank queries against them. Values are compressed onto a sorted
// universe once, then membership counts live in a Fenwick tree, so insert,
// evict and rank are all O(log n) instead of rescanning the window.
type rankWindow struct {
	universe []float64
	tree     []int
}

func newRankWindow(values []float64) *rankWindow {
	u := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			u = append(u, v)
		}
	}
	sort.Float64s(u)

	// Dedup in place.
	k := 0
	for i, v := range u {
		if i == 0 || v != u[k-1] {
			u[k] = v
			k++
		}
	}
	u = u[:k]

	return &rankWindow{universe: u, tree: make([]int, len(u)+1)}
}

// pos maps a value to its 1-based position in the universe.
func (w *rankWindow) pos(v float64) int {
	return sort.SearchFloat64s(w.universe, v) + 1
}

func (w *rankWindow) add(v float64)    { w.update(w.pos(v), 1) }
func (w *rankWindow) remove(v float64) { w.update(w.pos(v), -1) }

func (w *rankWindow) update(i, delta int) {
	for ; i <= len(w.universe); i += i & -i {
		w.tree[i] += delta
	}
}

func (w *rankWindow) prefix(i int) int {
	s := 0
	for ; i > 0; i -= i & -i {
		s += w.tree[i]
	}
	return s
}

// ranks returns how many samples in the window are strictly less than v and
// how many are equal to it (including v itself if present).
func (w *rankWindow) ranks(v float64) (less, equal int) {
	p := w.pos(v)
	less = w.prefix(p - 1)
	equal = w.prefix(p) - less
	return less, equal
}

// rollingPercentile computes, for every index, the percentile rank of xs[i]
// within the trailing `window` samples including itself: the average rank of
// the sample scaled to [0,100], so ties score at their midpoint and a unique
// window maximum scores exactly 100. Cells stay NaN until the trailing
// window holds `window` defined samples.
func rollingPercentile(xs []float64, window int) []float64 {
	out := nanSlice(len(xs))
	if window <= 0 || len(xs) == 0 {
		return out
	}

	w := newRankWindow(xs)
	defined := 0

	for i, x := range xs {
		if !math.IsNaN(x) {
			w.add(x)
			defined++
		}
		if i >= window {
			if old := xs[i-window]; !math.IsNaN(old) {
				w.remove(old)
				defined--
			}
		}
		if i >= window-1 && defined == window {
			less, equal := w.ranks(x)
			rank := float64(less) + (float64(equal)+1)/2
			out[i] = 100 * rank / float64(window)
		}
	}
	return out
}
