package calculate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naivePercentile is the straightforward O(n*w) rescan the fast window
// replaces; outputs must match it exactly.
func naivePercentile(xs []float64, window int) []float64 {
	out := nanSlice(len(xs))
	for i := window - 1; i < len(xs); i++ {
		if math.IsNaN(xs[i]) {
			continue
		}
		less, equal, defined := 0, 0, 0
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(xs[j]) {
				continue
			}
			defined++
			switch {
			case xs[j] < xs[i]:
				less++
			case xs[j] == xs[i]:
				equal++
			}
		}
		if defined == window {
			rank := float64(less) + (float64(equal)+1)/2
			out[i] = 100 * rank / float64(window)
		}
	}
	return out
}

func TestRollingPercentileSpike(t *testing.T) {
	xs := make([]float64, 30)
	for i := range xs {
		xs[i] = 10
	}
	xs[29] = 50

	out := rollingPercentile(xs, 30)
	assert.Equal(t, 100.0, out[29], "a unique window maximum ranks 100")
}

func TestRollingPercentileAllEqual(t *testing.T) {
	xs := make([]float64, 30)
	for i := range xs {
		xs[i] = 5
	}

	out := rollingPercentile(xs, 30)
	// Average rank of a 30-way tie is 15.5.
	assert.InDelta(t, 100*15.5/30, out[29], 1e-12)
}

func TestRollingPercentileDecreasing(t *testing.T) {
	out := rollingPercentile([]float64{5, 4, 3, 2, 1}, 3)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	// Each sample is the minimum of its window.
	for i := 2; i < 5; i++ {
		assert.InDelta(t, 100.0/3, out[i], 1e-12)
	}
}

func TestRollingPercentileBounds(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	xs := make([]float64, 500)
	for i := range xs {
		xs[i] = r.Float64() * 1000
	}

	out := rollingPercentile(xs, 30)
	for i, v := range out {
		if i < 29 {
			assert.True(t, math.IsNaN(v))
			continue
		}
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestRollingPercentileNaNPrefix(t *testing.T) {
	nan := math.NaN()
	xs := []float64{nan, nan, nan, nan, 1, 2, 3, 4, 5}

	out := rollingPercentile(xs, 3)
	// Windows overlapping the NaN prefix stay undefined.
	for i := 0; i <= 5; i++ {
		assert.True(t, math.IsNaN(out[i]), "index %d", i)
	}
	assert.Equal(t, 100.0, out[6])
	assert.Equal(t, 100.0, out[7])
	assert.Equal(t, 100.0, out[8])
}

func TestRollingPercentileMatchesNaive(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	xs := make([]float64, 300)
	for i := range xs {
		// Round to one decimal to force ties.
		xs[i] = math.Round(r.Float64()*1000) / 10
	}
	// Sprinkle some undefined cells.
	xs[0] = math.NaN()
	xs[57] = math.NaN()
	xs[58] = math.NaN()

	got := rollingPercentile(xs, 20)
	want := naivePercentile(xs, 20)

	require.Len(t, got, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "index %d", i)
			continue
		}
		assert.InDelta(t, want[i], got[i], 1e-9, "index %d", i)
	}
}
