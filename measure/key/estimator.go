package key

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-autotune/dsp/pitch"
)

// MinObservations is how many gated pitch observations Estimate needs
// before it will name a key.
const MinObservations = 10

// Krumhansl-Schmuckler key profiles: the perceptual weight of each
// chromatic step above the tonic, from probe-tone experiments.
var (
	majorProfile = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

// Result is the outcome of one key estimation.
//
// When Known is false (too few observations, or a histogram too flat to
// correlate) the remaining fields are zero and the caller must not apply
// a key.
type Result struct {
	Key        pitch.Key
	Confidence float64
	Camelot    string
	OpenKey    string
	Known      bool
}

// Estimate names the most likely key for the accumulated histogram.
//
// The histogram is normalized to a pitch class distribution and Pearson
// correlated against the reference profile rotated to every root in both
// modes; the best of the 24 wins. Confidence is that correlation clamped
// at zero. Estimate is a pure function of the histogram and is meant for
// the control thread, once per take.
func Estimate(hist *Histogram) Result {
	if hist == nil || hist.total < MinObservations {
		return Result{}
	}

	var observed [12]float64
	for class, count := range hist.counts {
		observed[class] = float64(count)
	}
	floats.Scale(1/float64(hist.total), observed[:])

	bestKey := pitch.Key{}
	bestCorr := math.Inf(-1)

	var rotated [12]float64
	for root := range 12 {
		for _, mode := range [...]pitch.Mode{pitch.Major, pitch.Minor} {
			profile := &majorProfile
			if mode == pitch.Minor {
				profile = &minorProfile
			}

			for class := range rotated {
				rotated[class] = profile[(class-root+12)%12]
			}

			corr := stat.Correlation(observed[:], rotated[:], nil)
			if math.IsNaN(corr) || corr <= bestCorr {
				continue
			}

			bestCorr = corr
			bestKey = pitch.Key{Root: pitch.PitchClass(root), Mode: mode}
		}
	}

	// A histogram with zero variance correlates with nothing.
	if math.IsInf(bestCorr, -1) {
		return Result{}
	}

	return Result{
		Key:        bestKey,
		Confidence: math.Max(0, bestCorr),
		Camelot:    Camelot(bestKey),
		OpenKey:    OpenKey(bestKey),
		Known:      true,
	}
}
