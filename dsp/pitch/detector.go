package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-autotune/dsp/core"
)

const (
	detectorMinFrequencyHz = 80.0
	detectorMaxFrequencyHz = 800.0
	detectorSilenceGateDB  = -40.0
	detectorCorrelationMin = 0.3
	detectorSmoothing      = 0.7
)

// Detector estimates the fundamental frequency of a vocal signal by
// normalized autocorrelation over the 80-800 Hz period range.
//
// Detection cost is O(len(buffer) * lag range), so callers run it at a
// reduced cadence on a bounded window rather than per block. The detector
// keeps an exponentially smoothed estimate across calls to suppress octave
// flips and jitter; Reset clears it.
//
// This detector is mono and not thread-safe.
type Detector struct {
	sampleRate  float64
	minLag      int
	maxLag      int
	silenceGate float64
	smoothed    float64

	corr []float64
}

// NewDetector creates a vocal pitch detector for the given sample rate.
func NewDetector(sampleRate float64) (*Detector, error) {
	if !isFinitePositive(sampleRate) {
		return nil, fmt.Errorf("pitch detector sample rate must be positive and finite: %f", sampleRate)
	}

	minLag := int(sampleRate / detectorMaxFrequencyHz)
	if minLag < 2 {
		return nil, fmt.Errorf("pitch detector sample rate too low for %g Hz search ceiling: %f",
			detectorMaxFrequencyHz, sampleRate)
	}

	maxLag := int(sampleRate / detectorMinFrequencyHz)

	return &Detector{
		sampleRate:  sampleRate,
		minLag:      minLag,
		maxLag:      maxLag,
		silenceGate: core.DBToLinear(detectorSilenceGateDB),
		corr:        make([]float64, maxLag+2),
	}, nil
}

// SampleRate returns the configured sample rate in Hz.
func (d *Detector) SampleRate() float64 { return d.sampleRate }

// MinFrequency returns the lower bound of the search range in Hz.
func (d *Detector) MinFrequency() float64 { return detectorMinFrequencyHz }

// MaxFrequency returns the upper bound of the search range in Hz.
func (d *Detector) MaxFrequency() float64 { return detectorMaxFrequencyHz }

// SilenceGateDB returns the RMS gate below which input is treated as silence.
func (d *Detector) SilenceGateDB() float64 { return core.LinearToDB(d.silenceGate) }

// Reset clears the smoothing state. The next accepted estimate passes
// through unsmoothed.
func (d *Detector) Reset() { d.smoothed = 0 }

// Detect estimates the fundamental frequency of buf in Hz.
//
// It reports false for weak signal (RMS below the silence gate), for
// correlation too low to trust, and for periods outside the vocal range.
// A false result keeps the previous smoothing state; the engine decides
// when a miss streak warrants a Reset.
//
// Detect never allocates.
func (d *Detector) Detect(buf []float64) (float64, bool) {
	n := len(buf)
	if n < d.minLag+2 {
		return 0, false
	}

	mean := 0.0
	for _, v := range buf {
		mean += v
	}

	mean /= float64(n)

	energy := 0.0
	for _, v := range buf {
		c := v - mean
		energy += c * c
	}

	rms := math.Sqrt(energy / float64(n))
	if rms < d.silenceGate {
		return 0, false
	}

	maxLag := min(d.maxLag, n-2)
	if maxLag <= d.minLag {
		return 0, false
	}

	bestLag := 0
	bestCorr := 0.0

	for lag := d.minLag; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i < n-lag; i++ {
			sum += (buf[i] - mean) * (buf[i+lag] - mean)
		}

		d.corr[lag] = sum
		if sum > bestCorr {
			bestCorr = sum
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr <= detectorCorrelationMin*energy {
		return 0, false
	}

	frequency := d.sampleRate / d.refineLag(bestLag, maxLag)
	if frequency < detectorMinFrequencyHz || frequency > detectorMaxFrequencyHz {
		return 0, false
	}

	if d.smoothed == 0 {
		d.smoothed = frequency
	} else {
		d.smoothed = d.smoothed*detectorSmoothing + frequency*(1-detectorSmoothing)
	}

	return d.smoothed, true
}

// refineLag interpolates the correlation peak position between samples by
// fitting a parabola through the peak and its neighbors.
func (d *Detector) refineLag(lag, maxLag int) float64 {
	if lag <= d.minLag || lag >= maxLag {
		return float64(lag)
	}

	left := d.corr[lag-1]
	mid := d.corr[lag]
	right := d.corr[lag+1]

	den := left - 2*mid + right
	if math.Abs(den) < 1e-20 {
		return float64(lag)
	}

	delta := 0.5 * (left - right) / den
	if delta < -0.5 || delta > 0.5 {
		return float64(lag)
	}

	return float64(lag) + delta
}

func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
