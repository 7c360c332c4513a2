package vocoder

import (
	"fmt"
	"math"
)

// envelopeRadius is the half-width of the smoothing window in bins.
const envelopeRadius = 8

// Envelope computes a smoothed copy of a magnitude spectrum as a cheap
// approximation of the vocal-tract formant shape. Smoothing is a symmetric
// moving average over +/- envelopeRadius bins, clamped at the spectrum
// edges, so every output bin is the true mean of its clamped window.
type Envelope struct {
	numBins int
}

// NewEnvelope creates an envelope extractor for spectra of numBins bins.
func NewEnvelope(numBins int) (*Envelope, error) {
	if numBins < 2 {
		return nil, fmt.Errorf("envelope bin count must be at least 2: %d", numBins)
	}

	return &Envelope{numBins: numBins}, nil
}

// NumBins returns the expected spectrum length.
func (e *Envelope) NumBins() int { return e.numBins }

// Extract writes the smoothed magnitude spectrum into envelope.
// Both slices must be NumBins long. Extract does not allocate.
func (e *Envelope) Extract(envelope, magnitude []float64) error {
	if len(envelope) != e.numBins || len(magnitude) != e.numBins {
		return fmt.Errorf("envelope buffers must have %d bins: %d and %d",
			e.numBins, len(envelope), len(magnitude))
	}

	for i := range envelope {
		lo := max(i-envelopeRadius, 0)
		hi := min(i+envelopeRadius, e.numBins-1)

		sum := 0.0
		for k := lo; k <= hi; k++ {
			sum += magnitude[k]
		}

		envelope[i] = sum / float64(hi-lo+1)
	}

	return nil
}

// At returns the envelope value at a fractional bin position using linear
// interpolation. Positions outside the valid range clamp to the nearest
// edge; NaN positions and empty envelopes yield zero.
func (e *Envelope) At(envelope []float64, pos float64) float64 {
	if len(envelope) == 0 || math.IsNaN(pos) {
		return 0
	}

	last := len(envelope) - 1

	if pos <= 0 {
		return envelope[0]
	}

	if pos >= float64(last) {
		return envelope[last]
	}

	lo := int(pos)
	frac := pos - float64(lo)

	return envelope[lo]*(1-frac) + envelope[lo+1]*frac
}
