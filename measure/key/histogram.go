package key

import "github.com/cwbudde/algo-autotune/dsp/pitch"

// minObservationConfidence gates how sure the detector must be before an
// observation is counted.
const minObservationConfidence = 0.5

// Histogram accumulates pitch class counts over a recorded take. The zero
// value is ready to use.
//
// It is not safe for concurrent use; feed it from the goroutine that
// drains the telemetry channel.
type Histogram struct {
	counts [12]int
	total  int
}

// Add counts one observation of a pitch class. Unknown classes are
// ignored.
func (h *Histogram) Add(class pitch.PitchClass) {
	if !class.Valid() {
		return
	}

	h.counts[class]++
	h.total++
}

// AddObservation counts a detected frequency when confidence reaches the
// trust gate. It reports whether the observation was counted.
func (h *Histogram) AddObservation(frequency, confidence float64) bool {
	if confidence < minObservationConfidence {
		return false
	}

	note, ok := pitch.FrequencyToMIDI(frequency)
	if !ok {
		return false
	}

	h.Add(pitch.PitchClassOf(note))

	return true
}

// Count returns how many observations landed on the given pitch class.
func (h *Histogram) Count(class pitch.PitchClass) int {
	if !class.Valid() {
		return 0
	}

	return h.counts[class]
}

// Total returns the number of counted observations.
func (h *Histogram) Total() int { return h.total }

// Reset clears all counts.
func (h *Histogram) Reset() {
	h.counts = [12]int{}
	h.total = 0
}
