package pitch

import "math"

const (
	scaleLowOctave  = 2
	scaleHighOctave = 6
	scaleDegrees    = 7
)

var (
	majorIntervals = [scaleDegrees]int{0, 2, 4, 5, 7, 9, 11}
	minorIntervals = [scaleDegrees]int{0, 2, 3, 5, 7, 8, 10}
)

// Note is one quantization candidate of a scale.
type Note struct {
	Frequency float64
	Name      string
	MIDI      int
}

// ScaleTable holds the allowed frequencies of every key (12 pitch classes
// x major/minor), spanning octaves 2-6 of each scale degree. All candidate
// data, including name strings, is built once at construction; lookups never
// allocate, so the table is safe to query from the audio thread.
//
// The table is immutable after construction.
type ScaleTable struct {
	candidates [24][]Note
}

// NewScaleTable builds the quantization table for all keys.
func NewScaleTable() *ScaleTable {
	t := &ScaleTable{}

	for root := ClassC; root <= ClassB; root++ {
		for _, mode := range []Mode{Major, Minor} {
			key := Key{Root: root, Mode: mode}
			t.candidates[keyIndex(key)] = buildCandidates(key)
		}
	}

	return t
}

// Candidates returns the ascending candidate list for a key, or nil for an
// invalid key. The returned slice is shared table data; callers must not
// modify it.
func (t *ScaleTable) Candidates(key Key) []Note {
	if !key.Valid() {
		return nil
	}

	return t.candidates[keyIndex(key)]
}

// Nearest returns the scale note closest in frequency to the input.
//
// Reports false for non-finite or non-positive frequencies and for invalid
// keys; callers treat that as "no correction". Exact ties between two
// candidates resolve to the lower frequency.
func (t *ScaleTable) Nearest(frequency float64, key Key) (Note, bool) {
	if math.IsNaN(frequency) || math.IsInf(frequency, 0) || frequency <= 0 {
		return Note{}, false
	}

	if !key.Valid() {
		return Note{}, false
	}

	return nearestNote(t.candidates[keyIndex(key)], frequency), true
}

// nearestNote scans candidates in ascending frequency order; strict
// less-than keeps the first of two equidistant notes, so ties break toward
// the lower frequency.
func nearestNote(candidates []Note, frequency float64) Note {
	best := candidates[0]
	bestDiff := math.Abs(frequency - best.Frequency)

	for _, c := range candidates[1:] {
		diff := math.Abs(frequency - c.Frequency)
		if diff < bestDiff {
			bestDiff = diff
			best = c
		}
	}

	return best
}

func buildCandidates(key Key) []Note {
	intervals := majorIntervals
	if key.Mode == Minor {
		intervals = minorIntervals
	}

	notes := make([]Note, 0, scaleDegrees*(scaleHighOctave-scaleLowOctave+1))

	for octave := scaleLowOctave; octave <= scaleHighOctave; octave++ {
		for _, interval := range intervals {
			midi := 12*(octave+1) + int(key.Root) + interval
			notes = append(notes, Note{
				Frequency: MIDIToFrequency(midi),
				Name:      NoteName(midi),
				MIDI:      midi,
			})
		}
	}

	return notes
}

func keyIndex(key Key) int {
	return int(key.Root)*2 + int(key.Mode)
}
