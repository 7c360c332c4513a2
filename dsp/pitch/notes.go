package pitch

import (
	"fmt"
	"math"
)

// PitchClass identifies one of the twelve chromatic pitch classes, C = 0.
type PitchClass int

const (
	ClassC PitchClass = iota
	ClassCSharp
	ClassD
	ClassDSharp
	ClassE
	ClassF
	ClassFSharp
	ClassG
	ClassGSharp
	ClassA
	ClassASharp
	ClassB
)

var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// String returns the sharp-based pitch class name, e.g. "F#".
func (p PitchClass) String() string {
	if p < 0 || p > 11 {
		return fmt.Sprintf("PitchClass(%d)", int(p))
	}

	return pitchClassNames[p]
}

// Valid reports whether p is one of the twelve chromatic classes.
func (p PitchClass) Valid() bool { return p >= 0 && p <= 11 }

// Mode selects the scale family of a key.
type Mode int

const (
	Major Mode = iota
	Minor
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case Major:
		return "major"
	case Minor:
		return "minor"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is Major or Minor.
func (m Mode) Valid() bool { return m == Major || m == Minor }

// Key pairs a tonic pitch class with a mode.
type Key struct {
	Root PitchClass
	Mode Mode
}

// String returns the display form used by the notation tables, e.g. "C major".
func (k Key) String() string { return k.Root.String() + " " + k.Mode.String() }

// Valid reports whether both root and mode are in range.
func (k Key) Valid() bool { return k.Root.Valid() && k.Mode.Valid() }

// referenceA4Hz anchors equal temperament: MIDI note 69 sounds at 440 Hz.
const referenceA4Hz = 440.0

// MIDIToFrequency returns the equal-temperament frequency of a MIDI note.
func MIDIToFrequency(note int) float64 {
	return referenceA4Hz * math.Pow(2, float64(note-69)/12)
}

// FrequencyToMIDI returns the nearest MIDI note for a frequency.
// Reports false for non-finite or non-positive input.
func FrequencyToMIDI(frequency float64) (int, bool) {
	if math.IsNaN(frequency) || math.IsInf(frequency, 0) || frequency <= 0 {
		return 0, false
	}

	note := int(math.Round(12*math.Log2(frequency/referenceA4Hz))) + 69

	return note, true
}

// PitchClassOf returns the pitch class of a MIDI note.
func PitchClassOf(note int) PitchClass {
	return PitchClass(((note % 12) + 12) % 12)
}

// NoteName returns the scientific note name of a MIDI note, e.g. "A4" for 69.
func NoteName(note int) string {
	return fmt.Sprintf("%s%d", PitchClassOf(note), note/12-1)
}
