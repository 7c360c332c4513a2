package pitch

import (
	"math"
	"testing"
)

func TestPitchClassString(t *testing.T) {
	tests := []struct {
		class PitchClass
		want  string
	}{
		{class: ClassC, want: "C"},
		{class: ClassCSharp, want: "C#"},
		{class: ClassFSharp, want: "F#"},
		{class: ClassA, want: "A"},
		{class: ClassB, want: "B"},
		{class: PitchClass(12), want: "PitchClass(12)"},
		{class: PitchClass(-1), want: "PitchClass(-1)"},
	}

	for _, tt := range tests {
		if got := tt.class.String(); got != tt.want {
			t.Errorf("PitchClass(%d).String() = %q, want %q", tt.class, got, tt.want)
		}
	}
}

func TestModeAndKeyString(t *testing.T) {
	if got := Major.String(); got != "major" {
		t.Errorf("Major.String() = %q, want %q", got, "major")
	}

	if got := Minor.String(); got != "minor" {
		t.Errorf("Minor.String() = %q, want %q", got, "minor")
	}

	key := Key{Root: ClassFSharp, Mode: Minor}
	if got := key.String(); got != "F# minor" {
		t.Errorf("Key.String() = %q, want %q", got, "F# minor")
	}
}

func TestKeyValid(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want bool
	}{
		{name: "C major", key: Key{Root: ClassC, Mode: Major}, want: true},
		{name: "B minor", key: Key{Root: ClassB, Mode: Minor}, want: true},
		{name: "root out of range", key: Key{Root: PitchClass(12), Mode: Major}, want: false},
		{name: "negative root", key: Key{Root: PitchClass(-3), Mode: Minor}, want: false},
		{name: "bad mode", key: Key{Root: ClassC, Mode: Mode(7)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMIDIToFrequency(t *testing.T) {
	if got := MIDIToFrequency(69); got != 440.0 {
		t.Fatalf("MIDIToFrequency(69) = %v, want exactly 440", got)
	}

	tests := []struct {
		midi int
		want float64
	}{
		{midi: 60, want: 261.6255653005986},
		{midi: 57, want: 220.0},
		{midi: 81, want: 880.0},
		{midi: 21, want: 27.5},
	}

	for _, tt := range tests {
		got := MIDIToFrequency(tt.midi)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("MIDIToFrequency(%d) = %v, want %v", tt.midi, got, tt.want)
		}
	}
}

func TestFrequencyToMIDI(t *testing.T) {
	tests := []struct {
		name      string
		frequency float64
		wantMIDI  int
		wantOK    bool
	}{
		{name: "A4 exact", frequency: 440, wantMIDI: 69, wantOK: true},
		{name: "A4 slightly sharp", frequency: 445, wantMIDI: 69, wantOK: true},
		{name: "A4 slightly flat", frequency: 435, wantMIDI: 69, wantOK: true},
		{name: "C4", frequency: 261.63, wantMIDI: 60, wantOK: true},
		{name: "zero", frequency: 0, wantOK: false},
		{name: "negative", frequency: -440, wantOK: false},
		{name: "NaN", frequency: math.NaN(), wantOK: false},
		{name: "Inf", frequency: math.Inf(1), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FrequencyToMIDI(tt.frequency)
			if ok != tt.wantOK {
				t.Fatalf("FrequencyToMIDI(%v) ok = %v, want %v", tt.frequency, ok, tt.wantOK)
			}

			if ok && got != tt.wantMIDI {
				t.Errorf("FrequencyToMIDI(%v) = %d, want %d", tt.frequency, got, tt.wantMIDI)
			}
		})
	}
}

func TestFrequencyMIDIRoundTrip(t *testing.T) {
	for midi := 24; midi <= 96; midi++ {
		got, ok := FrequencyToMIDI(MIDIToFrequency(midi))
		if !ok || got != midi {
			t.Fatalf("round trip for MIDI %d = %d (ok=%v)", midi, got, ok)
		}
	}
}

func TestPitchClassOf(t *testing.T) {
	tests := []struct {
		midi int
		want PitchClass
	}{
		{midi: 60, want: ClassC},
		{midi: 69, want: ClassA},
		{midi: 61, want: ClassCSharp},
		{midi: 71, want: ClassB},
		{midi: 72, want: ClassC},
		{midi: 0, want: ClassC},
	}

	for _, tt := range tests {
		if got := PitchClassOf(tt.midi); got != tt.want {
			t.Errorf("PitchClassOf(%d) = %v, want %v", tt.midi, got, tt.want)
		}
	}
}

func TestNoteName(t *testing.T) {
	tests := []struct {
		midi int
		want string
	}{
		{midi: 69, want: "A4"},
		{midi: 60, want: "C4"},
		{midi: 61, want: "C#4"},
		{midi: 0, want: "C-1"},
		{midi: 108, want: "C8"},
		{midi: 21, want: "A0"},
	}

	for _, tt := range tests {
		if got := NoteName(tt.midi); got != tt.want {
			t.Errorf("NoteName(%d) = %q, want %q", tt.midi, got, tt.want)
		}
	}
}
