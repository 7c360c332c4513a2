package key

import "github.com/cwbudde/algo-autotune/dsp/pitch"

// DJ wheel notations keyed by Key.String(). A major key and its relative
// minor share a wheel position; neighbors are a fifth apart.
var camelotCodes = map[string]string{
	"G# minor": "1A", "B major": "1B",
	"D# minor": "2A", "F# major": "2B",
	"A# minor": "3A", "C# major": "3B",
	"F minor": "4A", "G# major": "4B",
	"C minor": "5A", "D# major": "5B",
	"G minor": "6A", "A# major": "6B",
	"D minor": "7A", "F major": "7B",
	"A minor": "8A", "C major": "8B",
	"E minor": "9A", "G major": "9B",
	"B minor": "10A", "D major": "10B",
	"F# minor": "11A", "A major": "11B",
	"C# minor": "12A", "E major": "12B",
}

var openKeyCodes = map[string]string{
	"G# minor": "6m", "B major": "6d",
	"D# minor": "7m", "F# major": "7d",
	"A# minor": "8m", "C# major": "8d",
	"F minor": "9m", "G# major": "9d",
	"C minor": "10m", "D# major": "10d",
	"G minor": "11m", "A# major": "11d",
	"D minor": "12m", "F major": "12d",
	"A minor": "1m", "C major": "1d",
	"E minor": "2m", "G major": "2d",
	"B minor": "3m", "D major": "3d",
	"F# minor": "4m", "A major": "4d",
	"C# minor": "5m", "E major": "5d",
}

// Camelot returns the Camelot wheel code for key, "8B" for C major. It
// returns the empty string for an invalid key.
func Camelot(key pitch.Key) string { return camelotCodes[key.String()] }

// OpenKey returns the Open Key notation for key, "1d" for C major. It
// returns the empty string for an invalid key.
func OpenKey(key pitch.Key) string { return openKeyCodes[key.String()] }

// RelativeKey returns the relative major of a minor key and vice versa,
// the key sharing the same scale notes and wheel position. Invalid keys
// are returned unchanged.
func RelativeKey(key pitch.Key) pitch.Key {
	if !key.Valid() {
		return key
	}

	if key.Mode == pitch.Major {
		return pitch.Key{Root: pitch.PitchClass((int(key.Root) + 9) % 12), Mode: pitch.Minor}
	}

	return pitch.Key{Root: pitch.PitchClass((int(key.Root) + 3) % 12), Mode: pitch.Major}
}
