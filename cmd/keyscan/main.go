// Command keyscan names the musical key of a recorded take from detected
// pitch observations and prints DJ notations for tagging.
//
// Usage:
//
//	keyscan [flags] [observations.json]
//
// The input is a JSON document with parallel arrays of detected pitch
// frequencies in Hz and detector confidences from 0 to 1. Confidences may
// be omitted, in which case every observation is fully trusted. Both the
// plural keys and the singular keys written by per-frame pitch trackers
// such as CREPE are accepted, so a tracker dump loads unchanged; extra
// fields are ignored and zero-frequency (unvoiced) or low-confidence
// entries are skipped:
//
//	{"frequencies": [220.1, 246.8, 220.3], "confidences": [0.9, 0.7, 0.8]}
//	{"time": [...], "frequency": [220.1, 0, 220.3], "confidence": [0.9, 0.2, 0.8], ...}
//
// keyscan reads standard input when no file is given or the file is "-".
// It exits non-zero when the input cannot be read or no key can be named.
//
// Examples:
//
//	keyscan take.json
//	transcribe vocal.wav | keyscan
//	keyscan -json take.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-autotune/measure/key"
)

type observations struct {
	Frequencies []float64 `json:"frequencies"`
	Confidences []float64 `json:"confidences"`

	// Singular spellings used by per-frame pitch tracker dumps.
	Frequency  []float64 `json:"frequency"`
	Confidence []float64 `json:"confidence"`
}

func main() {
	asJSON := flag.Bool("json", false, "emit the result as JSON")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: keyscan [flags] [observations.json]\n\n")
		fmt.Fprintf(os.Stderr, "Names the musical key of a take from detected pitch observations.\n")
		fmt.Fprintf(os.Stderr, "Reads standard input when no file is given.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	obs, err := readObservations(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	hist, counted := buildHistogram(obs)
	result := key.Estimate(hist)

	if *asJSON {
		err = printJSON(os.Stdout, result, counted)
	} else {
		err = printTable(os.Stdout, result, counted)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to write output: %v\n", err)
		os.Exit(1)
	}

	if !result.Known {
		os.Exit(1)
	}
}

func readObservations(path string) (*observations, error) {
	var r io.Reader
	switch path {
	case "", "-":
		r = os.Stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var obs observations
	if err := json.NewDecoder(r).Decode(&obs); err != nil {
		return nil, fmt.Errorf("parsing observations: %w", err)
	}

	if len(obs.Frequencies) == 0 {
		obs.Frequencies = obs.Frequency
	}
	if len(obs.Confidences) == 0 {
		obs.Confidences = obs.Confidence
	}

	if len(obs.Frequencies) == 0 {
		return nil, fmt.Errorf("no frequencies in input")
	}

	if len(obs.Confidences) != 0 && len(obs.Confidences) != len(obs.Frequencies) {
		return nil, fmt.Errorf("got %d confidences for %d frequencies",
			len(obs.Confidences), len(obs.Frequencies))
	}

	return &obs, nil
}

func buildHistogram(obs *observations) (*key.Histogram, int) {
	var hist key.Histogram

	counted := 0
	for i, freq := range obs.Frequencies {
		confidence := 1.0
		if len(obs.Confidences) != 0 {
			confidence = obs.Confidences[i]
		}

		if hist.AddObservation(freq, confidence) {
			counted++
		}
	}

	return &hist, counted
}

func printTable(w io.Writer, result key.Result, counted int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !result.Known {
		fmt.Fprintf(tw, "Key:\tunknown\n")
		fmt.Fprintf(tw, "Observations:\t%d (need %d confident ones)\n", counted, key.MinObservations)
		return tw.Flush()
	}

	fmt.Fprintf(tw, "Key:\t%s\n", result.Key)
	fmt.Fprintf(tw, "Relative:\t%s\n", key.RelativeKey(result.Key))
	fmt.Fprintf(tw, "Confidence:\t%.3f\n", result.Confidence)
	fmt.Fprintf(tw, "Camelot:\t%s\n", result.Camelot)
	fmt.Fprintf(tw, "Open Key:\t%s\n", result.OpenKey)
	fmt.Fprintf(tw, "Observations:\t%d\n", counted)

	return tw.Flush()
}

func printJSON(w io.Writer, result key.Result, counted int) error {
	out := struct {
		Known        bool    `json:"known"`
		Key          string  `json:"key,omitempty"`
		Confidence   float64 `json:"confidence"`
		Camelot      string  `json:"camelot,omitempty"`
		OpenKey      string  `json:"openKey,omitempty"`
		Observations int     `json:"observations"`
	}{
		Known:        result.Known,
		Confidence:   result.Confidence,
		Camelot:      result.Camelot,
		OpenKey:      result.OpenKey,
		Observations: counted,
	}
	if result.Known {
		out.Key = result.Key.String()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}
