package engine_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-autotune/dsp/engine"
	"github.com/cwbudde/algo-autotune/dsp/pitch"
)

// ExampleCorrector corrects a slightly flat tone toward the A minor scale.
func ExampleCorrector() {
	corrector, err := engine.NewCorrector(44100)
	if err != nil {
		panic(err)
	}

	if err := corrector.SetKey(pitch.ClassA, pitch.Minor); err != nil {
		panic(err)
	}
	corrector.SetEnabled(true)

	const blockSize = 512
	input := make([]float64, blockSize)
	output := make([]float64, blockSize)

	for block := 0; block < 32; block++ {
		for i := range input {
			n := block*blockSize + i
			input[i] = 0.5 * math.Sin(2*math.Pi*225.0*float64(n)/44100.0)
		}

		if err := corrector.Process(output, input); err != nil {
			panic(err)
		}
	}

	fmt.Printf("Latency: %d samples\n", corrector.Latency())
	fmt.Printf("Pitch updates: %d\n", len(corrector.Telemetry()))
	// Output:
	// Latency: 2047 samples
	// Pitch updates: 8
}
