package engine

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-autotune/internal/testutil"
)

func BenchmarkCorrectorProcess(b *testing.B) {
	for _, blockLen := range []int{128, 512, 2048} {
		b.Run(strconv.Itoa(blockLen), func(b *testing.B) {
			c, err := NewCorrector(44100)
			if err != nil {
				b.Fatalf("NewCorrector() error = %v", err)
			}
			c.SetEnabled(true)

			input := testutil.DeterministicSine(225, 44100, 0.5, blockLen)
			output := make([]float64, blockLen)

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = c.Process(output, input)
			}
		})
	}
}

func BenchmarkCorrectorProcessEveryBlockScan(b *testing.B) {
	c, err := NewCorrector(44100, WithDetectionInterval(1))
	if err != nil {
		b.Fatalf("NewCorrector() error = %v", err)
	}
	c.SetEnabled(true)

	input := testutil.DeterministicSine(225, 44100, 0.5, 512)
	output := make([]float64, 512)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = c.Process(output, input)
	}
}

func BenchmarkCorrectorProcessBypass(b *testing.B) {
	c, err := NewCorrector(44100)
	if err != nil {
		b.Fatalf("NewCorrector() error = %v", err)
	}

	input := testutil.DeterministicSine(225, 44100, 0.5, 512)
	output := make([]float64, 512)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = c.Process(output, input)
	}
}
