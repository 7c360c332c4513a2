package window

import (
	"math"
	"testing"
)

func TestGenerateTypes(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
	}{
		{name: "rectangular", typ: TypeRectangular},
		{name: "hann", typ: TypeHann},
		{name: "hamming", typ: TypeHamming},
		{name: "blackman", typ: TypeBlackman},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Generate(tt.typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
			}
		})
	}
}

func TestGoldenVectors(t *testing.T) {
	hannExpected := []float64{
		0.0, 0.1882550990706332, 0.6112604669781572, 0.9504844339512095,
		0.9504844339512095, 0.6112604669781573, 0.1882550990706333, 0.0,
	}
	hammingExpected := []float64{
		0.08, 0.25319469114498255, 0.6423596296199047, 0.9544456792351128,
		0.9544456792351128, 0.6423596296199048, 0.25319469114498266, 0.08,
	}
	blackmanExpected := []float64{
		0.0, 0.09045342435412804, 0.4591829575459636, 0.9203636180999081,
		0.9203636180999083, 0.4591829575459638, 0.09045342435412812, 0.0,
	}
	hannPeriodicExpected := []float64{
		0.0, 0.1464466094067262, 0.5, 0.8535533905932737,
		1.0, 0.8535533905932738, 0.5, 0.1464466094067263,
	}

	checkGolden(t, Generate(TypeHann, 8), hannExpected, 1e-10)
	checkGolden(t, Generate(TypeHamming, 8), hammingExpected, 1e-10)
	checkGolden(t, Generate(TypeBlackman, 8), blackmanExpected, 1e-10)
	checkGolden(t, Generate(TypeHann, 8, WithPeriodic()), hannPeriodicExpected, 1e-10)
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	a := Generate(TypeHann, 16)

	b := Generate(TypeHann, 16, WithPeriodic())
	if len(a) != 16 || len(b) != 16 {
		t.Fatalf("unexpected lengths: %d %d", len(a), len(b))
	}

	if almostEqual(a[15], b[15], 1e-12) {
		t.Fatal("expected different end coefficient for periodic form")
	}
}

func TestPeriodicHannOverlapAddUnity(t *testing.T) {
	// Squared periodic Hann coefficients summed at 75% overlap give the
	// same constant at every hop phase. Overlap-add normalization in the
	// vocoder depends on this.
	const (
		size = 2048
		hop  = size / 4
	)

	w := Generate(TypeHann, size, WithPeriodic())

	for phase := range hop {
		sum := 0.0
		for m := 0; m < size/hop; m++ {
			c := w[phase+m*hop]
			sum += c * c
		}

		if !almostEqual(sum, 1.5, 1e-9) {
			t.Fatalf("phase %d: overlapped coefficient power = %v, want 1.5", phase, sum)
		}
	}
}

func TestApplyInPlaceByType(t *testing.T) {
	buf := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	Apply(TypeRectangular, buf)

	for i, v := range buf {
		if v != float64(i+1) {
			t.Fatalf("rectangular should be passthrough at %d: %v", i, v)
		}
	}

	Apply(TypeHann, buf)

	if buf[0] != 0 {
		t.Fatalf("hann first sample should be 0, got %v", buf[0])
	}
}

func TestConvenienceWrappers(t *testing.T) {
	if _, err := Hann(64); err != nil {
		t.Fatal(err)
	}

	if _, err := Hamming(64); err != nil {
		t.Fatal(err)
	}

	if _, err := Blackman(64); err != nil {
		t.Fatal(err)
	}
}

func TestApplyCoefficientsHelpers(t *testing.T) {
	samples := []float64{1, 2, 3}
	coeffs := []float64{0.5, 0.5, 0.5}

	out, err := ApplyCoefficients(samples, coeffs)
	if err != nil {
		t.Fatal(err)
	}

	if !almostEqual(out[2], 1.5, 1e-12) {
		t.Fatalf("out[2]=%v", out[2])
	}

	err = ApplyCoefficientsInPlace(samples, coeffs)
	if err != nil {
		t.Fatal(err)
	}

	if !almostEqual(samples[1], 1.0, 1e-12) {
		t.Fatalf("samples[1]=%v", samples[1])
	}
}

func TestValidationAndEdgeCases(t *testing.T) {
	if got := Generate(TypeHann, 0); got != nil {
		t.Fatalf("expected nil for zero length, got %v", got)
	}

	_, err := Hann(0)
	if err == nil {
		t.Fatal("expected size validation error")
	}

	_, err = ApplyCoefficients([]float64{1, 2}, []float64{1})
	if err == nil {
		t.Fatal("expected mismatch error")
	}

	err = ApplyCoefficientsInPlace([]float64{1, 2}, []float64{1})
	if err == nil {
		t.Fatal("expected mismatch error")
	}
}

func checkGolden(t *testing.T, got, want []float64, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("len mismatch got=%d want=%d", len(got), len(want))
	}

	for i := range got {
		if !almostEqual(got[i], want[i], tol) {
			t.Fatalf("index %d: got=%.16f want=%.16f", i, got[i], want[i])
		}
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
