package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-autotune/dsp/core"
)

func ExampleClamp() {
	ratio := core.Clamp(2.6, 0.5, 2.0)
	fmt.Printf("ratio=%.1f\n", ratio)

	// Output:
	// ratio=2.0
}

func ExampleEnsureLen() {
	buf := make([]float64, 2, 4)
	buf[0], buf[1] = 1, 2
	buf = core.EnsureLen(buf, 4)

	copied := core.CopyInto(buf[2:], []float64{3, 4})
	fmt.Println(copied, buf)

	core.Zero(buf[:2])
	fmt.Println(buf)

	// Output:
	// 2 [1 2 3 4]
	// [0 0 3 4]
}
