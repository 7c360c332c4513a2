package engine

import (
	"github.com/cwbudde/algo-autotune/dsp/pitch"
	"github.com/cwbudde/algo-autotune/dsp/vocoder"
)

const (
	defaultStrengthPercent   = 100
	defaultSpeedPercent      = 100
	defaultDetectionInterval = 4
)

// params is an immutable control snapshot. The control goroutine builds a
// fresh value for every change and publishes it with an atomic pointer
// swap; Process loads the pointer once per block and never writes through
// it.
type params struct {
	enabled           bool
	strengthPercent   int
	speedPercent      int
	key               pitch.Key
	effect            vocoder.Effect
	detectionInterval int
}

func defaultParams() *params {
	return &params{
		enabled:           false,
		strengthPercent:   defaultStrengthPercent,
		speedPercent:      defaultSpeedPercent,
		key:               pitch.Key{Root: pitch.ClassC, Mode: pitch.Major},
		effect:            vocoder.EffectFormantShift,
		detectionInterval: defaultDetectionInterval,
	}
}
