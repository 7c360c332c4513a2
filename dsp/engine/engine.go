package engine

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-autotune/dsp/core"
	"github.com/cwbudde/algo-autotune/dsp/pitch"
	"github.com/cwbudde/algo-autotune/dsp/vocoder"
)

const (
	minCorrectionRatio = 0.5
	maxCorrectionRatio = 2.0

	// Consecutive unvoiced scans before the detector's smoothing state is
	// cleared, so a new phrase is not dragged toward the previous one.
	detectorResetMissStreak = 8
)

// PitchUpdate reports the outcome of one pitch detection attempt.
//
// Frequency is the detected fundamental in Hz and is zero when Voiced is
// false. TimestampMs counts milliseconds of audio processed since the
// corrector was created, measured at the end of the block that triggered
// the scan.
type PitchUpdate struct {
	Frequency   float64
	Voiced      bool
	TimestampMs uint64
}

// Corrector applies real-time pitch correction to a mono audio stream.
//
// It detects the fundamental of the incoming voice at a fixed block
// cadence, snaps it to the nearest note of the configured key, and drives
// a phase vocoder with the smoothed correction ratio. Detection results
// are published on a telemetry channel for display; full updates are
// dropped rather than blocking.
//
// Process owns all streaming state and must be called from a single
// goroutine (typically the audio callback). Setters may be called from one
// other goroutine at any time; each publishes a complete parameter
// snapshot, so changes apply atomically at the next processed block and in
// the order they were issued.
type Corrector struct {
	sampleRate float64

	detector *pitch.Detector
	scale    *pitch.ScaleTable
	voc      *vocoder.Vocoder

	controls atomic.Pointer[params]

	telemetry chan PitchUpdate

	// Streaming state below is touched only by Process.
	detectionBuf      []float64
	detectionPos      int
	detectScratch     []float64
	blocksSinceDetect int
	currentRatio      float64
	missStreak        int
	wasEnabled        bool
	samplesProcessed  uint64
}

// NewCorrector creates a pitch corrector for the given sample rate,
// optionally adjusted through options. The corrector starts disabled and
// passes audio through unchanged until SetEnabled(true).
func NewCorrector(sampleRate float64, opts ...CorrectorOption) (*Corrector, error) {
	if !isFinitePositive(sampleRate) {
		return nil, fmt.Errorf("corrector sample rate must be positive and finite: %f", sampleRate)
	}

	cfg := ApplyCorrectorOptions(opts...)
	if cfg.DetectionWindow < minDetectionWindow {
		return nil, fmt.Errorf("corrector detection window must be at least %d samples: %d",
			minDetectionWindow, cfg.DetectionWindow)
	}
	if cfg.DetectionInterval < 1 {
		return nil, fmt.Errorf("corrector detection interval must be at least one block: %d",
			cfg.DetectionInterval)
	}
	if cfg.TelemetryBuffer < 1 {
		return nil, fmt.Errorf("corrector telemetry buffer must hold at least one update: %d",
			cfg.TelemetryBuffer)
	}

	detector, err := pitch.NewDetector(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("corrector: %w", err)
	}

	voc, err := vocoder.NewVocoder(sampleRate, cfg.FrameSize, cfg.HopSize)
	if err != nil {
		return nil, fmt.Errorf("corrector: %w", err)
	}

	c := &Corrector{
		sampleRate:    sampleRate,
		detector:      detector,
		scale:         pitch.NewScaleTable(),
		voc:           voc,
		telemetry:     make(chan PitchUpdate, cfg.TelemetryBuffer),
		detectionBuf:  make([]float64, cfg.DetectionWindow),
		detectScratch: make([]float64, cfg.DetectionWindow),
		currentRatio:  1.0,
	}

	p := defaultParams()
	p.detectionInterval = cfg.DetectionInterval
	c.controls.Store(p)

	return c, nil
}

// SampleRate returns the configured sample rate in Hz.
func (c *Corrector) SampleRate() float64 { return c.sampleRate }

// FrameSize returns the vocoder analysis frame size in samples.
func (c *Corrector) FrameSize() int { return c.voc.FrameSize() }

// HopSize returns the vocoder hop size in samples.
func (c *Corrector) HopSize() int { return c.voc.HopSize() }

// DetectionWindow returns the length of the pitch analysis window in
// samples.
func (c *Corrector) DetectionWindow() int { return len(c.detectionBuf) }

// Latency returns the processing delay introduced by the corrector in
// samples. The bypass path has no delay.
func (c *Corrector) Latency() int { return c.voc.Latency() }

// Enabled reports whether correction is active.
func (c *Corrector) Enabled() bool { return c.controls.Load().enabled }

// StrengthPercent returns the correction strength from 0 to 100.
func (c *Corrector) StrengthPercent() int { return c.controls.Load().strengthPercent }

// SpeedPercent returns the retune speed from 0 to 100.
func (c *Corrector) SpeedPercent() int { return c.controls.Load().speedPercent }

// Key returns the key whose scale the corrector snaps pitches to.
func (c *Corrector) Key() pitch.Key { return c.controls.Load().key }

// Effect returns the active resynthesis effect.
func (c *Corrector) Effect() vocoder.Effect { return c.controls.Load().effect }

// DetectionInterval returns the number of processed blocks between pitch
// scans.
func (c *Corrector) DetectionInterval() int { return c.controls.Load().detectionInterval }

// Telemetry returns the channel carrying one PitchUpdate per detection
// attempt. Updates are dropped when the channel is full, and the channel
// is never closed.
func (c *Corrector) Telemetry() <-chan PitchUpdate { return c.telemetry }

// SetEnabled switches correction on or off. Disabling takes effect at the
// next processed block and clears all streaming state, so re-enabling
// starts a fresh stream.
func (c *Corrector) SetEnabled(enabled bool) {
	p := *c.controls.Load()
	p.enabled = enabled
	c.controls.Store(&p)
}

// SetStrengthPercent sets how far the detected pitch is pulled toward the
// nearest scale note, from 0 (no correction) to 100 (full correction).
func (c *Corrector) SetStrengthPercent(strength int) error {
	if strength < 0 || strength > 100 {
		return fmt.Errorf("corrector strength must be between 0 and 100 percent: %d", strength)
	}

	p := *c.controls.Load()
	p.strengthPercent = strength
	c.controls.Store(&p)

	return nil
}

// SetSpeedPercent sets how quickly the correction ratio moves toward a new
// target, from 0 (frozen at its current value) to 100 (immediate).
func (c *Corrector) SetSpeedPercent(speed int) error {
	if speed < 0 || speed > 100 {
		return fmt.Errorf("corrector speed must be between 0 and 100 percent: %d", speed)
	}

	p := *c.controls.Load()
	p.speedPercent = speed
	c.controls.Store(&p)

	return nil
}

// SetKey sets the key whose scale the corrector snaps pitches to.
func (c *Corrector) SetKey(root pitch.PitchClass, mode pitch.Mode) error {
	key := pitch.Key{Root: root, Mode: mode}
	if !key.Valid() {
		return fmt.Errorf("corrector key is unknown: %s", key)
	}

	p := *c.controls.Load()
	p.key = key
	c.controls.Store(&p)

	return nil
}

// SetEffect selects the resynthesis effect applied by the vocoder.
func (c *Corrector) SetEffect(effect vocoder.Effect) error {
	if !effect.Valid() {
		return fmt.Errorf("corrector effect is unknown: %d", int(effect))
	}

	p := *c.controls.Load()
	p.effect = effect
	c.controls.Store(&p)

	return nil
}

// SetDetectionInterval sets how many processed blocks elapse between pitch
// scans.
func (c *Corrector) SetDetectionInterval(blocks int) error {
	if blocks < 1 {
		return fmt.Errorf("corrector detection interval must be at least one block: %d", blocks)
	}

	p := *c.controls.Load()
	p.detectionInterval = blocks
	c.controls.Store(&p)

	return nil
}

// Process applies pitch correction to input and writes the result to
// output. The slices must have the same length and may alias. It performs
// no allocation, takes no locks, and never blocks, so it is safe to call
// from an audio callback.
//
// While the corrector is disabled the input is copied to the output
// bit-exactly regardless of any state left over from earlier processing.
func (c *Corrector) Process(output, input []float64) error {
	if len(output) != len(input) {
		return fmt.Errorf("corrector output length %d does not match input length %d",
			len(output), len(input))
	}

	if len(input) == 0 {
		return nil
	}

	p := c.controls.Load()

	if !p.enabled {
		copy(output, input)
		if c.wasEnabled {
			c.resetStream()
			c.wasEnabled = false
		}
		c.samplesProcessed += uint64(len(input))

		return nil
	}
	c.wasEnabled = true

	if p.effect != c.voc.Effect() {
		if err := c.voc.SetEffect(p.effect); err != nil {
			return fmt.Errorf("corrector: %w", err)
		}
	}

	for _, sample := range input {
		c.detectionBuf[c.detectionPos] = sample
		c.detectionPos++
		if c.detectionPos == len(c.detectionBuf) {
			c.detectionPos = 0
		}
	}
	c.samplesProcessed += uint64(len(input))

	c.blocksSinceDetect++
	if c.blocksSinceDetect >= p.detectionInterval {
		c.blocksSinceDetect = 0
		c.scanPitch(p)
	}

	return c.voc.ProcessBlockTo(output, input)
}

// scanPitch runs one detection pass over the most recent window of input
// samples, updates the correction ratio, and publishes a telemetry update.
func (c *Corrector) scanPitch(p *params) {
	head := c.detectionBuf[c.detectionPos:]
	n := core.CopyInto(c.detectScratch, head)
	core.CopyInto(c.detectScratch[n:], c.detectionBuf[:c.detectionPos])

	frequency, voiced := c.detector.Detect(c.detectScratch)
	if voiced {
		c.missStreak = 0
		c.retune(frequency, p)
	} else {
		c.missStreak++
		if c.missStreak == detectorResetMissStreak {
			c.detector.Reset()
		}
	}

	update := PitchUpdate{
		Frequency:   frequency,
		Voiced:      voiced,
		TimestampMs: uint64(float64(c.samplesProcessed) * 1000.0 / c.sampleRate),
	}
	select {
	case c.telemetry <- update:
	default:
	}
}

// retune moves the correction ratio toward the configured key. An unvoiced
// scan never reaches here, so the previous ratio simply stays in effect.
func (c *Corrector) retune(frequency float64, p *params) {
	note, ok := c.scale.Nearest(frequency, p.key)
	if !ok {
		return
	}

	target := core.Clamp(note.Frequency/frequency, minCorrectionRatio, maxCorrectionRatio)
	strength := float64(p.strengthPercent) / 100.0
	goal := math.Pow(target, strength)

	speed := float64(p.speedPercent) / 100.0
	c.currentRatio = c.currentRatio*(1.0-speed) + goal*speed
	_ = c.voc.SetRatio(c.currentRatio)
}

// resetStream clears all per-stream state after correction is disabled.
func (c *Corrector) resetStream() {
	c.voc.Reset()
	_ = c.voc.SetRatio(1.0)
	c.detector.Reset()
	core.Zero(c.detectionBuf)
	c.detectionPos = 0
	c.blocksSinceDetect = 0
	c.currentRatio = 1.0
	c.missStreak = 0
}

func isFinitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
