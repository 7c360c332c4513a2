package vocoder

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-autotune/dsp/core"
	"github.com/cwbudde/algo-autotune/dsp/window"
)

const (
	defaultVocoderRatio = 1.0
	minVocoderFrameSize = 64
	minVocoderRatio     = 0.25
	maxVocoderRatio     = 4.0
	vocoderNormFloor    = 1e-12
)

// Effect selects the resynthesis strategy of a Vocoder.
type Effect int

const (
	// EffectFormantShift is the full corrector: pitch moves by the shift
	// ratio while the spectral envelope stays anchored.
	EffectFormantShift Effect = iota

	// EffectRobot discards synthesis phase every frame, collapsing the
	// output onto the frame rate. Magnitude shifting still applies;
	// envelope correction is skipped.
	EffectRobot
)

// String returns the effect name.
func (e Effect) String() string {
	switch e {
	case EffectFormantShift:
		return "formant-shift"
	case EffectRobot:
		return "robot"
	default:
		return fmt.Sprintf("Effect(%d)", int(e))
	}
}

// Valid reports whether e is a known effect.
func (e Effect) Valid() bool { return e == EffectFormantShift || e == EffectRobot }

// Vocoder is a streaming phase vocoder.
//
// Input samples accumulate into a sliding analysis frame; every hop the
// frame is analyzed, shifted in frequency by the current ratio, resynthesized
// and overlap-added into an output ring. One output sample leaves the ring
// for every input sample, delayed by Latency samples, so block boundaries
// never influence the result.
//
// Per-bin synthesis phase accumulates across the life of the stream and is
// never wrapped or reset while the stream runs; resetting it produces an
// audible click.
//
// A Vocoder is mono and single-goroutine.
type Vocoder struct {
	sampleRate float64
	frameSize  int
	hop        int
	ratio      float64
	effect     Effect

	plan *algofft.Plan[complex128]
	env  *Envelope

	windowCoeffs []float64

	frame  []float64
	inBuf  []float64
	inFill int

	omega     []float64
	prevPhase []float64
	sumPhase  []float64

	analysisSpectrum  []complex128
	synthesisSpectrum []complex128
	timeFrame         []complex128

	magnitudes  []float64
	instFreqs   []float64
	srcEnvelope []float64
	shiftedMag  []float64
	shiftedFreq []float64

	ola      []float64
	olaPos   int
	olaPhase int
	gain     []float64
}

// NewVocoder creates a streaming phase vocoder.
//
// frameSize must be a power of two >= 64. hopSize must be a positive
// divisor of frameSize smaller than frameSize; frameSize/4 (75% overlap)
// is the usual choice for voice.
func NewVocoder(sampleRate float64, frameSize, hopSize int) (*Vocoder, error) {
	if !isFinitePositive(sampleRate) {
		return nil, fmt.Errorf("vocoder sample rate must be positive and finite: %f", sampleRate)
	}

	if frameSize < minVocoderFrameSize || !isPowerOf2(frameSize) {
		return nil, fmt.Errorf("vocoder frame size must be power-of-two and >= %d: %d",
			minVocoderFrameSize, frameSize)
	}

	if hopSize <= 0 || hopSize >= frameSize || frameSize%hopSize != 0 {
		return nil, fmt.Errorf("vocoder hop size must be a divisor of frame size %d in [1, %d]: %d",
			frameSize, frameSize/2, hopSize)
	}

	v := &Vocoder{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		hop:        hopSize,
		ratio:      defaultVocoderRatio,
		effect:     EffectFormantShift,
	}

	err := v.rebuildState()
	if err != nil {
		return nil, err
	}

	return v, nil
}

// SampleRate returns the sample rate in Hz.
func (v *Vocoder) SampleRate() float64 { return v.sampleRate }

// FrameSize returns the FFT frame size in samples.
func (v *Vocoder) FrameSize() int { return v.frameSize }

// HopSize returns the hop size in samples.
func (v *Vocoder) HopSize() int { return v.hop }

// Ratio returns the current pitch-shift ratio.
func (v *Vocoder) Ratio() float64 { return v.ratio }

// Effect returns the active resynthesis effect.
func (v *Vocoder) Effect() Effect { return v.effect }

// Latency returns the input-to-output delay in samples, frameSize-1.
// A sample entering at time t first reaches the output at t+frameSize-1,
// independent of hop size and block boundaries.
func (v *Vocoder) Latency() int { return v.frameSize - 1 }

// SetRatio updates the pitch-shift ratio, applied from the next analysis
// frame on. Phase accumulators carry over, so the shift glides without
// clicks. ratio must be finite and within [0.25, 4].
func (v *Vocoder) SetRatio(ratio float64) error {
	if !isFinitePositive(ratio) || ratio < minVocoderRatio || ratio > maxVocoderRatio {
		return fmt.Errorf("vocoder ratio must be in [%f, %f]: %f",
			minVocoderRatio, maxVocoderRatio, ratio)
	}

	v.ratio = ratio

	return nil
}

// SetEffect selects the resynthesis effect, applied from the next frame on.
func (v *Vocoder) SetEffect(effect Effect) error {
	if !effect.Valid() {
		return fmt.Errorf("vocoder effect is unknown: %d", int(effect))
	}

	v.effect = effect

	return nil
}

// Reset returns the vocoder to its initial state: frames, accumulators and
// cursors zeroed. Intended for stream restarts, not for use mid-stream.
func (v *Vocoder) Reset() {
	for i := range v.frame {
		v.frame[i] = 0
	}

	for i := range v.ola {
		v.ola[i] = 0
	}

	for i := range v.prevPhase {
		v.prevPhase[i] = 0
		v.sumPhase[i] = 0
	}

	v.inFill = 0
	v.olaPos = 0
	v.olaPhase = 0
}

// ProcessBlockTo shifts one block of samples from input into output.
//
// output must have the same length as input; it may be the same slice.
// Blocks of any length are accepted, state carries across calls, and the
// call does not allocate.
func (v *Vocoder) ProcessBlockTo(output, input []float64) error {
	if len(output) != len(input) {
		return fmt.Errorf("vocoder output length %d does not match input length %d",
			len(output), len(input))
	}

	for i, x := range input {
		v.inBuf[v.inFill] = x
		v.inFill++

		if v.inFill == v.hop {
			copy(v.frame, v.frame[v.hop:])
			copy(v.frame[v.frameSize-v.hop:], v.inBuf)
			v.inFill = 0

			err := v.processFrame()
			if err != nil {
				return err
			}

			v.olaPhase = 0
		}

		out := v.ola[v.olaPos] * v.gain[v.olaPhase]
		v.ola[v.olaPos] = 0

		v.olaPos++
		if v.olaPos == len(v.ola) {
			v.olaPos = 0
		}

		v.olaPhase++

		output[i] = core.FlushDenormals(out)
	}

	return nil
}

// processFrame analyzes the current frame, shifts it by the active ratio
// and accumulates the resynthesized frame into the overlap-add ring at the
// read cursor.
func (v *Vocoder) processFrame() error {
	half := v.frameSize / 2
	hopF := float64(v.hop)
	ratio := v.ratio

	for i := range v.frameSize {
		v.analysisSpectrum[i] = complex(v.frame[i]*v.windowCoeffs[i], 0)
	}

	err := v.plan.Forward(v.analysisSpectrum, v.analysisSpectrum)
	if err != nil {
		return fmt.Errorf("vocoder: forward FFT failed: %w", err)
	}

	for k := 0; k <= half; k++ {
		re := real(v.analysisSpectrum[k])
		im := imag(v.analysisSpectrum[k])
		v.magnitudes[k] = math.Hypot(re, im)
		phase := math.Atan2(im, re)

		delta := wrapPhase(phase - v.prevPhase[k] - v.omega[k]*hopF)

		v.instFreqs[k] = v.omega[k] + delta/hopF
		v.prevPhase[k] = phase
	}

	formant := v.effect == EffectFormantShift
	if formant {
		err = v.env.Extract(v.srcEnvelope, v.magnitudes)
		if err != nil {
			return fmt.Errorf("vocoder: envelope extraction failed: %w", err)
		}
	}

	// Bin shifting with linear interpolation. Source positions at or past
	// the last bin produce silence rather than wrapping.
	for k := 0; k <= half; k++ {
		srcK := float64(k) / ratio
		if srcK >= float64(half) {
			v.shiftedMag[k] = 0
			v.shiftedFreq[k] = v.omega[k]

			continue
		}

		lo := int(srcK)
		frac := srcK - float64(lo)
		hi := min(lo+1, half)

		mag := v.magnitudes[lo]*(1-frac) + v.magnitudes[hi]*frac
		freq := v.instFreqs[lo]*(1-frac) + v.instFreqs[hi]*frac

		if formant {
			srcEnv := v.env.At(v.srcEnvelope, srcK)
			if srcEnv > 0 {
				mag = mag * v.srcEnvelope[k] / srcEnv
			}
		}

		v.shiftedMag[k] = mag
		v.shiftedFreq[k] = freq * ratio
	}

	// Per-bin phase accumulation. Wrapping applies only to deviation
	// terms inside instFreqs; the accumulator itself never wraps.
	if v.effect == EffectRobot {
		for k := 0; k <= half; k++ {
			v.sumPhase[k] += v.shiftedFreq[k] * hopF
			v.synthesisSpectrum[k] = complex(v.shiftedMag[k], 0)
		}
	} else {
		for k := 0; k <= half; k++ {
			v.sumPhase[k] += v.shiftedFreq[k] * hopF
			v.synthesisSpectrum[k] = complex(
				v.shiftedMag[k]*math.Cos(v.sumPhase[k]),
				v.shiftedMag[k]*math.Sin(v.sumPhase[k]),
			)
		}
	}

	// Mirror for real-valued IFFT.
	v.synthesisSpectrum[0] = complex(real(v.synthesisSpectrum[0]), 0)

	v.synthesisSpectrum[half] = complex(real(v.synthesisSpectrum[half]), 0)
	for k := 1; k < half; k++ {
		c := v.synthesisSpectrum[k]
		v.synthesisSpectrum[v.frameSize-k] = complex(real(c), -imag(c))
	}

	err = v.plan.Inverse(v.timeFrame, v.synthesisSpectrum)
	if err != nil {
		return fmt.Errorf("vocoder: inverse FFT failed: %w", err)
	}

	for i := range v.frameSize {
		idx := v.olaPos + i
		if idx >= len(v.ola) {
			idx -= len(v.ola)
		}

		v.ola[idx] += real(v.timeFrame[i]) * v.windowCoeffs[i]
	}

	return nil
}

func (v *Vocoder) rebuildState() error {
	plan, err := algofft.NewPlan64(v.frameSize)
	if err != nil {
		return fmt.Errorf("vocoder: failed to create FFT plan: %w", err)
	}

	v.plan = plan

	coeffs := window.Generate(window.TypeHann, v.frameSize, window.WithPeriodic())
	if len(coeffs) != v.frameSize {
		return fmt.Errorf("vocoder: window generation failed for size %d", v.frameSize)
	}

	v.windowCoeffs = coeffs

	bins := v.frameSize/2 + 1

	env, err := NewEnvelope(bins)
	if err != nil {
		return fmt.Errorf("vocoder: %w", err)
	}

	v.env = env

	v.omega = make([]float64, bins)
	for k := range bins {
		v.omega[k] = 2 * math.Pi * float64(k) / float64(v.frameSize)
	}

	v.prevPhase = make([]float64, bins)
	v.sumPhase = make([]float64, bins)

	v.frame = make([]float64, v.frameSize)
	v.inBuf = make([]float64, v.hop)

	v.analysisSpectrum = make([]complex128, v.frameSize)
	v.synthesisSpectrum = make([]complex128, v.frameSize)
	v.timeFrame = make([]complex128, v.frameSize)

	v.magnitudes = make([]float64, bins)
	v.instFreqs = make([]float64, bins)
	v.srcEnvelope = make([]float64, bins)
	v.shiftedMag = make([]float64, bins)
	v.shiftedFreq = make([]float64, bins)

	// One gain per hop phase: the reciprocal of the summed squared window
	// across all frames overlapping that phase.
	v.ola = make([]float64, v.frameSize)
	v.gain = make([]float64, v.hop)

	for j := range v.hop {
		norm := 0.0
		for i := j; i < v.frameSize; i += v.hop {
			norm += coeffs[i] * coeffs[i]
		}

		if norm > vocoderNormFloor {
			v.gain[j] = 1 / norm
		}
	}

	return nil
}

func wrapPhase(x float64) float64 {
	x = math.Mod(x+math.Pi, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	return x - math.Pi
}

func isPowerOf2(v int) bool {
	return v > 0 && (v&(v-1)) == 0
}

func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
