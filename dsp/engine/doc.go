// Package engine wires pitch detection, scale quantization, and the phase
// vocoder into a real-time pitch correction engine.
//
// Included components:
//   - Corrector: block-based pitch corrector with atomic parameter updates
//   - PitchUpdate: telemetry message emitted once per detection attempt
//
// Process is meant for the audio callback: it allocates nothing, takes no
// locks, performs no blocking sends, and reads control parameters through
// a single atomic snapshot per block. Setters build a fresh snapshot and
// publish it with an atomic pointer swap; they are safe to call from one
// control goroutine concurrently with Process.
package engine
