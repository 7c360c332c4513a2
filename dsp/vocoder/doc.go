// Package vocoder provides the streaming resynthesis core of the
// pitch-correction engine.
//
// Included components:
//   - Vocoder: Streaming phase vocoder that shifts pitch by a continuous
//     ratio while keeping the spectral envelope anchored, so formants do
//     not slide with the shift.
//   - Envelope: Smoothed-magnitude formant estimate used for that
//     correction.
//
// Vocoder instances are mono and single-goroutine; create one per audio
// stream.
package vocoder
