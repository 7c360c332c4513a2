// Package key estimates the musical key of a recorded vocal take from
// accumulated pitch detections.
//
// Included components:
//   - Histogram: confidence-gated pitch class counts
//   - Estimate: Krumhansl-Schmuckler profile correlation over all 24 keys
//   - Camelot / OpenKey: DJ notation lookups for display and tagging
//
// Estimation is offline: feed the histogram from the corrector's telemetry
// on a control goroutine and call Estimate once the take is complete. None
// of this package is real-time safe and none of it needs to be.
package key
