// Package pitch provides the pitch-tracking side of the correction engine.
//
// Included components:
//   - Detector: Autocorrelation fundamental-frequency estimator for live vocals.
//   - ScaleTable: Precomputed per-key scale frequencies with nearest-note lookup.
//   - Note/Key vocabulary: Pitch classes, modes and equal-temperament helpers.
package pitch
