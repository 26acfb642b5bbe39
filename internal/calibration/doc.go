// Package calibration holds the live pixel-per-unit ratio of a document and
// the two-point reference workflow that derives it. It contains:
//
//   - Phase: the discrete steps of the calibration workflow
//   - Method: how the current ratio was obtained
//   - State: the ratio plus the pending reference points
//
// The ratio is always positive. Failed or cancelled calibrations leave the
// previous ratio in place.
package calibration
