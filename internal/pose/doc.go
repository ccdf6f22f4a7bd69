// Package pose owns the shared data model for body-pose analysis.
//
// Responsibilities: the Landmark value type, the 33-point body topology
// index constants, the per-frame carrier (Frame), and the JSON Lines
// codec used for recorded landmark streams.
//
// Dependency rule: this package imports nothing from the layer packages
// (l1smoothing..l4framing); every layer may import it.
package pose
