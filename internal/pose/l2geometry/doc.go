// Package l2geometry owns Layer 2 (Geometry) of the pose data model.
//
// Responsibilities: stateless measurements over a landmark set: joint
// angles, trunk tilt and lean, body facing, and the visibility-filtered
// bounding box with per-group presence flags used by framing feedback.
//
// Dependency rule: L2 may depend on internal/pose only.
package l2geometry
