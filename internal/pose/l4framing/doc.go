// Package l4framing owns Layer 4 (Framing) of the pose data model.
//
// Responsibilities: deciding the single most urgent camera-framing problem
// for one landmark set, or that framing is acceptable. Rules are evaluated
// as an ordered cascade and the first match wins.
// Key types: CameraFeedback, FeedbackType.
//
// Dependency rule: L4 may depend on internal/pose and L2, never on L3.
package l4framing
