// Package l3phases owns Layer 3 (Phases) of the pose data model.
//
// Responsibilities: per-movement phase classification (neutral, active,
// return), exactly-once repetition crediting, posture tolerance checks
// producing a form score and discrete form errors, and the boolean type
// guards used to validate form payloads at trust boundaries.
// Key types: Movement, SessionState, AnalysisResult, FormError.
//
// The engine is deterministic: it reads the caller-owned SessionState and
// never mutates it, and form error timestamps come from the input frame.
// Callers fold each result back with SessionState.Apply.
//
// Dependency rule: L3 may depend on internal/pose, L1-L2 and
// internal/config, never on L4.
package l3phases
