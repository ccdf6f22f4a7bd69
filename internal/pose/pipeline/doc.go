// Package pipeline runs one subject's frames through the pose layers:
// smoothing (L1), then phase classification (L3) and framing feedback
// (L4), both reading the same smoothed landmarks.
//
// A Session owns its filter bank and SessionState and is not safe for
// concurrent use. Run one Session per subject.
//
// Dependency rule: pipeline may depend on every pose layer and on
// internal/config, internal/monitoring and internal/timeutil.
package pipeline
