package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig is the root configuration for movement analysis. Movement
// entries are keyed by movement slug (e.g. "lumbar_flexion"). Every field
// is optional; omitted values fall back to built-in defaults, so partial
// configs are safe.
type TuningConfig struct {
	Movements map[string]*MovementTuning `json:"movements,omitempty"`

	// Pipeline params
	LostFramesBeforeReset *int  `json:"lost_frames_before_reset,omitempty"`
	FramingRecoveryNotice *bool `json:"framing_recovery_notice,omitempty"`
}

// MovementTuning holds the per-exercise thresholds and tolerance bands
// supplied by the surrounding application. Angles are in degrees.
type MovementTuning struct {
	// Phase thresholds on the movement's controlling angle
	ActiveAngle  *float64 `json:"active_angle_deg,omitempty"`
	NeutralAngle *float64 `json:"neutral_angle_deg,omitempty"`

	// Landmark reliability
	MinVisibility *float64 `json:"min_visibility,omitempty"`
	UseDepth      *bool    `json:"use_depth,omitempty"`

	// Form tolerances
	HipDropTolerance *float64 `json:"hip_drop_tolerance,omitempty"`
	KneeMinAngle     *float64 `json:"knee_min_angle_deg,omitempty"`
	TrunkRotationMax *float64 `json:"trunk_rotation_max_deg,omitempty"`
	ScorePenalty     *int     `json:"score_penalty,omitempty"`

	// Side-aware movements
	RequireAlternation *bool `json:"require_alternation,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseTuningConfig(data)
}

// ParseTuningConfig decodes and validates a TuningConfig from JSON.
func ParseTuningConfig(data []byte) (*TuningConfig, error) {
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/pose/pipeline/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.LostFramesBeforeReset != nil && *c.LostFramesBeforeReset < 0 {
		return fmt.Errorf("lost_frames_before_reset must be non-negative, got %d", *c.LostFramesBeforeReset)
	}

	for _, slug := range c.MovementSlugs() {
		if slug == "" {
			return fmt.Errorf("movement key must not be empty")
		}
		if err := c.Movements[slug].Validate(); err != nil {
			return fmt.Errorf("movement %q: %w", slug, err)
		}
	}
	return nil
}

// MovementSlugs returns the configured movement keys in sorted order.
func (c *TuningConfig) MovementSlugs() []string {
	if c == nil {
		return nil
	}
	slugs := make([]string, 0, len(c.Movements))
	for slug := range c.Movements {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Movement returns the tuning for slug, or nil when none is configured.
// A nil *MovementTuning is valid and yields defaults from every getter.
func (c *TuningConfig) Movement(slug string) *MovementTuning {
	if c == nil {
		return nil
	}
	return c.Movements[slug]
}

// GetLostFramesBeforeReset returns the lost_frames_before_reset value or the default.
func (c *TuningConfig) GetLostFramesBeforeReset() int {
	if c == nil || c.LostFramesBeforeReset == nil {
		return 15 // 0.5s at 30fps
	}
	return *c.LostFramesBeforeReset
}

// GetFramingRecoveryNotice returns the framing_recovery_notice value or the default.
func (c *TuningConfig) GetFramingRecoveryNotice() bool {
	if c == nil || c.FramingRecoveryNotice == nil {
		return true
	}
	return *c.FramingRecoveryNotice
}

// Validate checks that the movement values are valid.
func (m *MovementTuning) Validate() error {
	if m == nil {
		return nil
	}
	for name, v := range map[string]*float64{
		"active_angle_deg":       m.ActiveAngle,
		"neutral_angle_deg":      m.NeutralAngle,
		"knee_min_angle_deg":     m.KneeMinAngle,
		"trunk_rotation_max_deg": m.TrunkRotationMax,
	} {
		if v != nil && (*v <= 0 || *v > 180) {
			return fmt.Errorf("%s must be in (0, 180], got %f", name, *v)
		}
	}
	if m.ActiveAngle != nil && m.NeutralAngle != nil && *m.ActiveAngle >= *m.NeutralAngle {
		return fmt.Errorf("active_angle_deg (%f) must be below neutral_angle_deg (%f)", *m.ActiveAngle, *m.NeutralAngle)
	}
	if m.MinVisibility != nil && (*m.MinVisibility < 0 || *m.MinVisibility > 1) {
		return fmt.Errorf("min_visibility must be between 0 and 1, got %f", *m.MinVisibility)
	}
	if m.HipDropTolerance != nil && (*m.HipDropTolerance < 0 || *m.HipDropTolerance > 1) {
		return fmt.Errorf("hip_drop_tolerance must be between 0 and 1, got %f", *m.HipDropTolerance)
	}
	if m.ScorePenalty != nil && (*m.ScorePenalty < 0 || *m.ScorePenalty > 100) {
		return fmt.Errorf("score_penalty must be between 0 and 100, got %d", *m.ScorePenalty)
	}
	return nil
}

// GetActiveAngle returns the active_angle_deg value or def.
func (m *MovementTuning) GetActiveAngle(def float64) float64 {
	if m == nil || m.ActiveAngle == nil {
		return def
	}
	return *m.ActiveAngle
}

// GetNeutralAngle returns the neutral_angle_deg value or def.
func (m *MovementTuning) GetNeutralAngle(def float64) float64 {
	if m == nil || m.NeutralAngle == nil {
		return def
	}
	return *m.NeutralAngle
}

// GetMinVisibility returns the min_visibility value or def.
func (m *MovementTuning) GetMinVisibility(def float64) float64 {
	if m == nil || m.MinVisibility == nil {
		return def
	}
	return *m.MinVisibility
}

// GetUseDepth returns the use_depth value or def.
func (m *MovementTuning) GetUseDepth(def bool) bool {
	if m == nil || m.UseDepth == nil {
		return def
	}
	return *m.UseDepth
}

// GetHipDropTolerance returns the hip_drop_tolerance value or def.
func (m *MovementTuning) GetHipDropTolerance(def float64) float64 {
	if m == nil || m.HipDropTolerance == nil {
		return def
	}
	return *m.HipDropTolerance
}

// GetKneeMinAngle returns the knee_min_angle_deg value or def.
func (m *MovementTuning) GetKneeMinAngle(def float64) float64 {
	if m == nil || m.KneeMinAngle == nil {
		return def
	}
	return *m.KneeMinAngle
}

// GetTrunkRotationMax returns the trunk_rotation_max_deg value or def.
func (m *MovementTuning) GetTrunkRotationMax(def float64) float64 {
	if m == nil || m.TrunkRotationMax == nil {
		return def
	}
	return *m.TrunkRotationMax
}

// GetScorePenalty returns the score_penalty value or def.
func (m *MovementTuning) GetScorePenalty(def int) int {
	if m == nil || m.ScorePenalty == nil {
		return def
	}
	return *m.ScorePenalty
}

// GetRequireAlternation returns the require_alternation value or def.
func (m *MovementTuning) GetRequireAlternation(def bool) bool {
	if m == nil || m.RequireAlternation == nil {
		return def
	}
	return *m.RequireAlternation
}

// Overlay returns a copy of m with every field set in o taking precedence.
// Either side may be nil.
func (m *MovementTuning) Overlay(o *MovementTuning) *MovementTuning {
	out := &MovementTuning{}
	if m != nil {
		*out = *m
	}
	if o == nil {
		return out
	}
	if o.ActiveAngle != nil {
		out.ActiveAngle = o.ActiveAngle
	}
	if o.NeutralAngle != nil {
		out.NeutralAngle = o.NeutralAngle
	}
	if o.MinVisibility != nil {
		out.MinVisibility = o.MinVisibility
	}
	if o.UseDepth != nil {
		out.UseDepth = o.UseDepth
	}
	if o.HipDropTolerance != nil {
		out.HipDropTolerance = o.HipDropTolerance
	}
	if o.KneeMinAngle != nil {
		out.KneeMinAngle = o.KneeMinAngle
	}
	if o.TrunkRotationMax != nil {
		out.TrunkRotationMax = o.TrunkRotationMax
	}
	if o.ScorePenalty != nil {
		out.ScorePenalty = o.ScorePenalty
	}
	if o.RequireAlternation != nil {
		out.RequireAlternation = o.RequireAlternation
	}
	return out
}

// WithMovements returns a copy of c whose movement entries are overlaid
// with overrides. Pipeline params are shared with c.
func (c *TuningConfig) WithMovements(overrides map[string]*MovementTuning) *TuningConfig {
	out := EmptyTuningConfig()
	if c != nil {
		out.LostFramesBeforeReset = c.LostFramesBeforeReset
		out.FramingRecoveryNotice = c.FramingRecoveryNotice
	}
	out.Movements = make(map[string]*MovementTuning, len(overrides))
	for _, slug := range c.MovementSlugs() {
		out.Movements[slug] = c.Movements[slug].Overlay(nil)
	}
	for slug, o := range overrides {
		out.Movements[slug] = out.Movements[slug].Overlay(o)
	}
	return out
}
