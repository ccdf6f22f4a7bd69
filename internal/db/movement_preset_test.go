package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/posture.report/internal/config"
)

func f64(v float64) *float64 { return &v }
func boolp(v bool) *bool     { return &v }

var knownMovements = map[string]bool{
	"lumbar_flexion":   true,
	"lumbar_extension": true,
	"lumbar_side_bend": true,
}

func validMovement(slug string) error {
	if !knownMovements[slug] {
		return fmt.Errorf("unknown movement %q", slug)
	}
	return nil
}

func createPreset(t *testing.T, db *DB, name, movement string, tuning config.MovementTuning) *MovementPreset {
	t.Helper()
	p := &MovementPreset{Name: name, Movement: movement, Tuning: tuning}
	require.NoError(t, db.CreateMovementPreset(p, validMovement))
	return p
}

func TestCreateAndGetMovementPreset(t *testing.T) {
	db := setupTestDB(t)

	p := &MovementPreset{
		Name:     "gentle",
		Movement: "lumbar_flexion",
		Tuning:   config.MovementTuning{ActiveAngle: f64(155), NeutralAngle: f64(168)},
		Notes:    "post-op week 2",
		IsActive: true, // ignored on create
	}
	require.NoError(t, db.CreateMovementPreset(p, validMovement))
	_, err := uuid.Parse(p.ID)
	require.NoError(t, err)
	assert.False(t, p.IsActive)
	assert.NotZero(t, p.CreatedAt)

	got, err := db.GetMovementPreset(p.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("preset mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateMovementPreset_Validation(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name   string
		preset MovementPreset
	}{
		{"empty name", MovementPreset{Movement: "lumbar_flexion"}},
		{"empty movement", MovementPreset{Name: "x"}},
		{"unknown movement", MovementPreset{Name: "x", Movement: "squat"}},
		{"invalid tuning", MovementPreset{Name: "x", Movement: "lumbar_flexion",
			Tuning: config.MovementTuning{ActiveAngle: f64(170), NeutralAngle: f64(160)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.preset
			assert.ErrorIs(t, db.CreateMovementPreset(&p, validMovement), ErrInvalidPreset)
		})
	}

	createPreset(t, db, "dup", "lumbar_flexion", config.MovementTuning{})
	dup := &MovementPreset{Name: "dup", Movement: "lumbar_flexion"}
	assert.Error(t, db.CreateMovementPreset(dup, validMovement), "name is unique per movement")

	other := &MovementPreset{Name: "dup", Movement: "lumbar_extension"}
	assert.NoError(t, db.CreateMovementPreset(other, validMovement))
}

func TestListMovementPresets(t *testing.T) {
	db := setupTestDB(t)
	createPreset(t, db, "b", "lumbar_flexion", config.MovementTuning{})
	createPreset(t, db, "a", "lumbar_flexion", config.MovementTuning{})
	createPreset(t, db, "c", "lumbar_side_bend", config.MovementTuning{})

	all, err := db.ListMovementPresets("")
	require.NoError(t, err)
	var names []string
	for _, p := range all {
		names = append(names, p.Movement+"/"+p.Name)
	}
	assert.Equal(t, []string{"lumbar_flexion/a", "lumbar_flexion/b", "lumbar_side_bend/c"}, names)

	flex, err := db.ListMovementPresets("lumbar_flexion")
	require.NoError(t, err)
	assert.Len(t, flex, 2)

	none, err := db.ListMovementPresets("lumbar_extension")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateAndDeleteMovementPreset(t *testing.T) {
	db := setupTestDB(t)
	p := createPreset(t, db, "v1", "lumbar_extension", config.MovementTuning{ActiveAngle: f64(168)})

	p.Name = "v2"
	p.Tuning.ActiveAngle = f64(166)
	p.Notes = "tightened"
	require.NoError(t, db.UpdateMovementPreset(p, validMovement))

	got, err := db.GetMovementPreset(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Name)
	assert.Equal(t, 166.0, *got.Tuning.ActiveAngle)
	assert.Equal(t, "tightened", got.Notes)
	assert.GreaterOrEqual(t, got.UpdatedAt, got.CreatedAt)

	require.NoError(t, db.DeleteMovementPreset(p.ID))
	_, err = db.GetMovementPreset(p.ID)
	assert.True(t, errors.Is(err, ErrPresetNotFound))

	assert.True(t, errors.Is(db.DeleteMovementPreset(p.ID), ErrPresetNotFound))
	missing := &MovementPreset{ID: uuid.NewString(), Name: "x", Movement: "lumbar_extension"}
	assert.True(t, errors.Is(db.UpdateMovementPreset(missing, validMovement), ErrPresetNotFound))
}

func TestActivateMovementPreset(t *testing.T) {
	db := setupTestDB(t)
	a := createPreset(t, db, "a", "lumbar_flexion", config.MovementTuning{ActiveAngle: f64(140)})
	b := createPreset(t, db, "b", "lumbar_flexion", config.MovementTuning{ActiveAngle: f64(145)})
	c := createPreset(t, db, "c", "lumbar_side_bend", config.MovementTuning{RequireAlternation: boolp(false)})

	require.NoError(t, db.ActivateMovementPreset(a.ID))
	require.NoError(t, db.ActivateMovementPreset(c.ID))
	require.NoError(t, db.ActivateMovementPreset(b.ID))

	active := map[string]bool{}
	presets, err := db.ListMovementPresets("")
	require.NoError(t, err)
	for _, p := range presets {
		active[p.Name] = p.IsActive
	}
	assert.Equal(t, map[string]bool{"a": false, "b": true, "c": true}, active)

	assert.True(t, errors.Is(db.ActivateMovementPreset(uuid.NewString()), ErrPresetNotFound))

	require.NoError(t, db.DeactivateMovement("lumbar_side_bend"))
	got, err := db.GetMovementPreset(c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestActiveTuning(t *testing.T) {
	db := setupTestDB(t)
	base := config.MustLoadDefaultConfig()

	p := createPreset(t, db, "deep", "lumbar_flexion", config.MovementTuning{ActiveAngle: f64(140)})
	createPreset(t, db, "inactive", "lumbar_extension", config.MovementTuning{ActiveAngle: f64(160)})

	cfg, err := db.ActiveTuning(base)
	require.NoError(t, err)
	assert.Equal(t, 150.0, cfg.Movement("lumbar_flexion").GetActiveAngle(0), "nothing active yet")

	require.NoError(t, db.ActivateMovementPreset(p.ID))
	cfg, err = db.ActiveTuning(base)
	require.NoError(t, err)
	assert.Equal(t, 140.0, cfg.Movement("lumbar_flexion").GetActiveAngle(0))
	assert.Equal(t, 165.0, cfg.Movement("lumbar_flexion").GetNeutralAngle(0))
	assert.Equal(t, 165.0, cfg.Movement("lumbar_extension").GetActiveAngle(0))
	assert.Equal(t, base.GetLostFramesBeforeReset(), cfg.GetLostFramesBeforeReset())
	assert.Equal(t, 150.0, base.Movement("lumbar_flexion").GetActiveAngle(0), "base unchanged")

	// A preset that is valid alone can clash with the file's neutral angle.
	clash := createPreset(t, db, "clash", "lumbar_extension", config.MovementTuning{ActiveAngle: f64(178)})
	require.NoError(t, db.ActivateMovementPreset(clash.ID))
	_, err = db.ActiveTuning(base)
	assert.Error(t, err)

	// Without a base the presets stand alone.
	cfg, err = db.ActiveTuning(nil)
	require.NoError(t, err)
	assert.Equal(t, 178.0, cfg.Movement("lumbar_extension").GetActiveAngle(0))
}
