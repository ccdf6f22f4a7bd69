package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/posture.report/internal/config"
)

// ErrPresetNotFound is returned when no preset has the requested ID.
var ErrPresetNotFound = errors.New("movement preset not found")

// ErrInvalidPreset wraps every validation failure of a preset.
var ErrInvalidPreset = errors.New("invalid movement preset")

// MovementPreset is a named set of tuning overrides for one movement.
type MovementPreset struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Movement  string                `json:"movement"`
	Tuning    config.MovementTuning `json:"tuning"`
	Notes     string                `json:"notes,omitempty"`
	IsActive  bool                  `json:"is_active"`
	CreatedAt float64               `json:"created_at"`
	UpdatedAt float64               `json:"updated_at"`
}

// MovementValidator reports whether a movement slug is known. The store
// rejects presets for unknown movements when one is set.
type MovementValidator func(slug string) error

const presetColumns = `preset_id, name, movement, tuning_json, COALESCE(notes, ''), is_active, created_at, updated_at`

func scanPreset(row interface{ Scan(...any) error }) (*MovementPreset, error) {
	var p MovementPreset
	var tuningJSON string
	var isActive int
	if err := row.Scan(&p.ID, &p.Name, &p.Movement, &tuningJSON, &p.Notes, &isActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tuningJSON), &p.Tuning); err != nil {
		return nil, fmt.Errorf("failed to decode tuning for preset %s: %w", p.ID, err)
	}
	p.IsActive = isActive == 1
	return &p, nil
}

func nowUnix() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

func validatePreset(p *MovementPreset, validMovement MovementValidator) error {
	if p.Name == "" {
		return fmt.Errorf("%w: preset name must not be empty", ErrInvalidPreset)
	}
	if p.Movement == "" {
		return fmt.Errorf("%w: preset movement must not be empty", ErrInvalidPreset)
	}
	if validMovement != nil {
		if err := validMovement(p.Movement); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPreset, err)
		}
	}
	if err := p.Tuning.Validate(); err != nil {
		return fmt.Errorf("%w: tuning for preset %q: %w", ErrInvalidPreset, p.Name, err)
	}
	return nil
}

// CreateMovementPreset inserts p with a new ID. p is updated in place.
func (db *DB) CreateMovementPreset(p *MovementPreset, validMovement MovementValidator) error {
	if err := validatePreset(p, validMovement); err != nil {
		return err
	}
	tuningJSON, err := json.Marshal(p.Tuning)
	if err != nil {
		return fmt.Errorf("failed to encode tuning: %w", err)
	}

	p.ID = uuid.NewString()
	p.CreatedAt = nowUnix()
	p.UpdatedAt = p.CreatedAt
	p.IsActive = false

	_, err = db.Exec(`
		INSERT INTO movement_presets (preset_id, name, movement, tuning_json, notes, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, NULLIF(?, ''), 0, ?, ?)`,
		p.ID, p.Name, p.Movement, string(tuningJSON), p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create movement preset: %w", err)
	}
	return nil
}

// GetMovementPreset retrieves a preset by ID.
func (db *DB) GetMovementPreset(id string) (*MovementPreset, error) {
	p, err := scanPreset(db.QueryRow(`SELECT `+presetColumns+` FROM movement_presets WHERE preset_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query movement preset: %w", err)
	}
	return p, nil
}

// ListMovementPresets returns presets ordered by movement then name. An
// empty movement lists every preset.
func (db *DB) ListMovementPresets(movement string) ([]MovementPreset, error) {
	rows, err := db.Query(`
		SELECT `+presetColumns+`
		FROM movement_presets
		WHERE ? = '' OR movement = ?
		ORDER BY movement ASC, name ASC`, movement, movement)
	if err != nil {
		return nil, fmt.Errorf("failed to query movement presets: %w", err)
	}
	defer rows.Close()

	var presets []MovementPreset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement preset: %w", err)
		}
		presets = append(presets, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement presets: %w", err)
	}
	return presets, nil
}

// UpdateMovementPreset saves the name, tuning and notes of p. The movement
// and active flag are not changed.
func (db *DB) UpdateMovementPreset(p *MovementPreset, validMovement MovementValidator) error {
	if err := validatePreset(p, validMovement); err != nil {
		return err
	}
	tuningJSON, err := json.Marshal(p.Tuning)
	if err != nil {
		return fmt.Errorf("failed to encode tuning: %w", err)
	}
	p.UpdatedAt = nowUnix()

	res, err := db.Exec(`
		UPDATE movement_presets
		SET name = ?, tuning_json = ?, notes = NULLIF(?, ''), updated_at = ?
		WHERE preset_id = ?`,
		p.Name, string(tuningJSON), p.Notes, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update movement preset: %w", err)
	}
	return requireOneRow(res, p.ID)
}

// DeleteMovementPreset removes a preset.
func (db *DB) DeleteMovementPreset(id string) error {
	res, err := db.Exec(`DELETE FROM movement_presets WHERE preset_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete movement preset: %w", err)
	}
	return requireOneRow(res, id)
}

// ActivateMovementPreset makes id the active preset for its movement and
// deactivates any other preset for the same movement.
func (db *DB) ActivateMovementPreset(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var movement string
	err = tx.QueryRow(`SELECT movement FROM movement_presets WHERE preset_id = ?`, id).Scan(&movement)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to query movement preset: %w", err)
	}

	now := nowUnix()
	if _, err := tx.Exec(`UPDATE movement_presets SET is_active = 0, updated_at = ? WHERE movement = ? AND is_active = 1`, now, movement); err != nil {
		return fmt.Errorf("failed to deactivate presets: %w", err)
	}
	if _, err := tx.Exec(`UPDATE movement_presets SET is_active = 1, updated_at = ? WHERE preset_id = ?`, now, id); err != nil {
		return fmt.Errorf("failed to activate preset: %w", err)
	}
	return tx.Commit()
}

// DeactivateMovement clears the active preset for movement, if any.
func (db *DB) DeactivateMovement(movement string) error {
	_, err := db.Exec(`UPDATE movement_presets SET is_active = 0, updated_at = ? WHERE movement = ? AND is_active = 1`, nowUnix(), movement)
	if err != nil {
		return fmt.Errorf("failed to deactivate presets: %w", err)
	}
	return nil
}

// ActiveTuning overlays every active preset on base and returns the
// result. base is not modified and may be nil.
func (db *DB) ActiveTuning(base *config.TuningConfig) (*config.TuningConfig, error) {
	rows, err := db.Query(`SELECT ` + presetColumns + ` FROM movement_presets WHERE is_active = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active presets: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]*config.MovementTuning)
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement preset: %w", err)
		}
		overrides[p.Movement] = &p.Tuning
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active presets: %w", err)
	}

	cfg := base.WithMovements(overrides)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("active presets produce invalid tuning: %w", err)
	}
	return cfg, nil
}

func requireOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	return nil
}
