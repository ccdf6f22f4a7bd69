// Package api serves the movement preset store over HTTP.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/banshee-data/posture.report/internal/config"
	"github.com/banshee-data/posture.report/internal/db"
	"github.com/banshee-data/posture.report/internal/httputil"
	"github.com/banshee-data/posture.report/internal/monitoring"
	"github.com/banshee-data/posture.report/internal/pose/l3phases"
)

// presetRequest is the body of create and update requests.
type presetRequest struct {
	Name     string                `json:"name"`
	Movement string                `json:"movement"`
	Tuning   config.MovementTuning `json:"tuning"`
	Notes    string                `json:"notes"`
}

// MovementTuningView is the effective tuning for one movement.
type MovementTuningView struct {
	Movement   string              `json:"movement"`
	PresetID   string              `json:"preset_id,omitempty"`
	Thresholds l3phases.Thresholds `json:"thresholds"`
}

// PresetAPI provides HTTP handlers for preset management.
type PresetAPI struct {
	store *db.DB
	base  *config.TuningConfig
}

// NewPresetAPI creates a preset API over store. base is the tuning that
// active presets overlay; nil means built-in defaults.
func NewPresetAPI(store *db.DB, base *config.TuningConfig) *PresetAPI {
	return &PresetAPI{store: store, base: base}
}

// RegisterRoutes registers preset API routes on the provided mux.
func (api *PresetAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/presets", api.handlePresets)
	mux.HandleFunc("/api/presets/", api.handlePresetByID)
	mux.HandleFunc("/api/tuning", api.handleTuning)
}

func validMovement(slug string) error {
	_, err := l3phases.ParseMovement(slug)
	return err
}

// writeStoreError maps store errors to responses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrPresetNotFound):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, db.ErrInvalidPreset):
		httputil.BadRequest(w, err.Error())
	default:
		monitoring.Logf("preset api: %v", err)
		httputil.InternalServerError(w, err.Error())
	}
}

func (api *PresetAPI) handlePresets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		movement := r.URL.Query().Get("movement")
		presets, err := api.store.ListMovementPresets(movement)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if presets == nil {
			presets = []db.MovementPreset{}
		}
		httputil.WriteJSONOK(w, map[string]any{"presets": presets, "count": len(presets)})
	case http.MethodPost:
		var req presetRequest
		if err := httputil.DecodeJSON(w, r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		p := &db.MovementPreset{Name: req.Name, Movement: req.Movement, Tuning: req.Tuning, Notes: req.Notes}
		if err := api.store.CreateMovementPreset(p, validMovement); err != nil {
			writeStoreError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, p)
	default:
		httputil.MethodNotAllowed(w)
	}
}

// handlePresetByID serves /api/presets/{id} and /api/presets/{id}/activate.
func (api *PresetAPI) handlePresetByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/presets/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		httputil.NotFound(w, "preset id required")
		return
	}

	switch action {
	case "":
	case "activate":
		if r.Method != http.MethodPost {
			httputil.MethodNotAllowed(w)
			return
		}
		if err := api.store.ActivateMovementPreset(id); err != nil {
			writeStoreError(w, err)
			return
		}
		api.writePreset(w, id)
		return
	default:
		httputil.NotFound(w, "unknown preset action")
		return
	}

	switch r.Method {
	case http.MethodGet:
		api.writePreset(w, id)
	case http.MethodPut:
		existing, err := api.store.GetMovementPreset(id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		var req presetRequest
		if err := httputil.DecodeJSON(w, r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		if req.Movement != "" && req.Movement != existing.Movement {
			httputil.BadRequest(w, "movement of a preset cannot change")
			return
		}
		existing.Name, existing.Tuning, existing.Notes = req.Name, req.Tuning, req.Notes
		if err := api.store.UpdateMovementPreset(existing, validMovement); err != nil {
			writeStoreError(w, err)
			return
		}
		// Overlaying an active preset must still produce a usable config.
		if existing.IsActive {
			if _, err := api.store.ActiveTuning(api.base); err != nil {
				monitoring.Logf("preset %s saved but active tuning is invalid: %v", id, err)
			}
		}
		httputil.WriteJSONOK(w, existing)
	case http.MethodDelete:
		if err := api.store.DeleteMovementPreset(id); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		httputil.MethodNotAllowed(w)
	}
}

func (api *PresetAPI) writePreset(w http.ResponseWriter, id string) {
	p, err := api.store.GetMovementPreset(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	httputil.WriteJSONOK(w, p)
}

// handleTuning reports the thresholds the analyzer would resolve for each
// movement given the active presets.
func (api *PresetAPI) handleTuning(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	cfg, err := api.store.ActiveTuning(api.base)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	active, err := api.activeIDs()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	views := make([]MovementTuningView, 0, len(l3phases.Movements))
	for _, m := range l3phases.Movements {
		slug := m.String()
		views = append(views, MovementTuningView{
			Movement:   slug,
			PresetID:   active[slug],
			Thresholds: l3phases.ThresholdsFromTuning(m, cfg.Movement(slug)),
		})
	}
	httputil.WriteJSONOK(w, map[string]any{
		"movements":                views,
		"lost_frames_before_reset": cfg.GetLostFramesBeforeReset(),
		"framing_recovery_notice":  cfg.GetFramingRecoveryNotice(),
	})
}

func (api *PresetAPI) activeIDs() (map[string]string, error) {
	presets, err := api.store.ListMovementPresets("")
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string)
	for _, p := range presets {
		if p.IsActive {
			ids[p.Movement] = p.ID
		}
	}
	return ids, nil
}
