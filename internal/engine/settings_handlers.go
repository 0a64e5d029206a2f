package engine

import (
	"encoding/json"
	"net/http"
)

// SettingsHandlers exposes the runtime settings store. Changes to restart
// keys are accepted but flagged so operators know a restart is pending.
type SettingsHandlers struct {
	engine *Engine
}

func NewSettingsHandlers(engine *Engine) *SettingsHandlers {
	return &SettingsHandlers{engine: engine}
}

// GetSettings returns all runtime settings.
func (h *SettingsHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, h.engine.Settings().GetAll())
}

// UpdateSettings merges the submitted key/value pairs into the store.
func (h *SettingsHandlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "bad request", "invalid JSON body")
		return
	}
	if len(values) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "bad request", "no settings provided")
		return
	}

	settings := h.engine.Settings()
	old := settings.GetAll()
	settings.Update(values)

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"settings":         settings.GetAll(),
		"requires_restart": settings.RequiresRestart(old),
	})
}
