package handlers

import (
	"net/http"

	"github.com/camden-git/hockeycoach/logger"
	"github.com/camden-git/hockeycoach/services"
)

type EventTypeHandler struct {
	Service *services.CoachService
	Log     *logger.Logger
}

func (eh *EventTypeHandler) ListEventTypes(w http.ResponseWriter, r *http.Request) {
	types, err := eh.Service.ListEventTypes(r.Context())
	if err != nil {
		writeError(w, eh.Log, err)
		return
	}
	writeJSON(w, eh.Log, http.StatusOK, types)
}

// CreateEventType adds a type. is_custom defaults to true since the UI only
// ever adds user-defined types.
func (eh *EventTypeHandler) CreateEventType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		IsCustom *bool   `json:"is_custom"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, eh.Log, err)
		return
	}
	if req.Name == nil {
		writeError(w, eh.Log, invalidRequestf("missing required field: name"))
		return
	}
	isCustom := true
	if req.IsCustom != nil {
		isCustom = *req.IsCustom
	}

	eventType, err := eh.Service.AddEventType(r.Context(), *req.Name, isCustom)
	if err != nil {
		writeError(w, eh.Log, err)
		return
	}
	writeJSON(w, eh.Log, http.StatusCreated, eventType)
}
