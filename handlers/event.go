package handlers

import (
	"net/http"

	"github.com/camden-git/hockeycoach/logger"
	"github.com/camden-git/hockeycoach/services"
)

type EventHandler struct {
	Service *services.CoachService
	Log     *logger.Logger
}

// CreateEvent tags an event and its players in one step
func (eh *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VideoID     *int64   `json:"video_id"`
		EventTypeID *int64   `json:"event_type_id"`
		Timestamp   *float64 `json:"timestamp"`
		PlayerIDs   []int64  `json:"player_ids"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, eh.Log, err)
		return
	}
	switch {
	case req.VideoID == nil:
		writeError(w, eh.Log, invalidRequestf("missing required field: video_id"))
		return
	case req.EventTypeID == nil:
		writeError(w, eh.Log, invalidRequestf("missing required field: event_type_id"))
		return
	case req.Timestamp == nil:
		writeError(w, eh.Log, invalidRequestf("missing required field: timestamp"))
		return
	}

	detail, err := eh.Service.TagEvent(r.Context(), *req.VideoID, *req.EventTypeID, *req.Timestamp, req.PlayerIDs)
	if err != nil {
		writeError(w, eh.Log, err)
		return
	}
	writeJSON(w, eh.Log, http.StatusCreated, detail)
}

func (eh *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "event_id")
	if err != nil {
		writeError(w, eh.Log, err)
		return
	}
	detail, err := eh.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, eh.Log, err)
		return
	}
	writeJSON(w, eh.Log, http.StatusOK, detail)
}

func (eh *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "event_id")
	if err != nil {
		writeError(w, eh.Log, err)
		return
	}
	result, err := eh.Service.DeleteEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, eh.Log, err)
		return
	}
	writeJSON(w, eh.Log, http.StatusOK, result)
}

// ReplaceEventPlayers sets the event's players to exactly player_ids
func (eh *EventHandler) ReplaceEventPlayers(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "event_id")
	if err != nil {
		writeError(w, eh.Log, err)
		return
	}
	var req struct {
		PlayerIDs *[]int64 `json:"player_ids"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, eh.Log, err)
		return
	}
	if req.PlayerIDs == nil {
		writeError(w, eh.Log, invalidRequestf("missing required field: player_ids"))
		return
	}

	detail, err := eh.Service.UpdateEventPlayers(r.Context(), eventID, *req.PlayerIDs)
	if err != nil {
		writeError(w, eh.Log, err)
		return
	}
	writeJSON(w, eh.Log, http.StatusOK, detail)
}

func (eh *EventHandler) AddEventPlayer(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "event_id")
	if err != nil {
		writeError(w, eh.Log, err)
		return
	}
	var req struct {
		PlayerID *int64 `json:"player_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, eh.Log, err)
		return
	}
	if req.PlayerID == nil {
		writeError(w, eh.Log, invalidRequestf("missing required field: player_id"))
		return
	}

	result, err := eh.Service.AddEventPlayerAssociation(r.Context(), eventID, *req.PlayerID)
	if err != nil {
		writeError(w, eh.Log, err)
		return
	}
	writeJSON(w, eh.Log, http.StatusCreated, result)
}
