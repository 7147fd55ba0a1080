package handlers

import (
	"net/http"

	"github.com/camden-git/hockeycoach/logger"
	"github.com/camden-git/hockeycoach/services"
)

type PlayerHandler struct {
	Service *services.CoachService
	Log     *logger.Logger
}

type playerRequest struct {
	Name *string `json:"name"`
}

func (ph *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := ph.Service.ListPlayers(r.Context())
	if err != nil {
		writeError(w, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusOK, players)
}

func (ph *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, ph.Log, err)
		return
	}
	if req.Name == nil {
		writeError(w, ph.Log, invalidRequestf("missing required field: name"))
		return
	}

	player, err := ph.Service.AddPlayer(r.Context(), *req.Name)
	if err != nil {
		writeError(w, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusCreated, player)
}

func (ph *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := idParam(r, "player_id")
	if err != nil {
		writeError(w, ph.Log, err)
		return
	}
	var req playerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, ph.Log, err)
		return
	}
	if req.Name == nil {
		writeError(w, ph.Log, invalidRequestf("missing required field: name"))
		return
	}

	result, err := ph.Service.UpdatePlayer(r.Context(), playerID, *req.Name)
	if err != nil {
		writeError(w, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusOK, result)
}

func (ph *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := idParam(r, "player_id")
	if err != nil {
		writeError(w, ph.Log, err)
		return
	}
	result, err := ph.Service.DeletePlayer(r.Context(), playerID)
	if err != nil {
		writeError(w, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusOK, result)
}

func (ph *PlayerHandler) ListPlayerEvents(w http.ResponseWriter, r *http.Request) {
	playerID, err := idParam(r, "player_id")
	if err != nil {
		writeError(w, ph.Log, err)
		return
	}
	events, err := ph.Service.GetPlayerEvents(r.Context(), playerID)
	if err != nil {
		writeError(w, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusOK, events)
}
