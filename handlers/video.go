package handlers

import (
	"net/http"

	"github.com/camden-git/hockeycoach/logger"
	"github.com/camden-git/hockeycoach/services"
)

type VideoHandler struct {
	Service *services.CoachService
	Log     *logger.Logger
}

// ListVideos accepts an optional ?sort= of path_nat (default), path_asc or added_asc
func (vh *VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := vh.Service.ListVideosSorted(r.Context(), r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, vh.Log, err)
		return
	}
	writeJSON(w, vh.Log, http.StatusOK, videos)
}

// AddVideo registers a file path. Known paths return the existing record.
func (vh *VideoHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FilePath *string `json:"file_path"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, vh.Log, err)
		return
	}
	if req.FilePath == nil {
		writeError(w, vh.Log, invalidRequestf("missing required field: file_path"))
		return
	}

	video, err := vh.Service.AddVideo(r.Context(), *req.FilePath)
	if err != nil {
		writeError(w, vh.Log, err)
		return
	}
	writeJSON(w, vh.Log, http.StatusOK, video)
}

func (vh *VideoHandler) ListVideoEvents(w http.ResponseWriter, r *http.Request) {
	videoID, err := idParam(r, "video_id")
	if err != nil {
		writeError(w, vh.Log, err)
		return
	}
	events, err := vh.Service.GetVideoEvents(r.Context(), videoID)
	if err != nil {
		writeError(w, vh.Log, err)
		return
	}
	writeJSON(w, vh.Log, http.StatusOK, events)
}
