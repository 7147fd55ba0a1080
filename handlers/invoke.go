package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/hockeycoach/logger"
	"github.com/camden-git/hockeycoach/services"
)

// args holds the positional arguments of one invocation
type args []json.RawMessage

func (a args) present(i int) bool {
	return i < len(a) && string(a[i]) != "null"
}

func (a args) intArg(i int, name string) (int64, error) {
	if !a.present(i) {
		return 0, invalidRequestf("argument %d (%s) is required", i, name)
	}
	var v int64
	if err := json.Unmarshal(a[i], &v); err != nil {
		return 0, invalidRequestf("argument %d (%s) must be an integer", i, name)
	}
	return v, nil
}

func (a args) floatArg(i int, name string) (float64, error) {
	if !a.present(i) {
		return 0, invalidRequestf("argument %d (%s) is required", i, name)
	}
	var v float64
	if err := json.Unmarshal(a[i], &v); err != nil {
		return 0, invalidRequestf("argument %d (%s) must be a number", i, name)
	}
	return v, nil
}

func (a args) stringArg(i int, name string) (string, error) {
	if !a.present(i) {
		return "", invalidRequestf("argument %d (%s) is required", i, name)
	}
	var v string
	if err := json.Unmarshal(a[i], &v); err != nil {
		return "", invalidRequestf("argument %d (%s) must be a string", i, name)
	}
	return v, nil
}

// boolArg accepts true/false as well as the 1/0 integers SQLite stores
func (a args) boolArg(i int, name string) (bool, error) {
	if !a.present(i) {
		return false, invalidRequestf("argument %d (%s) is required", i, name)
	}
	var b bool
	if err := json.Unmarshal(a[i], &b); err == nil {
		return b, nil
	}
	var n int64
	if err := json.Unmarshal(a[i], &n); err == nil && (n == 0 || n == 1) {
		return n == 1, nil
	}
	return false, invalidRequestf("argument %d (%s) must be a boolean", i, name)
}

// idsArg decodes an optional list of ids. A missing argument is an empty list.
func (a args) idsArg(i int, name string) ([]int64, error) {
	if !a.present(i) {
		return []int64{}, nil
	}
	var v []int64
	if err := json.Unmarshal(a[i], &v); err != nil {
		return nil, invalidRequestf("argument %d (%s) must be a list of integers", i, name)
	}
	return v, nil
}

type operation func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error)

// operations maps each named operation to its positional argument binding
var operations = map[string]operation{
	"list_players": func(ctx context.Context, svc *services.CoachService, _ args) (interface{}, error) {
		return svc.ListPlayers(ctx)
	},
	"add_player": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		name, err := a.stringArg(0, "name")
		if err != nil {
			return nil, err
		}
		return svc.AddPlayer(ctx, name)
	},
	"update_player": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		id, err := a.intArg(0, "id")
		if err != nil {
			return nil, err
		}
		name, err := a.stringArg(1, "name")
		if err != nil {
			return nil, err
		}
		return svc.UpdatePlayer(ctx, id, name)
	},
	"delete_player": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		id, err := a.intArg(0, "id")
		if err != nil {
			return nil, err
		}
		return svc.DeletePlayer(ctx, id)
	},
	"list_event_types": func(ctx context.Context, svc *services.CoachService, _ args) (interface{}, error) {
		return svc.ListEventTypes(ctx)
	},
	"add_event_type": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		name, err := a.stringArg(0, "name")
		if err != nil {
			return nil, err
		}
		isCustom, err := a.boolArg(1, "is_custom")
		if err != nil {
			return nil, err
		}
		return svc.AddEventType(ctx, name, isCustom)
	},
	"add_video": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		path, err := a.stringArg(0, "file_path")
		if err != nil {
			return nil, err
		}
		return svc.AddVideo(ctx, path)
	},
	"list_videos": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		if !a.present(0) {
			return svc.ListVideos(ctx)
		}
		order, err := a.stringArg(0, "sort")
		if err != nil {
			return nil, err
		}
		return svc.ListVideosSorted(ctx, order)
	},
	"add_event": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		videoID, err := a.intArg(0, "video_id")
		if err != nil {
			return nil, err
		}
		typeID, err := a.intArg(1, "event_type_id")
		if err != nil {
			return nil, err
		}
		ts, err := a.floatArg(2, "timestamp")
		if err != nil {
			return nil, err
		}
		return svc.AddEvent(ctx, videoID, typeID, ts)
	},
	"add_event_player_association": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		eventID, err := a.intArg(0, "event_id")
		if err != nil {
			return nil, err
		}
		playerID, err := a.intArg(1, "player_id")
		if err != nil {
			return nil, err
		}
		return svc.AddEventPlayerAssociation(ctx, eventID, playerID)
	},
	"get_video_events": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		videoID, err := a.intArg(0, "video_id")
		if err != nil {
			return nil, err
		}
		return svc.GetVideoEvents(ctx, videoID)
	},
	"get_player_events": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		playerID, err := a.intArg(0, "player_id")
		if err != nil {
			return nil, err
		}
		return svc.GetPlayerEvents(ctx, playerID)
	},
	"get_event": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		eventID, err := a.intArg(0, "event_id")
		if err != nil {
			return nil, err
		}
		return svc.GetEvent(ctx, eventID)
	},
	"update_event_players": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		eventID, err := a.intArg(0, "event_id")
		if err != nil {
			return nil, err
		}
		playerIDs, err := a.idsArg(1, "player_ids")
		if err != nil {
			return nil, err
		}
		return svc.UpdateEventPlayers(ctx, eventID, playerIDs)
	},
	"delete_event": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		eventID, err := a.intArg(0, "event_id")
		if err != nil {
			return nil, err
		}
		return svc.DeleteEvent(ctx, eventID)
	},
	"tag_event": func(ctx context.Context, svc *services.CoachService, a args) (interface{}, error) {
		videoID, err := a.intArg(0, "video_id")
		if err != nil {
			return nil, err
		}
		typeID, err := a.intArg(1, "event_type_id")
		if err != nil {
			return nil, err
		}
		ts, err := a.floatArg(2, "timestamp")
		if err != nil {
			return nil, err
		}
		playerIDs, err := a.idsArg(3, "player_ids")
		if err != nil {
			return nil, err
		}
		return svc.TagEvent(ctx, videoID, typeID, ts, playerIDs)
	},
}

// OperationNames lists every operation accepted by the invoke endpoint
func OperationNames() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InvokeHandler serves the named-operation endpoint used by the desktop UI
type InvokeHandler struct {
	Service *services.CoachService
	Log     *logger.Logger
}

func (ih *InvokeHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, ih.Log, http.StatusOK, map[string][]string{"operations": OperationNames()})
}

// Invoke runs one operation. The body is {"args": [...]} with arguments in
// the operation's positional order; zero-argument operations may omit it.
func (ih *InvokeHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "operation")
	op, ok := operations[name]
	if !ok {
		writeError(w, ih.Log, fmt.Errorf("%w: %q", errUnknownOperation, name))
		return
	}

	var req struct {
		Args args `json:"args"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, ih.Log, err)
		return
	}

	result, err := op(r.Context(), ih.Service, req.Args)
	if err != nil {
		ih.Log.Debug("operation failed", "operation", name, "error", err)
		writeError(w, ih.Log, err)
		return
	}
	writeJSON(w, ih.Log, http.StatusOK, result)
}
