package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/camden-git/hockeycoach/logger"
	"github.com/camden-git/hockeycoach/realtime"
	"github.com/camden-git/hockeycoach/services"
)

// Deps holds what the router needs. Hub may be nil, in which case /ws is
// not registered.
type Deps struct {
	Service        *services.CoachService
	Hub            *realtime.Hub
	Log            *logger.Logger
	AllowedOrigins []string
}

func NewRouter(deps Deps) http.Handler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log.Std(), NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	playerHandler := &PlayerHandler{Service: deps.Service, Log: log}
	eventTypeHandler := &EventTypeHandler{Service: deps.Service, Log: log}
	videoHandler := &VideoHandler{Service: deps.Service, Log: log}
	eventHandler := &EventHandler{Service: deps.Service, Log: log}
	invokeHandler := &InvokeHandler{Service: deps.Service, Log: log}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Route("/players", func(r chi.Router) {
			r.Get("/", playerHandler.ListPlayers)
			r.Post("/", playerHandler.CreatePlayer)
			r.Route("/{player_id}", func(r chi.Router) {
				r.Put("/", playerHandler.UpdatePlayer)
				r.Delete("/", playerHandler.DeletePlayer)
				r.Get("/events", playerHandler.ListPlayerEvents)
			})
		})

		r.Route("/event_types", func(r chi.Router) {
			r.Get("/", eventTypeHandler.ListEventTypes)
			r.Post("/", eventTypeHandler.CreateEventType)
		})

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", videoHandler.ListVideos)
			r.Post("/", videoHandler.AddVideo)
			r.Get("/{video_id}/events", videoHandler.ListVideoEvents)
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/", eventHandler.CreateEvent)
			r.Route("/{event_id}", func(r chi.Router) {
				r.Get("/", eventHandler.GetEvent)
				r.Delete("/", eventHandler.DeleteEvent)
				r.Put("/players", eventHandler.ReplaceEventPlayers)
				r.Post("/players", eventHandler.AddEventPlayer)
			})
		})

		r.Get("/operations", invokeHandler.ListOperations)
		r.Post("/invoke/{operation}", invokeHandler.Invoke)
	})

	if deps.Hub != nil {
		r.Get("/ws", deps.Hub.ServeWS)
	}

	return r
}
