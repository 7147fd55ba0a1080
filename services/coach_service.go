package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/camden-git/hockeycoach/database"
	"github.com/camden-git/hockeycoach/logger"
	"github.com/camden-git/hockeycoach/models"
	"github.com/camden-git/hockeycoach/realtime"
	"github.com/camden-git/hockeycoach/repository"
)

// Notifier receives a notice after every successful mutation
type Notifier interface {
	Broadcast(notice realtime.Notice)
}

type nopNotifier struct{}

func (nopNotifier) Broadcast(realtime.Notice) {}

// PlayerUpdate is the result of UpdatePlayer. Changes is 0 when no player
// has the given id.
type PlayerUpdate struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Changes int64  `json:"changes"`
}

// Deletion is the result of a delete. Changes is 0 when nothing matched.
type Deletion struct {
	ID      int64 `json:"id"`
	Changes int64 `json:"changes"`
}

// Association is the result of AddEventPlayerAssociation
type Association struct {
	EventID  int64 `json:"event_id"`
	PlayerID int64 `json:"player_id"`
	Changes  int64 `json:"changes"`
}

// Repositories groups the data access dependencies of CoachService
type Repositories struct {
	Players    repository.PlayerRepositoryInterface
	EventTypes repository.EventTypeRepositoryInterface
	Videos     repository.VideoRepositoryInterface
	Events     repository.EventRepositoryInterface
}

// NewRepositories builds the gorm-backed repositories over one store handle
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Players:    repository.NewPlayerRepository(db),
		EventTypes: repository.NewEventTypeRepository(db),
		Videos:     repository.NewVideoRepository(db),
		Events:     repository.NewEventRepository(db),
	}
}

// CoachService is the command/query surface used by the UI: one method per
// named operation. It holds no state of its own beyond its dependencies.
type CoachService struct {
	repos    Repositories
	db       *sql.DB
	notifier Notifier
	log      *logger.Logger
}

// NewCoachService creates the service. A nil notifier disables change notices.
func NewCoachService(repos Repositories, db *sql.DB, notifier Notifier, log *logger.Logger) *CoachService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CoachService{
		repos:    repos,
		db:       db,
		notifier: notifier,
		log:      log,
	}
}

// NewCoachServiceFromDB wires the service to an opened store
func NewCoachServiceFromDB(db *gorm.DB, notifier Notifier, log *logger.Logger) (*CoachService, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return NewCoachService(NewRepositories(db), sqlDB, notifier, log), nil
}

func (s *CoachService) notify(noticeType string, entityID, videoID int64) {
	notice := realtime.NewNotice(noticeType, entityID)
	notice.VideoID = videoID
	s.notifier.Broadcast(notice)
}

// ListPlayers returns every player ordered by name
func (s *CoachService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := s.repos.Players.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if players == nil {
		players = []models.Player{}
	}
	return players, nil
}

func (s *CoachService) AddPlayer(ctx context.Context, name string) (*models.Player, error) {
	player := &models.Player{Name: name}
	if err := s.repos.Players.Create(ctx, player); err != nil {
		return nil, err
	}
	s.log.Debug("player added", "id", player.ID, "name", player.Name)
	s.notify(realtime.PlayerCreated, player.ID, 0)
	return player, nil
}

func (s *CoachService) UpdatePlayer(ctx context.Context, id int64, name string) (*PlayerUpdate, error) {
	changes, err := s.repos.Players.UpdateName(ctx, id, name)
	if err != nil {
		return nil, err
	}
	if changes > 0 {
		s.notify(realtime.PlayerUpdated, id, 0)
	}
	return &PlayerUpdate{ID: id, Name: name, Changes: changes}, nil
}

// DeletePlayer removes the player and its event associations. The events
// themselves stay.
func (s *CoachService) DeletePlayer(ctx context.Context, id int64) (*Deletion, error) {
	changes, err := s.repos.Players.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if changes > 0 {
		s.log.Debug("player deleted", "id", id)
		s.notify(realtime.PlayerDeleted, id, 0)
	}
	return &Deletion{ID: id, Changes: changes}, nil
}

// ListEventTypes returns defaults and custom types ordered by name
func (s *CoachService) ListEventTypes(ctx context.Context) ([]models.EventType, error) {
	types, err := s.repos.EventTypes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if types == nil {
		types = []models.EventType{}
	}
	return types, nil
}

func (s *CoachService) AddEventType(ctx context.Context, name string, isCustom bool) (*models.EventType, error) {
	eventType := &models.EventType{Name: name, IsCustom: isCustom}
	if err := s.repos.EventTypes.Create(ctx, eventType); err != nil {
		return nil, err
	}
	s.notify(realtime.EventTypeCreated, eventType.ID, 0)
	return eventType, nil
}

// AddVideo registers a file path, returning the existing record when the
// path is already known.
func (s *CoachService) AddVideo(ctx context.Context, filePath string) (*models.Video, error) {
	video, err := s.repos.Videos.FindOrCreate(ctx, filePath)
	if err != nil {
		return nil, err
	}
	s.notify(realtime.VideoAdded, video.ID, video.ID)
	return video, nil
}

// ListVideos returns every video in natural file path order
// ("game2.mp4" before "game10.mp4").
func (s *CoachService) ListVideos(ctx context.Context) ([]models.Video, error) {
	return s.ListVideosSorted(ctx, database.DefaultVideoSort)
}

// ListVideosSorted returns every video in the given order, one of the
// database.VideoSort constants. An empty order means the default.
func (s *CoachService) ListVideosSorted(ctx context.Context, order string) ([]models.Video, error) {
	if order == "" {
		order = database.DefaultVideoSort
	}
	if !database.IsValidVideoSort(order) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, order)
	}

	videos, err := s.repos.Videos.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		return []models.Video{}, nil
	}

	switch order {
	case database.VideoSortPathNat:
		sort.SliceStable(videos, func(i, j int) bool {
			return natsort.Compare(videos[i].FilePath, videos[j].FilePath)
		})
	case database.VideoSortPathAsc:
		sort.SliceStable(videos, func(i, j int) bool {
			return videos[i].FilePath < videos[j].FilePath
		})
	case database.VideoSortAddedAsc:
		sort.SliceStable(videos, func(i, j int) bool {
			return videos[i].ID < videos[j].ID
		})
	}
	return videos, nil
}

// AddEvent inserts an event with no players attached
func (s *CoachService) AddEvent(ctx context.Context, videoID, eventTypeID int64, timestamp float64) (*models.Event, error) {
	event := &models.Event{VideoID: videoID, EventTypeID: eventTypeID, Timestamp: timestamp}
	if err := s.repos.Events.Create(ctx, event); err != nil {
		return nil, err
	}
	s.notify(realtime.EventCreated, event.ID, event.VideoID)
	return event, nil
}

func (s *CoachService) AddEventPlayerAssociation(ctx context.Context, eventID, playerID int64) (*Association, error) {
	changes, err := s.repos.Events.AddPlayer(ctx, eventID, playerID)
	if err != nil {
		return nil, err
	}
	var videoID int64
	if event, err := s.repos.Events.GetByID(ctx, eventID); err == nil {
		videoID = event.VideoID
	} else {
		s.log.Warn("event lookup after association failed", "event_id", eventID, "error", err)
	}
	s.notify(realtime.EventUpdated, eventID, videoID)
	return &Association{EventID: eventID, PlayerID: playerID, Changes: changes}, nil
}

// GetVideoEvents returns the video's events by ascending timestamp, each
// with its type name and players.
func (s *CoachService) GetVideoEvents(ctx context.Context, videoID int64) ([]database.VideoEvent, error) {
	return database.VideoEvents(ctx, s.db, videoID)
}

// GetPlayerEvents returns the events the player is tagged in, ordered by
// video file path then timestamp.
func (s *CoachService) GetPlayerEvents(ctx context.Context, playerID int64) ([]database.PlayerEvent, error) {
	return database.PlayerEvents(ctx, s.db, playerID)
}

// GetEvent returns one event with its players, or ErrEventNotFound
func (s *CoachService) GetEvent(ctx context.Context, eventID int64) (*database.EventDetail, error) {
	detail, err := database.GetEventDetail(ctx, s.db, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %d: %w", eventID, ErrEventNotFound)
		}
		return nil, err
	}
	return &detail, nil
}

// TagEvent creates an event together with its player associations. Either
// all rows are written or, on any failure, none are.
func (s *CoachService) TagEvent(ctx context.Context, videoID, eventTypeID int64, timestamp float64, playerIDs []int64) (*database.EventDetail, error) {
	event := &models.Event{VideoID: videoID, EventTypeID: eventTypeID, Timestamp: timestamp}
	if err := s.repos.Events.CreateWithPlayers(ctx, event, playerIDs); err != nil {
		return nil, err
	}
	s.log.Debug("event tagged", "id", event.ID, "video_id", videoID, "players", len(playerIDs))
	s.notify(realtime.EventCreated, event.ID, videoID)
	return s.GetEvent(ctx, event.ID)
}

// UpdateEventPlayers replaces the event's player set and returns the
// updated event.
func (s *CoachService) UpdateEventPlayers(ctx context.Context, eventID int64, playerIDs []int64) (*database.EventDetail, error) {
	if err := s.repos.Events.ReplacePlayers(ctx, eventID, playerIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event %d: %w", eventID, ErrEventNotFound)
		}
		return nil, err
	}
	detail, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	s.notify(realtime.EventUpdated, eventID, detail.VideoID)
	return detail, nil
}

// DeleteEvent removes the event and its associations
func (s *CoachService) DeleteEvent(ctx context.Context, eventID int64) (*Deletion, error) {
	var videoID int64
	event, err := s.repos.Events.GetByID(ctx, eventID)
	switch {
	case err == nil:
		videoID = event.VideoID
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Deletion{ID: eventID, Changes: 0}, nil
	default:
		return nil, err
	}

	changes, err := s.repos.Events.Delete(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if changes > 0 {
		s.notify(realtime.EventDeleted, eventID, videoID)
	}
	return &Deletion{ID: eventID, Changes: changes}, nil
}
