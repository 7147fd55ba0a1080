package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/hockeycoach/database"
	"github.com/camden-git/hockeycoach/logger"
	"github.com/camden-git/hockeycoach/models"
	"github.com/camden-git/hockeycoach/realtime"
	"github.com/camden-git/hockeycoach/services"
	"github.com/camden-git/hockeycoach/testutil"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []realtime.Notice
}

func (r *recordingNotifier) Broadcast(n realtime.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Type)
	}
	return out
}

func (r *recordingNotifier) last() realtime.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return realtime.Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func newService(t *testing.T) (*services.CoachService, *recordingNotifier) {
	t.Helper()
	db := testutil.Store(t)
	rec := &recordingNotifier{}
	svc, err := services.NewCoachServiceFromDB(db, rec, logger.Nop())
	require.NoError(t, err)
	return svc, rec
}

func TestPlayersListedByName(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	bob, err := svc.AddPlayer(ctx, "Bob")
	require.NoError(t, err)
	alice, err := svc.AddPlayer(ctx, "Alice")
	require.NoError(t, err)
	assert.NotEqual(t, alice.ID, bob.ID)

	players, err := svc.ListPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Alice", players[0].Name)
	assert.Equal(t, "Bob", players[1].Name)

	assert.Equal(t, []string{realtime.PlayerCreated, realtime.PlayerCreated}, rec.types())
}

func TestListPlayersEmpty(t *testing.T) {
	svc, _ := newService(t)
	players, err := svc.ListPlayers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, players)
	assert.Empty(t, players)
}

func TestUpdateAndDeletePlayerReportChanges(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()
	p, err := svc.AddPlayer(ctx, "Bob")
	require.NoError(t, err)

	upd, err := svc.UpdatePlayer(ctx, p.ID, "Robert")
	require.NoError(t, err)
	assert.Equal(t, services.PlayerUpdate{ID: p.ID, Name: "Robert", Changes: 1}, *upd)

	missing, err := svc.UpdatePlayer(ctx, p.ID+10, "Ghost")
	require.NoError(t, err)
	assert.EqualValues(t, 0, missing.Changes)

	del, err := svc.DeletePlayer(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, services.Deletion{ID: p.ID, Changes: 1}, *del)

	del, err = svc.DeletePlayer(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, del.Changes)

	// no-op edits publish nothing
	assert.Equal(t, []string{realtime.PlayerCreated, realtime.PlayerUpdated, realtime.PlayerDeleted}, rec.types())
}

func TestAddEventTypeJoinsDefaults(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	hit, err := svc.AddEventType(ctx, "Hit", true)
	require.NoError(t, err)
	assert.True(t, hit.IsCustom)

	types, err := svc.ListEventTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 8)

	var found *models.EventType
	customCount := 0
	for i := range types {
		if types[i].IsCustom {
			customCount++
		}
		if types[i].Name == "Hit" {
			found = &types[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, hit.ID, found.ID)
	assert.Equal(t, 1, customCount)
}

func TestAddVideoTwiceReturnsSameID(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.AddVideo(ctx, "/a.mp4")
	require.NoError(t, err)
	second, err := svc.AddVideo(ctx, "/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	videos, err := svc.ListVideos(ctx)
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestListVideosNaturalOrder(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for _, p := range []string{"/games/game10.mp4", "/games/game2.mp4", "/games/game1.mp4"} {
		_, err := svc.AddVideo(ctx, p)
		require.NoError(t, err)
	}

	videos, err := svc.ListVideos(ctx)
	require.NoError(t, err)
	paths := make([]string, 0, len(videos))
	for _, v := range videos {
		paths = append(paths, v.FilePath)
	}
	assert.Equal(t, []string{"/games/game1.mp4", "/games/game2.mp4", "/games/game10.mp4"}, paths)
}

func TestAddEventThenAssociate(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()
	video, err := svc.AddVideo(ctx, "/a.mp4")
	require.NoError(t, err)
	types, err := svc.ListEventTypes(ctx)
	require.NoError(t, err)
	player, err := svc.AddPlayer(ctx, "Alice")
	require.NoError(t, err)

	ev, err := svc.AddEvent(ctx, video.ID, types[0].ID, 12.75)
	require.NoError(t, err)

	events, err := svc.GetVideoEvents(ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 12.75, events[0].Timestamp)
	assert.Equal(t, types[0].Name, events[0].EventTypeName)
	assert.Empty(t, events[0].Players)

	assoc, err := svc.AddEventPlayerAssociation(ctx, ev.ID, player.ID)
	require.NoError(t, err)
	assert.Equal(t, services.Association{EventID: ev.ID, PlayerID: player.ID, Changes: 1}, *assoc)
	notice := rec.last()
	assert.Equal(t, realtime.EventUpdated, notice.Type)
	assert.Equal(t, ev.ID, notice.EntityID)
	assert.Equal(t, video.ID, notice.VideoID)

	playerEvents, err := svc.GetPlayerEvents(ctx, player.ID)
	require.NoError(t, err)
	require.Len(t, playerEvents, 1)
	assert.Equal(t, ev.ID, playerEvents[0].ID)
	assert.Equal(t, "/a.mp4", playerEvents[0].FilePath)

	_, err = svc.AddEventPlayerAssociation(ctx, ev.ID, player.ID)
	require.Error(t, err)
	assert.True(t, services.IsConstraintViolation(err))
}

func TestAddEventUnknownVideoIsConstraintViolation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	types, err := svc.ListEventTypes(ctx)
	require.NoError(t, err)

	_, err = svc.AddEvent(ctx, 404, types[0].ID, 1)
	require.Error(t, err)
	assert.True(t, services.IsConstraintViolation(err))
}

func TestTagEventIsAllOrNothing(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()
	video, err := svc.AddVideo(ctx, "/a.mp4")
	require.NoError(t, err)
	types, err := svc.ListEventTypes(ctx)
	require.NoError(t, err)
	alice, err := svc.AddPlayer(ctx, "Alice")
	require.NoError(t, err)
	bob, err := svc.AddPlayer(ctx, "Bob")
	require.NoError(t, err)

	detail, err := svc.TagEvent(ctx, video.ID, types[1].ID, 42.5, []int64{bob.ID, alice.ID})
	require.NoError(t, err)
	assert.Equal(t, video.ID, detail.VideoID)
	assert.Equal(t, 42.5, detail.Timestamp)
	assert.Equal(t, []database.EventPlayer{{ID: alice.ID, Name: "Alice"}, {ID: bob.ID, Name: "Bob"}}, detail.Players)

	_, err = svc.TagEvent(ctx, video.ID, types[1].ID, 50, []int64{alice.ID, 9999})
	require.Error(t, err)
	assert.True(t, services.IsConstraintViolation(err))

	events, err := svc.GetVideoEvents(ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, detail.ID, events[0].ID)

	assert.Equal(t, realtime.EventCreated, rec.types()[len(rec.types())-1])
}

func TestUpdateEventPlayers(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	video, err := svc.AddVideo(ctx, "/a.mp4")
	require.NoError(t, err)
	types, err := svc.ListEventTypes(ctx)
	require.NoError(t, err)
	alice, err := svc.AddPlayer(ctx, "Alice")
	require.NoError(t, err)
	bob, err := svc.AddPlayer(ctx, "Bob")
	require.NoError(t, err)

	detail, err := svc.TagEvent(ctx, video.ID, types[0].ID, 1, []int64{alice.ID})
	require.NoError(t, err)

	updated, err := svc.UpdateEventPlayers(ctx, detail.ID, []int64{bob.ID, bob.ID})
	require.NoError(t, err)
	assert.Equal(t, []database.EventPlayer{{ID: bob.ID, Name: "Bob"}}, updated.Players)

	cleared, err := svc.UpdateEventPlayers(ctx, detail.ID, []int64{})
	require.NoError(t, err)
	assert.NotNil(t, cleared.Players)
	assert.Empty(t, cleared.Players)

	_, err = svc.UpdateEventPlayers(ctx, detail.ID+100, []int64{alice.ID})
	assert.ErrorIs(t, err, services.ErrEventNotFound)
}

func TestGetAndDeleteEvent(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()
	video, err := svc.AddVideo(ctx, "/a.mp4")
	require.NoError(t, err)
	types, err := svc.ListEventTypes(ctx)
	require.NoError(t, err)
	alice, err := svc.AddPlayer(ctx, "Alice")
	require.NoError(t, err)

	detail, err := svc.TagEvent(ctx, video.ID, types[0].ID, 7, []int64{alice.ID})
	require.NoError(t, err)

	got, err := svc.GetEvent(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, detail, got)

	del, err := svc.DeleteEvent(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, services.Deletion{ID: detail.ID, Changes: 1}, *del)

	_, err = svc.GetEvent(ctx, detail.ID)
	assert.True(t, errors.Is(err, services.ErrEventNotFound))

	playerEvents, err := svc.GetPlayerEvents(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, playerEvents)

	del, err = svc.DeleteEvent(ctx, detail.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, del.Changes)

	types2 := rec.types()
	assert.Equal(t, realtime.EventDeleted, types2[len(types2)-1])
}

func TestDeletePlayerKeepsEvents(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	video, err := svc.AddVideo(ctx, "/a.mp4")
	require.NoError(t, err)
	types, err := svc.ListEventTypes(ctx)
	require.NoError(t, err)
	alice, err := svc.AddPlayer(ctx, "Alice")
	require.NoError(t, err)
	_, err = svc.TagEvent(ctx, video.ID, types[0].ID, 3, []int64{alice.ID})
	require.NoError(t, err)

	_, err = svc.DeletePlayer(ctx, alice.ID)
	require.NoError(t, err)

	events, err := svc.GetVideoEvents(ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Empty(t, events[0].Players)
}

func TestNilNotifierIsAllowed(t *testing.T) {
	db := testutil.Store(t)
	svc := services.NewCoachService(services.NewRepositories(db), testutil.SQL(t, db), nil, nil)
	_, err := svc.AddPlayer(context.Background(), "Alice")
	require.NoError(t, err)
}

func TestIsConstraintViolationRejectsOtherErrors(t *testing.T) {
	assert.False(t, services.IsConstraintViolation(nil))
	assert.False(t, services.IsConstraintViolation(errors.New("boom")))
	assert.False(t, services.IsConstraintViolation(services.ErrEventNotFound))
}

func TestListVideosSorted(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for _, p := range []string{"/b/game10.mp4", "/a/game2.mp4", "/b/game9.mp4"} {
		_, err := svc.AddVideo(ctx, p)
		require.NoError(t, err)
	}

	paths := func(order string) []string {
		videos, err := svc.ListVideosSorted(ctx, order)
		require.NoError(t, err)
		out := make([]string, 0, len(videos))
		for _, v := range videos {
			out = append(out, v.FilePath)
		}
		return out
	}

	assert.Equal(t, []string{"/a/game2.mp4", "/b/game9.mp4", "/b/game10.mp4"}, paths(database.VideoSortPathNat))
	assert.Equal(t, []string{"/a/game2.mp4", "/b/game10.mp4", "/b/game9.mp4"}, paths(database.VideoSortPathAsc))
	assert.Equal(t, []string{"/b/game10.mp4", "/a/game2.mp4", "/b/game9.mp4"}, paths(database.VideoSortAddedAsc))
	assert.Equal(t, paths(database.VideoSortPathNat), paths(""))

	_, err := svc.ListVideosSorted(ctx, "newest")
	assert.ErrorIs(t, err, services.ErrInvalidSort)
}
