package database

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"availability_notification_bot/internal/domain/availability"
	"availability_notification_bot/internal/domain/snapshot"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestJSONSnapshotRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	repo := NewJSONSnapshotRepository(path, quietLogger())
	ctx := context.Background()

	s := snapshot.Empty()
	s.Users["alice"] = availability.User{ID: "alice", Name: "Alice Smith"}
	ev := availability.Event{
		UserID: "alice", Availability: availability.KindSickLeave,
		UnavailableTime: availability.TimeRangeMorning, Day: "2024-03-10",
	}
	s.Events[ev.Key()] = ev

	require.NoError(t, repo.Save(ctx, s))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Users, loaded.Users)
	assert.Equal(t, s.Events, loaded.Events)
}

func TestJSONSnapshotRepositoryMissingFile(t *testing.T) {
	repo := NewJSONSnapshotRepository(filepath.Join(t.TempDir(), "db.json"), quietLogger())

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded.Users)
	assert.Empty(t, loaded.Events)
}

func TestJSONSnapshotRepositoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{corrupt"), 0o644))
	repo := NewJSONSnapshotRepository(path, quietLogger())

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded.Users)
	assert.Empty(t, loaded.Events)
}

func TestJSONSnapshotRepositoryOriginalFileShape(t *testing.T) {
	// A db.json written by the original bot: day only in the key, and a
	// malformed key that must be skipped rather than crash the load.
	content := `{
		"users": {"u1": {"id": "u1", "name": "Alice Smith"}},
		"unavailabilities": {
			"u1|2024-03-10": {"userId": "u1", "availability": "onSickLeave", "unavailableTime": "MORNING"},
			"garbage-key": {"userId": "u9", "availability": "onPto", "unavailableTime": "FULL_DAY"}
		}
	}`
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	repo := NewJSONSnapshotRepository(path, quietLogger())

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded.Events, 1)
	ev := loaded.Events[availability.EventKey("u1|2024-03-10")]
	assert.Equal(t, availability.UserID("u1"), ev.UserID)
	assert.Equal(t, availability.CalendarDay("2024-03-10"), ev.Day)
	assert.Equal(t, "Alice Smith", loaded.Users["u1"].Name)
}

func TestJSONSnapshotRepositorySaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	repo := NewJSONSnapshotRepository(path, quietLogger())
	ctx := context.Background()

	first := snapshot.Empty()
	first.Users["alice"] = availability.User{ID: "alice", Name: "Alice Smith"}
	require.NoError(t, repo.Save(ctx, first))

	second := snapshot.Empty()
	second.Users["alice"] = availability.User{ID: "alice", Name: "Alice Renamed"}
	second.Users["bob"] = availability.User{ID: "bob", Name: "Bob Brown"}
	require.NoError(t, repo.Save(ctx, second))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Users, 2)
	assert.Equal(t, "Alice Renamed", loaded.Users["alice"].Name)
}
