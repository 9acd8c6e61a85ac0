package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"availability_notification_bot/internal/domain/availability"
	"availability_notification_bot/internal/domain/snapshot"

	"github.com/sirupsen/logrus"
)

// snapshotFile mirrors the on-disk db.json shape. Event calendar days live
// in the map keys ("<userId>|<day>"), not in the values.
type snapshotFile struct {
	Users            map[string]snapshotFileUser           `json:"users"`
	Unavailabilities map[string]snapshotFileUnavailability `json:"unavailabilities"`
}

type snapshotFileUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type snapshotFileUnavailability struct {
	UserID          string `json:"userId"`
	Availability    string `json:"availability"`
	UnavailableTime string `json:"unavailableTime"`
}

// JSONSnapshotRepository persists the snapshot as a single JSON file.
type JSONSnapshotRepository struct {
	path   string
	logger *logrus.Logger
}

func NewJSONSnapshotRepository(path string, logger *logrus.Logger) *JSONSnapshotRepository {
	return &JSONSnapshotRepository{path: path, logger: logger}
}

// Load reads the snapshot file. A missing or unreadable file yields an empty
// snapshot: first runs and corrupt files start over rather than failing the
// run.
func (r *JSONSnapshotRepository) Load(_ context.Context) (*snapshot.Snapshot, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		r.logger.Warnf("Failed to load %s, starting with an empty snapshot: %v", r.path, err)
		return snapshot.Empty(), nil
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		r.logger.Warnf("Failed to parse %s, starting with an empty snapshot: %v", r.path, err)
		return snapshot.Empty(), nil
	}

	s := snapshot.Empty()
	for id, u := range file.Users {
		userID := availability.UserID(u.ID)
		if userID == "" {
			userID = availability.UserID(id)
		}
		s.Users[userID] = availability.User{ID: userID, Name: u.Name}
	}
	for rawKey, u := range file.Unavailabilities {
		key := availability.EventKey(rawKey)
		userID, day, ok := key.Parts()
		if !ok {
			r.logger.Warnf("Skipping malformed unavailability key %q in %s", rawKey, r.path)
			continue
		}
		s.Events[key] = availability.Event{
			UserID:          userID,
			Availability:    availability.Kind(u.Availability),
			UnavailableTime: availability.TimeRange(u.UnavailableTime),
			Day:             day,
		}
	}
	return s, nil
}

// Save writes the snapshot atomically (temp file + rename) so a crash
// mid-write never leaves a truncated file behind.
func (r *JSONSnapshotRepository) Save(_ context.Context, s *snapshot.Snapshot) error {
	file := snapshotFile{
		Users:            make(map[string]snapshotFileUser, len(s.Users)),
		Unavailabilities: make(map[string]snapshotFileUnavailability, len(s.Events)),
	}
	for id, u := range s.Users {
		file.Users[string(id)] = snapshotFileUser{ID: string(u.ID), Name: u.Name}
	}
	for key, ev := range s.Events {
		file.Unavailabilities[string(key)] = snapshotFileUnavailability{
			UserID:          string(ev.UserID),
			Availability:    string(ev.Availability),
			UnavailableTime: string(ev.UnavailableTime),
		}
	}

	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("error marshaling snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("error creating temp snapshot file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("error writing temp snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("error closing temp snapshot file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("error replacing snapshot file: %w", err)
	}
	return nil
}
