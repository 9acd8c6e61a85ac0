package snapshot

import (
	"context"

	"availability_notification_bot/internal/domain/availability"
)

// Snapshot is the sole durable state of the bot: every user ever seen and
// every unavailability event ever notified. It is read once at run start and
// written at most once at run end. The pipeline only ever adds to it.
type Snapshot struct {
	Users  map[availability.UserID]availability.User
	Events map[availability.EventKey]availability.Event
}

// Empty returns a snapshot with initialized, empty maps.
func Empty() *Snapshot {
	return &Snapshot{
		Users:  make(map[availability.UserID]availability.User),
		Events: make(map[availability.EventKey]availability.Event),
	}
}

// Repository defines the operations for persisting and retrieving the
// snapshot. Load returns an empty snapshot when none has been saved yet.
type Repository interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
}
