package database

import (
	"context"
	"database/sql"
	"fmt"

	"availability_notification_bot/internal/domain/availability"
	"availability_notification_bot/internal/domain/snapshot"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresSnapshotRepository persists the snapshot in two tables,
// snapshot_users and snapshot_unavailabilities. Writes are upsert-only, so
// the stored snapshot can only ever grow.
type PostgresSnapshotRepository struct {
	db *sql.DB
}

func NewPostgresSnapshotRepository(db *sql.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

func (r *PostgresSnapshotRepository) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	s := snapshot.Empty()

	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM snapshot_users`)
	if err != nil {
		return nil, fmt.Errorf("error querying snapshot users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("error scanning snapshot user row: %w", err)
		}
		userID := availability.UserID(id)
		s.Users[userID] = availability.User{ID: userID, Name: name}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot user rows: %w", err)
	}

	eventRows, err := r.db.QueryContext(ctx, `SELECT user_id, calendar_day, availability, unavailable_time FROM snapshot_unavailabilities`)
	if err != nil {
		return nil, fmt.Errorf("error querying snapshot unavailabilities: %w", err)
	}
	defer eventRows.Close()
	for eventRows.Next() {
		var userID, day, kind, timeRange string
		if err := eventRows.Scan(&userID, &day, &kind, &timeRange); err != nil {
			return nil, fmt.Errorf("error scanning snapshot unavailability row: %w", err)
		}
		ev := availability.Event{
			UserID:          availability.UserID(userID),
			Availability:    availability.Kind(kind),
			UnavailableTime: availability.TimeRange(timeRange),
			Day:             availability.CalendarDay(day),
		}
		s.Events[ev.Key()] = ev
	}
	if err := eventRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot unavailability rows: %w", err)
	}

	return s, nil
}

func (r *PostgresSnapshotRepository) Save(ctx context.Context, s *snapshot.Snapshot) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for snapshot save: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	userStmt, err := txn.PrepareContext(ctx, `INSERT INTO snapshot_users (id, name)
                                             VALUES ($1, $2)
                                             ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot user upsert: %w", err)
	}
	defer userStmt.Close()

	for _, u := range s.Users {
		if _, err := userStmt.ExecContext(ctx, string(u.ID), u.Name); err != nil {
			return fmt.Errorf("error upserting snapshot user %s: %w", u.ID, err)
		}
	}

	// Events are immutable once recorded; conflicts are silently kept as-is.
	eventStmt, err := txn.PrepareContext(ctx, `INSERT INTO snapshot_unavailabilities (user_id, calendar_day, availability, unavailable_time)
                                              VALUES ($1, $2, $3, $4)
                                              ON CONFLICT (user_id, calendar_day) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot unavailability insert: %w", err)
	}
	defer eventStmt.Close()

	for _, ev := range s.Events {
		if _, err := eventStmt.ExecContext(ctx, string(ev.UserID), string(ev.Day), string(ev.Availability), string(ev.UnavailableTime)); err != nil {
			return fmt.Errorf("error inserting snapshot unavailability for %s on %s: %w", ev.UserID, ev.Day, err)
		}
	}

	return txn.Commit()
}
