package reminders

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/np-mndp/book-my-seat/internal/models"
)

// SQLiteStore persists reminders to a local SQLite file so they
// survive process restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open reminder store: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS reminders (
		booking_id INTEGER PRIMARY KEY,
		notification_id TEXT NOT NULL,
		fire_at DATETIME NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create reminders table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, bookingID int64) (*models.Reminder, error) {
	var r models.Reminder
	var fireAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT booking_id, notification_id, fire_at FROM reminders WHERE booking_id = ?",
		bookingID,
	).Scan(&r.BookingID, &r.NotificationID, &fireAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.FireAt, err = parseStoredTime(fireAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteStore) Put(ctx context.Context, r models.Reminder) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (booking_id, notification_id, fire_at) VALUES (?, ?, ?)
		 ON CONFLICT(booking_id) DO UPDATE SET notification_id = excluded.notification_id, fire_at = excluded.fire_at`,
		r.BookingID, r.NotificationID, r.FireAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, bookingID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM reminders WHERE booking_id = ?", bookingID)
	return err
}

func (s *SQLiteStore) All(ctx context.Context) ([]models.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT booking_id, notification_id, fire_at FROM reminders")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Reminder
	for rows.Next() {
		var r models.Reminder
		var fireAt string
		if err := rows.Scan(&r.BookingID, &r.NotificationID, &fireAt); err != nil {
			return nil, err
		}
		if r.FireAt, err = parseStoredTime(fireAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM reminders")
	return err
}

func parseStoredTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored fire_at %q: %w", v, err)
	}
	return t, nil
}
