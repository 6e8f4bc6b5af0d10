package studio

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// SavedTimeline is a named timeline kept between sessions.
type SavedTimeline struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Timeline  timeline.Timeline `json:"keyframes"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TimelineStore persists named timelines. Names are unique ignoring case.
type TimelineStore interface {
	Save(ctx context.Context, name string, tl timeline.Timeline) (*SavedTimeline, error)
	Load(ctx context.Context, name string) (*SavedTimeline, error)
	List(ctx context.Context) ([]SavedTimeline, error)
	Delete(ctx context.Context, name string) error
}

// SQLiteTimelineStore implements TimelineStore using the timelines table.
type SQLiteTimelineStore struct {
	db *sql.DB
}

// NewSQLiteTimelineStore creates a new SQLite-backed timeline store.
func NewSQLiteTimelineStore(db *sql.DB) *SQLiteTimelineStore {
	return &SQLiteTimelineStore{db: db}
}

// Save inserts the timeline, or replaces the keyframes of the one already
// saved under name.
func (r *SQLiteTimelineStore) Save(ctx context.Context, name string, tl timeline.Timeline) (*SavedTimeline, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", timeline.ErrInvalidTimeline)
	}
	keyframes, err := json.Marshal(tl)
	if err != nil {
		return nil, fmt.Errorf("marshalling keyframes: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO timelines (id, name, keyframes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			keyframes = excluded.keyframes,
			updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, query, uuid.New().String(), name, string(keyframes), now, now); err != nil {
		return nil, fmt.Errorf("saving timeline: %w", err)
	}
	return r.Load(ctx, name)
}

// Load retrieves a timeline by name, ignoring case.
func (r *SQLiteTimelineStore) Load(ctx context.Context, name string) (*SavedTimeline, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, keyframes, created_at, updated_at FROM timelines WHERE name = ?`,
		strings.TrimSpace(name))

	saved, err := scanTimeline(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrTimelineNotFound, name)
		}
		return nil, fmt.Errorf("querying timeline: %w", err)
	}
	return saved, nil
}

// List returns every saved timeline ordered by name.
func (r *SQLiteTimelineStore) List(ctx context.Context) ([]SavedTimeline, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, keyframes, created_at, updated_at FROM timelines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying timelines: %w", err)
	}
	defer rows.Close()

	var out []SavedTimeline
	for rows.Next() {
		saved, scanErr := scanTimeline(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning timeline: %w", scanErr)
		}
		out = append(out, *saved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timelines: %w", err)
	}
	return out, nil
}

// Delete removes a saved timeline by name.
func (r *SQLiteTimelineStore) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM timelines WHERE name = ?", strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("deleting timeline: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrTimelineNotFound, name)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTimeline(row rowScanner) (*SavedTimeline, error) {
	var saved SavedTimeline
	var keyframes, createdAt, updatedAt string
	if err := row.Scan(&saved.ID, &saved.Name, &keyframes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(keyframes), &saved.Timeline); err != nil {
		return nil, fmt.Errorf("unmarshalling keyframes: %w", err)
	}
	if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
		saved.CreatedAt = t
	}
	if t, parseErr := time.Parse(time.RFC3339, updatedAt); parseErr == nil {
		saved.UpdatedAt = t
	}
	return &saved, nil
}

// SaveTimeline saves the current timeline under name.
func (s *Studio) SaveTimeline(ctx context.Context, name string) (*SavedTimeline, error) {
	if s.store == nil {
		return nil, ErrNoTimelineStore
	}
	saved, err := s.store.Save(ctx, name, s.Timeline())
	if err != nil {
		return nil, err
	}
	s.logger.Info("timeline saved", "name", saved.Name, "keyframes", saved.Timeline.Len())
	return saved, nil
}

// LoadTimeline replaces the current timeline with the one saved under
// name. The load can be undone.
func (s *Studio) LoadTimeline(ctx context.Context, name string) (timeline.Timeline, error) {
	if s.store == nil {
		return s.Timeline(), ErrNoTimelineStore
	}
	saved, err := s.store.Load(ctx, name)
	if err != nil {
		return s.Timeline(), err
	}
	return s.SetTimeline("Load "+saved.Name, saved.Timeline)
}

// SavedTimelines lists the saved timelines.
func (s *Studio) SavedTimelines(ctx context.Context) ([]SavedTimeline, error) {
	if s.store == nil {
		return nil, ErrNoTimelineStore
	}
	return s.store.List(ctx)
}

// DeleteTimeline removes the timeline saved under name.
func (s *Studio) DeleteTimeline(ctx context.Context, name string) error {
	if s.store == nil {
		return ErrNoTimelineStore
	}
	return s.store.Delete(ctx, name)
}
