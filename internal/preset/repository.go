package preset

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Repository defines the interface for preset persistence.
// Presets are stored as JSON documents; the Registry encodes and decodes
// them, so implementations only move records.
type Repository interface {
	List(ctx context.Context, kind Kind) ([]Record, error)
	Create(ctx context.Context, rec *Record) error
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, kind Kind, id string) error
}

// recordColumns is the SELECT column list for preset queries.
const recordColumns = `id, kind, name, payload, created_at, updated_at`

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// List retrieves all presets of kind ordered by name.
func (r *SQLiteRepository) List(ctx context.Context, kind Kind) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM presets WHERE kind = ? ORDER BY name COLLATE NOCASE`

	rows, err := r.db.QueryContext(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("querying presets: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning preset: %w", scanErr)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating presets: %w", err)
	}
	return records, nil
}

// Create inserts a new preset.
func (r *SQLiteRepository) Create(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO presets (id, kind, name, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		string(rec.Kind),
		rec.Name,
		string(rec.Payload),
		rec.CreatedAt.Format(time.RFC3339),
		rec.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrPresetExists
		}
		return fmt.Errorf("inserting preset: %w", err)
	}
	return nil
}

// Update replaces the name and payload of an existing preset.
func (r *SQLiteRepository) Update(ctx context.Context, rec *Record) error {
	query := `
		UPDATE presets SET name = ?, payload = ?, updated_at = ?
		WHERE id = ? AND kind = ?`

	result, err := r.db.ExecContext(ctx, query,
		rec.Name,
		string(rec.Payload),
		rec.UpdatedAt.Format(time.RFC3339),
		rec.ID,
		string(rec.Kind),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrPresetExists
		}
		return fmt.Errorf("updating preset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPresetNotFound
	}
	return nil
}

// Delete removes a preset by kind and ID.
func (r *SQLiteRepository) Delete(ctx context.Context, kind Kind, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM presets WHERE id = ? AND kind = ?", id, string(kind))
	if err != nil {
		return fmt.Errorf("deleting preset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPresetNotFound
	}
	return nil
}

func scanRecord(rows *sql.Rows) (*Record, error) {
	var rec Record
	var kind, payload, createdAt, updatedAt string

	if err := rows.Scan(&rec.ID, &kind, &rec.Name, &payload, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rec.Kind = Kind(kind)
	rec.Payload = []byte(payload)

	if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
		rec.CreatedAt = t
	}
	if t, parseErr := time.Parse(time.RFC3339, updatedAt); parseErr == nil {
		rec.UpdatedAt = t
	}
	return &rec, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

// MemoryRepository keeps presets in memory. It backs the CLI when no
// database is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]Record)}
}

// List returns the records of kind ordered by name.
func (m *MemoryRepository) List(_ context.Context, kind Kind) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Record
	for _, rec := range m.records {
		if rec.Kind == kind {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Create stores rec, rejecting a duplicate ID or a duplicate name within
// its kind.
func (m *MemoryRepository) Create(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[rec.ID]; ok {
		return ErrPresetExists
	}
	if m.nameTaken(rec) {
		return ErrPresetExists
	}
	m.records[rec.ID] = cloneRecord(*rec)
	return nil
}

// Update replaces an existing record.
func (m *MemoryRepository) Update(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.records[rec.ID]
	if !ok || old.Kind != rec.Kind {
		return ErrPresetNotFound
	}
	if m.nameTaken(rec) {
		return ErrPresetExists
	}
	updated := cloneRecord(*rec)
	updated.CreatedAt = old.CreatedAt
	m.records[rec.ID] = updated
	return nil
}

// Delete removes a record.
func (m *MemoryRepository) Delete(_ context.Context, kind Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok || rec.Kind != kind {
		return ErrPresetNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryRepository) nameTaken(rec *Record) bool {
	for id, other := range m.records {
		if id != rec.ID && other.Kind == rec.Kind && strings.EqualFold(other.Name, rec.Name) {
			return true
		}
	}
	return false
}

func cloneRecord(rec Record) Record {
	rec.Payload = append([]byte(nil), rec.Payload...)
	return rec
}

