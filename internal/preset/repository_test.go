package preset

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-motion/internal/infrastructure/database"
	_ "github.com/nerrad567/gray-logic-motion/migrations"
)

func openTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{
		Path:        filepath.Join(t.TempDir(), "motion.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(ctx))
	return NewSQLiteRepository(db.DB)
}

func testRecord(id string, kind Kind, name string) *Record {
	now := time.Now().UTC().Truncate(time.Second)
	return &Record{
		ID:        id,
		Kind:      kind,
		Name:      name,
		Payload:   []byte(`{"name":"` + name + `"}`),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSQLiteRepository_CRUD(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()

	rec := testRecord("env-1", KindEnvironment, "Ember")
	require.NoError(t, repo.Create(ctx, rec))
	require.NoError(t, repo.Create(ctx, testRecord("seq-1", KindSequence, "Ember")))

	got, err := repo.List(ctx, KindEnvironment)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ember", got[0].Name)
	assert.JSONEq(t, `{"name":"Ember"}`, string(got[0].Payload))
	assert.True(t, rec.CreatedAt.Equal(got[0].CreatedAt))

	rec.Name = "Embers"
	rec.Payload = []byte(`{"name":"Embers"}`)
	require.NoError(t, repo.Update(ctx, rec))
	got, err = repo.List(ctx, KindEnvironment)
	require.NoError(t, err)
	assert.Equal(t, "Embers", got[0].Name)

	require.NoError(t, repo.Delete(ctx, KindEnvironment, "env-1"))
	assert.ErrorIs(t, repo.Delete(ctx, KindEnvironment, "env-1"), ErrPresetNotFound)
	assert.ErrorIs(t, repo.Update(ctx, rec), ErrPresetNotFound)
}

func TestSQLiteRepository_UniqueNamePerKind(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testRecord("a", KindEnvironment, "Fog")))
	err := repo.Create(ctx, testRecord("b", KindEnvironment, "FOG"))
	assert.ErrorIs(t, err, ErrPresetExists)

	err = repo.Create(ctx, testRecord("a", KindAnimation, "Other"))
	assert.ErrorIs(t, err, ErrPresetExists)
}

func TestSQLiteRepository_BacksRegistry(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()

	r := newTestRegistry(t, repo)
	e := testEnvironment("Ash Fall")
	e.Flicker = &FlickerRef{Preset: "Storm", Speed: 250}
	require.NoError(t, r.CreateEnvironment(ctx, e))

	reloaded := newTestRegistry(t, repo)
	got, err := reloaded.Environment(ctx, "ash fall")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	require.NotNil(t, got.Flicker)
	assert.Equal(t, 250*time.Millisecond, got.Flicker.SpeedDuration())
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testRecord("b", KindSequence, "beta")))
	require.NoError(t, repo.Create(ctx, testRecord("a", KindSequence, "Alpha")))
	assert.ErrorIs(t, repo.Create(ctx, testRecord("c", KindSequence, "ALPHA")), ErrPresetExists)

	got, err := repo.List(ctx, KindSequence)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Name)

	assert.ErrorIs(t, repo.Delete(ctx, KindEnvironment, "a"), ErrPresetNotFound)
	require.NoError(t, repo.Delete(ctx, KindSequence, "a"))
}
