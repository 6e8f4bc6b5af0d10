package database

import (
	"context"
	"testing"
	"testing/fstest"
)

func useMigrations(t *testing.T, files fstest.MapFS) {
	t.Helper()
	origFS, origDir := MigrationsFS, MigrationsDir
	MigrationsFS, MigrationsDir = files, "."
	t.Cleanup(func() {
		MigrationsFS, MigrationsDir = origFS, origDir
	})
}

var testMigrations = fstest.MapFS{
	"20260101_000000_presets.up.sql":   {Data: []byte("CREATE TABLE test_presets (id TEXT PRIMARY KEY);")},
	"20260101_000000_presets.down.sql": {Data: []byte("DROP TABLE test_presets;")},
	"20260102_000000_timelines.up.sql": {Data: []byte("CREATE TABLE test_timelines (id TEXT PRIMARY KEY);")},
	"README.md":                        {Data: []byte("ignored")},
}

func TestMigrate(t *testing.T) {
	useMigrations(t, testMigrations)
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	for _, table := range []string{"test_presets", "test_timelines"} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 2 || len(pending) != 0 {
		t.Errorf("applied=%d pending=%d, want 2/0", len(applied), len(pending))
	}

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrateDown(t *testing.T) {
	useMigrations(t, fstest.MapFS{
		"20260101_000000_presets.up.sql":   testMigrations["20260101_000000_presets.up.sql"],
		"20260101_000000_presets.down.sql": testMigrations["20260101_000000_presets.down.sql"],
	})
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.MigrateDown(ctx); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='test_presets'",
	).Scan(&count); err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 0 {
		t.Error("test_presets should be dropped after MigrateDown")
	}

	// Nothing left to roll back.
	if err := db.MigrateDown(ctx); err != nil {
		t.Errorf("MigrateDown() on empty history error = %v", err)
	}
}

func TestMigrate_FailureRollsBack(t *testing.T) {
	useMigrations(t, fstest.MapFS{
		"20260101_000000_ok.up.sql":  {Data: []byte("CREATE TABLE ok_table (id INTEGER);")},
		"20260102_000000_bad.up.sql": {Data: []byte("CREATE TABLE broken (")},
	})
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err == nil {
		t.Fatal("Migrate() should fail on broken SQL")
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 1 || len(pending) != 1 {
		t.Errorf("applied=%d pending=%d, want 1/1", len(applied), len(pending))
	}
}

func TestMigrate_NoFilesystem(t *testing.T) {
	origFS := MigrationsFS
	MigrationsFS = nil
	t.Cleanup(func() { MigrationsFS = origFS })

	db := openTestDB(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Errorf("Migrate() without migrations error = %v", err)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		file        string
		wantVersion string
		wantName    string
		wantUp      bool
		wantOK      bool
	}{
		{"20260118_120000_initial_schema.up.sql", "20260118_120000", "initial_schema", true, true},
		{"20260118_120000_initial_schema.down.sql", "20260118_120000", "initial_schema", false, true},
		{"20260118_120000.up.sql", "20260118_120000", "20260118_120000", true, true},
		{"notes.sql", "", "", false, false},
		{"20260118_120000_x.up.txt", "", "", false, false},
		{"single.up.sql", "", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			version, name, up, ok := parseMigrationFilename(tt.file)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion || up != tt.wantUp {
				t.Errorf("got (%q, %v), want (%q, %v)", version, up, tt.wantVersion, tt.wantUp)
			}
			if tt.wantUp && name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
		})
	}
}
