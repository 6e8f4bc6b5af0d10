// Package database provides SQLite connectivity for Gray Motion.
//
// The database stores user presets (environments, animations, sequences)
// and saved timelines. Playback never touches it: workers only see
// in-memory timelines and snapshots.
//
// Usage:
//
//	db, err := database.Open(ctx, database.FromConfig(cfg.Database))
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are additive: new columns must be nullable or carry a default,
// and every .up.sql file should ship with a .down.sql.
package database
