// Package sqlite keeps saved credentials in a pure Go SQLite database
// (modernc.org/sqlite), one row per host, at ~/.coding/data/coding.db.
//
// The schema comes from the migrations package. Applied versions are
// tracked in schema_migrations and each step runs in its own transaction.
// The database file is readable by its owner only.
package sqlite
