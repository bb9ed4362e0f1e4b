// Package sqlite implements the HistoryStore port on SQLite via the pure-Go
// modernc.org/sqlite driver. The database is opened in WAL mode so the
// watcher's concurrent workers can record results without blocking reads.
package sqlite
