// Package sqlitec provides a lightweight wrapper for the SQLite C library.
// It allows direct interaction with SQLite's low-level API while owning the
// raw handles: every connection is closed and every prepared statement is
// finalized exactly once, and calls made out of lifecycle order are rejected
// before they reach the engine.
//
// The package links against the system SQLite library (libsqlite3).
//
//   - https://www.sqlite.org/cintro.html
//   - https://www.sqlite.org/c3ref/intro.html
package sqlitec
