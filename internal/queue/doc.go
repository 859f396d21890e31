// Package queue persists background transcription and rough-cut jobs in
// SQLite. The database is disposable: every job can be reconstructed by
// rescanning the project tree, so schema changes just bump the version
// and ask the user to delete the file.
package queue
