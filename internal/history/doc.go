// Package history records completed organize runs and their ledgers in a
// local SQLite database for later inspection with `tidy history`.
package history
