// Package logging wraps log/slog with the console and JSON handlers the CLI
// uses, plus typed attribute helpers. Loggers are constructed explicitly and
// passed to collaborators; there is no package-level logger state, and any
// log files opened by New are released through the returned Closer.
package logging
