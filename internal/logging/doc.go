// Package logging constructs the process-wide slog logger.
//
// Two output formats are supported: a human-oriented console format with
// ANSI colour when stderr is a terminal, and line-delimited JSON for log
// shipping. Attr helpers re-export the slog constructors so call sites can
// stay on one import.
package logging
