// Package logging builds the slog logger used across courier.
//
// Two formats are supported: a compact console format for interactive and
// CI log streams, and JSON for log collectors. Components attach a
// "component" attribute which the console format folds into the line
// prefix.
package logging
