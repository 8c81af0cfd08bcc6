// Package logging provides structured logging for the autorel CLI built on
// log/slog.
//
// The default text handler is optimized for terminals: it colorizes output
// when the writer is a TTY (respecting NO_COLOR and TERM=dumb) and masks
// attribute values that look like access tokens before they reach the log.
// A JSON handler is available for machine consumption, and MultiHandler tees
// records to several handlers at once (terminal plus log file).
//
// Loggers travel through the pipeline on the context via NewContext and
// FromContext. Tests use ForTest to route log output through testing.T.
package logging
