// Package logging provides opt-in structured debug logging for setupcheck.
// When --debug is set (or SETUPCHECK_LOG_LEVEL is configured), JSON log
// records are written to stderr so they never interleave with the
// verification report on stdout.
//
// By default the logger discards everything.
package logging
