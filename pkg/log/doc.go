/*
Package log provides structured logging for quadlet-forge using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper functions
for common logging patterns. Generation runs log which units they render,
where they install them, and which run they belong to.

# Configuration

The global logger is initialized once at process start:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: false,        // console output for terminals
	})

Levels: debug, info, warn, error. Output defaults to stderr so generated
unit text printed by --dry-run stays clean on stdout.

# Field Conventions

Child loggers carry the fields shared by a whole code path:

	logger := log.WithComponent("writer")
	logger.Info().Str("path", path).Msg("unit written")

	log.WithUnit("caddy.container").Warn().Msg("overwriting changed unit")
	log.WithUser("deploy").Info().Msg("building user units")
	log.WithRunID(runID).Info().Msg("generation complete")

JSON output:

	{"level":"info","component":"writer","time":"2026-03-09T10:30:00Z","message":"unit written"}

Console output:

	2026-03-09T10:30:00Z INF unit written component=writer

# Usage Examples

Package-level helpers cover one-off messages:

	log.Info("manifest loaded")
	log.Errorf("writing units failed", err)

Event chaining covers structured records:

	log.WithComponent("store").Debug().
		Str("bucket", "units").
		Int("records", n).
		Msg("pruned stale records")

# Thread Safety

zerolog loggers are immutable values; child loggers and concurrent writes
are safe without extra locking.
*/
package log
