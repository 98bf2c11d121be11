// Package logging builds the slog loggers used across the pipeline.
//
// It provides a console handler for interactive use, a JSON handler for log
// files and automation, slog.Attr aliases so call sites stay terse, and
// context helpers that stamp talk/room/stage/run fields onto every record.
package logging
