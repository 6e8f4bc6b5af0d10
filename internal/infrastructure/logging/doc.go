// Package logging provides structured logging for Gray Motion.
//
// This package wraps Go's standard log/slog package so every component logs
// with the same handler, level and default fields.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	sched := animation.NewScheduler(emitter, animation.WithLogger(logger.Component("animation")))
//
// Animation workers log at debug level per task lifecycle event and never
// per tick.
package logging
