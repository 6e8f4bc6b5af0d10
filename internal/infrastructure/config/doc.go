// Package config handles loading and validating Gray Motion configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with GRAYMOTION_* environment variables
//   - Validation of required fields and motion timing bounds
//
// The motion section controls the animation workers:
//
//	motion:
//	  tick_rate_hz: 60
//	  grace_period_ms: 200
//	  poll_interval_ms: 100
//	  default_transition_ms: 4000
//	  first_environment_as_transition: true
//	  flicker_fade_steps: 20
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	tick := cfg.Motion.TickInterval()
package config
