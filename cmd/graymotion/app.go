package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/nerrad567/gray-logic-motion/internal/api"
	"github.com/nerrad567/gray-logic-motion/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-motion/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-motion/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-motion/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-motion/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-motion/internal/preset"
	"github.com/nerrad567/gray-logic-motion/internal/sequence"
	"github.com/nerrad567/gray-logic-motion/internal/sink"
	"github.com/nerrad567/gray-logic-motion/internal/studio"
	"github.com/nerrad567/gray-logic-motion/internal/timeline"
	_ "github.com/nerrad567/gray-logic-motion/migrations"
)

// app holds the wired components shared by every command.
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	db      *database.DB
	mqtt    *mqtt.Client
	influx  *influxdb.Client
	emitter *sink.Emitter
	studio  *studio.Studio

	stepHooks []studio.StepFunc
	closers   []func()
}

// newApp opens the database, connects the optional MQTT and InfluxDB
// clients and builds the studio on top of them. Close releases everything
// in reverse order, also after a partial failure.
func newApp(ctx context.Context, cfg *config.Config, log *logging.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.db, err = database.Open(ctx, database.FromConfig(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.onClose(func() {
		log.Info("closing database")
		if closeErr := a.db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	})
	if migrateErr := a.db.Migrate(ctx); migrateErr != nil {
		return nil, fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	presets := preset.NewRegistry(preset.NewSQLiteRepository(a.db.DB))
	presets.SetLogger(log.Component("presets"))
	if refreshErr := presets.RefreshCache(ctx); refreshErr != nil {
		return nil, fmt.Errorf("loading presets: %w", refreshErr)
	}

	if cfg.MQTT.Enabled {
		if err = a.connectMQTT(); err != nil {
			return nil, err
		}
	} else {
		log.Info("MQTT disabled, snapshots are logged only")
	}

	if cfg.InfluxDB.Enabled {
		if err = a.connectInfluxDB(); err != nil {
			return nil, err
		}
	} else {
		log.Info("InfluxDB disabled")
	}

	a.emitter = sink.NewEmitter(a.buildSink(), sink.NewStateTracker(nil))
	a.emitter.SetLogger(log.Component("emitter"))

	if a.mqtt != nil {
		report := a.mqtt.Topics().StateReport()
		if subErr := a.mqtt.Subscribe(report, byte(cfg.MQTT.QoS), a.emitter.Tracker().HandleReport); subErr != nil {
			return nil, fmt.Errorf("subscribing to %s: %w", report, subErr)
		}
	}

	a.studio = studio.New(a.emitter, presets, studio.FromConfig(cfg.Motion),
		studio.WithTimelineStore(studio.NewSQLiteTimelineStore(a.db.DB)))
	a.studio.SetLogger(log.Component("studio"))
	a.studio.SetStepFunc(a.runStepHooks)
	a.onClose(a.studio.StopAll)

	if a.influx != nil {
		influx := a.influx
		a.addStepHook(func(script string, index int, step sequence.Step) {
			influx.WriteEvent("sequence_step", script, fmt.Sprintf("%d: %s", index, step))
		})
	}

	return a, nil
}

func (a *app) connectMQTT() error {
	topics := mqtt.NewTopics(a.cfg.Sink.TopicPrefix)
	client, err := mqtt.Connect(a.cfg.MQTT, topics)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	a.mqtt = client
	a.onClose(func() {
		a.log.Info("disconnecting from MQTT")
		if closeErr := client.Close(); closeErr != nil {
			a.log.Error("error closing MQTT", "error", closeErr)
		}
	})

	client.SetLogger(a.log.Component("mqtt"))
	client.SetOnConnect(func() {
		a.log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		a.log.Warn("MQTT disconnected", "error", err)
	})

	a.log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", a.cfg.MQTT.Broker.Host, a.cfg.MQTT.Broker.Port),
		"client_id", a.cfg.MQTT.Broker.ClientID,
		"prefix", topics.Prefix(),
	)
	return nil
}

func (a *app) connectInfluxDB() error {
	client, err := influxdb.Connect(a.cfg.InfluxDB, a.cfg.Site.ID)
	if err != nil {
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	a.influx = client
	a.onClose(func() {
		a.log.Info("closing InfluxDB connection")
		if closeErr := client.Close(); closeErr != nil {
			a.log.Error("error closing InfluxDB", "error", closeErr)
		}
	})

	client.SetOnError(func(err error) {
		a.log.Error("InfluxDB write error", "error", err)
	})
	a.log.Info("InfluxDB connected",
		"url", a.cfg.InfluxDB.URL,
		"org", a.cfg.InfluxDB.Org,
		"bucket", a.cfg.InfluxDB.Bucket,
	)
	return nil
}

// buildSink publishes to MQTT when connected, else logs, and records
// every snapshot to InfluxDB when enabled.
func (a *app) buildSink() sink.Sink {
	var out sink.Sink = &logSink{log: a.log.Component("sink")}
	if a.mqtt != nil {
		topics := a.mqtt.Topics()
		out = sink.NewMQTTSink(a.mqtt, sink.MQTTConfig{
			SnapshotTopic: topics.StateSnapshot(),
			CommandTopic:  topics.Command(),
			Format:        sink.ParseFormat(a.cfg.Sink.Format),
			QoS:           byte(a.cfg.MQTT.QoS),
			Retained:      a.cfg.Sink.Retained,
		})
	}
	if a.influx != nil {
		out = sink.NewRecorder(out, a.influx)
	}
	return out
}

// checks returns the dependencies /health reports on.
func (a *app) checks() map[string]api.HealthChecker {
	checks := map[string]api.HealthChecker{"database": a.db}
	if a.mqtt != nil {
		checks["mqtt"] = a.mqtt
	}
	if a.influx != nil {
		checks["influxdb"] = a.influx
	}
	return checks
}

// addStepHook registers fn for every sequence step. Hooks must be added
// before any sequence runs.
func (a *app) addStepHook(fn studio.StepFunc) {
	a.stepHooks = append(a.stepHooks, fn)
}

func (a *app) runStepHooks(script string, index int, step sequence.Step) {
	for _, fn := range a.stepHooks {
		fn(script, index, step)
	}
}

func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// logSink writes snapshots and commands to the log when no broker is
// configured.
type logSink struct {
	log *logging.Logger
}

func (s *logSink) Apply(ctx context.Context, snap timeline.Snapshot) error {
	keys := snap.Keys()
	parts := make([]string, 0, len(keys))
	for _, id := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", id, snap[id]))
	}
	s.log.Debug("snapshot", "origin", sink.Origin(ctx), "values", strings.Join(parts, " "))
	return nil
}

func (s *logSink) Command(ctx context.Context, line string) error {
	s.log.Info("command", "origin", sink.Origin(ctx), "line", line)
	return nil
}
