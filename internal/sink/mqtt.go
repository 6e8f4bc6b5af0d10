package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// Publisher is the subset of the MQTT client used by MQTTSink.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Format selects the MQTT payload encoding.
type Format string

const (
	// FormatJSON publishes one snapshot document per tick.
	FormatJSON Format = "json"

	// FormatConsole publishes one batch of console commands per tick.
	FormatConsole Format = "console"
)

// ParseFormat maps a config string to a Format, defaulting to JSON.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatConsole)) {
		return FormatConsole
	}
	return FormatJSON
}

// MQTTConfig configures an MQTTSink.
type MQTTConfig struct {
	SnapshotTopic string
	CommandTopic  string
	Format        Format
	QoS           byte
	Retained      bool
}

// SnapshotMessage is the JSON payload published per tick.
type SnapshotMessage struct {
	Origin    string            `json:"origin,omitempty"`
	Timestamp time.Time         `json:"ts"`
	Values    timeline.Snapshot `json:"values"`
}

// CommandMessage is the JSON payload of a console command batch.
type CommandMessage struct {
	Origin    string    `json:"origin,omitempty"`
	Timestamp time.Time `json:"ts"`
	Command   string    `json:"command"`
}

// MQTTSink publishes every snapshot as a single MQTT message.
type MQTTSink struct {
	pub       Publisher
	cfg       MQTTConfig
	formatter ConsoleFormatter
	now       func() time.Time
}

// NewMQTTSink creates a sink publishing through pub.
func NewMQTTSink(pub Publisher, cfg MQTTConfig) *MQTTSink {
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}
	return &MQTTSink{pub: pub, cfg: cfg, now: time.Now}
}

// Apply publishes snap. In console format the commands go to the command
// topic; in JSON format the snapshot goes to the snapshot topic.
func (s *MQTTSink) Apply(ctx context.Context, snap timeline.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.cfg.Format == FormatConsole {
		batch := s.formatter.FormatBatch(snap)
		if batch == "" {
			return nil
		}
		return s.publishCommand(ctx, batch)
	}

	payload, err := json.Marshal(SnapshotMessage{
		Origin:    Origin(ctx),
		Timestamp: s.now().UTC(),
		Values:    snap,
	})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.pub.Publish(s.cfg.SnapshotTopic, payload, s.cfg.QoS, s.cfg.Retained); err != nil {
		return fmt.Errorf("publishing snapshot: %w", err)
	}
	return nil
}

// Command publishes a raw console command.
func (s *MQTTSink) Command(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.publishCommand(ctx, line)
}

func (s *MQTTSink) publishCommand(ctx context.Context, line string) error {
	payload, err := json.Marshal(CommandMessage{
		Origin:    Origin(ctx),
		Timestamp: s.now().UTC(),
		Command:   line,
	})
	if err != nil {
		return fmt.Errorf("encoding command: %w", err)
	}
	// Commands are events, never retained.
	if err := s.pub.Publish(s.cfg.CommandTopic, payload, s.cfg.QoS, false); err != nil {
		return fmt.Errorf("publishing command: %w", err)
	}
	return nil
}
