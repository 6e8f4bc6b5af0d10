package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/infrastructure/config"
)

// testConfig points at a local Mosquitto broker. Tests that need one skip
// when it is not running.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "graymotion-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func connectOrSkip(t *testing.T, clientID string) *Client {
	t.Helper()
	if testing.Short() {
		t.Skip("broker tests disabled in short mode")
	}
	cfg := testConfig()
	cfg.Broker.ClientID = clientID
	client, err := Connect(cfg, NewTopics("graymotion-test"))
	if err != nil {
		t.Skipf("no MQTT broker available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// =============================================================================
// Topics
// =============================================================================

func TestTopics(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"snapshot", NewTopics("graymotion").StateSnapshot(), "graymotion/state/snapshot"},
		{"report", NewTopics("graymotion").StateReport(), "graymotion/state/report"},
		{"command", NewTopics("graymotion").Command(), "graymotion/command"},
		{"status", NewTopics("graymotion").SystemStatus(), "graymotion/system/status"},
		{"all", NewTopics("graymotion").All(), "graymotion/#"},
		{"custom prefix", NewTopics("studio/left").Command(), "studio/left/command"},
		{"slashes trimmed", NewTopics("/studio/").Command(), "studio/command"},
		{"empty prefix", NewTopics("  ").Command(), "graymotion/command"},
		{"zero value", Topics{}.StateSnapshot(), "graymotion/state/snapshot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("topic = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

// =============================================================================
// Options
// =============================================================================

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "studio"
	cfg.Auth.Password = "secret"

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://127.0.0.1:1883" {
		t.Errorf("Servers = %v, want [tcp://127.0.0.1:1883]", opts.Servers)
	}
	if opts.ClientID != "graymotion-test" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "studio" || opts.Password != "secret" {
		t.Error("credentials not applied")
	}
	if !opts.CleanSession || !opts.AutoReconnect {
		t.Error("expected clean session with auto-reconnect")
	}
	if opts.MaxReconnectInterval != 5*time.Second {
		t.Errorf("MaxReconnectInterval = %v, want 5s", opts.MaxReconnectInterval)
	}
	if opts.TLSConfig != nil {
		t.Error("TLS configured without broker.tls")
	}
}

func TestBuildClientOptionsTLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883

	opts := buildClientOptions(cfg)

	if opts.Servers[0].String() != "ssl://127.0.0.1:8883" {
		t.Errorf("Servers[0] = %v, want ssl://127.0.0.1:8883", opts.Servers[0])
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Error("expected TLS 1.2 minimum")
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testConfig())
	configureLWT(opts, "graymotion/system/status", "studio-1")

	if !opts.WillEnabled || !opts.WillRetained || opts.WillQos != 1 {
		t.Fatal("LWT must be enabled, retained, QoS 1")
	}
	if opts.WillTopic != "graymotion/system/status" {
		t.Errorf("WillTopic = %q", opts.WillTopic)
	}

	var msg StatusMessage
	if err := json.Unmarshal(opts.WillPayload, &msg); err != nil {
		t.Fatalf("LWT payload is not JSON: %v", err)
	}
	if msg.Status != StatusOffline || msg.ClientID != "studio-1" || msg.Reason != "unexpected_disconnect" {
		t.Errorf("LWT payload = %+v", msg)
	}
}

func TestStatusPayload(t *testing.T) {
	var msg StatusMessage
	if err := json.Unmarshal(statusPayload(StatusOnline, "studio-1", ""), &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Status != StatusOnline || msg.Reason != "" {
		t.Errorf("payload = %+v", msg)
	}
	if _, err := time.Parse(time.RFC3339, msg.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339", msg.Timestamp)
	}
}

// =============================================================================
// Disconnected client
// =============================================================================

func TestCloseNil(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on unconnected client = %v", err)
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{}

	tests := []struct {
		name    string
		topic   string
		qos     byte
		payload []byte
		want    error
	}{
		{"empty topic", "", 0, nil, ErrInvalidTopic},
		{"bad qos", "t", 3, nil, ErrInvalidQoS},
		{"too large", "t", 0, make([]byte, maxPayloadSize+1), ErrPublishFailed},
		{"disconnected", "t", 1, []byte("{}"), ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.want) {
				t.Errorf("Publish() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	c := &Client{}
	noop := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 0, noop); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: %v", err)
	}
	if err := c.Subscribe("t", 3, noop); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("bad qos: %v", err)
	}
	if err := c.Subscribe("t", 0, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler: %v", err)
	}
	if err := c.Subscribe("t", 0, noop); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected: %v", err)
	}
	if len(c.handlers) != 0 {
		t.Error("failed subscriptions must not be tracked")
	}
}

func TestLostRunsDisconnectCallback(t *testing.T) {
	c := &Client{}
	if c.IsConnected() {
		t.Fatal("zero client reports connected")
	}
	c.lost(errors.New("no callback set"))

	var got error
	c.SetOnDisconnect(func(err error) { got = err })
	want := errors.New("broker went away")
	c.lost(want)
	if got != want {
		t.Errorf("disconnect callback got %v, want %v", got, want)
	}
}

func TestHealthCheckDisconnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() = %v, want ErrNotConnected", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck(cancelled) = %v, want context.Canceled", err)
	}
}

type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *mockLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *mockLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func TestWrapHandlerRecoversAndLogs(t *testing.T) {
	logger := &mockLogger{}
	c := &Client{}
	c.SetLogger(logger)

	c.wrapHandler(func(string, []byte) error { return errors.New("bad report") })(nil, fakeMessage{topic: "t"})
	c.wrapHandler(func(string, []byte) error { panic("boom") })(nil, fakeMessage{topic: "t"})

	logger.mu.Lock()
	defer logger.mu.Unlock()
	if len(logger.warns) != 2 {
		t.Fatalf("logged %v, want a handler error and a recovered panic", logger.warns)
	}
}

// =============================================================================
// Broker round trip
// =============================================================================

func TestPublishSubscribeRoundtrip(t *testing.T) {
	client := connectOrSkip(t, "graymotion-test-roundtrip")
	topic := client.Topics().StateReport()

	received := make(chan []byte, 1)
	err := client.Subscribe(topic, 1, func(_ string, payload []byte) error {
		received <- payload
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	client.mu.RLock()
	_, tracked := client.handlers[topic]
	client.mu.RUnlock()
	if !tracked {
		t.Error("subscription not tracked for reconnect")
	}

	if err := client.Publish(topic, []byte(`{"values":{"fov":90}}`), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case payload := <-received:
		if string(payload) != `{"values":{"fov":90}}` {
			t.Errorf("payload = %s", payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v", err)
	}
}
