package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-motion/internal/infrastructure/config"
)

// Client is the studio's connection to the snapshot bus. It publishes
// snapshots and commands, and delivers state reports from the game
// bridge. Handlers registered with Subscribe survive reconnects.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig
	topics Topics

	mu           sync.RWMutex
	handlers     map[string]subscription
	onConnect    func()
	onDisconnect func(err error)
	logger       Logger
}

// Logger is the subset of logging.Logger the client needs.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

type subscription struct {
	qos     byte
	handler MessageHandler
}

// MessageHandler receives a message. Handlers run on paho's goroutines
// and should not block; a returned error is logged.
type MessageHandler func(topic string, payload []byte) error

// Connect connects to the broker described by cfg. The retained status
// topic under topics is set to online, with an offline LWT for crashes.
// It fails if the first connection does not succeed within the timeout.
func Connect(cfg config.MQTTConfig, topics Topics) (*Client, error) {
	opts := buildClientOptions(cfg)
	configureLWT(opts, topics.SystemStatus(), cfg.Broker.ClientID)

	c := &Client{cfg: cfg, topics: topics}
	opts.SetOnConnectHandler(func(pahomqtt.Client) { c.connected() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.lost(err) })
	opts.SetReconnectingHandler(func(pahomqtt.Client, *pahomqtt.ClientOptions) {
		if logger := c.log(); logger != nil {
			logger.Warn("mqtt reconnecting", "client_id", cfg.Broker.ClientID)
		}
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return c, nil
}

// connected runs on every (re)connect: it restores the report handlers
// and marks the studio online.
func (c *Client) connected() {
	c.mu.RLock()
	subs := make(map[string]subscription, len(c.handlers))
	for topic, sub := range c.handlers {
		subs[topic] = sub
	}
	callback := c.onConnect
	logger := c.logger
	c.mu.RUnlock()

	for topic, sub := range subs {
		token := c.client.Subscribe(topic, sub.qos, c.wrapHandler(sub.handler))
		if token.WaitTimeout(defaultPublishTimeout) && token.Error() != nil && logger != nil {
			logger.Warn("mqtt resubscribe failed", "topic", topic, "error", token.Error())
		}
	}

	c.client.Publish(c.topics.SystemStatus(), byte(c.cfg.QoS), true, statusPayload(StatusOnline, c.cfg.Broker.ClientID, ""))

	if callback != nil {
		callback()
	}
}

func (c *Client) lost(err error) {
	c.mu.RLock()
	callback := c.onDisconnect
	c.mu.RUnlock()
	if callback != nil {
		callback(err)
	}
}

// Subscribe registers handler for topic, which may contain + and #
// wildcards. The handler is restored after a reconnect.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	switch {
	case topic == "":
		return ErrInvalidTopic
	case qos > maxQoS:
		return ErrInvalidQoS
	case handler == nil:
		return fmt.Errorf("%w: handler cannot be nil", ErrSubscribeFailed)
	case !c.IsConnected():
		return ErrNotConnected
	}

	token := c.client.Subscribe(topic, qos, c.wrapHandler(handler))
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	c.mu.Lock()
	if c.handlers == nil {
		c.handlers = make(map[string]subscription)
	}
	c.handlers[topic] = subscription{qos: qos, handler: handler}
	c.mu.Unlock()
	return nil
}

// Close publishes a graceful offline status and disconnects, letting
// pending publishes drain. Closing an unconnected client is not an error.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	if c.IsConnected() {
		token := c.client.Publish(c.topics.SystemStatus(), byte(c.cfg.QoS), true,
			statusPayload(StatusOffline, c.cfg.Broker.ClientID, "graceful_shutdown"))
		token.WaitTimeout(defaultPublishTimeout)
	}
	c.client.Disconnect(defaultDisconnectQuiesce)
	return nil
}

// HealthCheck reports ErrNotConnected while the broker is unreachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqtt health check: %w", err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (c *Client) IsConnected() bool {
	return c.client != nil && c.client.IsConnected()
}

// SetOnConnect sets a callback run after every connect and reconnect.
func (c *Client) SetOnConnect(callback func()) {
	c.mu.Lock()
	c.onConnect = callback
	c.mu.Unlock()
}

// SetOnDisconnect sets a callback run when the connection is lost.
func (c *Client) SetOnDisconnect(callback func(err error)) {
	c.mu.Lock()
	c.onDisconnect = callback
	c.mu.Unlock()
}

// SetLogger sets a logger for handler errors and reconnects.
func (c *Client) SetLogger(logger Logger) {
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
}

func (c *Client) log() Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// wrapHandler logs handler errors and recovers handler panics so a bad
// report cannot take down paho's delivery goroutine.
func (c *Client) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				if logger := c.log(); logger != nil {
					logger.Error("mqtt handler panic recovered", "topic", msg.Topic(), "panic", r)
				}
			}
		}()
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			if logger := c.log(); logger != nil {
				logger.Warn("mqtt handler returned error", "topic", msg.Topic(), "error", err)
			}
		}
	}
}

// Topics returns the topic builders the client was connected with.
func (c *Client) Topics() Topics { return c.topics }
