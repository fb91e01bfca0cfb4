package mqtt

import (
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/angristan/tradfri-tui/internal/config"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second
	disconnectQuiesce     = 250 // milliseconds

	maxQoS = 2

	statusOnline  = "online"
	statusOffline = "offline"
)

// Client wraps a paho client with connection tracking and a status topic
type Client struct {
	client pahomqtt.Client
	topics Topics

	connected bool
	connMu    sync.RWMutex
}

// Connect establishes a connection to the broker.
// The status topic is set to online, with a last will of offline.
func Connect(cfg config.MQTTConfig) (*Client, error) {
	c := &Client{topics: Topics{Root: cfg.TopicRoot}}

	opts := pahomqtt.NewClientOptions().AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetWill(c.topics.Status(), statusOffline, 1, true)

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.setConnected(true)
		log.Info().Str("broker", cfg.Broker).Msg("Connected to MQTT broker")
		if err := c.Publish(c.topics.Status(), []byte(statusOnline), 1, true); err != nil {
			log.Warn().Err(err).Msg("Failed to publish online status")
		}
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.setConnected(false)
		log.Warn().Err(err).Msg("Lost connection to MQTT broker")
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The connect handler runs asynchronously
	c.setConnected(true)
	return c, nil
}

func (c *Client) setConnected(v bool) {
	c.connMu.Lock()
	c.connected = v
	c.connMu.Unlock()
}

// IsConnected reports whether the broker connection is up
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected
}

// Publish sends a message and waits for the broker to accept it
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// Close publishes the offline status and disconnects
func (c *Client) Close() {
	if c.client == nil {
		return
	}
	if c.IsConnected() {
		if err := c.Publish(c.topics.Status(), []byte(statusOffline), 1, true); err != nil {
			log.Warn().Err(err).Msg("Failed to publish offline status")
		}
	}
	c.client.Disconnect(disconnectQuiesce)
	c.setConnected(false)
}
