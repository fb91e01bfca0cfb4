package config

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// GatewayConfig stores connection details for a TRÅDFRI gateway
type GatewayConfig struct {
	// IP address or hostname of the gateway
	Host string `yaml:"host"`
	// API user registered during authentication
	APIUser string `yaml:"api_user"`
	// Pre-shared key issued for the API user
	APIKey string `yaml:"api_key"`
}

// CoAPConfig selects how requests reach the gateway
type CoAPConfig struct {
	// Transport is "exec" (external coap-client) or "dtls" (in-process)
	Transport string `yaml:"transport"`
	// Binary is the coap-client executable used by the exec transport
	Binary string `yaml:"binary"`
}

// TimeoutConfig bounds each kind of request
type TimeoutConfig struct {
	Read  Duration `yaml:"read"`
	Write Duration `yaml:"write"`
	Auth  Duration `yaml:"auth"`
}

// RetryConfig controls retries of failed transport requests
type RetryConfig struct {
	Attempts   int      `yaml:"attempts"` // Total tries, 1 = no retry (default: 1)
	MinBackoff Duration `yaml:"min_backoff"`
	MaxBackoff Duration `yaml:"max_backoff"`
	Multiplier float64  `yaml:"multiplier"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// MQTTConfig contains the state publisher settings
type MQTTConfig struct {
	Broker    string   `yaml:"broker"`
	ClientID  string   `yaml:"client_id"`
	TopicRoot string   `yaml:"topic_root"`
	Username  string   `yaml:"username,omitempty"`
	Password  string   `yaml:"password,omitempty"`
	Interval  Duration `yaml:"interval"` // Poll interval between snapshots
	QoS       byte     `yaml:"qos"`
	Retain    bool     `yaml:"retain"`
}

// Config stores all application configuration
type Config struct {
	// List of configured gateways
	Gateways []GatewayConfig `yaml:"gateways"`
	// Host of the last used gateway
	LastHost string `yaml:"last_host,omitempty"`

	CoAP           CoAPConfig    `yaml:"coap"`
	Timeouts       TimeoutConfig `yaml:"timeouts"`
	RequestSpacing *Duration     `yaml:"request_spacing,omitempty"` // nil = default, never below the default
	Retry          RetryConfig   `yaml:"retry"`
	Log            LogConfig     `yaml:"log"`
	MQTT           MQTTConfig    `yaml:"mqtt"`
}

// Transport names
const (
	TransportExec = "exec"
	TransportDTLS = "dtls"
)

// Defaults
const (
	DefaultBinary         = "coap-client"
	DefaultReadTimeout    = 5 * time.Second
	DefaultWriteTimeout   = 10 * time.Second
	DefaultAuthTimeout    = 10 * time.Second
	DefaultRequestSpacing = 500 * time.Millisecond
	DefaultMQTTBroker     = "tcp://localhost:1883"
	DefaultMQTTClientID   = "tradfri"
	DefaultMQTTTopicRoot  = "tradfri"
	DefaultMQTTInterval   = 30 * time.Second
)

var (
	ErrGatewayNotFound  = errors.New("gateway not found")
	ErrNoGateways       = errors.New("no gateways configured")
	ErrUnknownTransport = errors.New("unknown coap transport")
)

// Duration is a wrapper around time.Duration for YAML (un)marshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// configDir returns the configuration directory path
func configDir() (string, error) {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "tradfri"), nil
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tradfri"), nil
}

// Path returns the full path to the default config file
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration from the default location
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from path.
// A missing file yields an empty configuration with defaults applied.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		// Expand environment variables
		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills every unset field
func (c *Config) applyDefaults() {
	if c.CoAP.Transport == "" {
		c.CoAP.Transport = TransportExec
	}
	if c.CoAP.Binary == "" {
		c.CoAP.Binary = DefaultBinary
	}

	if c.Timeouts.Read == 0 {
		c.Timeouts.Read = Duration(DefaultReadTimeout)
	}
	if c.Timeouts.Write == 0 {
		c.Timeouts.Write = Duration(DefaultWriteTimeout)
	}
	if c.Timeouts.Auth == 0 {
		c.Timeouts.Auth = Duration(DefaultAuthTimeout)
	}
	if c.RequestSpacing == nil {
		spacing := Duration(DefaultRequestSpacing)
		c.RequestSpacing = &spacing
	}

	if c.Retry.Attempts <= 0 {
		c.Retry.Attempts = 1
	}
	if c.Retry.MinBackoff == 0 {
		c.Retry.MinBackoff = Duration(500 * time.Millisecond)
	}
	if c.Retry.MaxBackoff == 0 {
		c.Retry.MaxBackoff = Duration(5 * time.Second)
	}
	if c.Retry.Multiplier == 0 {
		c.Retry.Multiplier = 2.0
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.MQTT.Broker == "" {
		c.MQTT.Broker = DefaultMQTTBroker
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = DefaultMQTTClientID
	}
	if c.MQTT.TopicRoot == "" {
		c.MQTT.TopicRoot = DefaultMQTTTopicRoot
	}
	if c.MQTT.Interval == 0 {
		c.MQTT.Interval = Duration(DefaultMQTTInterval)
	}
}

// Validate checks settings that have a closed set of values
func (c *Config) Validate() error {
	switch c.CoAP.Transport {
	case TransportExec, TransportDTLS:
	default:
		return ErrUnknownTransport
	}
	if c.MQTT.QoS > 2 {
		return errors.New("mqtt qos must be 0, 1 or 2")
	}
	return nil
}

// Spacing returns the configured request spacing.
// The gateway drops back-to-back requests, so values below
// DefaultRequestSpacing are raised to it.
func (c *Config) Spacing() time.Duration {
	if c.RequestSpacing == nil {
		return DefaultRequestSpacing
	}
	return max(c.RequestSpacing.Duration(), DefaultRequestSpacing)
}

// Save writes the configuration to the default location
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the configuration to path, readable only by the owner
func (c *Config) SaveFile(path string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// AddGateway adds or updates a gateway configuration
func (c *Config) AddGateway(gateway GatewayConfig) {
	// Check if gateway already exists and update it
	for i, g := range c.Gateways {
		if g.Host == gateway.Host {
			c.Gateways[i] = gateway
			return
		}
	}

	// Add new gateway
	c.Gateways = append(c.Gateways, gateway)
}

// GetGateway returns the gateway configuration by host
func (c *Config) GetGateway(host string) (*GatewayConfig, error) {
	for i := range c.Gateways {
		if c.Gateways[i].Host == host {
			return &c.Gateways[i], nil
		}
	}
	return nil, ErrGatewayNotFound
}

// GetLastGateway returns the last used gateway or the first available
func (c *Config) GetLastGateway() (*GatewayConfig, error) {
	if len(c.Gateways) == 0 {
		return nil, ErrNoGateways
	}

	// Try to get the last used gateway
	if c.LastHost != "" {
		gateway, err := c.GetGateway(c.LastHost)
		if err == nil {
			return gateway, nil
		}
	}

	// Fall back to first gateway
	return &c.Gateways[0], nil
}

// RemoveGateway removes a gateway by host
func (c *Config) RemoveGateway(host string) {
	for i, g := range c.Gateways {
		if g.Host == host {
			c.Gateways = append(c.Gateways[:i], c.Gateways[i+1:]...)
			return
		}
	}
}

// HasGateways returns true if at least one gateway is configured
func (c *Config) HasGateways() bool {
	return len(c.Gateways) > 0
}

var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
