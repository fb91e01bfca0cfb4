package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/angristan/tradfri-tui/internal/api"
	"github.com/angristan/tradfri-tui/internal/config"
	"github.com/angristan/tradfri-tui/internal/models"
	"github.com/angristan/tradfri-tui/internal/mqtt"
	"github.com/angristan/tradfri-tui/internal/tui"
)

// usageError is returned when a command gets the wrong arguments
type usageError string

func (e usageError) Error() string { return string(e) }

type cli struct {
	cfg    *config.Config
	opts   options
	stdout io.Writer

	// client overrides the configured gateway, used by tests
	client api.GatewayClient
}

func (c *cli) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "status":
		return c.status(ctx)
	case "power":
		return c.control(ctx, args, "power <id> on|off", c.power)
	case "brightness":
		return c.control(ctx, args, "brightness <id> <1-100>", c.brightness)
	case "color":
		return c.control(ctx, args, "color <id> <name>", c.color)
	case "group-power":
		return c.control(ctx, args, "group-power <id> on|off", c.groupPower)
	case "group-brightness":
		return c.control(ctx, args, "group-brightness <id> <1-100>", c.groupBrightness)
	case "auth":
		return c.auth(ctx, args)
	case "discover":
		return c.discover(ctx)
	case "colors":
		renderPalette(c.stdout)
		return nil
	case "mqtt":
		return c.publish(ctx)
	case "tui":
		// Log lines would corrupt the alternate screen
		zerolog.SetGlobalLevel(zerolog.Disabled)
		return tui.Run(c.cfg, c.opts.demo)
	}
	return usageError(fmt.Sprintf("unknown command %q", command))
}

// gateway returns the client for the selected gateway
func (c *cli) gateway() (api.GatewayClient, error) {
	if c.client != nil {
		return c.client, nil
	}
	if c.opts.demo {
		c.client = api.NewDemoGateway()
		return c.client, nil
	}

	var gw *config.GatewayConfig
	var err error
	if c.opts.host != "" {
		gw, err = c.cfg.GetGateway(c.opts.host)
	} else {
		gw, err = c.cfg.GetLastGateway()
	}
	if err != nil {
		return nil, fmt.Errorf("%w (run 'tradfri auth <host> <security-code>' first)", err)
	}

	g, err := api.Connect(c.cfg, *gw)
	if err != nil {
		return nil, err
	}
	c.client = g
	return g, nil
}

// retry wraps fn with the configured retry policy
func (c *cli) retry(ctx context.Context, fn func(ctx context.Context) error) error {
	return api.Retry(ctx, api.RetryPolicyFromConfig(c.cfg.Retry), fn)
}

func (c *cli) status(ctx context.Context) error {
	client, err := c.gateway()
	if err != nil {
		return err
	}

	var devices []*models.Device
	var groups []*models.Group
	err = c.retry(ctx, func(ctx context.Context) error {
		devices, groups, err = client.FetchAll(ctx)
		return err
	})
	if err != nil {
		return err
	}

	renderStatus(c.stdout, devices, groups)
	return nil
}

type controlFunc func(ctx context.Context, client api.GatewayClient, id int, value string) error

// control parses "<id> <value...>" and applies fn to the selected gateway
func (c *cli) control(ctx context.Context, args []string, synopsis string, fn controlFunc) error {
	if len(args) < 2 {
		return usageError("usage: tradfri " + synopsis)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	// Palette names may contain spaces
	value := strings.Join(args[1:], " ")

	client, err := c.gateway()
	if err != nil {
		return err
	}
	return c.retry(ctx, func(ctx context.Context) error {
		return fn(ctx, client, id, value)
	})
}

func (c *cli) power(ctx context.Context, client api.GatewayClient, id int, value string) error {
	on, err := models.ParsePowerState(value)
	if err != nil {
		return err
	}
	if err := client.SetPower(ctx, id, on); err != nil {
		return err
	}
	log.Info().Int("device", id).Bool("on", on).Msg("Power set")
	return nil
}

func (c *cli) brightness(ctx context.Context, client api.GatewayClient, id int, value string) error {
	pct, err := models.ParseBrightness(value)
	if err != nil {
		return err
	}
	if err := client.SetBrightness(ctx, id, pct); err != nil {
		return err
	}
	log.Info().Int("device", id).Int("brightness", pct).Msg("Brightness set")
	return nil
}

func (c *cli) color(ctx context.Context, client api.GatewayClient, id int, value string) error {
	if err := client.SetColor(ctx, id, value); err != nil {
		return err
	}
	log.Info().Int("device", id).Str("color", value).Msg("Color set")
	return nil
}

func (c *cli) groupPower(ctx context.Context, client api.GatewayClient, id int, value string) error {
	on, err := models.ParsePowerState(value)
	if err != nil {
		return err
	}
	if err := client.SetGroupPower(ctx, id, on); err != nil {
		return err
	}
	log.Info().Int("group", id).Bool("on", on).Msg("Group power set")
	return nil
}

func (c *cli) groupBrightness(ctx context.Context, client api.GatewayClient, id int, value string) error {
	pct, err := models.ParseBrightness(value)
	if err != nil {
		return err
	}
	if err := client.SetGroupBrightness(ctx, id, pct); err != nil {
		return err
	}
	log.Info().Int("group", id).Int("brightness", pct).Msg("Group brightness set")
	return nil
}

func (c *cli) auth(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("usage: tradfri [-user name] auth <host> <security-code>")
	}
	host, code := args[0], args[1]

	transport, err := api.NewTransport(c.cfg.CoAP)
	if err != nil {
		return err
	}

	// Registration has a side effect on the gateway, so it is never retried
	creds, err := api.Authenticate(ctx, transport, host, code, c.opts.user, c.cfg.Timeouts.Auth.Duration())
	if err != nil {
		return err
	}

	c.cfg.AddGateway(config.GatewayConfig{
		Host:    creds.Host,
		APIUser: creds.Identity,
		APIKey:  creds.Key,
	})
	c.cfg.LastHost = creds.Host
	if err := c.save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(c.stdout, "Registered %s as %s\n", creds.Host, creds.Identity)
	return nil
}

func (c *cli) save() error {
	if c.opts.configPath != "" {
		return c.cfg.SaveFile(c.opts.configPath)
	}
	return c.cfg.Save()
}

func (c *cli) discover(ctx context.Context) error {
	gateways, err := api.Discover(ctx, c.opts.timeout)
	if err != nil {
		return err
	}
	renderGateways(c.stdout, gateways)
	return nil
}

func (c *cli) publish(ctx context.Context) error {
	client, err := c.gateway()
	if err != nil {
		return err
	}

	broker, err := mqtt.Connect(c.cfg.MQTT)
	if err != nil {
		return err
	}
	defer broker.Close()

	p := mqtt.NewPublisher(broker, c.cfg.MQTT.TopicRoot, c.cfg.MQTT.QoS, c.cfg.MQTT.Retain)
	return p.Run(ctx, client, c.cfg.MQTT.Interval.Duration())
}

func parseID(value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id < 0 {
		return 0, &models.ValidationError{
			Field:  "id",
			Value:  value,
			Reason: "must be a numeric device or group id",
		}
	}
	return id, nil
}
