package api

import (
	"fmt"

	"github.com/angristan/tradfri-tui/internal/coap"
	"github.com/angristan/tradfri-tui/internal/config"
)

// NewTransport builds the CoAP transport selected in the configuration
func NewTransport(cfg config.CoAPConfig) (coap.Transport, error) {
	switch cfg.Transport {
	case config.TransportExec, "":
		return coap.NewExecTransport(cfg.Binary), nil
	case config.TransportDTLS:
		return coap.NewDTLSTransport(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownTransport, cfg.Transport)
	}
}

// OptionsFromConfig maps configured timeouts and spacing to gateway options
func OptionsFromConfig(cfg *config.Config) []Option {
	return []Option{
		WithReadTimeout(cfg.Timeouts.Read.Duration()),
		WithWriteTimeout(cfg.Timeouts.Write.Duration()),
		WithRequestSpacing(cfg.Spacing()),
	}
}

// RetryPolicyFromConfig converts the retry settings
func RetryPolicyFromConfig(cfg config.RetryConfig) RetryPolicy {
	return RetryPolicy{
		Attempts:   cfg.Attempts,
		MinBackoff: cfg.MinBackoff.Duration(),
		MaxBackoff: cfg.MaxBackoff.Duration(),
		Multiplier: cfg.Multiplier,
	}
}

// Credentials returns the request credentials for a stored gateway
func Credentials(gw config.GatewayConfig) coap.Credentials {
	return coap.Credentials{
		Host:     gw.Host,
		Identity: gw.APIUser,
		Key:      gw.APIKey,
	}
}

// Connect creates a gateway client for a stored gateway
func Connect(cfg *config.Config, gw config.GatewayConfig) (*Gateway, error) {
	t, err := NewTransport(cfg.CoAP)
	if err != nil {
		return nil, err
	}
	return NewGateway(t, Credentials(gw), OptionsFromConfig(cfg)...), nil
}
