package api

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/angristan/tradfri-tui/internal/coap"
	"github.com/angristan/tradfri-tui/internal/codec"
)

// BootstrapIdentity is the identity used together with the security code
// printed on the gateway to register a new API user
const BootstrapIdentity = "Client_identity"

// apiUserPrefix and apiUserMax shape generated API user names
const (
	apiUserPrefix = "TRADFRI_PY_API_"
	apiUserMax    = 1000
)

// ErrMissingSecurityCode is returned when authentication is attempted without a code
var ErrMissingSecurityCode = errors.New("security code is required")

// GenerateAPIUser returns a random API user name.
// The gateway rejects names it already knows, so collisions surface as AuthError.
func GenerateAPIUser() string {
	return fmt.Sprintf("%s%d", apiUserPrefix, rand.IntN(apiUserMax+1))
}

// Authenticate registers apiUser with the gateway and returns the credentials
// for subsequent requests. An empty apiUser is replaced by a generated one.
// The request is never retried since a successful call consumes the user name.
func Authenticate(ctx context.Context, t coap.Transport, host, securityCode, apiUser string, timeout time.Duration) (coap.Credentials, error) {
	if securityCode == "" {
		return coap.Credentials{}, ErrMissingSecurityCode
	}
	if apiUser == "" {
		apiUser = GenerateAPIUser()
	}
	if timeout <= 0 {
		timeout = DefaultAuthTimeout
	}

	payload, err := codec.EncodeAuthRequest(apiUser)
	if err != nil {
		return coap.Credentials{}, err
	}

	log.Debug().Str("host", host).Str("api_user", apiUser).Msg("Registering API user")

	bootstrap := coap.Credentials{
		Host:     host,
		Identity: BootstrapIdentity,
		Key:      securityCode,
	}
	raw, err := t.Send(ctx, bootstrap, coap.Request{
		Method:  coap.MethodPost,
		Path:    PathAuth,
		Payload: payload,
		Timeout: timeout,
	})
	if err != nil {
		return coap.Credentials{}, err
	}

	key, err := codec.DecodeAuthResponse(raw)
	if err != nil {
		return coap.Credentials{}, err
	}

	return coap.Credentials{
		Host:     host,
		Identity: apiUser,
		Key:      key,
	}, nil
}
