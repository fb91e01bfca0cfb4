package coap

import (
	"bytes"
	"context"
	"fmt"
	"time"

	piondtls "github.com/pion/dtls/v2"
	"github.com/plgd-dev/go-coap/v3/dtls"
	"github.com/plgd-dev/go-coap/v3/message"
	"github.com/plgd-dev/go-coap/v3/message/codes"
	"github.com/plgd-dev/go-coap/v3/message/pool"
	"github.com/rs/zerolog/log"
)

// DTLSTransport talks to the gateway natively over CoAP secured with DTLS-PSK.
// A fresh DTLS session is opened for every request.
type DTLSTransport struct{}

// NewDTLSTransport creates a native DTLS transport
func NewDTLSTransport() *DTLSTransport {
	return &DTLSTransport{}
}

func pskConfig(ctx context.Context, creds Credentials, timeout time.Duration) *piondtls.Config {
	cfg := &piondtls.Config{
		PSK: func(hint []byte) ([]byte, error) {
			return []byte(creds.Key), nil
		},
		PSKIdentityHint: []byte(creds.Identity),
		CipherSuites:    []piondtls.CipherSuiteID{piondtls.TLS_PSK_WITH_AES_128_CCM_8},
	}
	if timeout > 0 {
		cfg.ConnectContextMaker = func() (context.Context, func()) {
			return context.WithTimeout(ctx, timeout)
		}
	}
	return cfg
}

// Send performs the request and returns the response payload
func (t *DTLSTransport) Send(ctx context.Context, creds Credentials, req Request) ([]byte, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	fail := func(err error, diag string) error {
		return &TransportError{Method: req.Method, Path: req.Path, Diagnostic: diag, Err: err}
	}

	switch req.Method {
	case MethodGet, MethodPut, MethodPost:
	default:
		return nil, fail(fmt.Errorf("unsupported method %q", req.Method), "")
	}

	start := time.Now()
	conn, err := dtls.Dial(Addr(creds.Host), pskConfig(ctx, creds, req.Timeout))
	if err != nil {
		return nil, fail(fmt.Errorf("dtls handshake: %w", err), "")
	}
	defer func() {
		_ = conn.Close() // Error ignored: session is single-use
	}()

	var resp *pool.Message
	switch req.Method {
	case MethodGet:
		resp, err = conn.Get(ctx, req.Path)
	case MethodPut:
		resp, err = conn.Put(ctx, req.Path, message.AppJSON, bytes.NewReader(req.Payload))
	case MethodPost:
		resp, err = conn.Post(ctx, req.Path, message.AppJSON, bytes.NewReader(req.Payload))
	}
	if err != nil {
		return nil, fail(err, "")
	}

	if resp.Code() >= codes.BadRequest {
		body, _ := resp.ReadBody()
		return nil, fail(fmt.Errorf("gateway responded %s", resp.Code()), string(body))
	}

	body, err := resp.ReadBody()
	if err != nil {
		return nil, fail(fmt.Errorf("read body: %w", err), "")
	}

	log.Debug().
		Str("method", string(req.Method)).
		Str("path", req.Path).
		Str("code", resp.Code().String()).
		Int("bytes", len(body)).
		Dur("took", time.Since(start)).
		Msg("dtls request done")

	return body, nil
}
