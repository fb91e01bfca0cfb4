package coap

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// DefaultPort is the gateway's CoAP-over-DTLS port
const DefaultPort = 5684

// Method is a CoAP request method
type Method string

const (
	MethodGet  Method = "GET"
	MethodPut  Method = "PUT"
	MethodPost Method = "POST"
)

// Credentials identify the gateway and the pre-shared key pair used for DTLS
type Credentials struct {
	// IP address or hostname of the gateway
	Host string
	// PSK identity (Client_identity during authentication, the API user afterwards)
	Identity string
	// PSK secret (security code during authentication, the API key afterwards)
	Key string
}

// Request is a single CoAP request against the gateway resource tree
type Request struct {
	Method  Method
	Path    string
	Payload []byte
	// Timeout bounds the round trip. Zero means no explicit timeout.
	Timeout time.Duration
}

// Transport issues one CoAP request and returns the raw response bytes.
// Implementations must not retry.
type Transport interface {
	Send(ctx context.Context, creds Credentials, req Request) ([]byte, error)
}

// TransportError reports a failure to reach the gateway or a rejected request
type TransportError struct {
	Method     Method
	Path       string
	Diagnostic string
	Err        error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("coap %s %s failed", e.Method, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if d := strings.TrimSpace(e.Diagnostic); d != "" {
		msg += " (" + d + ")"
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// URI returns the secured endpoint for a resource path
func URI(host, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "coaps://" + Addr(host) + path
}

// Addr returns the host:port pair used for a direct DTLS dial.
// A host that already carries a port is used as is.
func Addr(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, strconv.Itoa(DefaultPort))
}
