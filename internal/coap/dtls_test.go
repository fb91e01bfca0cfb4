package coap

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	piondtls "github.com/pion/dtls/v2"
	"github.com/plgd-dev/go-coap/v3/dtls"
	"github.com/plgd-dev/go-coap/v3/message"
	"github.com/plgd-dev/go-coap/v3/message/codes"
	"github.com/plgd-dev/go-coap/v3/mux"
	coapnet "github.com/plgd-dev/go-coap/v3/net"
	"github.com/plgd-dev/go-coap/v3/options"
)

// seenRequest is one request received by the loopback gateway
type seenRequest struct {
	Code    codes.Code
	Path    string
	Payload string
}

// loopbackGateway is a DTLS-PSK CoAP server on 127.0.0.1
type loopbackGateway struct {
	addr string

	mu         sync.Mutex
	identities []string
	requests   []seenRequest
}

func (g *loopbackGateway) record(w mux.ResponseWriter, r *mux.Message) {
	path, _ := r.Path()
	body, _ := r.ReadBody()

	g.mu.Lock()
	g.requests = append(g.requests, seenRequest{Code: r.Code(), Path: path, Payload: string(body)})
	g.mu.Unlock()

	switch path {
	case "/15001/404":
		_ = w.SetResponse(codes.NotFound, message.TextPlain, bytes.NewReader([]byte("no such device")))
	case "/15001/65537":
		_ = w.SetResponse(codes.Content, message.AppJSON, bytes.NewReader([]byte(`{"9001":"Hall","9003":65537}`)))
	default:
		_ = w.SetResponse(codes.Changed, message.TextPlain, nil)
	}
}

func (g *loopbackGateway) Identities() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.identities...)
}

func (g *loopbackGateway) Requests() []seenRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]seenRequest(nil), g.requests...)
}

func startLoopbackGateway(t *testing.T, key string) *loopbackGateway {
	t.Helper()

	g := &loopbackGateway{}
	cfg := &piondtls.Config{
		PSK: func(identity []byte) ([]byte, error) {
			g.mu.Lock()
			g.identities = append(g.identities, string(identity))
			g.mu.Unlock()
			return []byte(key), nil
		},
		PSKIdentityHint: []byte("tradfri-test"),
		CipherSuites:    []piondtls.CipherSuiteID{piondtls.TLS_PSK_WITH_AES_128_CCM_8},
	}

	l, err := coapnet.NewDTLSListener("udp", "127.0.0.1:0", cfg)
	if err != nil {
		t.Fatalf("NewDTLSListener() error = %v", err)
	}
	g.addr = l.Addr().String()

	router := mux.NewRouter()
	for _, path := range []string{"/15001/65537", "/15001/65536", "/15001/404", "/15011/9063"} {
		if err := router.Handle(path, mux.HandlerFunc(g.record)); err != nil {
			t.Fatalf("Handle(%s) error = %v", path, err)
		}
	}

	srv := dtls.NewServer(options.WithMux(router))
	go func() {
		_ = srv.Serve(l)
	}()
	t.Cleanup(func() {
		srv.Stop()
		_ = l.Close()
	})
	return g
}

func TestDTLSTransportRoundTrip(t *testing.T) {
	gw := startLoopbackGateway(t, "psk-secret")
	creds := Credentials{Host: gw.addr, Identity: "TRADFRI_PY_API_5", Key: "psk-secret"}
	tr := NewDTLSTransport()
	ctx := context.Background()

	body, err := tr.Send(ctx, creds, Request{Method: MethodGet, Path: "/15001/65537", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	if !strings.Contains(string(body), `"9001":"Hall"`) {
		t.Errorf("GET body = %q", body)
	}

	payload := []byte(`{"3311":[{"5850":1}]}`)
	if _, err := tr.Send(ctx, creds, Request{Method: MethodPut, Path: "/15001/65536", Payload: payload, Timeout: 5 * time.Second}); err != nil {
		t.Fatalf("PUT error = %v", err)
	}

	auth := []byte(`{"9090":"TRADFRI_PY_API_5"}`)
	if _, err := tr.Send(ctx, creds, Request{Method: MethodPost, Path: "/15011/9063", Payload: auth, Timeout: 5 * time.Second}); err != nil {
		t.Fatalf("POST error = %v", err)
	}

	for _, id := range gw.Identities() {
		if id != "TRADFRI_PY_API_5" {
			t.Errorf("gateway saw PSK identity %q, want TRADFRI_PY_API_5", id)
		}
	}
	if len(gw.Identities()) == 0 {
		t.Error("gateway never saw a PSK identity")
	}

	want := []seenRequest{
		{Code: codes.GET, Path: "/15001/65537"},
		{Code: codes.PUT, Path: "/15001/65536", Payload: string(payload)},
		{Code: codes.POST, Path: "/15011/9063", Payload: string(auth)},
	}
	got := gw.Requests()
	if len(got) != len(want) {
		t.Fatalf("gateway saw %d requests, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("request %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDTLSTransportErrorCode(t *testing.T) {
	gw := startLoopbackGateway(t, "psk-secret")
	creds := Credentials{Host: gw.addr, Identity: "TRADFRI_PY_API_5", Key: "psk-secret"}

	_, err := NewDTLSTransport().Send(context.Background(), creds, Request{Method: MethodGet, Path: "/15001/404", Timeout: 5 * time.Second})
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if terr.Diagnostic != "no such device" || terr.Path != "/15001/404" {
		t.Errorf("TransportError = %+v", terr)
	}
	if !strings.Contains(terr.Error(), "NotFound") {
		t.Errorf("Error() = %q, want the response code", terr.Error())
	}
}

func TestDTLSTransportWrongKey(t *testing.T) {
	gw := startLoopbackGateway(t, "psk-secret")
	creds := Credentials{Host: gw.addr, Identity: "TRADFRI_PY_API_5", Key: "wrong"}

	_, err := NewDTLSTransport().Send(context.Background(), creds, Request{Method: MethodGet, Path: "/15001/65537", Timeout: 2 * time.Second})
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if len(gw.Requests()) != 0 {
		t.Error("request reached the gateway without a valid key")
	}
}

func TestDTLSTransportUnsupportedMethod(t *testing.T) {
	creds := Credentials{Host: "127.0.0.1:1", Identity: "id", Key: "key"}

	_, err := NewDTLSTransport().Send(context.Background(), creds, Request{Method: "DELETE", Path: "/15001/1"})
	var terr *TransportError
	if !errors.As(err, &terr) || !strings.Contains(err.Error(), "unsupported method") {
		t.Errorf("error = %v, want unsupported method TransportError", err)
	}
}
