package api

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/mdns"

	"github.com/angristan/tradfri-tui/internal/coap"
)

// gatewayService is the mDNS service TRÅDFRI gateways advertise
const gatewayService = "_coap._udp"

// gatewayNamePrefix marks gateway instance names (gw-<mac>)
const gatewayNamePrefix = "gw-"

// DiscoveredGateway represents a gateway found during discovery
type DiscoveredGateway struct {
	// IP address of the gateway
	Host string
	// Instance name from mDNS (e.g. "gw-b8d7af2b3c4d")
	Name string
	// CoAPS port, usually 5684
	Port int
}

// Discover finds TRÅDFRI gateways on the local network using mDNS
func Discover(ctx context.Context, timeout time.Duration) ([]DiscoveredGateway, error) {
	var gateways []DiscoveredGateway
	var mu sync.Mutex
	seen := make(map[string]bool)

	entriesCh := make(chan *mdns.ServiceEntry, 10)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for entry := range entriesCh {
			gw, ok := gatewayFromEntry(entry)
			if !ok {
				continue
			}

			mu.Lock()
			if !seen[gw.Host] {
				seen[gw.Host] = true
				gateways = append(gateways, gw)
			}
			mu.Unlock()
		}
	}()

	params := mdns.DefaultParams(gatewayService)
	params.Entries = entriesCh
	params.Timeout = timeout
	params.DisableIPv6 = true

	errCh := make(chan error, 1)
	go func() {
		errCh <- mdns.Query(params)
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		err = ctx.Err()
		// Let the query finish before closing the entries channel
		<-errCh
	}
	close(entriesCh)
	<-done

	if err != nil {
		return gateways, fmt.Errorf("mDNS query failed: %w", err)
	}
	return gateways, nil
}

// gatewayFromEntry converts an mDNS answer, skipping other CoAP services
func gatewayFromEntry(entry *mdns.ServiceEntry) (DiscoveredGateway, bool) {
	if entry == nil || entry.AddrV4 == nil {
		return DiscoveredGateway{}, false
	}

	name := entry.Name
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	if !strings.HasPrefix(name, gatewayNamePrefix) {
		return DiscoveredGateway{}, false
	}

	port := entry.Port
	if port == 0 {
		port = coap.DefaultPort
	}

	return DiscoveredGateway{
		Host: entry.AddrV4.String(),
		Name: name,
		Port: port,
	}, true
}
