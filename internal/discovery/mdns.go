package discovery

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

func init() {
	// The mdns package logs "client closed" noise through the standard logger.
	log.SetOutput(io.Discard)
}

const (
	ServiceType = "_shopdesk._tcp"
	Domain      = "local."

	pathKey = "path="
)

// Host is a machine on the LAN serving a data document.
type Host struct {
	Name string
	Addr string
	Port int
	Path string
}

// URL is the location content.Open understands.
func (h Host) URL() string {
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(h.Addr, fmt.Sprint(h.Port)), h.Path)
}

// Announcer advertises a document server over mDNS.
type Announcer struct {
	server *mdns.Server
}

func Announce(name string, port int, path string) (*Announcer, error) {
	host, err := getOutboundIP()
	if err != nil {
		host = "127.0.0.1"
	}

	service, err := mdns.NewMDNSService(
		name,
		ServiceType,
		Domain,
		"",
		port,
		[]net.IP{net.ParseIP(host)},
		[]string{pathKey + path, "v=1"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS server: %w", err)
	}

	return &Announcer{server: server}, nil
}

func (a *Announcer) Stop() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
	}
}

// Browse queries the LAN once and returns the hosts that answered before
// ctx is done or timeout elapses.
func Browse(ctx context.Context, timeout time.Duration) ([]Host, error) {
	entriesCh := make(chan *mdns.ServiceEntry, 16)
	done := make(chan []Host, 1)

	go func() {
		var hosts []Host
		seen := make(map[string]bool)
		for entry := range entriesCh {
			h, ok := entryToHost(entry)
			if !ok || seen[h.URL()] {
				continue
			}
			seen[h.URL()] = true
			hosts = append(hosts, h)
		}
		done <- hosts
	}()

	// IPv4 only: the library's IPv6 path is unreliable on Windows.
	params := &mdns.QueryParam{
		Service:     ServiceType,
		Domain:      Domain,
		Timeout:     timeout,
		Entries:     entriesCh,
		DisableIPv6: true,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- mdns.Query(params)
		close(entriesCh)
	}()

	select {
	case err := <-errCh:
		hosts := <-done
		if err != nil && !strings.Contains(err.Error(), "not supported") {
			return hosts, fmt.Errorf("mDNS query failed: %w", err)
		}
		return hosts, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func entryToHost(entry *mdns.ServiceEntry) (Host, bool) {
	if entry == nil {
		return Host{}, false
	}

	path := ""
	for _, txt := range entry.InfoFields {
		if strings.HasPrefix(txt, pathKey) {
			path = strings.TrimPrefix(txt, pathKey)
			break
		}
	}
	if path == "" {
		return Host{}, false
	}

	var addr string
	if entry.AddrV4 != nil {
		addr = entry.AddrV4.String()
	} else if entry.AddrV6 != nil {
		addr = entry.AddrV6.String()
	}
	if addr == "" {
		return Host{}, false
	}

	name := strings.TrimSuffix(entry.Name, "."+ServiceType+"."+Domain)
	return Host{Name: name, Addr: addr, Port: entry.Port, Path: path}, true
}

func getOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}
