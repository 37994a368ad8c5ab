// Package publish uploads the generated page to the web host. Publishers
// know nothing about the map data; they move a finished document to a
// remote path and report whether that worked.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// ErrUnknownProtocol is returned by New for an unsupported protocol name.
var ErrUnknownProtocol = errors.New("unknown publish protocol")

// Destination holds everything needed to reach the remote artifact path.
type Destination struct {
	Host       string // host or host:port
	Username   string
	Password   string
	RemotePath string
}

// Publisher transfers a finished document to a destination.
type Publisher interface {
	Publish(ctx context.Context, doc []byte, dest Destination) error
}

// Options tune the transport independent of the destination.
type Options struct {
	Timeout       time.Duration
	SSHKnownHosts string // known_hosts file; empty disables host key checking
}

// New returns the publisher for protocol ("ftp" or "sftp").
func New(protocol string, opts Options) (Publisher, error) {
	switch strings.ToLower(protocol) {
	case "ftp":
		return NewFTPPublisher(opts), nil
	case "sftp":
		return NewSFTPPublisher(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, protocol)
	}
}

// hostPort appends defaultPort to host unless it already carries a port.
func hostPort(host string, defaultPort int) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(strings.Trim(host, "[]"), fmt.Sprint(defaultPort))
}
