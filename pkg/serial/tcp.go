package serial

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/tictac/pkg/domain"
)

// tcpPort adapts a stream connection to the Port contract:
// the read timeout is applied as a deadline before every Read.
type tcpPort struct {
	conn net.Conn

	mu      sync.Mutex
	timeout time.Duration
}

// NewStreamPort wraps an established connection (TCP socket, net.Pipe) as a Port.
func NewStreamPort(conn net.Conn) Port {
	return &tcpPort{conn: conn}
}

// OpenTCP dials the host:port following the "tcp://" prefix of cfg.Port.
func OpenTCP(ctx context.Context, cfg Config) (Port, error) {
	addr := strings.TrimPrefix(cfg.Port, tcpScheme)
	if addr == "" {
		return nil, fmt.Errorf("%w: empty tcp address", domain.ErrConfiguration)
	}
	d := &net.Dialer{}
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", domain.ErrPortUnavailable, addr, err)
	}
	return NewStreamPort(c), nil
}

func (p *tcpPort) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeout = t
	return nil
}

func (p *tcpPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	timeout := p.timeout
	p.mu.Unlock()

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := p.conn.SetReadDeadline(deadline); err != nil {
		return 0, err
	}
	n, err := p.conn.Read(b)
	if err != nil && errors.Is(err, os.ErrDeadlineExceeded) {
		// Serial semantics: an expired window is an empty read, not a failure.
		return n, nil
	}
	return n, err
}

func (p *tcpPort) Write(b []byte) (int, error) {
	return p.conn.Write(b)
}

func (p *tcpPort) Close() error {
	return p.conn.Close()
}
