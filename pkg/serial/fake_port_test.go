package serial

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errPortClosed = errors.New("port closed")

// fakePort delivers scripted chunks and honors the read timeout like a real driver.
type fakePort struct {
	mu         sync.Mutex
	timeout    time.Duration
	writes     [][]byte
	closed     bool
	closeCalls int
	resets     int

	chunks     chan []byte
	done       chan struct{}
	writeErr   error
	writeBlock chan struct{}
	timeoutErr error
}

func newFakePort(chunks ...string) *fakePort {
	p := &fakePort{
		chunks: make(chan []byte, 64),
		done:   make(chan struct{}),
	}
	for _, c := range chunks {
		p.chunks <- []byte(c)
	}
	return p
}

func (p *fakePort) feed(s string) {
	p.chunks <- []byte(s)
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timeoutErr != nil {
		return p.timeoutErr
	}
	p.timeout = t
	return nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	timeout := p.timeout
	p.mu.Unlock()

	select {
	case c := <-p.chunks:
		return copy(b, c), nil
	case <-p.done:
		return 0, errPortClosed
	case <-time.After(timeout):
		return 0, nil
	}
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeBlock != nil {
		select {
		case <-p.writeBlock:
		case <-p.done:
			return 0, errPortClosed
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.writes = append(p.writes, append([]byte(nil), b...))
	return len(b), nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeCalls++
	if !p.closed {
		p.closed = true
		close(p.done)
	}
	return nil
}

func (p *fakePort) ResetInputBuffer() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resets++
	for {
		select {
		case <-p.chunks:
		default:
			return nil
		}
	}
}

func (p *fakePort) writeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.writes)
}

func openerFor(p Port) Opener {
	return func(ctx context.Context, cfg Config) (Port, error) {
		return p, nil
	}
}
