package serial

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/aretw0/tictac/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listenLines serves one connection, answering each received line with reply(line).
// A reply of "" sends nothing.
func listenLines(t *testing.T, reply func(string) string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		r := bufio.NewReader(c)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			if out := reply(line); out != "" {
				if _, err := c.Write([]byte(out)); err != nil {
					return
				}
			}
		}
	}()
	return ln.Addr().String()
}

func TestTCP_RoundTrip(t *testing.T) {
	addr := listenLines(t, func(line string) string {
		if line == "StartGame\n" {
			return "GameStarted\n"
		}
		return "?\n"
	})

	tr := New(Config{Port: "tcp://" + addr, BaudRate: 9600}, WithTimeouts(fastTimeouts))
	require.NoError(t, tr.Open(context.Background()))
	defer tr.Close()

	_, err := tr.Write([]byte("StartGame\n"))
	require.NoError(t, err)
	line, err := tr.ReadUntil('\n')
	require.NoError(t, err)
	assert.Equal(t, "GameStarted\n", line)
}

func TestTCP_SilentPeerTimesOut(t *testing.T) {
	addr := listenLines(t, func(string) string { return "" })

	tr := New(Config{Port: "tcp://" + addr, BaudRate: 9600}, WithTimeouts(fastTimeouts))
	require.NoError(t, tr.Open(context.Background()))
	defer tr.Close()

	_, err := tr.Write([]byte("GetGameState\n"))
	require.NoError(t, err)

	start := time.Now()
	_, err = tr.ReadUntil('\n')
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), fastTimeouts.ReadConstant)
}

func TestTCP_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	tr := New(Config{Port: "tcp://" + addr, BaudRate: 9600})
	err = tr.Open(context.Background())
	assert.ErrorIs(t, err, domain.ErrPortUnavailable)
	assert.False(t, tr.IsOpen())
}

func TestTCP_EmptyAddress(t *testing.T) {
	tr := New(Config{Port: "tcp://", BaudRate: 9600})
	assert.ErrorIs(t, tr.Open(context.Background()), domain.ErrConfiguration)
}

func TestStreamPort_Pipe(t *testing.T) {
	host, device := net.Pipe()
	defer device.Close()

	tr := New(testConfig, WithTimeouts(fastTimeouts), WithOpener(func(ctx context.Context, cfg Config) (Port, error) {
		return NewStreamPort(host), nil
	}))
	require.NoError(t, tr.Open(context.Background()))
	defer tr.Close()

	go func() {
		_, _ = device.Write([]byte("X Wins\n"))
	}()
	line, err := tr.ReadUntil('\n')
	require.NoError(t, err)
	assert.Equal(t, "X Wins\n", line)
}
