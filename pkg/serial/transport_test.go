package serial

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/tictac/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Port: "COM5", BaudRate: 9600}

var fastTimeouts = Timeouts{
	ReadConstant:    30 * time.Millisecond,
	ReadMultiplier:  0,
	WriteConstant:   30 * time.Millisecond,
	WriteMultiplier: 0,
}

func openFake(t *testing.T, p *fakePort, opts ...Option) *Transport {
	t.Helper()
	opts = append([]Option{WithOpener(openerFor(p)), WithTimeouts(fastTimeouts)}, opts...)
	tr := New(testConfig, opts...)
	require.NoError(t, tr.Open(context.Background()))
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"Valid", Config{Port: "COM5", BaudRate: 9600}, false},
		{"TCP", Config{Port: "tcp://127.0.0.1:7777", BaudRate: 115200}, false},
		{"Empty Port", Config{Port: "", BaudRate: 9600}, true},
		{"Blank Port", Config{Port: "  ", BaudRate: 9600}, true},
		{"Zero Baud", Config{Port: "COM5", BaudRate: 0}, true},
		{"Negative Baud", Config{Port: "COM5", BaudRate: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimeouts_Budgets(t *testing.T) {
	assert.Equal(t, 50*time.Millisecond+255*10*time.Millisecond, DefaultTimeouts.ReadWindow(ReadBufferSize))
	assert.Equal(t, 50*time.Millisecond+10*10*time.Millisecond, DefaultTimeouts.WriteBudget(10))
}

func TestOpen_InvalidConfigNeverAcquires(t *testing.T) {
	called := false
	tr := New(Config{Port: "", BaudRate: 9600}, WithOpener(func(ctx context.Context, cfg Config) (Port, error) {
		called = true
		return newFakePort(), nil
	}))

	err := tr.Open(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.False(t, called)
	assert.False(t, tr.IsOpen())
}

func TestOpen_AcquireFailure(t *testing.T) {
	tr := New(testConfig, WithOpener(func(ctx context.Context, cfg Config) (Port, error) {
		return nil, errors.New("no such device")
	}))

	err := tr.Open(context.Background())
	assert.ErrorIs(t, err, domain.ErrPortUnavailable)
	assert.Contains(t, err.Error(), "no such device")
	assert.False(t, tr.IsOpen())
}

func TestOpen_ConfigureFailureReleasesPort(t *testing.T) {
	p := newFakePort()
	p.timeoutErr = errors.New("ioctl failed")
	tr := New(testConfig, WithOpener(openerFor(p)))

	err := tr.Open(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.True(t, p.closed, "partially opened port must be released")
	assert.False(t, tr.IsOpen())
}

func TestOpen_AppliesReadWindow(t *testing.T) {
	p := newFakePort()
	tr := New(testConfig, WithOpener(openerFor(p)))
	require.NoError(t, tr.Open(context.Background()))
	defer tr.Close()

	assert.Equal(t, DefaultTimeouts.ReadWindow(ReadBufferSize), p.timeout)
}

func TestOpen_Twice(t *testing.T) {
	tr := openFake(t, newFakePort())
	assert.ErrorIs(t, tr.Open(context.Background()), ErrAlreadyOpen)
}

func TestOpen_SettleResetsInput(t *testing.T) {
	p := newFakePort("boot noise\n")
	tr := openFake(t, p, WithSettleDelay(5*time.Millisecond))

	assert.Equal(t, 1, p.resets)
	p.feed("GameStarted\n")
	line, err := tr.ReadUntil('\n')
	require.NoError(t, err)
	assert.Equal(t, "GameStarted\n", line)
}

func TestOpen_SettleCancelled(t *testing.T) {
	p := newFakePort()
	tr := New(testConfig, WithOpener(openerFor(p)), WithSettleDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tr.Open(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, p.closed)
}

func TestWrite(t *testing.T) {
	p := newFakePort()
	tr := openFake(t, p)

	n, err := tr.Write([]byte("StartGame\n"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	require.Len(t, p.writes, 1)
	assert.Equal(t, "StartGame\n", string(p.writes[0]))
}

func TestWrite_Failure(t *testing.T) {
	p := newFakePort()
	p.writeErr = errors.New("device gone")
	tr := openFake(t, p)

	_, err := tr.Write([]byte("Move 1\n"))
	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestWrite_BudgetExceeded(t *testing.T) {
	p := newFakePort()
	p.writeBlock = make(chan struct{})
	tr := openFake(t, p)

	start := time.Now()
	_, err := tr.Write([]byte("Move 1\n"))
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), fastTimeouts.WriteConstant)
}

func TestReadUntil_AccumulatesPartialReads(t *testing.T) {
	p := newFakePort("Game", "Sta", "rted\n")
	tr := openFake(t, p)

	line, err := tr.ReadUntil('\n')
	require.NoError(t, err)
	assert.Equal(t, "GameStarted\n", line)
}

func TestReadUntil_KeepsBytesAfterDelimiter(t *testing.T) {
	p := newFakePort("BoardState:X........\nX Wi", "ns\n")
	tr := openFake(t, p)

	first, err := tr.ReadUntil('\n')
	require.NoError(t, err)
	assert.Equal(t, "BoardState:X........\n", first)

	second, err := tr.ReadUntil('\n')
	require.NoError(t, err)
	assert.Equal(t, "X Wins\n", second)
}

func TestDiscard(t *testing.T) {
	p := newFakePort("ack\nstale line\n")
	tr := openFake(t, p)

	_, err := tr.ReadUntil('\n')
	require.NoError(t, err)
	assert.Equal(t, len("stale line\n"), tr.Discard())
	assert.Zero(t, tr.Discard())
}

// A silent device blocks ReadUntil for at least the constant component, then times out.
func TestReadUntil_TimeoutFloor(t *testing.T) {
	tr := openFake(t, newFakePort())

	start := time.Now()
	_, err := tr.ReadUntil('\n')
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.GreaterOrEqual(t, elapsed, fastTimeouts.ReadConstant)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestReadUntil_PartialLineThenSilence(t *testing.T) {
	p := newFakePort("BoardSt")
	tr := openFake(t, p)

	_, err := tr.ReadUntil('\n')
	assert.ErrorIs(t, err, domain.ErrTimeout)

	// The partial frame is dropped, not glued to the next response.
	p.feed("GameStarted\n")
	line, err := tr.ReadUntil('\n')
	require.NoError(t, err)
	assert.Equal(t, "GameStarted\n", line)
}

func TestReadUntil_LineTooLong(t *testing.T) {
	p := newFakePort(strings.Repeat("x", 40), strings.Repeat("y", 40))
	tr := openFake(t, p, WithMaxLineLength(64))

	_, err := tr.ReadUntil('\n')
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestReadUntil_CloseUnblocks(t *testing.T) {
	p := newFakePort()
	tr := New(testConfig, WithOpener(openerFor(p)), WithTimeouts(Timeouts{ReadConstant: time.Hour}))
	require.NoError(t, tr.Open(context.Background()))

	errCh := make(chan error, 1)
	go func() {
		_, err := tr.ReadUntil('\n')
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, tr.Close())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, domain.ErrDisconnected)
	case <-time.After(time.Second):
		t.Fatal("ReadUntil did not return after Close")
	}
}

func TestClose_Idempotent(t *testing.T) {
	p := newFakePort()
	tr := openFake(t, p)

	assert.NoError(t, tr.Close())
	assert.NoError(t, tr.Close())
	assert.Equal(t, 1, p.closeCalls)
	assert.False(t, tr.IsOpen())
}

func TestClose_NeverOpened(t *testing.T) {
	tr := New(testConfig)
	assert.NoError(t, tr.Close())
}

func TestIO_AfterClose(t *testing.T) {
	p := newFakePort()
	tr := openFake(t, p)
	require.NoError(t, tr.Close())

	_, err := tr.Write([]byte("Move 1\n"))
	assert.ErrorIs(t, err, domain.ErrDisconnected)
	_, err = tr.ReadUntil('\n')
	assert.ErrorIs(t, err, domain.ErrDisconnected)
	assert.Zero(t, p.writeCount())
}

func TestReopenAfterClose(t *testing.T) {
	opened := 0
	tr := New(testConfig, WithTimeouts(fastTimeouts), WithOpener(func(ctx context.Context, cfg Config) (Port, error) {
		opened++
		return newFakePort(), nil
	}))
	require.NoError(t, tr.Open(context.Background()))
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Open(context.Background()))
	defer tr.Close()
	assert.Equal(t, 2, opened)
}
