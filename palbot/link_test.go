package palbot

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

// mockPort answers each write with the next scripted reply. Reads with
// nothing queued return io.EOF like a port whose read timeout expired.
type mockPort struct {
	Replies    []string
	Repeat     string
	Written    []string
	ReadData   []byte
	WriteError error
	ReadError  error
	ShortWrite bool
	Closed     bool
	// Chunk limits how many bytes one read returns.
	Chunk int
}

func (m *mockPort) Read(p []byte) (int, error) {
	if m.ReadError != nil {
		return 0, m.ReadError
	}
	if len(m.ReadData) == 0 {
		return 0, io.EOF
	}
	if m.Chunk > 0 && len(p) > m.Chunk {
		p = p[:m.Chunk]
	}
	n := copy(p, m.ReadData)
	m.ReadData = m.ReadData[n:]
	return n, nil
}

func (m *mockPort) Write(p []byte) (int, error) {
	if m.WriteError != nil {
		return 0, m.WriteError
	}
	m.Written = append(m.Written, string(p))
	switch {
	case len(m.Replies) > 0:
		m.ReadData = append(m.ReadData, m.Replies[0]...)
		m.Replies = m.Replies[1:]
	case m.Repeat != "":
		m.ReadData = append(m.ReadData, m.Repeat...)
	}
	if m.ShortWrite {
		return len(p) - 1, nil
	}
	return len(p), nil
}

func (m *mockPort) Close() error {
	m.Closed = true
	return nil
}

func newTestLink(port *mockPort) *SerialLink {
	l := NewSerialLink(port)
	l.Timeout = 200 * time.Millisecond
	l.Poll = time.Millisecond
	return l
}

func TestSerialLink_Ack(t *testing.T) {
	port := &mockPort{Replies: []string{"OK\r\n"}}
	l := newTestLink(port)

	require.NoError(t, l.Send(context.Background(), MoveAbs(Position{1, 2, 3})))
	assert.Equal(t, []string{"MOVE_ABS(1,2,3)\r\n"}, port.Written)
}

func TestSerialLink_RetriesWhileBusy(t *testing.T) {
	port := &mockPort{Replies: []string{"BUSY\r\n", "BUSY\r\n", "OK\r\n"}}
	l := newTestLink(port)

	require.NoError(t, l.Send(context.Background(), RaiseZ()))
	assert.Equal(t, []string{RaiseZ(), RaiseZ(), RaiseZ()}, port.Written)
}

func TestSerialLink_SkipsBlankLines(t *testing.T) {
	port := &mockPort{Replies: []string{"\r\n\r\nBUSY\r\n", "OK\r\n"}}
	l := newTestLink(port)

	require.NoError(t, l.Send(context.Background(), Beep(1000, 1000)))
	assert.Len(t, port.Written, 2)
}

func TestSerialLink_ByteAtATime(t *testing.T) {
	port := &mockPort{Replies: []string{"BUSY\r\n", "OK\r\n"}, Chunk: 1}
	l := newTestLink(port)

	require.NoError(t, l.Send(context.Background(), RaiseZ()))
	assert.Len(t, port.Written, 2)
}

func TestSerialLink_BusyTimeout(t *testing.T) {
	port := &mockPort{Repeat: "BUSY\r\n"}
	l := newTestLink(port)
	l.Timeout = 30 * time.Millisecond

	err := l.Send(context.Background(), RaiseZ())
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Greater(t, len(port.Written), 1)
}

func TestSerialLink_NoReplyTimeout(t *testing.T) {
	port := &mockPort{}
	l := newTestLink(port)
	l.Timeout = 30 * time.Millisecond

	err := l.Send(context.Background(), RaiseZ())
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Len(t, port.Written, 1)
}

func TestSerialLink_ContextCancelled(t *testing.T) {
	port := &mockPort{Repeat: "BUSY\r\n"}
	l := newTestLink(port)
	l.Timeout = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	err := l.Send(ctx, RaiseZ())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSerialLink_WriteErrors(t *testing.T) {
	boom := errors.New("unplugged")
	l := newTestLink(&mockPort{WriteError: boom})
	assert.ErrorIs(t, l.Send(context.Background(), RaiseZ()), boom)

	l = newTestLink(&mockPort{ShortWrite: true, Repeat: "OK\r\n"})
	assert.ErrorIs(t, l.Send(context.Background(), RaiseZ()), ErrWriteFailed)
}

func TestSerialLink_ReadError(t *testing.T) {
	boom := errors.New("framing")
	l := newTestLink(&mockPort{ReadError: boom})
	err := l.Send(context.Background(), RaiseZ())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "MOVE_ABS(,,0)")
}

func TestSerialLink_Close(t *testing.T) {
	port := &mockPort{}
	require.NoError(t, NewSerialLink(port).Close())
	assert.True(t, port.Closed)
}

func TestPortOptions_Normalize(t *testing.T) {
	opts, err := PortOptions{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, PortOptions{BaudRate: DefaultBaud, DataBits: 8, StopBits: 1, Parity: "N"}, opts)

	opts, err = PortOptions{BaudRate: 115200, Parity: "even", StopBits: 2}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "E", opts.Parity)
	assert.Equal(t, 115200, opts.BaudRate)

	for _, bad := range []PortOptions{
		{DataBits: 9},
		{StopBits: 3},
		{Parity: "mark"},
	} {
		_, err := bad.Normalize()
		assert.Error(t, err, "%+v", bad)
	}
}

func TestPortOptions_SerialMode(t *testing.T) {
	mode, err := PortOptions{Parity: "O", StopBits: 2}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, &serial.Mode{
		BaudRate: DefaultBaud,
		DataBits: 8,
		Parity:   serial.OddParity,
		StopBits: serial.TwoStopBits,
	}, mode)
}

func TestDryRunLink(t *testing.T) {
	d := &DryRunLink{Quiet: true}
	require.NoError(t, d.Send(context.Background(), RaiseZ()))
	require.NoError(t, d.Send(context.Background(), Beep(1, 2)))
	assert.Equal(t, []string{RaiseZ(), "beep(1, 2)\r\n"}, d.Commands())

	d.Reset()
	assert.Empty(t, d.Commands())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Send(ctx, RaiseZ()), context.Canceled)
	assert.Empty(t, d.Commands())
}
