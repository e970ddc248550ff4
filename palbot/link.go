package palbot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultCommandTimeout bounds a single command round trip, BUSY retries
	// included.
	DefaultCommandTimeout = 2 * time.Minute
	// DefaultPollInterval is the pause before re-sending a command the device
	// answered with BUSY.
	DefaultPollInterval = 100 * time.Millisecond

	readTimeout = 100 * time.Millisecond
	busyReply   = "BUSY"
)

// Link delivers commands to the device and waits until it accepts them.
type Link interface {
	Send(ctx context.Context, command string) error
	Close() error
}

// Port is the part of a serial port the link uses. go.bug.st/serial ports
// satisfy it, as do in-memory fakes.
type Port interface {
	io.ReadWriter
	io.Closer
}

// PortOptions describes the serial connection parameters.
type PortOptions struct {
	BaudRate int    `mapstructure:"baud"`
	DataBits int    `mapstructure:"data_bits"`
	StopBits int    `mapstructure:"stop_bits"`
	Parity   string `mapstructure:"parity"`
}

// Normalize validates the options and applies defaults for unset values.
func (o PortOptions) Normalize() (PortOptions, error) {
	opts := o
	if opts.BaudRate <= 0 {
		opts.BaudRate = DefaultBaud
	}
	if opts.DataBits == 0 {
		opts.DataBits = 8
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}
	if opts.StopBits == 0 {
		opts.StopBits = 1
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", opts.StopBits)
	}
	switch strings.ToUpper(strings.TrimSpace(opts.Parity)) {
	case "", "N", "NONE":
		opts.Parity = "N"
	case "E", "EVEN":
		opts.Parity = "E"
	case "O", "ODD":
		opts.Parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E, or O", opts.Parity)
	}
	return opts, nil
}

// SerialMode converts the options into the mode go.bug.st/serial expects.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}
	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	if opts.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	switch opts.Parity {
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	}
	return mode, nil
}

// SerialLink speaks the line protocol of the head controller: one command per
// line, answered by one line that contains BUSY while the controller cannot
// take it yet.
type SerialLink struct {
	port Port

	// Timeout bounds one Send, retries included.
	Timeout time.Duration
	// Poll is the pause between BUSY retries.
	Poll time.Duration

	mu      sync.Mutex
	pending []byte
}

var _ Link = (*SerialLink)(nil)

func NewSerialLink(port Port) *SerialLink {
	return &SerialLink{
		port:    port,
		Timeout: DefaultCommandTimeout,
		Poll:    DefaultPollInterval,
	}
}

// OpenSerial opens the named serial port.
func OpenSerial(path string, opts PortOptions) (*SerialLink, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// reads return empty on timeout so Send can watch its deadline
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", path, err)
	}
	Logf("opened %s at %d baud", path, mode.BaudRate)
	return NewSerialLink(port), nil
}

func (l *SerialLink) Close() error {
	return l.port.Close()
}

// Send writes the command and re-sends it for as long as the controller
// answers BUSY, until ctx is done or Timeout has passed.
func (l *SerialLink) Send(ctx context.Context, command string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	name := strings.TrimSpace(command)
	deadline := time.Now().Add(l.timeout())
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	for attempt := 1; ; attempt++ {
		n, err := l.port.Write([]byte(command))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if n != len(command) {
			return fmt.Errorf("%s: %w", name, ErrWriteFailed)
		}

		reply, err := l.readLine(ctx, deadline)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if !strings.Contains(reply, busyReply) {
			return nil
		}
		if attempt == 1 {
			Logf("%s: device busy, retrying", name)
		}
		if err := l.wait(ctx, deadline, l.Poll); err != nil {
			return fmt.Errorf("%s: busy after %d attempts: %w", name, attempt, err)
		}
	}
}

func (l *SerialLink) timeout() time.Duration {
	if l.Timeout <= 0 {
		return DefaultCommandTimeout
	}
	return l.Timeout
}

// readLine returns the next non-empty line from the port.
func (l *SerialLink) readLine(ctx context.Context, deadline time.Time) (string, error) {
	buf := make([]byte, 128)
	for {
		for {
			i := bytes.IndexByte(l.pending, '\n')
			if i < 0 {
				break
			}
			line := strings.TrimSpace(string(l.pending[:i]))
			l.pending = l.pending[i+1:]
			if line != "" {
				return line, nil
			}
		}

		n, err := l.port.Read(buf)
		l.pending = append(l.pending, buf[:n]...)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if n > 0 {
			continue
		}
		// nothing arrived within the port's read timeout
		if err := l.wait(ctx, deadline, readTimeout/10); err != nil {
			return "", err
		}
	}
}

func (l *SerialLink) wait(ctx context.Context, deadline time.Time, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	left := time.Until(deadline)
	if left <= 0 {
		return ErrTimeout
	}
	if d > left {
		d = left
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// DryRunLink accepts every command without hardware attached and keeps a
// copy of what was sent.
type DryRunLink struct {
	mu       sync.Mutex
	commands []string
	// Quiet suppresses logging of each command.
	Quiet bool
}

var _ Link = (*DryRunLink)(nil)

func (d *DryRunLink) Send(ctx context.Context, command string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = append(d.commands, command)
	if !d.Quiet {
		Logf("dry run: %s", strings.TrimSpace(command))
	}
	return nil
}

// Commands returns everything sent so far.
func (d *DryRunLink) Commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.commands...)
}

// Reset forgets the recorded commands.
func (d *DryRunLink) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = nil
}

func (d *DryRunLink) Close() error { return nil }
