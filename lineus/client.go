// Package lineus drives a Line-us plotter over its TCP line protocol:
// the plotter greets on connect, then answers every command line with
// one response, which contains "ok" when the command was accepted.
package lineus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VarKun/lineus-plot/gcode"
)

// Defaults for the zero values in Config.
const (
	DefaultAddr           = "line-us.local:1337"
	DefaultGreeting       = "hello"
	DefaultAck            = "ok"
	DefaultConnectTimeout = 10 * time.Second
	DefaultGreetTimeout   = 10 * time.Second
	DefaultDelay          = 50 * time.Millisecond
)

// Config describes how to reach and talk to a plotter.
type Config struct {
	Addr string // host:port

	// Dial opens the connection; nil means a TCP dial with ConnectTimeout.
	Dial func(ctx context.Context, addr string) (net.Conn, error)

	ConnectTimeout time.Duration
	GreetTimeout   time.Duration
	AckTimeout     time.Duration // zero waits for as long as it takes
	Delay          time.Duration // pause after each acknowledged command; negative for none

	Greeting string // token the greeting must contain
	Ack      string // token an acknowledgement must contain

	Logger *log.Logger // nil for log.Default()

	// Progress, if set, is called after each command is sent.
	Progress func(sent, total int)
}

func (cfg *Config) withDefaults() Config {
	c := *cfg
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.GreetTimeout == 0 {
		c.GreetTimeout = DefaultGreetTimeout
	}
	if c.Delay == 0 {
		c.Delay = DefaultDelay
	}
	if c.Greeting == "" {
		c.Greeting = DefaultGreeting
	}
	if c.Ack == "" {
		c.Ack = DefaultAck
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}

// A Client is one session with a plotter. Commands are sent strictly
// one at a time: the next line goes out only after the plotter answered
// the previous one.
//
// A Client is not safe for concurrent use, except that Close may be
// called from any goroutine.
type Client struct {
	cfg   Config
	id    string
	conn  net.Conn
	r     *bufio.Reader

	mu    sync.Mutex // guards state
	state State

	closeOnce sync.Once
	closeErr  error
}

// Dial connects to the plotter at cfg.Addr. The returned client is in
// the Connected state; call Greet before streaming.
func Dial(ctx context.Context, cfg *Config) (*Client, error) {
	return dial(ctx, cfg, uuid.NewString())
}

func dial(ctx context.Context, cfg *Config, id string) (*Client, error) {
	c := &Client{cfg: cfg.withDefaults(), id: id}
	dialFn := c.cfg.Dial
	if dialFn == nil {
		d := &net.Dialer{Timeout: c.cfg.ConnectTimeout}
		dialFn = func(ctx context.Context, addr string) (net.Conn, error) {
			return d.DialContext(ctx, "tcp", addr)
		}
	}
	conn, err := dialFn(ctx, c.cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDeviceUnreachable, c.cfg.Addr, err)
	}
	c.conn = conn
	c.r = bufio.NewReader(conn)
	c.setState(Connected)
	c.logf("connected to %s", c.cfg.Addr)
	return c, nil
}

// State returns the client's current state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// RunID identifies the session in log lines and its summary.
func (c *Client) RunID() string { return c.id }

func (c *Client) logf(format string, args ...interface{}) {
	c.cfg.Logger.Printf("lineus[%.8s]: "+format, append([]interface{}{c.id}, args...)...)
}

// fail ends the session as Failed, unless Close got there first.
func (c *Client) fail(err error) error {
	c.mu.Lock()
	if c.state != Closed {
		c.state = Failed
	}
	c.mu.Unlock()
	c.logf("%v", err)
	return err
}

// deadline arms a read or write deadline of d from now (none if d is
// zero). It returns ctx's error if ctx is already done, since a deadline
// set here may have replaced the one set to interrupt the session.
func (c *Client) deadline(ctx context.Context, set func(time.Time) error, d time.Duration) error {
	var t time.Time
	if d > 0 {
		t = time.Now().Add(d)
	}
	if err := set(t); err != nil {
		return err
	}
	return ctx.Err()
}

// readResponse reads one response. Responses end in a newline or a NUL
// byte; empty responses are skipped.
func (c *Client) readResponse(ctx context.Context, timeout time.Duration) (string, error) {
	if err := c.deadline(ctx, c.conn.SetReadDeadline, timeout); err != nil {
		return "", err
	}
	var sb strings.Builder
	for {
		b, err := c.r.ReadByte()
		if err == io.EOF && sb.Len() > 0 {
			return strings.TrimSpace(sb.String()), nil
		}
		if err != nil {
			return "", err
		}
		if b != '\n' && b != 0 {
			sb.WriteByte(b)
			continue
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			return s, nil
		}
		sb.Reset()
	}
}

// interrupt makes blocked reads and writes return once ctx is done.
func (c *Client) interrupt(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		c.conn.SetDeadline(time.Unix(1, 0))
	})
}

// Greet reads the plotter's greeting, waiting at most GreetTimeout.
// If ctx is cancelled first, Greet returns an error wrapping ctx.Err()
// and the session is left for Close, as with Stream.
func (c *Client) Greet(ctx context.Context) error {
	if s := c.State(); s != Connected {
		return fmt.Errorf("lineus: greet in state %s", s)
	}
	defer c.interrupt(ctx)()
	resp, err := c.readResponse(ctx, c.cfg.GreetTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("interrupted waiting for greeting: %w", ctx.Err())
		}
		return c.fail(fmt.Errorf("%w: waiting for greeting: %w", ErrHandshake, err))
	}
	if !strings.Contains(resp, c.cfg.Greeting) {
		return c.fail(fmt.Errorf("%w: got %q, want %q", ErrHandshake, resp, c.cfg.Greeting))
	}
	c.logf("greeted: %s", resp)
	c.setState(Greeted)
	return nil
}

// Stream sends every command of prog in order and waits for each
// response. Answers without the acknowledgement token are recorded in
// the summary and streaming carries on; connection errors end the
// session. The returned summary is never nil.
//
// If ctx is cancelled, Stream stops after interrupting any blocked read
// or write and returns an error wrapping ctx.Err(). Commands already
// sent have been executed by the plotter.
func (c *Client) Stream(ctx context.Context, prog *gcode.Program) (*Summary, error) {
	start := time.Now()
	sum := &Summary{RunID: c.id, Addr: c.cfg.Addr, Total: len(prog.Commands)}
	defer func() {
		sum.State = c.State()
		sum.Elapsed = time.Since(start)
	}()
	c.mu.Lock()
	st := c.state
	if st == Greeted {
		c.state = Streaming
	}
	c.mu.Unlock()
	if st != Greeted {
		return sum, fmt.Errorf("lineus: stream in state %s", st)
	}
	defer c.interrupt(ctx)()

	c.logf("streaming %d commands", sum.Total)
	for _, cmd := range prog.Commands {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("interrupted before line %d: %w", cmd.Line, err)
		}
		if err := c.send(ctx, cmd.Text); err != nil {
			if ctx.Err() != nil {
				return sum, fmt.Errorf("interrupted sending line %d: %w", cmd.Line, ctx.Err())
			}
			return sum, c.fail(fmt.Errorf("%w: sending line %d: %w", ErrTransport, cmd.Line, err))
		}
		sum.Sent++
		if c.cfg.Progress != nil {
			c.cfg.Progress(sum.Sent, sum.Total)
		}

		resp, err := c.readResponse(ctx, c.cfg.AckTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return sum, fmt.Errorf("interrupted waiting for line %d: %w", cmd.Line, ctx.Err())
			}
			return sum, c.fail(fmt.Errorf("%w: waiting for line %d: %w", ErrTransport, cmd.Line, err))
		}
		if !strings.Contains(resp, c.cfg.Ack) {
			c.logf("warning: line %d %q not acknowledged: %s", cmd.Line, cmd.Text, resp)
			sum.Nacks = append(sum.Nacks, Nack{Line: cmd.Line, Command: cmd.Text, Response: resp})
			continue
		}
		sum.Acknowledged++
		if err := sleep(ctx, c.cfg.Delay); err != nil {
			return sum, fmt.Errorf("interrupted after line %d: %w", cmd.Line, err)
		}
	}
	c.logf("done: %d/%d acknowledged", sum.Acknowledged, sum.Total)
	return sum, nil
}

func (c *Client) send(ctx context.Context, line string) error {
	if err := c.deadline(ctx, c.conn.SetWriteDeadline, 0); err != nil {
		return err
	}
	_, err := io.WriteString(c.conn, line+"\n")
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the connection. It is safe to call more than once; the
// connection is closed only the first time. A failed session stays
// Failed, anything else becomes Closed. Closing during Stream makes it
// return with a transport error.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		if c.state != Failed {
			c.state = Closed
		}
		st := c.state
		c.mu.Unlock()
		c.closeErr = c.conn.Close()
		c.logf("connection closed (%s)", st)
	})
	return c.closeErr
}

// Send runs a whole session: connect, greet, stream prog, close. The
// connection is closed on every path out, and the summary is never nil.
func Send(ctx context.Context, cfg *Config, prog *gcode.Program) (*Summary, error) {
	start := time.Now()
	id := uuid.NewString()
	c, err := dial(ctx, cfg, id)
	if err != nil {
		return &Summary{
			RunID:   id,
			Addr:    cfg.withDefaults().Addr,
			Total:   len(prog.Commands),
			State:   Failed,
			Elapsed: time.Since(start),
		}, err
	}
	defer c.Close()
	if err := c.Greet(ctx); err != nil {
		c.Close()
		return &Summary{
			RunID:   id,
			Addr:    c.cfg.Addr,
			Total:   len(prog.Commands),
			State:   c.State(),
			Elapsed: time.Since(start),
		}, err
	}
	sum, err := c.Stream(ctx, prog)
	c.Close()
	sum.State = c.State()
	sum.Elapsed = time.Since(start)
	return sum, err
}
