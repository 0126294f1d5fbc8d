package lineus

import "errors"

// Errors returned by a session. Each wraps the underlying network error
// where there is one, so errors.Is works for both.
var (
	// ErrDeviceUnreachable reports a failure to connect: unknown host,
	// refused connection, or a connect timeout.
	ErrDeviceUnreachable = errors.New("plotter unreachable")

	// ErrHandshake reports that the plotter did not greet as expected.
	ErrHandshake = errors.New("plotter handshake failed")

	// ErrTransport reports a send or receive failure part way through a
	// session. The remaining commands are not sent.
	ErrTransport = errors.New("plotter connection failed")
)
