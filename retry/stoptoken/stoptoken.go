package stoptoken

import "sync/atomic"

// Source owns a stop flag. One goroutine requests the stop; any number of
// tokens observe it. The flag only ever moves from false to true.
type Source struct {
	stopped atomic.Bool
}

// NewSource creates a source with the stop not yet requested.
func NewSource() *Source {
	return &Source{}
}

// RequestStop marks the stop as requested. Calling it again has no effect.
func (source *Source) RequestStop() {
	source.stopped.Store(true)
}

// StopRequested reports whether RequestStop has been called.
func (source *Source) StopRequested() bool {
	return source.stopped.Load()
}

// Token returns a read-only view bound to this source. All tokens from the
// same source observe the same flag.
func (source *Source) Token() Token {
	return Token{stopped: &source.stopped}
}

// Token is a read-only view of a Source's stop flag. Tokens are small value
// types; copy them freely. The zero value is unassociated.
type Token struct {
	stopped *atomic.Bool
}

// StopPossible reports whether the token is associated with a source. Waits
// given an unassociated token run to completion without polling.
func (token Token) StopPossible() bool {
	return token.stopped != nil
}

// StopRequested reports whether the source's stop has been requested. It is
// always false for an unassociated token.
func (token Token) StopRequested() bool {
	return token.stopped != nil && token.stopped.Load()
}
