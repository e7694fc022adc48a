// Package token defines the signals that drive a client token's lifecycle
// and the pure reducer that applies them.
//
// The three signal identifiers are exchanged across the dispatch boundary
// as plain strings, so their spelling is part of the wire contract:
//
//	TOKEN_CLEARED   the token was invalidated; state resets to "no token"
//	TOKEN_NEEDED    a consumer found no usable token and asks for one
//	TOKEN_RECEIVED  a token was obtained and is now available
//
// # Usage
//
//	st := token.Initial()
//
//	st, _ = token.Apply(st, token.SignalTokenNeeded, nil)
//
//	tok := "abc123"
//	st, err := token.Apply(st, token.SignalTokenReceived, &tok)
//	if err != nil {
//	    return err // errors.Is(err, token.ErrInvalidTransition)
//	}
//
// # State Machine
//
// Transitions:
//   - TOKEN_CLEARED:  any -> Cleared (token discarded)
//   - TOKEN_NEEDED:   Cleared -> Needed; no-op from Needed and Received
//   - TOKEN_RECEIVED: any -> Received (payload required)
//
// Signals outside this set leave the state unchanged, so the reducer can sit
// on a dispatch channel that carries unrelated actions.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package token
