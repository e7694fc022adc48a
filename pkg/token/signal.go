package token

// Signal is the discriminant of an action dispatched to the token reducer.
type Signal string

// The signal identifiers. Values are serialized verbatim and must not change.
const (
	SignalTokenCleared  Signal = "TOKEN_CLEARED"
	SignalTokenNeeded   Signal = "TOKEN_NEEDED"
	SignalTokenReceived Signal = "TOKEN_RECEIVED"
)

// Signals returns the token signals in declaration order.
// The returned slice is a copy and may be modified by the caller.
func Signals() []Signal {
	return []Signal{SignalTokenCleared, SignalTokenNeeded, SignalTokenReceived}
}

// Known reports whether s is one of the token signals.
func (s Signal) Known() bool {
	switch s {
	case SignalTokenCleared, SignalTokenNeeded, SignalTokenReceived:
		return true
	default:
		return false
	}
}

// String returns the identifier.
func (s Signal) String() string {
	return string(s)
}

// ParseSignal matches raw against the token signals. Matching is exact;
// "token_cleared" is not a signal.
func ParseSignal(raw string) (Signal, bool) {
	s := Signal(raw)
	return s, s.Known()
}
