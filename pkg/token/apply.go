package token

// Action is a signal together with its optional payload, as delivered by a
// dispatch channel. A nil Payload means the signal carried none.
type Action struct {
	Type    Signal  `json:"type"`
	Payload *string `json:"payload,omitempty"`
}

// Cleared returns a TOKEN_CLEARED action.
func Cleared() Action {
	return Action{Type: SignalTokenCleared}
}

// Needed returns a TOKEN_NEEDED action.
func Needed() Action {
	return Action{Type: SignalTokenNeeded}
}

// Received returns a TOKEN_RECEIVED action carrying tok.
func Received(tok string) Action {
	return Action{Type: SignalTokenReceived, Payload: &tok}
}

// Apply returns the state that results from applying sig to current.
//
// Apply is pure: it reads nothing but its arguments and never modifies
// *payload. Unknown signals return current unchanged with a nil error. The
// only failure is TOKEN_RECEIVED without a non-empty payload, reported as a
// *TransitionError; current is returned unchanged in that case as well.
func Apply(current State, sig Signal, payload *string) (State, error) {
	switch sig {
	case SignalTokenCleared:
		return Initial(), nil

	case SignalTokenNeeded:
		// A held token is never dropped here; only TOKEN_CLEARED does that.
		if current.Status == StatusCleared {
			return State{Status: StatusNeeded}, nil
		}
		return current, nil

	case SignalTokenReceived:
		if payload == nil {
			return current, &TransitionError{From: current.Status, Signal: sig, Reason: "missing token payload"}
		}
		if *payload == "" {
			return current, &TransitionError{From: current.Status, Signal: sig, Reason: "empty token payload"}
		}
		return State{Status: StatusReceived, Token: *payload}, nil

	default:
		return current, nil
	}
}

// Reduce applies a to current. See Apply.
func Reduce(current State, a Action) (State, error) {
	return Apply(current, a.Type, a.Payload)
}
