package token

import "fmt"

// Status is the lifecycle position of the token.
type Status int

const (
	StatusCleared Status = iota
	StatusNeeded
	StatusReceived
)

// String returns the status name used in snapshots.
func (s Status) String() string {
	switch s {
	case StatusCleared:
		return "CLEARED"
	case StatusNeeded:
		return "NEEDED"
	case StatusReceived:
		return "RECEIVED"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case StatusCleared, StatusNeeded, StatusReceived:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("%w: unknown status %d", ErrInvalidState, int(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "CLEARED":
		*s = StatusCleared
	case "NEEDED":
		*s = StatusNeeded
	case "RECEIVED":
		*s = StatusReceived
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidState, text)
	}
	return nil
}

// State is a snapshot of the token lifecycle. It is a plain value; copies
// handed to readers cannot affect the owner's state.
type State struct {
	// Status is the lifecycle position
	Status Status `json:"status"`

	// Token is the held credential, empty unless Status is StatusReceived
	Token string `json:"token,omitempty"`
}

// Initial returns the state a session starts in: cleared, no token.
func Initial() State {
	return State{Status: StatusCleared}
}

// HasToken returns true if a token is held.
func (s State) HasToken() bool {
	return s.Token != ""
}

// Validate checks that a token is held exactly when the status is Received.
func (s State) Validate() error {
	switch s.Status {
	case StatusReceived:
		if s.Token == "" {
			return fmt.Errorf("%w: status %s without token", ErrInvalidState, s.Status)
		}
	case StatusCleared, StatusNeeded:
		if s.Token != "" {
			return fmt.Errorf("%w: status %s with token", ErrInvalidState, s.Status)
		}
	default:
		return fmt.Errorf("%w: unknown status %d", ErrInvalidState, int(s.Status))
	}
	return nil
}
