package token

import (
	"testing"

	"pgregory.net/rapid"
)

// genState draws only states that satisfy State.Validate.
func genState() *rapid.Generator[State] {
	return rapid.Custom(func(t *rapid.T) State {
		switch rapid.SampledFrom([]Status{StatusCleared, StatusNeeded, StatusReceived}).Draw(t, "status") {
		case StatusNeeded:
			return State{Status: StatusNeeded}
		case StatusReceived:
			return State{Status: StatusReceived, Token: rapid.StringN(1, 64, -1).Draw(t, "held")}
		default:
			return State{Status: StatusCleared}
		}
	})
}

func genPayload() *rapid.Generator[*string] {
	return rapid.Custom(func(t *rapid.T) *string {
		if rapid.Bool().Draw(t, "hasPayload") {
			s := rapid.String().Draw(t, "payload")
			return &s
		}
		return nil
	})
}

func TestApply_ClearedFromAnyState(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		from := genState().Draw(t, "from")
		payload := genPayload().Draw(t, "payload")

		got, err := Apply(from, SignalTokenCleared, payload)
		if err != nil {
			t.Fatalf("Apply(TOKEN_CLEARED) error = %v", err)
		}
		if got != Initial() {
			t.Fatalf("Apply(%+v, TOKEN_CLEARED) = %+v, want cleared", from, got)
		}
	})
}

func TestApply_NeededNeverDropsToken(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		from := genState().Draw(t, "from")

		got, err := Apply(from, SignalTokenNeeded, nil)
		if err != nil {
			t.Fatalf("Apply(TOKEN_NEEDED) error = %v", err)
		}
		if from.Status == StatusReceived && got != from {
			t.Fatalf("Apply(%+v, TOKEN_NEEDED) = %+v, token lost", from, got)
		}
		if got.Status == StatusCleared {
			t.Fatalf("Apply(%+v, TOKEN_NEEDED) left status CLEARED", from)
		}
	})
}

func TestApply_ReceivedThenClearedRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		from := genState().Draw(t, "from")
		tok := rapid.StringN(1, 64, -1).Draw(t, "token")

		mid, err := Apply(from, SignalTokenReceived, &tok)
		if err != nil {
			t.Fatalf("Apply(TOKEN_RECEIVED) error = %v", err)
		}
		if mid.Status != StatusReceived || mid.Token != tok {
			t.Fatalf("Apply(%+v, TOKEN_RECEIVED, %q) = %+v", from, tok, mid)
		}

		got, err := Apply(mid, SignalTokenCleared, nil)
		if err != nil {
			t.Fatalf("Apply(TOKEN_CLEARED) error = %v", err)
		}
		if got.Status != StatusCleared || got.HasToken() {
			t.Fatalf("round trip ended in %+v, want cleared without token", got)
		}
	})
}

func TestApply_UnknownSignalIsIgnored(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		from := genState().Draw(t, "from")
		sig := Signal(rapid.String().Filter(func(s string) bool {
			return !Signal(s).Known()
		}).Draw(t, "signal"))
		payload := genPayload().Draw(t, "payload")

		got, err := Apply(from, sig, payload)
		if err != nil {
			t.Fatalf("Apply(%q) error = %v", sig, err)
		}
		if got != from {
			t.Fatalf("Apply(%+v, %q) = %+v, want unchanged", from, sig, got)
		}
	})
}

func TestApply_PreservesInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		st := Initial()
		steps := rapid.IntRange(0, 32).Draw(t, "steps")

		for i := 0; i < steps; i++ {
			sig := rapid.SampledFrom(append(Signals(), "UNRELATED")).Draw(t, "signal")
			payload := genPayload().Draw(t, "payload")

			next, err := Apply(st, sig, payload)
			if err != nil && next != st {
				t.Fatalf("failed Apply changed state %+v -> %+v", st, next)
			}
			if err := next.Validate(); err != nil {
				t.Fatalf("after %q: %v", sig, err)
			}
			st = next
		}
	})
}

func TestApply_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		from := genState().Draw(t, "from")
		sig := rapid.SampledFrom(Signals()).Draw(t, "signal")
		payload := genPayload().Draw(t, "payload")

		a, errA := Apply(from, sig, payload)
		b, errB := Apply(from, sig, payload)
		if a != b || (errA == nil) != (errB == nil) {
			t.Fatalf("Apply not deterministic: (%+v, %v) vs (%+v, %v)", a, errA, b, errB)
		}
	})
}
