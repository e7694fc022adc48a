// Package replay reads newline-delimited JSON action streams and feeds them
// to a dispatch channel in order.
//
// Each non-blank line is one action:
//
//	{"type":"TOKEN_NEEDED"}
//	{"type":"TOKEN_RECEIVED","payload":"abc123"}
//	{"type":"TOKEN_CLEARED"}
//
// Lines whose type is not a token signal are passed through unchanged; the
// reducer ignores them.
package replay

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/bft-labs/tokenlife/pkg/token"
)

// maxLineBytes bounds a single action line.
const maxLineBytes = 1 << 20

// ErrMissingType is returned for a line without a "type" field.
var ErrMissingType = errors.New("replay: action without type")

// Decoder reads actions from a stream.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &Decoder{scanner: sc}
}

// Line returns the number of the last line read.
func (d *Decoder) Line() int {
	return d.line
}

// Next returns the next action, or io.EOF at the end of the stream.
func (d *Decoder) Next() (token.Action, error) {
	for d.scanner.Scan() {
		d.line++
		raw := bytes.TrimSpace(d.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var a token.Action
		if err := json.Unmarshal(raw, &a); err != nil {
			return token.Action{}, fmt.Errorf("line %d: %w", d.line, err)
		}
		if a.Type == "" {
			return token.Action{}, fmt.Errorf("line %d: %w", d.line, ErrMissingType)
		}
		return a, nil
	}
	if err := d.scanner.Err(); err != nil {
		return token.Action{}, fmt.Errorf("line %d: %w", d.line+1, err)
	}
	return token.Action{}, io.EOF
}

// Feed decodes r and sends every action on out in stream order. It closes
// out when it returns, so a consumer ranging over out sees the end of the
// stream. Decode errors stop the feed.
func Feed(ctx context.Context, r io.Reader, out chan<- token.Action) error {
	defer close(out)

	d := NewDecoder(r)
	for {
		a, err := d.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- a:
		}
	}
}
