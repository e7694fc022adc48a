package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerolog_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerolog(zerolog.New(&buf))

	l.Info("dispatched",
		String("signal", "TOKEN_NEEDED"),
		Int("len", 6),
		Bool("changed", true),
		Duration("took", 2*time.Millisecond),
		Err(errors.New("boom")),
	)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	e := lines[0]
	assert.Equal(t, "info", e["level"])
	assert.Equal(t, "dispatched", e["message"])
	assert.Equal(t, "TOKEN_NEEDED", e["signal"])
	assert.Equal(t, float64(6), e["len"])
	assert.Equal(t, true, e["changed"])
	assert.Equal(t, "boom", e["error"])
	assert.Contains(t, e, "took")
}

func TestZerolog_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerolog(zerolog.New(&buf)).With(String("component", "store"))

	l.Warn("first")
	l.Error("second", String("extra", "x"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	for _, e := range lines {
		assert.Equal(t, "store", e["component"])
	}
	assert.Equal(t, "x", lines[1]["extra"])
}

func TestZerolog_DisabledLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerolog(zerolog.New(&buf).Level(zerolog.InfoLevel))

	l.Debug("hidden", String("k", "v"))

	assert.Empty(t, buf.String())
}

func TestNop(t *testing.T) {
	var l Logger = NewNop()
	l.Info("ignored")
	assert.Equal(t, l, l.With(String("k", "v")))
}
