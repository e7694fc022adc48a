package log

// Nop discards all log messages.
type Nop struct{}

// NewNop creates a logger that discards everything.
func NewNop() Nop {
	return Nop{}
}

func (Nop) Debug(msg string, fields ...Field) {}
func (Nop) Info(msg string, fields ...Field)  {}
func (Nop) Warn(msg string, fields ...Field)  {}
func (Nop) Error(msg string, fields ...Field) {}

// With returns the same no-op logger.
func (n Nop) With(fields ...Field) Logger { return n }
