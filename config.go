package cppon

// Config holds the library's tunable knobs: prefixes for the three
// reversible string-wrapped token forms, container reservation hints, and
// the ceiling on indexed array growth. The zero Config is not usable;
// always start from DefaultConfig().
type Config struct {
	PathPrefix   string // default "$cppon-path:"
	BlobPrefix   string // default "$cppon-blob:"
	NumberPrefix string // default "$cppon-number:"

	MinReserve         int // minimum reserve for newly-created objects/arrays
	PrinterReserveHint int // initial printer buffer capacity under buffer.reserve; not scaled by element count
	MaxArrayDelta      int // max index delta allowed for indexed array writes
}

// DefaultConfig returns the default knob values.
func DefaultConfig() Config {
	return Config{
		PathPrefix:         "$cppon-path:",
		BlobPrefix:         "$cppon-blob:",
		NumberPrefix:       "$cppon-number:",
		MinReserve:         8,
		PrinterReserveHint: 16,
		MaxArrayDelta:      64,
	}
}

// EnvOption configures an Env at construction time.
type EnvOption func(*Env)

// WithPathPrefix overrides the path-token wire prefix.
func WithPathPrefix(prefix string) EnvOption {
	return func(e *Env) { e.cfg.PathPrefix = prefix }
}

// WithBlobPrefix overrides the blob-text wire prefix.
func WithBlobPrefix(prefix string) EnvOption {
	return func(e *Env) { e.cfg.BlobPrefix = prefix }
}

// WithNumberPrefix overrides the typed-number wire prefix.
func WithNumberPrefix(prefix string) EnvOption {
	return func(e *Env) { e.cfg.NumberPrefix = prefix }
}

// WithMinReserve overrides the minimum container reservation.
func WithMinReserve(n int) EnvOption {
	return func(e *Env) { e.cfg.MinReserve = n }
}

// WithMaxArrayDelta overrides the ceiling on indexed array growth.
func WithMaxArrayDelta(n int) EnvOption {
	return func(e *Env) { e.cfg.MaxArrayDelta = n }
}

// WithExactNumbers sets the initial value of the "exact" printing mode,
// which permits const access to a number-token without converting it.
func WithExactNumbers(exact bool) EnvOption {
	return func(e *Env) { e.exactNumbers = exact }
}

// WithDispatchLevel pins the Env's scanner dispatch override (see
// dispatch.go); LevelAuto (the zero value) leaves dispatch automatic.
func WithDispatchLevel(l Level) EnvOption {
	return func(e *Env) { e.dispatchOverride = l }
}
