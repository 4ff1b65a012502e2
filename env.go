package cppon

// Env bundles the ambient per-goroutine state: the root stack used to
// resolve absolute paths, the dispatch override and cached scanner
// functions, configuration knobs, and the "exact number" printing flag.
// Go has no first-class thread-locals, so rather than hide this state
// behind package-level goroutine-keyed globals, it is held in one
// explicit struct that callers create once per goroutine/tree and pass
// to every operation that needs it, the same role context.Context plays
// for ambient cancellation.
//
// An Env must not be shared between goroutines that might mutate the
// same tree concurrently; only concurrent readers of an immutable tree
// are safe.
type Env struct {
	cfg Config

	roots *rootStack

	dispatchOverride Level
	dispatch         dispatchTable

	exactNumbers bool

	null Value // per-Env null sentinel, never written through
}

// NewEnv creates an Env with DefaultConfig() and no dispatch override,
// applying any supplied options.
func NewEnv(opts ...EnvOption) *Env {
	e := &Env{
		cfg:   DefaultConfig(),
		roots: newRootStack(),
		null:  Null(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.dispatch.rebind(e.dispatchOverride)
	return e
}

// Config returns the Env's current configuration.
func (e *Env) Config() Config { return e.cfg }

// SetDispatchLevel changes the Env's (thread-local-equivalent) dispatch
// override and immediately rebinds the cached scanner functions.
func (e *Env) SetDispatchLevel(l Level) {
	e.dispatchOverride = l
	e.dispatch.rebind(l)
}

// DispatchLevel returns the Env's currently effective dispatch level,
// recomputing it first in case the global override changed since the
// last call.
func (e *Env) DispatchLevel() Level {
	e.dispatch.rebind(e.dispatchOverride)
	return e.dispatch.level
}

// SetExactNumbers toggles the "exact" printing/const-access mode: when
// true, const access to a number-token is permitted without converting
// it first; when false, such access fails with NumberNotConverted.
func (e *Env) SetExactNumbers(exact bool) { e.exactNumbers = exact }

// ExactNumbers reports the current "exact" mode.
func (e *Env) ExactNumbers() bool { return e.exactNumbers }

// PushRoot makes root the current root for absolute-path resolution. See
// rootStack.push for the hoist-on-duplicate tolerance.
func (e *Env) PushRoot(root *Value) { e.roots.push(root) }

// PopRoot balances a prior PushRoot. See rootStack.pop for the hoist-
// before-pop tolerance that makes non-LIFO unwind safe.
func (e *Env) PopRoot(root *Value) { e.roots.pop(root) }

// CurrentRoot returns the current root, i.e. the node most recently
// pushed (or hoisted) to the top of the root stack.
func (e *Env) CurrentRoot() *Value { return e.roots.current() }

// NullSentinel returns the Env's read-only null sentinel, returned by
// const traversal when a lookup does not autovivify. Callers must never
// write through the returned pointer.
func (e *Env) NullSentinel() *Value { return &e.null }

// withRoot pushes root, runs fn, and pops root again: the "temporarily
// make this node the root to resolve an absolute path" pattern that
// Visit and VisitConst in visitor.go also follow, with the push and the
// deferred pop written inline.
func (e *Env) withRoot(root *Value, fn func() error) error {
	e.PushRoot(root)
	defer e.PopRoot(root)
	return fn()
}
