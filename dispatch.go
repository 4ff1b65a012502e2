package cppon

import (
	"sync/atomic"

	"github.com/klauspost/cpuid/v2"
)

// Level selects which scanner tier (§4.A) is used. Wider tiers process
// more bytes per step but must degrade correctly to a narrower tier when
// the remaining window is too small for a full step; see scanner_swar.go.
type Level int32

const (
	// LevelAuto lets the effective level be derived from CPU capability.
	// It is never itself a usable scanning tier.
	LevelAuto Level = iota
	LevelScalar
	LevelSWAR64
	LevelSWAR256
)

// globalDispatchOverride is the process-wide override. It is read with
// relaxed ordering and intended for diagnostics, not for
// correctness-critical signaling. LevelAuto means "no override".
var globalDispatchOverride atomic.Int32

// SetGlobalDispatchLevel sets (or clears, with LevelAuto) the process-wide
// override. Safe to call from any goroutine at any time.
func SetGlobalDispatchLevel(l Level) {
	globalDispatchOverride.Store(int32(l))
}

// GlobalDispatchLevel reads the process-wide override.
func GlobalDispatchLevel() Level {
	return Level(globalDispatchOverride.Load())
}

// capabilityLevel reports the widest scanning tier the running CPU
// supports, derived from klauspost/cpuid/v2.
func capabilityLevel() Level {
	if cpuid.CPU.Supports(cpuid.AVX2) {
		return LevelSWAR256
	}
	if cpuid.CPU.X64Level() >= 2 {
		return LevelSWAR64
	}
	return LevelScalar
}

// effectiveLevel computes the dispatch level for an Env: per-Env
// override > global override > auto, capped to CPU capability.
func effectiveLevel(threadOverride Level) Level {
	cap := capabilityLevel()
	level := LevelAuto
	if threadOverride != LevelAuto {
		level = threadOverride
	} else if g := GlobalDispatchLevel(); g != LevelAuto {
		level = g
	}
	if level == LevelAuto || level > cap {
		level = cap
	}
	return level
}

// dispatchTable holds the two cached scanner function values, rebound
// whenever the Env's effective level changes.
type dispatchTable struct {
	level      Level
	findQuote  func(b []byte, offset, count int) int
	scanDigits func(b []byte, offset, count int) int
}

// rebind recomputes the effective level from threadOverride and rebinds
// the cached function values if the level changed. The table is updated
// in place.
func (d *dispatchTable) rebind(threadOverride Level) {
	level := effectiveLevel(threadOverride)
	if level == d.level && d.findQuote != nil {
		return
	}
	d.level = level
	switch level {
	case LevelSWAR256, LevelSWAR64:
		d.findQuote = findQuoteSWAR
		d.scanDigits = scanDigitsSWAR
	default:
		d.findQuote = findQuoteScalar
		d.scanDigits = scanDigitsScalar
	}
}
