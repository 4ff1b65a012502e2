package cppon

import "testing"

func TestEffectiveLevelPrecedence(t *testing.T) {
	defer SetGlobalDispatchLevel(LevelAuto)

	SetGlobalDispatchLevel(LevelAuto)
	if got := effectiveLevel(LevelAuto); got != capabilityLevel() {
		t.Fatalf("auto should track capability, got %v", got)
	}

	SetGlobalDispatchLevel(LevelScalar)
	if got := effectiveLevel(LevelAuto); got != LevelScalar {
		t.Fatalf("global override should apply, got %v", got)
	}

	// Thread override wins over global.
	if cap := capabilityLevel(); cap >= LevelSWAR64 {
		if got := effectiveLevel(LevelSWAR64); got != LevelSWAR64 {
			t.Fatalf("thread override should beat global, got %v", got)
		}
	}
}

func TestEffectiveLevelCappedToCapability(t *testing.T) {
	defer SetGlobalDispatchLevel(LevelAuto)
	SetGlobalDispatchLevel(LevelSWAR256)
	if got := effectiveLevel(LevelAuto); got > capabilityLevel() {
		t.Fatalf("effective level %v exceeds capability %v", got, capabilityLevel())
	}
	if got := effectiveLevel(LevelSWAR256); got > capabilityLevel() {
		t.Fatalf("thread override not capped: %v", got)
	}
}

func TestDispatchTableRebindsFunctions(t *testing.T) {
	var d dispatchTable
	d.rebind(LevelScalar)
	if d.level != LevelScalar || d.findQuote == nil || d.scanDigits == nil {
		t.Fatalf("scalar rebind incomplete: %+v", d)
	}
	input := []byte(`abc"def` + "\x00")
	if got := d.findQuote(input, 0, 7); got != 3 {
		t.Fatalf("scalar findQuote = %d", got)
	}

	d.rebind(LevelSWAR64)
	if capabilityLevel() >= LevelSWAR64 && d.level != LevelSWAR64 {
		t.Fatalf("expected SWAR64 level, got %v", d.level)
	}
	if got := d.findQuote(input, 0, 7); got != 3 {
		t.Fatalf("rebound findQuote = %d", got)
	}
	digits := []byte("123x\x00")
	if got := d.scanDigits(digits, 0, 4); got != 3 {
		t.Fatalf("rebound scanDigits = %d", got)
	}
}

func TestEnvSetDispatchLevelRebindsImmediately(t *testing.T) {
	env := NewEnv()
	env.SetDispatchLevel(LevelScalar)
	if env.DispatchLevel() != LevelScalar {
		t.Fatalf("expected scalar, got %v", env.DispatchLevel())
	}
	// Parsing still works at every forced level.
	for _, l := range []Level{LevelScalar, LevelSWAR64, LevelSWAR256} {
		env.SetDispatchLevel(l)
		v, err := Parse(env, []byte(`{"s":"hello","n":12345}`), ModeFull)
		if err != nil {
			t.Fatalf("level %v: %v", l, err)
		}
		s, err := env.Visit(&v, "/s")
		if err != nil {
			t.Fatal(err)
		}
		if str, _ := GetString(s); str != "hello" {
			t.Fatalf("level %v: got %q", l, str)
		}
	}
	env.SetDispatchLevel(LevelAuto)
}

func TestGlobalDispatchLevelVisibleToNewEnv(t *testing.T) {
	defer SetGlobalDispatchLevel(LevelAuto)
	SetGlobalDispatchLevel(LevelScalar)
	env := NewEnv()
	if env.DispatchLevel() != LevelScalar {
		t.Fatalf("new Env should see the global override, got %v", env.DispatchLevel())
	}
}
