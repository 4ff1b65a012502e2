package cppon

import (
	"errors"
	"testing"
)

func TestNewEnvDefaults(t *testing.T) {
	env := NewEnv()
	cfg := env.Config()
	if cfg.PathPrefix != "$cppon-path:" || cfg.BlobPrefix != "$cppon-blob:" || cfg.NumberPrefix != "$cppon-number:" {
		t.Fatalf("unexpected default prefixes: %+v", cfg)
	}
	if cfg.MinReserve <= 0 || cfg.MaxArrayDelta <= 0 || cfg.PrinterReserveHint <= 0 {
		t.Fatalf("reserve knobs must default positive: %+v", cfg)
	}
	if env.ExactNumbers() {
		t.Fatal("exact mode should default off")
	}
}

func TestEnvOptionsApply(t *testing.T) {
	env := NewEnv(
		WithPathPrefix("@path:"),
		WithBlobPrefix("@blob:"),
		WithNumberPrefix("@num:"),
		WithMinReserve(2),
		WithMaxArrayDelta(1),
		WithExactNumbers(true),
		WithDispatchLevel(LevelScalar),
	)
	cfg := env.Config()
	if cfg.PathPrefix != "@path:" || cfg.BlobPrefix != "@blob:" || cfg.NumberPrefix != "@num:" {
		t.Fatalf("prefix options not applied: %+v", cfg)
	}
	if cfg.MinReserve != 2 || cfg.MaxArrayDelta != 1 {
		t.Fatalf("reserve options not applied: %+v", cfg)
	}
	if !env.ExactNumbers() {
		t.Fatal("WithExactNumbers not applied")
	}
	if env.DispatchLevel() != LevelScalar {
		t.Fatalf("WithDispatchLevel not applied: %v", env.DispatchLevel())
	}
}

func TestConfiguredPrefixesDrivenThroughParseAndPrint(t *testing.T) {
	env := NewEnv(WithPathPrefix("@path:"), WithBlobPrefix("@blob:"))
	src := `{"a":1,"p":"@path:/a","b":"@blob:SGVsbG8="}`
	v, err := Parse(env, []byte(src), ModeLazy)
	if err != nil {
		t.Fatal(err)
	}
	p, err := env.Visit(&v, "/p")
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind() != KindPathToken {
		t.Fatalf("custom path prefix not recognized: %v", p.Kind())
	}
	// The default prefix is just an ordinary string under a custom config.
	v2, err := Parse(env, []byte(`{"p":"$cppon-path:/a"}`), ModeLazy)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := env.Visit(&v2, "/p")
	if err != nil {
		t.Fatal(err)
	}
	if p2.Kind() != KindStringView {
		t.Fatalf("default prefix should not classify under a custom config: %v", p2.Kind())
	}
	out, err := NewPrinter(env).Print(&v, nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != src {
		t.Fatalf("custom prefixes should round trip: got %s", out)
	}
}

func TestConfiguredMaxArrayDelta(t *testing.T) {
	env := NewEnv(WithMaxArrayDelta(1))
	v := EmptyArray(0)
	if _, err := env.VisitIndex(&v, 1); err != nil {
		t.Fatalf("growth within delta should succeed: %v", err)
	}
	_, err := env.VisitIndex(&v, 10)
	var travErr *TraversalError
	if !errors.As(err, &travErr) || travErr.K != KindExcessiveArrayResize {
		t.Fatalf("expected ExcessiveArrayResize, got %v", err)
	}
}

func TestWithRootBalances(t *testing.T) {
	env := NewEnv()
	root := EmptyObject(0)
	err := env.withRoot(&root, func() error {
		if env.CurrentRoot() != &root {
			t.Fatal("root not pushed")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !env.roots.isSentinelTop() {
		t.Fatal("root not popped")
	}
}

func TestWithRootPopsOnError(t *testing.T) {
	env := NewEnv()
	root := EmptyObject(0)
	wantErr := errors.New("boom")
	if err := env.withRoot(&root, func() error { return wantErr }); err != wantErr {
		t.Fatalf("error not propagated: %v", err)
	}
	if !env.roots.isSentinelTop() {
		t.Fatal("root leaked on error")
	}
}
