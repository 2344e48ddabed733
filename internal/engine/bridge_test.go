package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"exile-tracker/internal/domain"
)

func TestCompute_EmptyEnginePathIsInstant(t *testing.T) {
	b := NewHeadlessBridge("", "/nonexistent/runner", zerolog.Nop())

	start := time.Now()
	stats := b.Compute(context.Background(), "<PathOfBuilding/>")
	elapsed := time.Since(start)

	if !stats.IsZero() {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if elapsed > 5*time.Millisecond {
		t.Fatalf("empty engine path must not spawn anything, took %s", elapsed)
	}
}

func TestCompute_MissingRunnerReturnsZeros(t *testing.T) {
	b := NewHeadlessBridge(t.TempDir(), "/nonexistent/runner", zerolog.Nop())
	stats := b.Compute(context.Background(), "<PathOfBuilding/>")
	if !stats.IsZero() {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestCompute_ReadsRunnerResultLine(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub runner")
	}

	dir := t.TempDir()
	runner := filepath.Join(dir, "runner.sh")
	script := `#!/bin/sh
echo "engine chatter that should be ignored"
echo '{"Life":5230,"TotalDPS":120400.5,"TotalEHP":44100,"FireResist":75,"ColdResist":75,"LightningResist":75,"ChaosResist":-30}'
`
	if err := os.WriteFile(runner, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub runner: %v", err)
	}

	b := NewHeadlessBridge(dir, runner, zerolog.Nop())
	stats := b.Compute(context.Background(), "<PathOfBuilding/>")

	if stats.Life != 5230 || stats.DPS != 120400.5 || stats.EffectiveHP != 44100 {
		t.Errorf("stats mismatch: %+v", stats)
	}
	if stats.Resistances.Chaos != -30 {
		t.Errorf("resistances mismatch: %+v", stats.Resistances)
	}
	// Fields absent from the payload default to zero.
	if stats.EnergyShield != 0 || stats.Armour != 0 {
		t.Errorf("missing fields should be zero: %+v", stats)
	}
}

func TestCompute_CancellationKillsRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub runner")
	}

	dir := t.TempDir()
	runner := filepath.Join(dir, "runner.sh")
	if err := os.WriteFile(runner, []byte("#!/bin/sh\nsleep 30\n"), 0o755); err != nil {
		t.Fatalf("write stub runner: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	b := NewHeadlessBridge(dir, runner, zerolog.Nop())
	start := time.Now()
	stats := b.Compute(ctx, "<PathOfBuilding/>")
	if time.Since(start) > 2*time.Second {
		t.Fatalf("cancellation must terminate the runner promptly")
	}
	if !stats.IsZero() {
		t.Fatalf("cancelled invocation must yield zero stats, got %+v", stats)
	}
}

func TestParseResult_GarbageIsZero(t *testing.T) {
	for _, out := range []string{"", "no json here", "{truncated"} {
		if stats := parseResult([]byte(out), zerolog.Nop()); !stats.IsZero() {
			t.Errorf("%q: expected zero stats, got %+v", out, stats)
		}
	}
}

func TestRegistry_FallsBackToNoop(t *testing.T) {
	r := Registry{}
	stats := r.For(domain.GamePoE2).Compute(context.Background(), "anything")
	if !stats.IsZero() {
		t.Fatalf("expected zero stats from noop calculator")
	}
}
