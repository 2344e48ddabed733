package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"exile-tracker/internal/domain"
)

// resultPayload is the runner's wire contract. The field names mirror
// the engine's own output-stat naming and form a versioned contract:
// re-validate whenever the engine updates. Fields the engine did not
// populate unmarshal to 0.
type resultPayload struct {
	Life            float64 `json:"Life"`
	EnergyShield    float64 `json:"EnergyShield"`
	Evasion         float64 `json:"Evasion"`
	Armour          float64 `json:"Armour"`
	TotalDPS        float64 `json:"TotalDPS"`
	TotalEHP        float64 `json:"TotalEHP"`
	FireResist      float64 `json:"FireResist"`
	ColdResist      float64 `json:"ColdResist"`
	LightningResist float64 `json:"LightningResist"`
	ChaosResist     float64 `json:"ChaosResist"`
}

// HeadlessBridge drives the external engine through the runner binary:
// one positional argument (the engine install path), the build artifact
// on stdin, one machine-readable JSON line on stdout. The runner exits 0
// by design, so failure is detected from the payload, not the exit code.
//
// The bridge has no internal timeout; callers bound it through ctx, and
// cancellation kills the runner process (and with it the engine).
type HeadlessBridge struct {
	enginePath string
	runnerPath string
	logger     zerolog.Logger
}

func NewHeadlessBridge(enginePath, runnerPath string, logger zerolog.Logger) *HeadlessBridge {
	return &HeadlessBridge{
		enginePath: enginePath,
		runnerPath: runnerPath,
		logger:     logger.With().Str("component", "engine_bridge").Logger(),
	}
}

// Compute hands the artifact to the engine and reads back derived stats.
// With no engine configured it returns zeros immediately, without
// spawning anything.
func (b *HeadlessBridge) Compute(ctx context.Context, artifact string) domain.DerivedStats {
	if b.enginePath == "" {
		return domain.DerivedStats{}
	}

	cmd := exec.CommandContext(ctx, b.runnerPath, b.enginePath)
	// The engine resolves its data files relative to its own install
	// directory, not ours.
	cmd.Dir = b.enginePath
	cmd.Stdin = strings.NewReader(artifact)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		b.logger.Warn().Err(err).Str("engine_path", b.enginePath).Msg("engine runner failed, falling back to raw totals")
		return domain.DerivedStats{}
	}

	return parseResult(stdout.Bytes(), b.logger)
}

// parseResult reads the single JSON result line from the runner output,
// tolerating any stray noise around it.
func parseResult(out []byte, logger zerolog.Logger) domain.DerivedStats {
	line := lastJSONLine(out)
	if line == "" {
		logger.Warn().Msg("engine runner produced no result line")
		return domain.DerivedStats{}
	}

	var payload resultPayload
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		logger.Warn().Err(err).Msg("engine result line is not valid JSON")
		return domain.DerivedStats{}
	}

	return domain.DerivedStats{
		Life:         payload.Life,
		EnergyShield: payload.EnergyShield,
		Evasion:      payload.Evasion,
		Armour:       payload.Armour,
		DPS:          payload.TotalDPS,
		EffectiveHP:  payload.TotalEHP,
		Resistances: domain.Resistances{
			Fire:      payload.FireResist,
			Cold:      payload.ColdResist,
			Lightning: payload.LightningResist,
			Chaos:     payload.ChaosResist,
		},
	}
}

func lastJSONLine(out []byte) string {
	lines := strings.Split(string(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		s := strings.TrimSpace(lines[i])
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			return s
		}
	}
	return ""
}
