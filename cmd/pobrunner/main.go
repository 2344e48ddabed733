// pobrunner is the process boundary between the tracker and the desktop
// calculation engine. It takes the engine install path as its single
// argument, reads a build artifact from stdin, drives the engine's
// headless entry point with all of its chatty output suppressed, and
// writes exactly one JSON result line to stdout.
//
// The exit code is always 0: failure is signaled by an empty result
// object, and callers inspect the payload rather than the exit status.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// The engine's headless entry point and the runtime that hosts it. Both
// ship inside the engine install directory.
const (
	headlessEntry = "HeadlessWrapper.lua"
	luaRuntime    = "luajit"
)

// outputFields is the versioned field-name contract with the engine's
// in-memory result. Re-validate against the engine on every engine
// update; anything the engine does not print stays 0.
var outputFields = []string{
	"Life",
	"EnergyShield",
	"Evasion",
	"Armour",
	"TotalDPS",
	"TotalEHP",
	"FireResist",
	"ColdResist",
	"LightningResist",
	"ChaosResist",
}

var statLine = regexp.MustCompile(`^([A-Za-z]+)=(-?\d+(?:\.\d+)?)$`)

func main() {
	result := run()

	// Always one line, always exit 0.
	out, err := json.Marshal(result)
	if err != nil {
		out = []byte("{}")
	}
	fmt.Println(string(out))
}

func run() map[string]float64 {
	result := make(map[string]float64, len(outputFields))
	for _, f := range outputFields {
		result[f] = 0
	}

	if len(os.Args) < 2 || os.Args[1] == "" {
		return result
	}
	enginePath := os.Args[1]

	artifact, err := io.ReadAll(os.Stdin)
	if err != nil || len(artifact) == 0 {
		return result
	}

	// The engine resolves data files relative to its install directory.
	if err := os.Chdir(enginePath); err != nil {
		return result
	}

	tmp, err := os.CreateTemp("", "pob-artifact-*.xml")
	if err != nil {
		return result
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(artifact); err != nil {
		tmp.Close()
		return result
	}
	tmp.Close()

	entry := filepath.Join(enginePath, headlessEntry)
	if _, err := os.Stat(entry); err != nil {
		return result
	}

	cmd := exec.Command(luaRuntime, entry, tmp.Name())
	cmd.Dir = enginePath

	// The engine prints pages of load progress; capture everything and
	// forward nothing.
	out, err := cmd.CombinedOutput()
	if err != nil {
		return result
	}

	for field, value := range scanStatLines(out) {
		if _, known := result[field]; known {
			result[field] = value
		}
	}
	return result
}

// scanStatLines picks FIELD=value pairs out of the engine's output,
// ignoring everything else it prints.
func scanStatLines(out []byte) map[string]float64 {
	stats := make(map[string]float64)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := statLine.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			stats[m[1]] = v
		}
	}
	return stats
}
