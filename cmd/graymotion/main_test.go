package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeFile writes content to name under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// testConfig writes a config with MQTT and InfluxDB disabled and the
// database in a temp dir.
func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	return writeFile(t, dir, "config.yaml", `
site:
  id: test-site
database:
  path: "`+filepath.Join(dir, "motion.db")+`"
mqtt:
  enabled: false
influxdb:
  enabled: false
logging:
  level: error
  format: text
  output: stderr
motion:
  tick_rate_hz: 200
`)
}

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version", "--config", "/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "graymotion dev") {
		t.Errorf("output = %q, want version line", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	_, err := runCLI(t, "presets", "--config", "/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("presets should fail with invalid config path")
	}
	if !strings.Contains(err.Error(), "loading config") {
		t.Errorf("error = %v, want loading config", err)
	}
}

func TestPlay_Template(t *testing.T) {
	cfg := testConfig(t)

	out, err := runCLI(t, "play", "Fade to Black", "--duration", "50ms", "--config", cfg)
	if err != nil {
		t.Fatalf("play failed: %v\n%s", err, out)
	}

	var state map[string]any
	if err := json.Unmarshal([]byte(out), &state); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got, ok := state["brightness"].(float64); !ok || got != -1 {
		t.Errorf("brightness = %v, want -1", state["brightness"])
	}
}

func TestPlay_File(t *testing.T) {
	cfg := testConfig(t)
	path := writeFile(t, t.TempDir(), "zoom.json", `[
		{"time": 0, "easing": "linear", "values": {"fov": 60}},
		{"time": 1, "easing": "smooth", "values": {"fov": 90}}
	]`)

	out, err := runCLI(t, "play", path, "--duration", "40ms", "--config", cfg)
	if err != nil {
		t.Fatalf("play failed: %v\n%s", err, out)
	}
	var state map[string]any
	if err := json.Unmarshal([]byte(out), &state); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got, ok := state["fov"].(float64); !ok || got != 90 {
		t.Errorf("fov = %v, want 90", state["fov"])
	}
}

func TestPlay_Errors(t *testing.T) {
	cfg := testConfig(t)

	if _, err := runCLI(t, "play", "--config", cfg); err == nil {
		t.Error("play without a source should fail")
	}
	if _, err := runCLI(t, "play", "No Such Template", "--config", cfg); err == nil {
		t.Error("play with an unknown template should fail")
	}
	if _, err := runCLI(t, "play", "--preset", "No Such Preset", "--config", cfg); err == nil {
		t.Error("play with an unknown preset should fail")
	}
}

func TestSequence_File(t *testing.T) {
	cfg := testConfig(t)
	path := writeFile(t, t.TempDir(), "greet.yaml", `
- type: command
  value: say hi
- type: wait
  value: 5
- type: command
  value: say bye
`)

	out, err := runCLI(t, "sequence", path, "--config", cfg)
	if err != nil {
		t.Fatalf("sequence failed: %v\n%s", err, out)
	}
	for _, want := range []string{"[greet] 0 command say hi", "[greet] 2 command say bye"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSequence_UnknownName(t *testing.T) {
	if _, err := runCLI(t, "sequence", "No Such Sequence", "--config", testConfig(t)); err == nil {
		t.Error("sequence with an unknown name should fail")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", `
- time: 0
  easing: linear
  values: {fov: 60}
- time: 2
  easing: ease_out
  values: {fov: 75}
`)
	script := writeFile(t, dir, "script.json", `[
		{"type": "wait", "value": 100},
		{"type": "command", "value": "say hi"}
	]`)
	badTimeline := writeFile(t, dir, "bad.json", `[
		{"time": 2, "easing": "linear", "values": {"fov": 60}},
		{"time": 1, "easing": "linear", "values": {"fov": 75}}
	]`)
	badScript := writeFile(t, dir, "bad-script.json", `[
		{"type": "wait", "value": "soon"},
		{"type": "teleport"}
	]`)

	out, err := runCLI(t, "validate", good, script)
	if err != nil {
		t.Fatalf("validate failed on good files: %v\n%s", err, out)
	}
	if strings.Count(out, " ok\n") != 2 {
		t.Errorf("output = %q, want two ok lines", out)
	}

	out, err = runCLI(t, "validate", good, badTimeline, badScript)
	if err == nil {
		t.Fatal("validate should fail on bad files")
	}
	if !strings.Contains(err.Error(), "2 of 3") {
		t.Errorf("error = %v, want 2 of 3", err)
	}
	if !strings.Contains(out, "step 0") || !strings.Contains(out, "step 1") {
		t.Errorf("output should name each bad step:\n%s", out)
	}
}

func TestValidate_KindOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty-record.json", `[{}]`)

	if _, err := runCLI(t, "validate", path); err == nil {
		t.Error("auto detection should fail on an unrecognisable record")
	}
	out, err := runCLI(t, "validate", "--kind", "sequence", path)
	if err == nil {
		t.Fatal("a step without a type should be invalid")
	}
	if !strings.Contains(out, "missing type") {
		t.Errorf("output = %q, want missing type", out)
	}
}

func TestLoadTimeline(t *testing.T) {
	tl, err := loadTimeline("Sunrise")
	if err != nil {
		t.Fatalf("loadTimeline(Sunrise) error: %v", err)
	}
	if tl.Len() == 0 {
		t.Error("template timeline is empty")
	}

	single := writeFile(t, t.TempDir(), "single.json", `[{"time": 0, "easing": "linear", "values": {"fov": 60}}]`)
	if _, err := loadTimeline(single); err == nil {
		t.Error("a single keyframe should not load")
	}
}

func TestPresets(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		kind string
		want string
	}{
		{"environments", "Clear Day"},
		{"sequences", "Artillery Barrage"},
		{"flicker", "Candle"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			out, err := runCLI(t, "presets", tt.kind, "--config", cfg)
			if err != nil {
				t.Fatalf("presets %s failed: %v", tt.kind, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}

	if _, err := runCLI(t, "presets", "widgets", "--config", cfg); err == nil {
		t.Error("unknown preset kind should fail")
	}
}
