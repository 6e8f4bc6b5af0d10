package sequence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStep_Target(t *testing.T) {
	tests := []struct {
		name string
		step Step
		want string
	}{
		{"environment by name", Step{Type: StepEnvironment, Name: "Night"}, "Night"},
		{"environment by preset", Step{Type: StepEnvironment, Preset: "Dusk"}, "Dusk"},
		{"transition to", Step{Type: StepTransition, To: "Dawn", Preset: "ignored"}, "Dawn"},
		{"transition preset", Step{Type: StepTransition, Preset: "Dawn"}, "Dawn"},
		{"transition name", Step{Type: StepTransition, Name: "Dawn"}, "Dawn"},
		{"animation", Step{Type: StepAnimation, Preset: "Sunset", Name: "other"}, "Sunset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.step.Target())
		})
	}
}

func TestStep_Validate(t *testing.T) {
	neg := -1.0
	tests := []struct {
		name    string
		step    Step
		wantErr bool
	}{
		{"environment", Step{Type: StepEnvironment, Name: "Night"}, false},
		{"environment without name", Step{Type: StepEnvironment}, true},
		{"animation without preset", Step{Type: StepAnimation}, true},
		{"transition negative duration", Step{Type: StepTransition, To: "Night", Duration: &neg}, true},
		{"flicker negative speed", Step{Type: StepFlicker, Preset: "Storm", Speed: &neg}, true},
		{"command", Step{Type: StepCommand, Value: "cg_fov 90"}, false},
		{"blank command", Step{Type: StepCommand, Value: "  "}, true},
		{"wait", Step{Type: StepWait, Value: "1500"}, false},
		{"wait not a number", Step{Type: StepWait, Value: "later"}, true},
		{"negative wait", Step{Type: StepWait, Value: "-5"}, true},
		{"stop effects", Step{Type: StepStopEffects}, false},
		{"missing type", Step{}, true},
		{"unknown type", Step{Type: "explode"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedStep)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStep_Durations(t *testing.T) {
	d := 1250.0
	assert.Equal(t, 1250*time.Millisecond, Step{Type: StepTransition, Duration: &d}.TransitionDuration())
	assert.Equal(t, DefaultTransitionDuration, Step{Type: StepTransition}.TransitionDuration())

	wait, err := Step{Type: StepWait, Value: " 2000 "}.WaitDuration()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, wait)

	assert.Zero(t, Step{Type: StepFlicker}.FlickerSpeed())
	s := 80.0
	assert.Equal(t, 80*time.Millisecond, Step{Type: StepFlicker, Speed: &s}.FlickerSpeed())
}

func TestParseJSON(t *testing.T) {
	data := []byte(`[
		{"type": "environment", "name": "Night"},
		{"type": "wait", "value": 2000},
		{"type": "command", "value": "r_lighttweaksunlight 10.0"},
		{"type": "flicker", "preset": "Faulty", "speed": "fast"},
		{"type": "transition", "to": "Dawn", "duration": 6000},
		{"type": "animation", "preset": "Sunrise", "wait_for_completion": true}
	]`)

	script, err := ParseJSON(data)
	require.NoError(t, err)
	require.Len(t, script, 6)

	assert.Equal(t, "Night", script[0].Target())
	assert.Equal(t, Value("2000"), script[1].Value)
	assert.Equal(t, "r_lighttweaksunlight 10.0", script[2].Value.String())
	assert.ErrorIs(t, script[3].Validate(), ErrMalformedStep, "a bad step is kept and reported")
	assert.Equal(t, 6*time.Second, script[4].TransitionDuration())
	assert.True(t, script[5].WaitForCompletion)
}

func TestParseJSON_NotAList(t *testing.T) {
	_, err := ParseJSON([]byte(`{"type": "wait"}`))
	assert.ErrorIs(t, err, ErrInvalidScript)
}

func TestScript_UnmarshalJSONInDocument(t *testing.T) {
	var doc struct {
		Name  string `json:"name"`
		Steps Script `json:"steps"`
	}
	err := json.Unmarshal([]byte(`{"name": "Gas Attack", "steps": [{"type": "stop_effects"}, {"type": 7}]}`), &doc)
	require.NoError(t, err)
	require.Len(t, doc.Steps, 2)
	assert.NoError(t, doc.Steps[0].Validate())
	assert.ErrorIs(t, doc.Steps[1].Validate(), ErrMalformedStep)
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
- type: environment
  name: Wartime Trenches
- type: wait
  value: 500
- type: command
  value: "cg_fov 90"
- type: flicker
  preset: [not, a, string]
- type: transition
  to: Night
`)
	script, err := ParseYAML(data)
	require.NoError(t, err)
	require.Len(t, script, 5)

	assert.Equal(t, "Wartime Trenches", script[0].Target())
	wait, err := script[1].WaitDuration()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, wait)
	assert.Equal(t, "cg_fov 90", script[2].Value.String())
	assert.ErrorIs(t, script[3].Validate(), ErrMalformedStep)
	assert.Equal(t, DefaultTransitionDuration, script[4].TransitionDuration())
}

func TestParseYAML_NotASequence(t *testing.T) {
	_, err := ParseYAML([]byte("type: wait\n"))
	assert.ErrorIs(t, err, ErrInvalidScript)
}

func TestValue_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Step{Type: StepWait, Value: "250"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "wait", "value": 250}`, string(out))

	out, err = json.Marshal(Step{Type: StepCommand, Value: "cg_fov 90"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "command", "value": "cg_fov 90"}`, string(out))
}

func TestValue_UnmarshalYAMLRejectsMapping(t *testing.T) {
	var v Value
	err := yaml.Unmarshal([]byte("a: b"), &v)
	assert.Error(t, err)
}
