package timeline

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func timesOf(tl Timeline) []float64 {
	out := make([]float64, tl.Len())
	for i := range out {
		out[i] = tl.At(i).Time
	}
	return out
}

func sameTimes(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func fourFrames() Timeline {
	v := func(f float64) Snapshot { return Snapshot{"x": Scalar(f)} }
	return New(
		Keyframe{Time: 0, Values: v(0)},
		Keyframe{Time: 1, Values: v(1)},
		Keyframe{Time: 1.5, Values: v(2)},
		Keyframe{Time: 6, Values: v(3)},
	)
}

func TestWithKeyframe_ReplacesWithinSnapWindow(t *testing.T) {
	base := fourFrames()
	next := base.WithKeyframe(Keyframe{Time: 1.005, Values: Snapshot{"x": Scalar(50)}})

	if got := timesOf(next); !sameTimes(got, []float64{0, 1.005, 1.5, 6}) {
		t.Errorf("times = %v", got)
	}
	if got := timesOf(base); !sameTimes(got, []float64{0, 1, 1.5, 6}) {
		t.Errorf("original timeline changed: %v", got)
	}
}

func TestWithKeyframe_Inserts(t *testing.T) {
	next := fourFrames().WithKeyframe(Keyframe{Time: 3, Values: Snapshot{"x": Scalar(9)}})
	if got := timesOf(next); !sameTimes(got, []float64{0, 1, 1.5, 3, 6}) {
		t.Errorf("times = %v", got)
	}
}

func TestWithout(t *testing.T) {
	next := fourFrames().Without(1, 3, 99, -1)
	if got := timesOf(next); !sameTimes(got, []float64{0, 1.5}) {
		t.Errorf("times = %v", got)
	}
}

func TestWithValuesAndTime(t *testing.T) {
	base := fourFrames()

	merged, err := base.WithValues(0, Snapshot{"y": Scalar(7)})
	if err != nil {
		t.Fatalf("WithValues() error = %v", err)
	}
	if len(merged.At(0).Values) != 2 || len(base.At(0).Values) != 1 {
		t.Errorf("WithValues should merge into a new map only")
	}

	moved, err := base.WithTime(0, 10)
	if err != nil {
		t.Fatalf("WithTime() error = %v", err)
	}
	if got := timesOf(moved); !sameTimes(got, []float64{1, 1.5, 6, 10}) {
		t.Errorf("times = %v", got)
	}

	if _, err := base.WithTime(4, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("WithTime(4) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestWithEasing(t *testing.T) {
	next := fourFrames().WithEasing(EaseOut, 0, 2)
	for i, want := range []EasingKind{EaseOut, Linear, EaseOut, Linear} {
		if got := next.At(i).Easing; got != want {
			t.Errorf("keyframe %d easing = %v, want %v", i, got, want)
		}
	}
}

func TestPaste(t *testing.T) {
	base := fourFrames()
	clip := base.Select(2, 1)

	next := base.Paste(8, clip...)
	if got := timesOf(next); !sameTimes(got, []float64{0, 1, 1.5, 6, 8, 8.5}) {
		t.Errorf("times = %v", got)
	}
	if got := base.Paste(8); !got.Equal(base) {
		t.Error("pasting nothing should return the same timeline")
	}
}

func TestDistribute(t *testing.T) {
	next, err := fourFrames().Distribute(0, 1, 2, 3)
	if err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}
	if got := timesOf(next); !sameTimes(got, []float64{0, 2, 4, 6}) {
		t.Errorf("times = %v", got)
	}

	if _, err := fourFrames().Distribute(0, 3); !errors.Is(err, ErrSelectionTooSmall) {
		t.Errorf("Distribute(2 frames) error = %v, want ErrSelectionTooSmall", err)
	}
}

func TestReverse(t *testing.T) {
	next, err := fourFrames().Reverse(0, 1, 2)
	if err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}
	// Selection spans 0..1.5; x values must now run 2,1,0 over it.
	want := []float64{2, 1, 0, 3}
	for i, w := range want {
		if f, _ := next.At(i).Values["x"].Float(); f != w {
			t.Errorf("keyframe %d x = %v, want %v", i, f, w)
		}
	}
	if got := timesOf(next); !sameTimes(got, []float64{0, 0.5, 1.5, 6}) {
		t.Errorf("times = %v", got)
	}

	if _, err := fourFrames().Reverse(1); !errors.Is(err, ErrSelectionTooSmall) {
		t.Errorf("Reverse(1 frame) error = %v, want ErrSelectionTooSmall", err)
	}
}

func TestTemplates(t *testing.T) {
	for _, name := range TemplateNames() {
		tl, err := Template(name)
		if err != nil {
			t.Fatalf("Template(%q) error = %v", name, err)
		}
		if err := Validate(tl); err != nil {
			t.Errorf("template %q invalid: %v", name, err)
		}
	}
	if _, err := Template("fade to black"); err != nil {
		t.Errorf("lookup should be case insensitive: %v", err)
	}
	if _, err := Template("nope"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Template(nope) error = %v", err)
	}
}

func TestTimeline_JSONRoundTrip(t *testing.T) {
	src := `[
		{"time": 2, "easing": "Ease-Out", "values": {"fov": 30, "sun_color": [1, 0.5, 0.25]}},
		{"time": 0, "easing": "smooth", "values": {"fov": 65}}
	]`

	var tl Timeline
	if err := json.Unmarshal([]byte(src), &tl); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if tl.At(0).Time != 0 || tl.At(0).Easing != Smooth || tl.At(1).Easing != EaseOut {
		t.Fatalf("decoded timeline = %+v", tl.Keyframes())
	}

	data, err := json.Marshal(tl)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back Timeline
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("second Unmarshal() error = %v", err)
	}
	if !back.Equal(tl) {
		t.Errorf("round trip mismatch:\n%s", data)
	}
}

func TestValue_JSONRejectsBadShapes(t *testing.T) {
	for _, src := range []string{`[1, 2]`, `"x"`, `{"a": 1}`, `[1, 2, 3, 4]`} {
		var v Value
		if err := json.Unmarshal([]byte(src), &v); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("Unmarshal(%s) error = %v, want ErrInvalidValue", src, err)
		}
	}
	if _, err := json.Marshal(Value{}); err == nil {
		t.Error("marshalling an unset value should fail")
	}
}

func TestTimeline_YAML(t *testing.T) {
	src := `
- time: 0
  easing: Ease-In
  values:
    brightness: -1
    fog_color: [0.2, 0.2, 0.3]
- time: 4
  values:
    brightness: 0.5
`
	var tl Timeline
	if err := yaml.Unmarshal([]byte(src), &tl); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if tl.Len() != 2 || tl.At(0).Easing != EaseIn {
		t.Fatalf("decoded = %+v", tl.Keyframes())
	}
	if v, ok := tl.At(0).Values["fog_color"].Vec(); !ok || v[2] != 0.3 {
		t.Errorf("fog_color = %v", tl.At(0).Values["fog_color"])
	}
}
