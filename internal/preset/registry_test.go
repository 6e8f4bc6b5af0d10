package preset

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-motion/internal/animation"
	"github.com/nerrad567/gray-logic-motion/internal/sequence"
	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// failingRepository fails every write.
type failingRepository struct {
	*MemoryRepository
}

var errDiskFull = errors.New("disk full")

func (failingRepository) Create(context.Context, *Record) error { return errDiskFull }

func newTestRegistry(t *testing.T, repo Repository) *Registry {
	t.Helper()
	r := NewRegistry(repo)
	require.NoError(t, r.RefreshCache(context.Background()))
	return r
}

func testEnvironment(name string) *Environment {
	return &Environment{
		Name: name,
		Values: timeline.Snapshot{
			"sun_strength": timeline.Scalar(0.9),
			"sun_color":    timeline.Vector3(1, 0.5, 0.2),
		},
	}
}

func TestBuiltins(t *testing.T) {
	set, err := Builtins()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(set.Environments), 30)
	assert.Len(t, set.Animations, len(animation.Builtins()))
	assert.GreaterOrEqual(t, len(set.Sequences), 19)

	envs := make(map[string]Environment)
	for _, e := range set.Environments {
		assert.True(t, e.Builtin)
		assert.Equal(t, BuiltinID(KindEnvironment, e.Name), e.ID)
		assert.NoError(t, e.Validate(), e.Name)
		envs[e.Name] = e
	}

	night := envs["Night"]
	assert.Equal(t, timeline.Scalar(0.2), night.Values["sun_strength"])
	assert.Equal(t, timeline.Scalar(-90), night.Values["sun_direction_x"])
	assert.Equal(t, timeline.Vector3(0.1, 0.2, 0.4), night.Values["sun_color"])

	silentHill := envs["Silent Hill"]
	require.NotNil(t, silentHill.Flicker)
	assert.Equal(t, "Candle", silentHill.Flicker.Preset)
	assert.Equal(t, 1200.0, silentHill.Flicker.Speed)
	assert.True(t, silentHill.Flicker.Smooth)

	for _, a := range set.Animations {
		assert.NoError(t, a.Validate(), a.Name)
	}
	for _, s := range set.Sequences {
		assert.NoError(t, s.Validate(), s.Name)
	}
}

func TestBuiltins_SequenceReferencesResolve(t *testing.T) {
	set, err := Builtins()
	require.NoError(t, err)

	r := newTestRegistry(t, NewMemoryRepository())
	ctx := context.Background()
	for _, s := range set.Sequences {
		for i, step := range s.Steps {
			switch step.Type {
			case sequence.StepEnvironment, sequence.StepTransition:
				_, err := r.Environment(ctx, step.Target())
				assert.NoError(t, err, "%s step %d", s.Name, i)
			case sequence.StepAnimation:
				_, err := r.Animation(ctx, step.Target())
				assert.NoError(t, err, "%s step %d", s.Name, i)
			}
		}
	}
}

func TestRegistry_LookupIgnoresCase(t *testing.T) {
	r := newTestRegistry(t, NewMemoryRepository())
	ctx := context.Background()

	e, err := r.Environment(ctx, "blood moon")
	require.NoError(t, err)
	assert.Equal(t, "Blood Moon", e.Name)

	byID, err := r.Environment(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Name, byID.Name)

	_, err = r.Environment(ctx, "Nowhere")
	assert.ErrorIs(t, err, ErrPresetNotFound)

	a, err := r.Animation(ctx, "SUNRISE")
	require.NoError(t, err)
	assert.Equal(t, animation.KindLinear, a.Kind)
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r := newTestRegistry(t, NewMemoryRepository())
	ctx := context.Background()

	e, err := r.Environment(ctx, "Night")
	require.NoError(t, err)
	e.Values["sun_strength"] = timeline.Scalar(99)

	again, err := r.Environment(ctx, "Night")
	require.NoError(t, err)
	assert.Equal(t, timeline.Scalar(0.2), again.Values["sun_strength"])
}

func TestRegistry_CreateEnvironment(t *testing.T) {
	repo := NewMemoryRepository()
	r := newTestRegistry(t, repo)
	ctx := context.Background()

	e := testEnvironment("Ember Glow")
	require.NoError(t, r.CreateEnvironment(ctx, e))
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())

	got, err := r.Environment(ctx, "ember glow")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.False(t, got.Builtin)

	records, err := repo.List(ctx, KindEnvironment)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ember Glow", records[0].Name)

	// A fresh registry over the same repository sees it.
	reloaded := newTestRegistry(t, repo)
	got, err = reloaded.Environment(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.Values.Equal(e.Values))
}

func TestRegistry_CreateRejects(t *testing.T) {
	r := newTestRegistry(t, NewMemoryRepository())
	ctx := context.Background()

	tests := []struct {
		name    string
		env     *Environment
		wantErr error
	}{
		{"builtin name", testEnvironment("night"), ErrPresetExists},
		{"empty name", testEnvironment("  "), ErrInvalidPreset},
		{"nothing set", &Environment{Name: "Empty"}, ErrInvalidPreset},
		{"unknown flicker", &Environment{Name: "Disco", Flicker: &FlickerRef{Preset: "Disco"}}, ErrInvalidPreset},
		{"negative speed", &Environment{Name: "Slow", Animation: &AnimationRef{Preset: "Sweep", Speed: -1}}, ErrInvalidPreset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, r.CreateEnvironment(ctx, tt.env), tt.wantErr)
		})
	}
}

func TestRegistry_RepositoryFailureLeavesCacheUnchanged(t *testing.T) {
	r := newTestRegistry(t, failingRepository{NewMemoryRepository()})
	ctx := context.Background()

	err := r.CreateEnvironment(ctx, testEnvironment("Lost"))
	assert.ErrorIs(t, err, errDiskFull)

	_, err = r.Environment(ctx, "Lost")
	assert.ErrorIs(t, err, ErrPresetNotFound)
}

func TestRegistry_BuiltinsAreReadOnly(t *testing.T) {
	r := newTestRegistry(t, NewMemoryRepository())
	ctx := context.Background()

	assert.ErrorIs(t, r.DeleteEnvironment(ctx, "Night"), ErrReadOnly)
	assert.ErrorIs(t, r.DeleteSequence(ctx, "Gas Attack"), ErrReadOnly)
	assert.ErrorIs(t, r.DeleteAnimation(ctx, "Sunrise"), ErrReadOnly)

	night, err := r.Environment(ctx, "Night")
	require.NoError(t, err)
	night.Values["sun_strength"] = timeline.Scalar(1)
	assert.ErrorIs(t, r.UpdateEnvironment(ctx, night), ErrReadOnly)
}

func TestRegistry_UpdateAndDeleteSequence(t *testing.T) {
	r := newTestRegistry(t, NewMemoryRepository())
	ctx := context.Background()

	s := &Sequence{Name: "Flash", Steps: sequence.Script{
		{Type: sequence.StepCommand, Value: "r_filmtweakbrightness 1.0"},
	}}
	require.NoError(t, r.CreateSequence(ctx, s))
	created := s.CreatedAt

	s.Steps = append(s.Steps, sequence.Step{Type: sequence.StepStopEffects})
	require.NoError(t, r.UpdateSequence(ctx, s))

	got, err := r.Sequence(ctx, "flash")
	require.NoError(t, err)
	assert.Len(t, got.Steps, 2)
	assert.Equal(t, created, got.CreatedAt)

	clash := &Sequence{Name: "Gas Attack", Steps: got.Steps}
	clash.ID = got.ID
	assert.ErrorIs(t, r.UpdateSequence(ctx, clash), ErrPresetExists)

	require.NoError(t, r.DeleteSequence(ctx, got.ID))
	_, err = r.Sequence(ctx, got.ID)
	assert.ErrorIs(t, err, ErrPresetNotFound)
	assert.ErrorIs(t, r.DeleteSequence(ctx, got.ID), ErrPresetNotFound)
}

func TestRegistry_SequenceRejectsMalformedStep(t *testing.T) {
	r := newTestRegistry(t, NewMemoryRepository())

	err := r.CreateSequence(context.Background(), &Sequence{
		Name:  "Broken",
		Steps: sequence.Script{{Type: sequence.StepWait, Value: "soon"}},
	})
	assert.ErrorIs(t, err, ErrInvalidPreset)
	assert.ErrorIs(t, err, sequence.ErrMalformedStep)
}

func TestRegistry_CreateAnimation(t *testing.T) {
	r := newTestRegistry(t, NewMemoryRepository())
	ctx := context.Background()

	a := &Animation{Preset: animation.Preset{
		Name: "Slow Arc", Kind: animation.KindLinear, X: 45, Y: 30, Duration: 12, Easing: timeline.Smooth,
	}}
	require.NoError(t, r.CreateAnimation(ctx, a))

	got, err := r.Animation(ctx, "slow arc")
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.Duration)

	bad := &Animation{Preset: animation.Preset{Name: "Bad", Kind: "spiral"}}
	assert.ErrorIs(t, r.CreateAnimation(ctx, bad), ErrInvalidPreset)
}

func TestRegistry_ListSortedByName(t *testing.T) {
	r := newTestRegistry(t, NewMemoryRepository())
	envs := r.Environments(context.Background())
	for i := 1; i < len(envs); i++ {
		assert.LessOrEqual(t, lower(envs[i-1].Name), lower(envs[i].Name))
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := newTestRegistry(t, NewMemoryRepository())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.CreateEnvironment(ctx, testEnvironment("Env "+string(rune('A'+i))))
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Environment(ctx, "Night")
			_ = r.Environments(ctx)
		}()
	}
	wg.Wait()

	set, err := Builtins()
	require.NoError(t, err)
	assert.Len(t, r.Environments(ctx), len(set.Environments)+10)
}

func lower(s string) string { return strings.ToLower(s) }
