package preset

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// entry is implemented by the pointer types of the three preset kinds.
type entry[T any] interface {
	*T
	meta() *Meta
	presetName() string
	Validate() error
	DeepCopy() *T
}

// store caches the presets of one kind by ID.
type store[T any, P entry[T]] struct {
	kind Kind
	mu   sync.RWMutex
	byID map[string]P
}

func newStore[T any, P entry[T]](kind Kind) *store[T, P] {
	return &store[T, P]{kind: kind, byID: make(map[string]P)}
}

// find looks a preset up by ID, then by name ignoring case.
func (s *store[T, P]) find(key string) (P, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.byID[key]; ok {
		return p, true
	}
	key = strings.TrimSpace(key)
	for _, p := range s.byID {
		if strings.EqualFold(p.presetName(), key) {
			return p, true
		}
	}
	return nil, false
}

func (s *store[T, P]) get(key string) (*T, error) {
	p, ok := s.find(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrPresetNotFound, s.kind, key)
	}
	return p.DeepCopy(), nil
}

// list returns deep copies sorted by name.
func (s *store[T, P]) list() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, *p.DeepCopy())
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(P(&out[i]).presetName()) < strings.ToLower(P(&out[j]).presetName())
	})
	return out
}

func (s *store[T, P]) nameTaken(name, exceptID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, p := range s.byID {
		if id != exceptID && strings.EqualFold(p.presetName(), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

func (s *store[T, P]) put(p P) {
	s.mu.Lock()
	s.byID[p.meta().ID] = P(p.DeepCopy())
	s.mu.Unlock()
}

func (s *store[T, P]) remove(id string) {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
}

func (s *store[T, P]) reset() {
	s.mu.Lock()
	s.byID = make(map[string]P)
	s.mu.Unlock()
}

func (s *store[T, P]) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Registry provides preset management with caching and thread safety.
// It wraps a Repository of user presets and adds the builtin presets,
// which are read-only and never persisted.
//
// Names are unique per kind, ignoring case. Lookups accept an ID or a
// name.
//
// All public methods are thread-safe.
type Registry struct {
	repo   Repository
	logger Logger

	environments *store[Environment, *Environment]
	animations   *store[Animation, *Animation]
	sequences    *store[Sequence, *Sequence]
}

// NewRegistry creates a new preset registry.
// The repository is used for persistence; the registry adds caching.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:         repo,
		logger:       noopLogger{},
		environments: newStore[Environment](KindEnvironment),
		animations:   newStore[Animation](KindAnimation),
		sequences:    newStore[Sequence](KindSequence),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads the builtin presets and every stored preset.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	builtins, err := Builtins()
	if err != nil {
		return err
	}

	if err := refresh(ctx, r, r.environments, builtins.Environments); err != nil {
		return err
	}
	if err := refresh(ctx, r, r.animations, builtins.Animations); err != nil {
		return err
	}
	if err := refresh(ctx, r, r.sequences, builtins.Sequences); err != nil {
		return err
	}

	r.logger.Info("preset cache refreshed",
		"environments", r.environments.count(),
		"animations", r.animations.count(),
		"sequences", r.sequences.count(),
	)
	return nil
}

func refresh[T any, P entry[T]](ctx context.Context, r *Registry, s *store[T, P], builtins []T) error {
	records, err := r.repo.List(ctx, s.kind)
	if err != nil {
		return fmt.Errorf("loading %s presets: %w", s.kind, err)
	}

	s.reset()
	for i := range builtins {
		s.put(P(&builtins[i]))
	}

	for _, rec := range records {
		p := P(new(T))
		if err := json.Unmarshal(rec.Payload, p); err != nil {
			r.logger.Warn("skipping unreadable preset", "kind", s.kind, "id", rec.ID, "error", err)
			continue
		}
		m := p.meta()
		m.ID = rec.ID
		m.Builtin = false
		m.CreatedAt = rec.CreatedAt
		m.UpdatedAt = rec.UpdatedAt

		if s.nameTaken(p.presetName(), m.ID) {
			r.logger.Warn("stored preset shadows another, skipping", "kind", s.kind, "id", rec.ID, "name", p.presetName())
			continue
		}
		s.put(p)
	}
	return nil
}

func create[T any, P entry[T]](ctx context.Context, r *Registry, s *store[T, P], p P) error {
	m := p.meta()
	if m.ID == "" {
		m.ID = GenerateID()
	}
	m.Builtin = false

	if err := p.Validate(); err != nil {
		return err
	}
	if _, ok := s.find(m.ID); ok {
		return fmt.Errorf("%w: %s id %q", ErrPresetExists, s.kind, m.ID)
	}
	if s.nameTaken(p.presetName(), m.ID) {
		return fmt.Errorf("%w: %s %q", ErrPresetExists, s.kind, p.presetName())
	}

	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	rec, err := encode(s.kind, p)
	if err != nil {
		return err
	}
	if err := r.repo.Create(ctx, rec); err != nil {
		return err
	}
	s.put(p)

	r.logger.Info("preset created", "kind", s.kind, "id", m.ID, "name", p.presetName())
	return nil
}

func update[T any, P entry[T]](ctx context.Context, r *Registry, s *store[T, P], p P) error {
	m := p.meta()
	existing, ok := s.find(m.ID)
	if !ok || existing.meta().ID != m.ID {
		return fmt.Errorf("%w: %s id %q", ErrPresetNotFound, s.kind, m.ID)
	}
	if existing.meta().Builtin {
		return fmt.Errorf("%w: %s %q", ErrReadOnly, s.kind, existing.presetName())
	}
	m.Builtin = false
	m.CreatedAt = existing.meta().CreatedAt

	if err := p.Validate(); err != nil {
		return err
	}
	if s.nameTaken(p.presetName(), m.ID) {
		return fmt.Errorf("%w: %s %q", ErrPresetExists, s.kind, p.presetName())
	}
	m.UpdatedAt = time.Now().UTC()

	rec, err := encode(s.kind, p)
	if err != nil {
		return err
	}
	if err := r.repo.Update(ctx, rec); err != nil {
		return err
	}
	s.put(p)

	r.logger.Info("preset updated", "kind", s.kind, "id", m.ID, "name", p.presetName())
	return nil
}

func remove[T any, P entry[T]](ctx context.Context, r *Registry, s *store[T, P], key string) error {
	existing, ok := s.find(key)
	if !ok {
		return fmt.Errorf("%w: %s %q", ErrPresetNotFound, s.kind, key)
	}
	m := existing.meta()
	if m.Builtin {
		return fmt.Errorf("%w: %s %q", ErrReadOnly, s.kind, existing.presetName())
	}
	if err := r.repo.Delete(ctx, s.kind, m.ID); err != nil {
		return err
	}
	s.remove(m.ID)

	r.logger.Info("preset deleted", "kind", s.kind, "id", m.ID)
	return nil
}

func encode[T any, P entry[T]](kind Kind, p P) (*Record, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s preset: %w", kind, err)
	}
	m := p.meta()
	return &Record{
		ID:        m.ID,
		Kind:      kind,
		Name:      strings.TrimSpace(p.presetName()),
		Payload:   payload,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// Environment returns the environment with the given ID or name.
// The returned preset is a deep copy.
func (r *Registry) Environment(_ context.Context, key string) (*Environment, error) {
	return r.environments.get(key)
}

// Environments returns all environments sorted by name.
func (r *Registry) Environments(_ context.Context) []Environment {
	return r.environments.list()
}

// CreateEnvironment validates, persists and caches a new environment.
// An empty ID is generated.
func (r *Registry) CreateEnvironment(ctx context.Context, e *Environment) error {
	return create(ctx, r, r.environments, e)
}

// UpdateEnvironment replaces a stored environment.
func (r *Registry) UpdateEnvironment(ctx context.Context, e *Environment) error {
	return update(ctx, r, r.environments, e)
}

// DeleteEnvironment removes a stored environment by ID or name.
func (r *Registry) DeleteEnvironment(ctx context.Context, key string) error {
	return remove(ctx, r, r.environments, key)
}

// Animation returns the animation with the given ID or name.
func (r *Registry) Animation(_ context.Context, key string) (*Animation, error) {
	return r.animations.get(key)
}

// Animations returns all animations sorted by name.
func (r *Registry) Animations(_ context.Context) []Animation {
	return r.animations.list()
}

// CreateAnimation validates, persists and caches a new animation.
func (r *Registry) CreateAnimation(ctx context.Context, a *Animation) error {
	return create(ctx, r, r.animations, a)
}

// DeleteAnimation removes a stored animation by ID or name.
func (r *Registry) DeleteAnimation(ctx context.Context, key string) error {
	return remove(ctx, r, r.animations, key)
}

// Sequence returns the sequence with the given ID or name.
func (r *Registry) Sequence(_ context.Context, key string) (*Sequence, error) {
	return r.sequences.get(key)
}

// Sequences returns all sequences sorted by name.
func (r *Registry) Sequences(_ context.Context) []Sequence {
	return r.sequences.list()
}

// CreateSequence validates, persists and caches a new sequence.
func (r *Registry) CreateSequence(ctx context.Context, s *Sequence) error {
	return create(ctx, r, r.sequences, s)
}

// UpdateSequence replaces a stored sequence.
func (r *Registry) UpdateSequence(ctx context.Context, s *Sequence) error {
	return update(ctx, r, r.sequences, s)
}

// DeleteSequence removes a stored sequence by ID or name.
func (r *Registry) DeleteSequence(ctx context.Context, key string) error {
	return remove(ctx, r, r.sequences, key)
}
