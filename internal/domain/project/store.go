package project

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/turtacn/ayush-docknet/pkg/errors"
)

// ChangeKind identifies the command that produced a snapshot.
type ChangeKind string

const (
	ChangeCreated       ChangeKind = "created"
	ChangeOpened        ChangeKind = "opened"
	ChangeDataMerged    ChangeKind = "data_merged"
	ChangeStepAdvanced  ChangeKind = "step_advanced"
	ChangeStatusChanged ChangeKind = "status_changed"
	ChangeSeeded        ChangeKind = "seeded"
)

// Change is delivered to subscribers after every successful command.
type Change struct {
	Kind    ChangeKind
	Project Project
}

// Listener observes store changes.  It runs on the caller's goroutine after
// the store lock has been released.
type Listener func(Change)

// Clock returns the current instant.
type Clock func() time.Time

// IDGenerator returns a fresh project id.
type IDGenerator func() string

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDGenerator overrides the uuid generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.newID = g
		}
	}
}

const maxIDAttempts = 8

type subscription struct {
	id int
	fn Listener
}

// Store owns the project collection and the open-project pointer.  It is safe
// for concurrent use; commands on the same project are serialised.
type Store struct {
	mu       sync.RWMutex
	projects map[string]*Project
	order    []string
	openID   string

	clock Clock
	newID IDGenerator

	subs    []subscription
	nextSub int
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		projects: make(map[string]*Project),
		clock:    time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: l})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Create validates input, allocates a New project with step 0, appends it to
// the collection and opens it.
func (s *Store) Create(input CreateInput) (Project, error) {
	if err := input.Validate(); err != nil {
		return Project{}, err
	}

	s.mu.Lock()
	id, err := s.allocateIDLocked()
	if err != nil {
		s.mu.Unlock()
		return Project{}, err
	}
	today := DateOf(s.clock())
	p := &Project{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Objective:   input.Objective,
		Tags:        NormalizeTags(input.Tags),
		CreatedDate: today,
		LastUpdated: today,
		Status:      StatusNew,
		CurrentStep: 0,
		Data:        Data{},
	}
	s.projects[id] = p
	s.order = append(s.order, id)
	s.openID = id
	snap, subs := p.Clone(), s.listenersLocked()
	s.mu.Unlock()

	notify(subs, Change{Kind: ChangeCreated, Project: snap})
	return snap, nil
}

// Open makes id the open project.
func (s *Store) Open(id string) (Project, error) {
	s.mu.Lock()
	p, err := s.getLocked(id)
	if err != nil {
		s.mu.Unlock()
		return Project{}, err
	}
	s.openID = id
	snap, subs := p.Clone(), s.listenersLocked()
	s.mu.Unlock()

	notify(subs, Change{Kind: ChangeOpened, Project: snap})
	return snap, nil
}

// Get returns the project with id.
func (s *Store) Get(id string) (Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.getLocked(id)
	if err != nil {
		return Project{}, err
	}
	return p.Clone(), nil
}

// Current returns the open project, if any.
func (s *Store) Current() (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[s.openID]
	if !ok {
		return Project{}, false
	}
	return p.Clone(), true
}

// List returns every project in creation order.
func (s *Store) List() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.projects[id].Clone())
	}
	return out
}

// Len returns the number of projects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// CountByStatus tallies projects per status.  Every status is present.
func (s *Store) CountByStatus() map[Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[Status]int, 3)
	for _, st := range Statuses() {
		counts[st] = 0
	}
	for _, p := range s.projects {
		counts[p.Status]++
	}
	return counts
}

// MergeStageData replaces every key of partial in the project's data bag and
// refreshes lastUpdated.  Keys absent from partial are kept.  A payload that
// does not belong under its key rejects the whole call.
func (s *Store) MergeStageData(id string, partial Data) (Project, error) {
	for k, v := range partial {
		if err := CheckPayload(k, v); err != nil {
			return Project{}, err
		}
	}

	s.mu.Lock()
	p, err := s.getLocked(id)
	if err != nil {
		s.mu.Unlock()
		return Project{}, err
	}
	if p.Data == nil {
		p.Data = Data{}
	}
	for k, v := range partial {
		p.Data[k] = v.clonePayload()
	}
	s.touchLocked(p)
	snap, subs := p.Clone(), s.listenersLocked()
	s.mu.Unlock()

	notify(subs, Change{Kind: ChangeDataMerged, Project: snap})
	return snap, nil
}

// AdvanceStep raises currentStep to step if it is higher.  lastUpdated is
// refreshed either way.
func (s *Store) AdvanceStep(id string, step int) (Project, error) {
	s.mu.Lock()
	p, err := s.getLocked(id)
	if err != nil {
		s.mu.Unlock()
		return Project{}, err
	}
	if step > p.CurrentStep {
		p.CurrentStep = step
	}
	s.touchLocked(p)
	snap, subs := p.Clone(), s.listenersLocked()
	s.mu.Unlock()

	notify(subs, Change{Kind: ChangeStepAdvanced, Project: snap})
	return snap, nil
}

// SetStatus relabels a project.
func (s *Store) SetStatus(id string, status Status) (Project, error) {
	if !status.Valid() {
		return Project{}, apperrors.Validation("status", fmt.Sprintf("unknown status %q", status))
	}

	s.mu.Lock()
	p, err := s.getLocked(id)
	if err != nil {
		s.mu.Unlock()
		return Project{}, err
	}
	p.Status = status
	s.touchLocked(p)
	snap, subs := p.Clone(), s.listenersLocked()
	s.mu.Unlock()

	notify(subs, Change{Kind: ChangeStatusChanged, Project: snap})
	return snap, nil
}

// Seed loads prebuilt projects, typically demo data.  Projects without an id
// get a fresh one; an id already in the store is a conflict.  Nothing is
// loaded unless every project is valid.
func (s *Store) Seed(projects ...Project) ([]Project, error) {
	s.mu.Lock()
	staged := make([]*Project, 0, len(projects))
	seen := make(map[string]struct{}, len(projects))
	for _, in := range projects {
		p := in.Clone()
		p.Name = strings.TrimSpace(p.Name)
		p.Tags = NormalizeTags(p.Tags)
		if p.Status == "" {
			p.Status = StatusNew
		}
		today := DateOf(s.clock())
		if p.CreatedDate.IsZero() {
			p.CreatedDate = today
		}
		if p.LastUpdated.IsZero() {
			p.LastUpdated = p.CreatedDate
		}
		if err := p.validate(); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		if p.ID == "" {
			id, err := s.allocateIDLocked()
			if err != nil {
				s.mu.Unlock()
				return nil, err
			}
			p.ID = id
		}
		_, inBatch := seen[p.ID]
		if _, exists := s.projects[p.ID]; exists || inBatch {
			s.mu.Unlock()
			return nil, apperrors.Conflict(fmt.Sprintf("project %q already exists", p.ID))
		}
		seen[p.ID] = struct{}{}
		staged = append(staged, &p)
	}

	out := make([]Project, 0, len(staged))
	for _, p := range staged {
		s.projects[p.ID] = p
		s.order = append(s.order, p.ID)
		out = append(out, p.Clone())
	}
	subs := s.listenersLocked()
	s.mu.Unlock()

	for _, p := range out {
		notify(subs, Change{Kind: ChangeSeeded, Project: p})
	}
	return out, nil
}

func (s *Store) getLocked(id string) (*Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeProjectNotFound,
			fmt.Sprintf("project %q not found", id))
	}
	return p, nil
}

func (s *Store) allocateIDLocked() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, taken := s.projects[id]; !taken {
			return id, nil
		}
	}
	return "", apperrors.Conflict("could not allocate a unique project id")
}

// touchLocked sets lastUpdated to today without ever moving it backwards, so
// it also stays at or after createdDate when the clock is skewed.
func (s *Store) touchLocked(p *Project) {
	today := DateOf(s.clock())
	if today.Before(p.LastUpdated) {
		today = p.LastUpdated
	}
	if today.Before(p.CreatedDate) {
		today = p.CreatedDate
	}
	p.LastUpdated = today
}

func (s *Store) listenersLocked() []Listener {
	if len(s.subs) == 0 {
		return nil
	}
	out := make([]Listener, len(s.subs))
	for i, sub := range s.subs {
		out[i] = sub.fn
	}
	return out
}

func notify(subs []Listener, c Change) {
	for _, fn := range subs {
		fn(c)
	}
}
