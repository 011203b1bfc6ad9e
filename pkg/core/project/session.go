package project

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultDebounce is the autosave delay after the last edit.
const DefaultDebounce = time.Second

// Saver persists a project snapshot. Saves are last-write-wins.
type Saver interface {
	Save(ctx context.Context, p *Project) error
}

// Session is one user's editing session over a project. Every edit
// recomputes the derived figures immediately and schedules a debounced save;
// navigation and Flush save at once. A failed save keeps the in-memory state
// and is reported through LastError until the next successful save.
type Session struct {
	mu        sync.Mutex
	saveMu    sync.Mutex
	project   *Project
	saver     Saver
	delay     time.Duration
	gated     bool
	timer     *time.Timer
	dirty     bool
	closed    bool
	lastErr   error
	lastSaved time.Time
	now       func() time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDebounce overrides the autosave delay.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) { s.delay = d }
}

// WithForwardGating makes Navigate refuse forward moves into locked stages.
func WithForwardGating() SessionOption {
	return func(s *Session) { s.gated = true }
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession starts a session over a copy of p.
func NewSession(p *Project, saver Saver, opts ...SessionOption) *Session {
	s := &Session{
		project: p.Clone(),
		saver:   saver,
		delay:   DefaultDebounce,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.project.Recompute()
	return s
}

// Project returns a snapshot of the current state.
func (s *Session) Project() *Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.Clone()
}

// Update applies fn to a working copy. If fn fails the copy is discarded and
// the session is unchanged; otherwise the copy becomes current, derived
// figures are refreshed and a save is scheduled.
func (s *Session) Update(fn func(p *Project) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("session is closed")
	}

	work := s.project.Clone()
	if err := fn(work); err != nil {
		return err
	}
	work.Recompute()
	s.project = work
	s.dirty = true
	s.scheduleLocked()
	return nil
}

func (s *Session) scheduleLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		if err := s.Flush(context.Background()); err != nil {
			fmt.Printf("[SESSION] Autosave of %s failed: %v\n", s.projectID(), err)
		}
	})
}

func (s *Session) projectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.ID
}

// Flush saves pending changes now. It is a no-op when nothing changed since
// the last successful save.
func (s *Session) Flush(ctx context.Context) error {
	// saveMu orders snapshots and writes together, so a later snapshot is
	// never overwritten by an earlier one.
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	ts := s.now()
	s.project.UpdatedAt = ts
	snapshot := s.project.Clone()
	s.dirty = false
	s.mu.Unlock()

	err := s.saver.Save(ctx, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		s.dirty = true
		return fmt.Errorf("save project %s: %w", snapshot.ID, err)
	}
	s.lastErr = nil
	s.lastSaved = ts
	return nil
}

// Navigate moves to another stage, saving first. Back-navigation is always
// allowed; forward moves are refused with ErrStageLocked only when the
// session was created WithForwardGating. The move happens even when the
// save fails; the failure is returned and kept in LastError.
func (s *Session) Navigate(ctx context.Context, to Stage) error {
	if to.Index() < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownStage, to)
	}

	s.mu.Lock()
	if s.gated && !s.project.CanEnter(to) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrStageLocked, to)
	}
	if s.project.ActiveStage != to {
		s.project.ActiveStage = to
		s.dirty = true
	}
	s.mu.Unlock()

	return s.Flush(ctx)
}

// Dirty reports whether there are unsaved changes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// LastError is the most recent save failure, cleared by the next successful save.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// LastSaved is the time of the most recent successful save.
func (s *Session) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}

// Close stops further updates, then flushes pending changes.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.Flush(ctx)
}
