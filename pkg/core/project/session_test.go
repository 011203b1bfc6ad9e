package project

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"valuecase/pkg/core/assumption"
	"valuecase/pkg/core/catalog"
)

type recordingSaver struct {
	mu    sync.Mutex
	saves []*Project
	fail  error
}

func (r *recordingSaver) Save(_ context.Context, p *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.saves = append(r.saves, p)
	return nil
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func (r *recordingSaver) last() *Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		return nil
	}
	return r.saves[len(r.saves)-1]
}

func (r *recordingSaver) setFail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSession_DebouncedSave(t *testing.T) {
	saver := &recordingSaver{}
	s := NewSession(New("Debounce"), saver, WithDebounce(30*time.Millisecond))

	for i := 0; i < 5; i++ {
		name := []string{"A", "B", "C", "D", "E"}[i]
		if err := s.Update(func(p *Project) error { return p.SelectKPI(name) }); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if saver.count() != 0 {
		t.Error("nothing should be saved before the debounce delay")
	}

	waitFor(t, func() bool { return saver.count() == 1 })
	time.Sleep(60 * time.Millisecond)
	if saver.count() != 1 {
		t.Errorf("a burst of edits should produce one save, got %d", saver.count())
	}
	if got := len(saver.last().KPIs); got != 5 {
		t.Errorf("saved snapshot should hold all 5 KPIs, got %d", got)
	}
	if s.Dirty() {
		t.Error("session should be clean after autosave")
	}
}

func TestSession_FlushIsIdempotent(t *testing.T) {
	saver := &recordingSaver{}
	s := NewSession(New("Flush"), saver, WithDebounce(time.Hour))

	_ = s.Update(func(p *Project) error { p.SetResult("summary", "x"); return nil })
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if saver.count() != 1 {
		t.Errorf("flushing an unchanged session should not save again, got %d saves", saver.count())
	}
	if s.LastSaved().IsZero() {
		t.Error("LastSaved should be set")
	}
}

func TestSession_FailedUpdateLeavesStateUntouched(t *testing.T) {
	saver := &recordingSaver{}
	p := New("ROM")
	p.Setup.RoiType = catalog.RoiTypeROM
	s := NewSession(p, saver, WithDebounce(time.Hour))

	for _, name := range []string{"A", "B", "C", "D"} {
		_ = s.Update(func(p *Project) error { return p.SelectKPI(name) })
	}
	err := s.Update(func(p *Project) error {
		p.Setup.Company = "should not stick"
		return p.SelectKPI("E")
	})
	if !errors.Is(err, ErrKPILimit) {
		t.Fatalf("expected ErrKPILimit, got %v", err)
	}
	got := s.Project()
	if got.Setup.Company != "" || len(got.KPIs) != 4 {
		t.Error("a failed update must not change the session")
	}
}

func TestSession_SaveFailureKeepsState(t *testing.T) {
	saver := &recordingSaver{}
	saver.setFail(errors.New("disk full"))
	s := NewSession(fieldServiceProject(), saver, WithDebounce(time.Hour))

	_ = s.Update(func(p *Project) error { return p.SelectKPI(catalog.KPIVisitDuration) })
	_ = s.Update(func(p *Project) error {
		return p.SetAssumption(catalog.KPIVisitDuration, "costPerVisit", assumption.Number(120))
	})

	if err := s.Flush(context.Background()); err == nil {
		t.Fatal("expected save error")
	}
	if s.LastError() == nil {
		t.Error("LastError should report the failure")
	}
	if !s.Dirty() {
		t.Error("failed save should leave the session dirty")
	}
	a, ok := s.Project().Assumptions.Get(catalog.KPIVisitDuration)
	if !ok || a.Float("costPerVisit") != 120 {
		t.Error("in-memory edits must survive a failed save")
	}

	saver.setFail(nil)
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if s.LastError() != nil {
		t.Error("successful save should clear LastError")
	}
}

func TestSession_NavigateSavesImmediately(t *testing.T) {
	saver := &recordingSaver{}
	s := NewSession(fieldServiceProject(), saver, WithDebounce(time.Hour))

	_ = s.Update(func(p *Project) error { p.SetResult("note", "x"); return nil })
	if err := s.Navigate(context.Background(), StageObjectives); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if saver.count() != 1 {
		t.Fatalf("navigation should save at once, got %d saves", saver.count())
	}
	if saver.last().ActiveStage != StageObjectives {
		t.Errorf("saved stage should be objectives, got %s", saver.last().ActiveStage)
	}

	if err := s.Navigate(context.Background(), Stage("nowhere")); !errors.Is(err, ErrUnknownStage) {
		t.Errorf("expected ErrUnknownStage, got %v", err)
	}
}

func TestSession_ForwardGating(t *testing.T) {
	saver := &recordingSaver{}
	s := NewSession(New(""), saver, WithDebounce(time.Hour), WithForwardGating())

	if err := s.Navigate(context.Background(), StageFinancial); !errors.Is(err, ErrStageLocked) {
		t.Fatalf("expected ErrStageLocked, got %v", err)
	}

	ungated := NewSession(New(""), saver, WithDebounce(time.Hour))
	if err := ungated.Navigate(context.Background(), StageFinancial); err != nil {
		t.Fatalf("ungated session should allow the move: %v", err)
	}
	if err := ungated.Navigate(context.Background(), StageSetup); err != nil {
		t.Fatalf("back navigation: %v", err)
	}
}

func TestSession_SnapshotsAreIndependent(t *testing.T) {
	saver := &recordingSaver{}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewSession(New("Snap"), saver, WithDebounce(time.Hour), WithClock(func() time.Time { return fixed }))

	_ = s.Update(func(p *Project) error { return p.SelectKPI("A") })
	_ = s.Flush(context.Background())
	saved := saver.last()
	if !saved.UpdatedAt.Equal(fixed) {
		t.Errorf("expected UpdatedAt %v, got %v", fixed, saved.UpdatedAt)
	}

	_ = s.Update(func(p *Project) error { return p.SelectKPI("B") })
	if len(saved.KPIs) != 1 {
		t.Error("saved snapshot changed after a later edit")
	}

	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if saver.count() != 2 {
		t.Errorf("close should flush pending edits, got %d saves", saver.count())
	}
	if err := s.Update(func(p *Project) error { return nil }); err == nil {
		t.Error("updates after close should fail")
	}
}

type hookSaver struct {
	recordingSaver
	onSave func()
}

func (h *hookSaver) Save(ctx context.Context, p *Project) error {
	if h.onSave != nil {
		h.onSave()
	}
	return h.recordingSaver.Save(ctx, p)
}

func TestSession_CloseRejectsEditsDuringFinalSave(t *testing.T) {
	saver := &hookSaver{}
	s := NewSession(New("Closing"), saver, WithDebounce(time.Hour))
	_ = s.Update(func(p *Project) error { return p.SelectKPI("A") })

	var lateErr error
	saver.onSave = func() {
		saver.onSave = nil
		lateErr = s.Update(func(p *Project) error { return p.SelectKPI("B") })
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if lateErr == nil {
		t.Error("an edit arriving while close saves should be refused")
	}
	if s.Dirty() {
		t.Error("no accepted edit may be left unsaved after close")
	}
	if got := s.Project().KPIs; len(got) != 1 || got[0] != "A" {
		t.Errorf("unexpected KPIs after close %v", got)
	}
}
