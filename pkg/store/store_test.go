package store

import (
	"context"
	"testing"
	"time"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/dialect"
	"github.com/umlkit/umlkit/pkg/errors"
	"github.com/umlkit/umlkit/pkg/observability"
)

// newStateDiagram builds a small state diagram for storage tests.
func newStateDiagram(t *testing.T) *diagram.Diagram {
	t.Helper()
	d := dialect.State.NewDiagram()
	b := dialect.State.NewBuilder(d)

	initial := diagram.NewNode(diagram.NodeKindInitialState)
	idle := diagram.NewNode(diagram.NodeKindState)
	if err := b.AddNode(initial, nil); err != nil {
		t.Fatal(err)
	}
	if err := b.AddNode(idle, nil); err != nil {
		t.Fatal(err)
	}
	e := diagram.NewEdge(diagram.EdgeKindStateTransition)
	if err := b.AddEdge(e, initial, idle); err != nil {
		t.Fatal(err)
	}
	return d
}

// storeUnderTest runs the shared backend contract against a store.
func storeUnderTest(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	d := newStateDiagram(t)

	if err := s.Save(ctx, "workflow", d); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, "workflow")
	if err != nil {
		t.Fatal(err)
	}
	if got.TypeName() != "StateDiagram" || got.RootCount() != 2 || got.EdgeCount() != 1 {
		t.Errorf("loaded %s with %d roots, %d edges", got.TypeName(), got.RootCount(), got.EdgeCount())
	}
	if got == d {
		t.Error("Load returned the saved instance instead of a rebuilt diagram")
	}

	// Mutating the loaded copy must not affect the stored version.
	b := dialect.State.NewBuilder(got)
	if err := b.RemoveElement(got.Edges()[0]); err != nil {
		t.Fatal(err)
	}
	again, err := s.Load(ctx, "workflow")
	if err != nil {
		t.Fatal(err)
	}
	if again.EdgeCount() != 1 {
		t.Error("stored diagram was mutated through a loaded copy")
	}

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Name != "workflow" || infos[0].Diagram != "StateDiagram" {
		t.Errorf("List = %+v", infos)
	}

	if _, err := s.Load(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(missing) error = %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Delete(missing) error = %v, want NOT_FOUND", err)
	}

	if err := s.Delete(ctx, "workflow"); err != nil {
		t.Fatal(err)
	}
	if infos, err := s.List(ctx); err != nil || len(infos) != 0 {
		t.Errorf("after delete: List = %+v, %v", infos, err)
	}

	for _, bad := range []string{"", "../escape", "a/b", "a\\b"} {
		if err := s.Save(ctx, bad, d); !errors.Is(err, errors.ErrCodeInvalidName) {
			t.Errorf("Save(%q) error = %v, want INVALID_NAME", bad, err)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	storeUnderTest(t, s)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	storeUnderTest(t, s)
}

func TestFileStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	d := newStateDiagram(t)
	if err := s.Save(ctx, "workflow", d); err != nil {
		t.Fatal(err)
	}

	b := dialect.State.NewBuilder(d)
	final := diagram.NewNode(diagram.NodeKindFinalState)
	if err := b.AddNode(final, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "workflow", d); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, "workflow")
	if err != nil {
		t.Fatal(err)
	}
	if got.RootCount() != 3 {
		t.Errorf("overwritten diagram has %d roots, want 3", got.RootCount())
	}
}

// recordingStoreHooks counts store events per operation.
type recordingStoreHooks struct {
	saves, loads, deletes int
	lastBackend           string
	lastErr               error
}

func (h *recordingStoreHooks) OnSave(_ context.Context, backend, _ string, _ int, _ time.Duration, err error) {
	h.saves++
	h.lastBackend = backend
	h.lastErr = err
}

func (h *recordingStoreHooks) OnLoad(_ context.Context, backend, _ string, _ time.Duration, err error) {
	h.loads++
	h.lastBackend = backend
	h.lastErr = err
}

func (h *recordingStoreHooks) OnDelete(_ context.Context, backend, _ string, err error) {
	h.deletes++
	h.lastBackend = backend
	h.lastErr = err
}

func TestInstrumentedStore(t *testing.T) {
	hooks := &recordingStoreHooks{}
	observability.SetStoreHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	s := Instrument("memory", NewMemoryStore())
	d := newStateDiagram(t)

	if err := s.Save(ctx, "workflow", d); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "workflow"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "workflow"); err != nil {
		t.Fatal(err)
	}
	if hooks.saves != 1 || hooks.loads != 1 || hooks.deletes != 1 {
		t.Errorf("hook counts = %d saves, %d loads, %d deletes", hooks.saves, hooks.loads, hooks.deletes)
	}
	if hooks.lastBackend != "memory" {
		t.Errorf("backend label = %q", hooks.lastBackend)
	}

	// Failures are reported too.
	if _, err := s.Load(ctx, "missing"); err == nil {
		t.Fatal("expected NOT_FOUND")
	}
	if hooks.lastErr == nil {
		t.Error("hook did not receive the operation error")
	}
}
