package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/iocextract/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, run *model.Run) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, run *model.Run) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, run)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

func TestPipelineNew(t *testing.T) {
	t.Parallel()

	p := New()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.StepCount() != 0 {
		t.Errorf("expected 0 steps, got %d", p.StepCount())
	}
	if p.logger == nil {
		t.Error("expected default logger")
	}
}

func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "one"})
	p.AddSteps(&mockStep{name: "two"}, &mockStep{name: "three"})

	if p.StepCount() != 3 {
		t.Errorf("expected 3 steps, got %d", p.StepCount())
	}
	if got := p.StepNames(); !slices.Equal(got, []string{"one", "two", "three"}) {
		t.Errorf("StepNames() = %v", got)
	}
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order and records them", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) func(context.Context, *model.Run) error {
			return func(context.Context, *model.Run) error {
				order = append(order, name)
				return nil
			}
		}

		p := New()
		p.AddSteps(
			&mockStep{name: "first", doFunc: record("first")},
			&mockStep{name: "second", doFunc: record("second")},
		)

		run := model.NewRun("a.pdf")
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(order, []string{"first", "second"}) {
			t.Errorf("execution order = %v", order)
		}
		if !slices.Equal(run.Steps, []string{"first", "second"}) {
			t.Errorf("run.Steps = %v", run.Steps)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")
		failing := &mockStep{name: "failing", doFunc: func(context.Context, *model.Run) error { return errBoom }}
		after := &mockStep{name: "after"}

		p := New()
		p.AddSteps(&mockStep{name: "ok"}, failing, after)

		run := model.NewRun("a.pdf")
		err := p.Execute(context.Background(), run)
		if !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
		if after.callCount != 0 {
			t.Error("steps after a failure must not run")
		}
		if !slices.Equal(run.Steps, []string{"ok"}) {
			t.Errorf("run.Steps = %v, want [ok]", run.Steps)
		}
	})

	t.Run("respects cancellation between steps", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		first := &mockStep{name: "first", doFunc: func(context.Context, *model.Run) error {
			cancel()
			return nil
		}}
		second := &mockStep{name: "second"}

		p := New()
		p.AddSteps(first, second)

		err := p.Execute(ctx, model.NewRun("a.pdf"))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if second.callCount != 0 {
			t.Error("second step should not run after cancellation")
		}
	})

	t.Run("empty pipeline succeeds", func(t *testing.T) {
		t.Parallel()

		if err := New().Execute(context.Background(), model.NewRun("a.pdf")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestPipelineWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := New(WithLogger(logger))
	p.AddStep(&mockStep{name: "logged-step"})

	if err := p.Execute(context.Background(), model.NewRun("a.pdf")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "logged-step") {
		t.Errorf("expected step name in log output, got %q", buf.String())
	}
}
