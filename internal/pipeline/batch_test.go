package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nao1215/iocextract/internal/model"
)

func TestBatchProcessor_ProcessFiles(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	factory := func() *Pipeline { return DefaultPipeline(outDir, nil) }

	t.Run("processes every file in order", func(t *testing.T) {
		t.Parallel()

		a := writeInput(t, "a.txt", "10.0.0.1")
		b := writeInput(t, "b.txt", "10.0.0.2")

		var seen []int
		runs, err := NewBatchProcessor(factory).ProcessFiles(context.Background(), []string{a, b},
			func(_ *model.Run, i int) { seen = append(seen, i) })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(runs) != 2 || runs[0].Source != "a.txt" || runs[1].Source != "b.txt" {
			t.Errorf("unexpected runs: %+v", runs)
		}
		if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
			t.Errorf("callback indexes = %v", seen)
		}
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		t.Parallel()

		good := writeInput(t, "good.txt", "10.0.0.1")
		missing := filepath.Join(t.TempDir(), "missing.pdf")
		never := writeInput(t, "never.txt", "10.0.0.3")

		runs, err := NewBatchProcessor(factory).ProcessFiles(context.Background(), []string{good, missing, never}, nil)
		if !errors.Is(err, ErrAcquire) {
			t.Fatalf("expected ErrAcquire, got %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 completed run, got %d", len(runs))
		}
	})
}
