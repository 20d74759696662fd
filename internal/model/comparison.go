package model

import "github.com/nao1215/iocextract/internal/ioc"

// Comparison holds the indicator changes between two runs.
type Comparison struct {
	// Old is the baseline run.
	Old *Run `json:"old"`

	// New is the run compared against the baseline.
	New *Run `json:"new"`

	// Added holds indicators present in New only.
	Added *ioc.Set `json:"added"`

	// Removed holds indicators present in Old only.
	Removed *ioc.Set `json:"removed"`
}

// NewComparison compares the indicators of two runs.
func NewComparison(oldRun, newRun *Run) *Comparison {
	oldSet, newSet := oldRun.IOCs, newRun.IOCs
	if oldSet == nil {
		oldSet = ioc.NewSet()
	}
	if newSet == nil {
		newSet = ioc.NewSet()
	}

	added, removed := ioc.Diff(oldSet, newSet)
	return &Comparison{
		Old:     oldRun,
		New:     newRun,
		Added:   added,
		Removed: removed,
	}
}

// HasChanges reports whether any indicator was added or removed.
func (c *Comparison) HasChanges() bool {
	return !c.Added.IsEmpty() || !c.Removed.IsEmpty()
}

// Unchanged returns the number of indicators present in both runs.
func (c *Comparison) Unchanged() int {
	return c.New.Total() - c.Added.Total()
}
