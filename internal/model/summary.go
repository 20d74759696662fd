package model

import (
	"time"

	"github.com/nao1215/iocextract/internal/ioc"
)

// RunSummary is a run without its indicators, used for history listings.
type RunSummary struct {
	ID          int64                `json:"id"`
	Source      string               `json:"source"`
	OutputPath  string               `json:"output_path,omitempty"`
	ProcessedAt time.Time            `json:"processed_at"`
	Total       int                  `json:"total"`
	Counts      map[ioc.Category]int `json:"counts"`
}

// Summary returns the summary of r.
func (r *Run) Summary() RunSummary {
	counts := make(map[ioc.Category]int, len(ioc.Categories))
	if r.IOCs != nil {
		counts = r.IOCs.Counts()
	}
	return RunSummary{
		ID:          r.ID,
		Source:      r.Source,
		OutputPath:  r.OutputPath,
		ProcessedAt: r.ProcessedAt,
		Total:       r.Total(),
		Counts:      counts,
	}
}
