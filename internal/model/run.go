package model

import (
	"time"

	"github.com/nao1215/iocextract/internal/ioc"
)

// Run is the outcome of processing one document.
type Run struct {
	// ID is the history database row ID. Zero until the run is saved.
	ID int64 `json:"id,omitempty"`

	// Source is the input base name. Runs of the same file share it,
	// which is how compare finds the previous run of a document.
	Source string `json:"source"`

	// Document is the acquired input.
	Document *Document `json:"document"`

	// IOCs holds the extracted indicators.
	IOCs *ioc.Set `json:"iocs"`

	// OutputPath is the spreadsheet written for this run.
	OutputPath string `json:"output_path,omitempty"`

	// ProcessedAt is when the run started, in UTC.
	ProcessedAt time.Time `json:"processed_at"`

	// Steps lists the pipeline steps that completed, in order.
	Steps []string `json:"steps,omitempty"`
}

// NewRun creates an empty run for the document at path.
func NewRun(path string) *Run {
	doc := &Document{Path: path}
	return &Run{
		Source:      doc.Name(),
		Document:    doc,
		IOCs:        ioc.NewSet(),
		ProcessedAt: time.Now().UTC(),
	}
}

// AddStep records a completed pipeline step.
func (r *Run) AddStep(name string) {
	r.Steps = append(r.Steps, name)
}

// Total returns the number of indicators found.
func (r *Run) Total() int {
	if r.IOCs == nil {
		return 0
	}
	return r.IOCs.Total()
}
