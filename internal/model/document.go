package model

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// Format identifies how a document's text was acquired.
type Format string

const (
	// FormatPDF is text extracted page by page from a PDF.
	FormatPDF Format = "pdf"
	// FormatHTML is the visible text of an HTML page.
	FormatHTML Format = "html"
	// FormatText is a plain text file read as is.
	FormatText Format = "text"
)

// Document holds the text acquired from one input file.
type Document struct {
	// Path is the input path as given by the user.
	Path string `json:"path"`

	// Format is the reader that produced Text.
	Format Format `json:"format"`

	// Text is the concatenated plain text. Pages are joined with "\n".
	// It is excluded from JSON; reports carry indicators, not the text.
	Text string `json:"-"`

	// Pages is the number of pages read. Non-paginated formats report 1.
	Pages int `json:"pages"`

	// Size is the input size in bytes.
	Size int64 `json:"size"`

	// Hash is the SHA-256 of the input bytes.
	Hash string `json:"hash"`

	// Metadata is the document information dictionary, if any.
	Metadata Metadata `json:"metadata"`
}

// Metadata is the document information a PDF may carry in its trailer.
// HTML documents only populate Title.
type Metadata struct {
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Creator      string `json:"creator,omitempty"`
	Producer     string `json:"producer,omitempty"`
	CreationDate string `json:"creation_date,omitempty"`
	ModDate      string `json:"mod_date,omitempty"`
}

// IsEmpty reports whether no metadata field is set.
func (m Metadata) IsEmpty() bool {
	return m == Metadata{}
}

// ComputeHash sets Hash and Size from the raw input bytes.
func (d *Document) ComputeHash(raw []byte) {
	d.Size = int64(len(raw))
	if len(raw) == 0 {
		d.Hash = ""
		return
	}

	hash := sha256.Sum256(raw)
	d.Hash = hex.EncodeToString(hash[:])
}

// Name returns the base name of the input file.
func (d *Document) Name() string {
	return filepath.Base(d.Path)
}

// Stem returns the base name without its extension. It names the
// spreadsheet written for the document.
func (d *Document) Stem() string {
	name := d.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}
