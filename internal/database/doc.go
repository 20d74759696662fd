// Package database provides SQLite-based storage for extraction history.
//
// Every processed document is stored as a run together with its
// indicators, one row per (category, value). This supports:
//   - listing past runs and showing the indicators of one run
//   - finding every run that contained a given indicator
//   - comparing the latest runs of the same document
//
// SQLite is accessed through modernc.org/sqlite, a CGO-free driver, so the
// history is a single file under the XDG data directory.
package database
