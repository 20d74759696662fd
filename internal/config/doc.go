// Package config provides configuration structures and utilities for iocextract.
// It defines where spreadsheets are written, how reports are printed, the
// history database location and the watch and log file settings, and loads
// the optional .iocextract YAML file that overrides the defaults.
package config
