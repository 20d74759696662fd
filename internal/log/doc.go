// Package log provides logging for iocextract, built on top of the standard
// slog package.
//
// This package extends slog to provide:
//   - Automatic defanging of indicators of compromise in log output
//   - Configurable log levels with verbose mode support
//   - An optional rotating log file next to the console output
//
// # Defanging
//
// Log files and terminal scrollback are often pasted into tickets and chat,
// where a live URL or domain becomes a clickable link. The DefangHandler
// rewrites indicator values before they reach the underlying handler:
//
//	http://bad.example.com/x -> hxxp://bad[.]example[.]com/x
//	admin@example.com        -> admin[at]example[.]com
//
// Attributes whose key names an indicator (ioc, url, domain, ip, email, ...)
// are always defanged. Any other string attribute is defanged only when it
// contains a live http(s) URL, so file paths keep their dots.
//
// # Usage
//
//	logger := log.NewDefangLogger(os.Stderr, true) // verbose=true
//	logger.Debug("indicator found", "url", "http://bad.example.com")
//	slog.SetDefault(logger)
//
// To also write to a rotating file:
//
//	logger, closer, err := log.New(log.Options{
//	    Verbose: verbose,
//	    File:    log.FileOptions{Path: "/var/log/iocextract.log"},
//	})
//	defer closer.Close()
package log
