// Package experiment defines the modern experiment configuration and the
// operations over it: parsing a YAML document with defaults applied,
// validating cross-field invariants, and re-emitting a document.
//
// Parse always validates before returning, so a *Config obtained from Parse
// or LoadFile satisfies every invariant and should be treated as read-only.
// Failures are typed (LoadError, SyntaxError, ValidationError,
// ResolutionError, IndexError) and each wraps one of the package sentinels
// so callers can branch with errors.Is.
//
// The validator logs advisory warnings through the logger carried by the
// context (see logger.WithLogger), falling back to slog.Default.
package experiment
