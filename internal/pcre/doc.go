// Package pcre understands PHP PCRE pattern literals well enough to lint them.
//
// Extract splits a pattern literal into its body and modifier run, Tokenize
// turns the body into a flat list of atoms, and the Check* functions inspect
// a pattern (and, for some, the call it is passed to) and report findings to
// a diag.Reporter. Checks never fail: a body they cannot make sense of simply
// produces no diagnostics.
package pcre
