// SPDX-License-Identifier: MPL-2.0

// Package suit implements the implement-only interface rewrite.
//
// An interface marked with the //hazmat:suit directive is rewritten so
// that every method takes one extra parameter: a capability value whose
// type is generated next to the interface and can only be constructed
// inside the defining package. Anyone can still implement the interface
// (the capability type is exported and can be named in signatures), but
// calling a guarded method requires a capability value that external
// packages have no way to create.
//
// A concrete type marked with //hazmat:suit <interface> has its matching
// methods rewritten the same way, so implementations stay in sync with
// the guarded interface without writing the capability parameter by hand.
//
// The rewrite is computed as byte-range edits against the original source
// and the result is run through go/format, so untouched code (comments
// included) comes out byte-identical. Running the rewrite on its own
// output is a no-op.
package suit
