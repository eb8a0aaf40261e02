// Package arbor is a safe, ownership-disciplined wrapper over a
// handle-based compiler IR engine.
//
// The engine (internal/core) manages every IR object by hand: opaque
// handles, explicit create/destroy pairs, and no defense against
// use-after-destroy. This package and its subpackages recover safety by
// construction. Every wrapper type is either owned or borrowed. An
// owned wrapper has a Destroy method that releases the resource exactly
// once, and panics on a second call or on destruction after ownership
// was transferred into a container. A borrowed wrapper is a copyable
// value with no Destroy method whose validity is bound to its owner's
// lifetime.
//
// Each wrapper exposes the same raw-handle triple: FromRaw wraps
// unconditionally on the caller's attestation, TryFromRaw treats the
// engine's null sentinel as absence, and Raw returns the handle without
// giving up ownership. These are the only doors between the safe and
// unsafe worlds.
//
// Absence is (T, bool), never an error: parses, downcasts, dialect
// lookups, and use-list walks all report a miss the same way. Panics are
// reserved for programmer error: out-of-bounds indexed access, double
// destruction, and use after transfer.
//
// The IR value and tree types live in the ir subpackage; transformation
// passes live in the pass subpackage.
package arbor
