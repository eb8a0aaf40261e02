// Package core is the handle-level IR engine underneath the arbor public
// API.
//
// The package deliberately keeps the calling conventions of a C library:
// every entity is reached through an opaque handle struct, absence is a
// null handle (check with IsNull), resources are released with explicit
// Destroy calls, strings cross the boundary as pointer+length views that
// are not necessarily NUL-terminated, and printing pushes text chunks
// through a caller-supplied callback with an opaque user datum.
//
// Nothing at this level is lifetime-checked. Using a handle after its
// owner has been destroyed, destroying a handle twice, or mixing handles
// from different contexts is a contract violation; the engine panics
// where it can detect one cheaply, but detection is best-effort only.
// The safe wrappers in the arbor, arbor/ir, and arbor/pass packages are
// the supported way to consume this package.
package core
