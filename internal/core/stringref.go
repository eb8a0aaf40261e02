package core

import "unsafe"

// StringRef is an unowned fragment of a string: a pointer to the first
// byte plus an explicit length. The bytes are not necessarily
// NUL-terminated and are owned by whoever produced the view; a StringRef
// must not outlive its backing storage.
type StringRef struct {
	Data   *byte
	Length int
}

// StringRefFromString builds a StringRef over the bytes of s. The view is
// valid for as long as s is reachable.
func StringRefFromString(s string) StringRef {
	if len(s) == 0 {
		return StringRef{}
	}
	return StringRef{Data: unsafe.StringData(s), Length: len(s)}
}

// StringRefFromBytes builds a StringRef over b. The view aliases b.
func StringRefFromBytes(b []byte) StringRef {
	if len(b) == 0 {
		return StringRef{}
	}
	return StringRef{Data: &b[0], Length: len(b)}
}

// StringRefFromCString builds a StringRef over a buffer that carries a
// trailing NUL byte. The terminator is excluded from Length but remains
// addressable one past the end, which is what OperationCreateParse
// requires of its source argument.
func StringRefFromCString(b []byte) StringRef {
	if len(b) == 0 || b[len(b)-1] != 0 {
		panic("core: StringRefFromCString requires a NUL-terminated buffer")
	}
	return StringRef{Data: &b[0], Length: len(b) - 1}
}

// String copies the viewed bytes into a Go string.
func (r StringRef) String() string {
	if r.Data == nil || r.Length == 0 {
		return ""
	}
	return string(unsafe.Slice(r.Data, r.Length))
}

// Bytes returns the viewed bytes without copying. The slice aliases the
// backing storage.
func (r StringRef) Bytes() []byte {
	if r.Data == nil || r.Length == 0 {
		return nil
	}
	return unsafe.Slice(r.Data, r.Length)
}

// nulTerminated reports whether the byte one past the view is NUL. Only
// meaningful for buffers built with StringRefFromCString; for anything
// else the read is out of bounds of the backing allocation, exactly like
// the foreign parser this engine mirrors.
func (r StringRef) nulTerminated() bool {
	if r.Data == nil {
		return false
	}
	return *(*byte)(unsafe.Add(unsafe.Pointer(r.Data), r.Length)) == 0
}

// StringRefEqual compares the contents of two views.
func StringRefEqual(a, b StringRef) bool {
	return a.String() == b.String()
}

// StringCallback receives one chunk of printed text. userData is the
// opaque datum passed alongside the callback at the print call site; the
// engine never inspects it.
type StringCallback func(chunk StringRef, userData uintptr)
