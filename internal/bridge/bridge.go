// Package bridge adapts the engine's chunked print callbacks to Go
// writers. The engine hands every chunk to a callback together with an
// opaque user datum; the bridge registers a writer under a fresh datum,
// forwards chunks to it, and tears the registration down when the print
// call returns.
//
// Control is inside the engine while the callback runs, so the callback
// never lets a panic unwind through it. Anything raised by the writer is
// captured and re-raised after the engine call returns.
package bridge

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/arbor-ir/arbor/internal/core"
)

type sink struct {
	w        io.Writer
	err      error
	panicked any
	hasPanic bool
}

var (
	mu    sync.Mutex
	next  uintptr
	sinks = map[uintptr]*sink{}
)

func register(w io.Writer) uintptr {
	mu.Lock()
	defer mu.Unlock()
	next++
	sinks[next] = &sink{w: w}
	return next
}

func unregister(h uintptr) *sink {
	mu.Lock()
	defer mu.Unlock()
	s := sinks[h]
	delete(sinks, h)
	return s
}

func lookup(h uintptr) *sink {
	mu.Lock()
	defer mu.Unlock()
	return sinks[h]
}

// Callback is the core.StringCallback every print call in this module
// uses. The userData datum must come from a bridge registration.
func Callback(chunk core.StringRef, userData uintptr) {
	s := lookup(userData)
	if s == nil || s.err != nil || s.hasPanic {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.panicked = r
			s.hasPanic = true
		}
	}()
	if _, err := s.w.Write(chunk.Bytes()); err != nil {
		s.err = err
	}
}

// WriteTo runs a print call against w. print must invoke the engine's
// print entry point with the callback and datum it is given.
func WriteTo(w io.Writer, print func(core.StringCallback, uintptr)) error {
	h := register(w)
	print(Callback, h)
	s := unregister(h)
	if s.hasPanic {
		panic(s.panicked)
	}
	return s.err
}

// String runs a print call and collects the chunks into a string. The
// print convention has no error channel and the in-memory writer cannot
// fail, so any failure here is fatal.
func String(print func(core.StringCallback, uintptr)) string {
	var sb strings.Builder
	if err := WriteTo(&sb, print); err != nil {
		panic(fmt.Sprintf("bridge: in-memory print failed: %v", err))
	}
	return sb.String()
}
