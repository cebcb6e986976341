package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync/atomic"
)

// crashHooks runs when a goroutine started through Go (or the demo's main) panics
type crashHooks struct {
	report func(r any)
	reset  func()
}

var (
	hooks atomic.Pointer[crashHooks]

	// swapped in tests so a simulated panic does not end the test binary
	crashOut  io.Writer = os.Stderr
	crashExit           = os.Exit
)

func currentHooks() crashHooks {
	if h := hooks.Load(); h != nil {
		return *h
	}
	return crashHooks{}
}

// SetCrashReport registers the panic reporter, e.g. a sentry hub capture
// It receives the recovered value and runs before the terminal is reset
func SetCrashReport(fn func(r any)) {
	h := currentHooks()
	h.report = fn
	hooks.Store(&h)
}

// SetCrashReset registers the terminal restore run after reporting
func SetCrashReset(fn func()) {
	h := currentHooks()
	h.reset = fn
	hooks.Store(&h)
}

// HandleCrash reports r, restores the terminal, prints the stack and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	h := currentHooks()
	if h.report != nil {
		h.report(r)
	}
	if h.reset != nil {
		h.reset()
	}

	os.Stdout.Sync()
	// Raw-mode terminal: explicit carriage returns
	fmt.Fprintf(crashOut, "\r\n\x1b[31mpanic: %v\x1b[0m\r\n%s\r\n", r, debug.Stack())
	os.Stderr.Sync()

	crashExit(1)
}

// Go starts fn on its own goroutine; a panic there goes through HandleCrash
// Every long-lived goroutine of the demo (scheduler, event poll, statsview) starts here
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
