package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/getsentry/sentry-go"
)

var (
	crashMu     sync.Mutex
	crashScreen tcell.Screen
	crashOut    io.Writer = os.Stderr
	crashExit             = os.Exit
	reporting   bool
)

// SetCrashScreen registers the screen restored before a crash report is printed
func SetCrashScreen(s tcell.Screen) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashScreen = s
}

// InitReporting enables sentry crash reports, a blank dsn leaves reporting off
func InitReporting(dsn, release string) error {
	if dsn == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:     dsn,
		Release: release,
	}); err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}

	crashMu.Lock()
	reporting = true
	crashMu.Unlock()
	return nil
}

// FlushReporting waits for queued crash reports, no-op when reporting is off
func FlushReporting(timeout time.Duration) {
	crashMu.Lock()
	on := reporting
	crashMu.Unlock()

	if on {
		sentry.Flush(timeout)
	}
}

// HandleCrash is the unified panic handler: restores the terminal, reports and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	screen, out, exit, on := crashScreen, crashOut, crashExit, reporting
	crashMu.Unlock()

	if screen != nil {
		screen.Fini()
	}

	if on {
		sentry.CurrentHub().Recover(r)
		sentry.Flush(2 * time.Second)
	}

	fmt.Fprintf(out, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(out, "Stack Trace:\n%s\n", debug.Stack())

	exit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use instead of the 'go' keyword so the terminal is restored on crash
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
