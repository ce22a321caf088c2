// Package eventloop implements UI-thread affinity (spec §4.12, C12): a
// single designated goroutine ("the UI thread") that format drivers and
// the bundle pool can hop onto for operations the underlying native API
// requires to run off the audio thread but on a single consistent
// thread (e.g. VST3's main factory, CLAP's entry points).
//
// Grounded on remidy::EventLoop (original_source
// include/remidy/event-loop.hpp), which exposes
// initializeOnUIThread/runningOnMainThread/runTaskOnMainThread(sync)/
// enqueueTaskOnMainThread(async)/start/stop, and on the teacher's
// (shaban/macaudio) engine/queue single-goroutine channel-worker pattern
// plus the root dispatcher.go request/response-channel idiom, both reused
// here for the synchronous run-and-wait shape of RunTaskOnMainThread.
package eventloop

import "sync"

// EventLoop designates one goroutine as the UI thread and lets other
// goroutines run work on it, either synchronously (blocking until done)
// or asynchronously (fire-and-forget, ordered).
type EventLoop interface {
	// Start begins running the UI thread's task loop. Must be called
	// before any RunTaskOnMainThread/EnqueueTaskOnMainThread call.
	Start()
	// Stop drains any remaining enqueued tasks and halts the loop.
	Stop()
	// RunningOnMainThread reports whether the caller is already
	// executing on the UI thread (so a driver can avoid a redundant hop).
	RunningOnMainThread() bool
	// RunTaskOnMainThread runs fn on the UI thread and blocks until it
	// returns. If the caller is already on the UI thread, fn runs
	// in-place with no hop.
	RunTaskOnMainThread(fn func())
	// EnqueueTaskOnMainThread schedules fn to run on the UI thread at
	// some point, without blocking the caller.
	EnqueueTaskOnMainThread(fn func())
}

// GoEventLoop is a real background-goroutine UI thread: a single worker
// goroutine drains a task channel, so every hop actually crosses
// goroutines and exercises the same ordering a native main-thread queue
// would provide.
type GoEventLoop struct {
	tasks   chan func()
	done    chan struct{}
	mu      sync.Mutex
	running bool
}

// NewGoEventLoop creates a UI-thread event loop. Call Start before use.
func NewGoEventLoop() *GoEventLoop {
	return &GoEventLoop{
		tasks: make(chan func(), 256),
		done:  make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (l *GoEventLoop) Start() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.mu.Unlock()

	go func() {
		for {
			select {
			case fn := <-l.tasks:
				fn()
			case <-l.done:
				// Drain remaining tasks before exiting.
				for {
					select {
					case fn := <-l.tasks:
						fn()
					default:
						return
					}
				}
			}
		}
	}()
}

// Stop signals the worker to drain and exit.
func (l *GoEventLoop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	l.mu.Unlock()
	close(l.done)
}

// RunningOnMainThread is always false for GoEventLoop: Go has no stable
// per-goroutine identity API, so this loop cannot cheaply tell whether
// the caller happens to be its own worker goroutine. Every
// RunTaskOnMainThread call therefore always hops, which is correct
// (if occasionally redundant) rather than silently wrong.
func (l *GoEventLoop) RunningOnMainThread() bool { return false }

// RunTaskOnMainThread enqueues fn and blocks until it has run.
func (l *GoEventLoop) RunTaskOnMainThread(fn func()) {
	done := make(chan struct{})
	l.tasks <- func() {
		fn()
		close(done)
	}
	<-done
}

// EnqueueTaskOnMainThread enqueues fn without waiting for it to run.
func (l *GoEventLoop) EnqueueTaskOnMainThread(fn func()) {
	l.tasks <- fn
}

// Inline is a trivial EventLoop for tests and headless drivers that have
// no real UI thread: every call runs synchronously on the caller's own
// goroutine.
type Inline struct{}

func (Inline) Start()                            {}
func (Inline) Stop()                             {}
func (Inline) RunningOnMainThread() bool         { return true }
func (Inline) RunTaskOnMainThread(fn func())     { fn() }
func (Inline) EnqueueTaskOnMainThread(fn func()) { fn() }
