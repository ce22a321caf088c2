// Package instancing implements the plugin-instance state machine (spec
// §4.6, C6): Created -> Preparing -> Ready -> Terminating -> Terminated,
// with Error as a sink reachable from Preparing, and asynchronous
// creation via makeAlive so a format driver's CreateInstance (which may
// itself hop to the UI thread) never blocks its caller.
//
// Grounded on remidy::PluginInstancing (original_source
// include/remidy/plugin-instancing.hpp), whose state enum and
// makeAlive()/instancingState() API this mirrors directly, and on the
// teacher's (shaban/macaudio) session.go async request-channel pattern
// (processPluginRequests + an inflight map keyed by request identity) for
// the "one in-flight creation at a time" shape used here to make
// MakeAlive idempotent under concurrent callers.
package instancing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/shaban/pluginhost/catalog"
	"github.com/shaban/pluginhost/format"
	"github.com/shaban/pluginhost/instance"
	"github.com/shaban/pluginhost/status"
)

// State is one stage of an instance's lifecycle.
type State int32

const (
	Created State = iota
	Preparing
	Ready
	Error
	Terminating
	Terminated
)

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case Preparing:
		return "Preparing"
	case Ready:
		return "Ready"
	case Error:
		return "Error"
	case Terminating:
		return "Terminating"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// ErrRequiresRecreate names the outcome of a sample-rate change on an
// instance whose format driver reports InstantiateRequiresSampleRate:
// the caller must destroy this Instancing and create a new one rather
// than expect an in-place reconfiguration (Open Question decision #3).
// Nothing in this package returns it: Instancing has no method that
// reconfigures a live instance.
var ErrRequiresRecreate = errors.New("instancing: format requires instance recreation for this change")

// Instancing owns one plugin instance's lifecycle. Zero value is not
// usable; construct with New.
type Instancing struct {
	state atomic.Int32

	mu       sync.Mutex
	instance instance.Instance
	err      error

	entry  catalog.Entry
	driver format.Driver
}

// New creates an Instancing in the Created state. Nothing happens until
// MakeAlive is called.
func New(entry catalog.Entry, driver format.Driver) *Instancing {
	return &Instancing{entry: entry, driver: driver}
}

// CurrentState returns the current lifecycle state.
func (in *Instancing) CurrentState() State {
	return State(in.state.Load())
}

// MakeAlive asynchronously drives Created -> Preparing -> (Ready |
// Error): it creates the instance through the driver, then calls
// Configure and StartProcessing on it, invoking done exactly once with
// the terminal outcome. Calling MakeAlive more than once is a no-op after
// the first call actually starts the transition: a later call's done
// receives the state at the moment of that call (Preparing while the
// first creation is still in flight), not the eventual outcome.
func (in *Instancing) MakeAlive(opts format.CreateOptions, done func(State, error)) {
	if !in.state.CompareAndSwap(int32(Created), int32(Preparing)) {
		// Already preparing, ready, or further along: report current state.
		in.mu.Lock()
		err := in.err
		in.mu.Unlock()
		done(in.CurrentState(), err)
		return
	}

	in.driver.CreateInstance(context.Background(), in.entry, opts, func(res format.CreateResult) {
		in.mu.Lock()
		defer in.mu.Unlock()

		if res.Err != nil {
			in.err = res.Err
			in.state.Store(int32(Error))
			done(Error, res.Err)
			return
		}
		inst, ok := res.Instance.(instance.Instance)
		if !ok {
			in.err = status.Wrap(status.FailedToInstantiate, "driver returned a value that does not implement instance.Instance")
			in.state.Store(int32(Error))
			done(Error, in.err)
			return
		}
		if code := inst.Configure(context.Background(), opts.SampleRate, opts.BlockSize); code != status.OK {
			in.err = status.Wrap(status.FailedToConfigure, "configuring %s: %v", in.entry.PluginID, code)
			in.state.Store(int32(Error))
			done(Error, in.err)
			return
		}
		if code := inst.StartProcessing(); code != status.OK {
			in.err = status.Wrap(status.FailedToStartProcessing, "starting %s: %v", in.entry.PluginID, code)
			in.state.Store(int32(Error))
			done(Error, in.err)
			return
		}
		in.instance = inst
		in.state.Store(int32(Ready))
		done(Ready, nil)
	})
}

// WithInstance runs fn against the live instance if the state machine is
// Ready, returning AlreadyInvalidState otherwise. This is the only
// sanctioned way to reach the underlying instance.Instance, so that
// every access is guarded by the current lifecycle state.
func (in *Instancing) WithInstance(fn func(instance.Instance) status.Code) status.Code {
	if in.CurrentState() != Ready {
		return status.AlreadyInvalidState
	}
	in.mu.Lock()
	inst := in.instance
	in.mu.Unlock()
	if inst == nil {
		return status.AlreadyInvalidState
	}
	return fn(inst)
}

// Terminate transitions Ready -> Terminating -> Terminated, stopping
// processing on the underlying instance first. Terminating an instance
// that is still Preparing or already Terminated/Error is reported as
// AlreadyInvalidState; spec §4.6 requires callers to wait for MakeAlive
// to settle (Ready or Error) before terminating.
func (in *Instancing) Terminate() status.Code {
	if !in.state.CompareAndSwap(int32(Ready), int32(Terminating)) {
		return status.AlreadyInvalidState
	}
	in.mu.Lock()
	inst := in.instance
	in.mu.Unlock()

	var code status.Code
	if inst != nil {
		code = inst.StopProcessing()
	}
	in.state.Store(int32(Terminated))
	return code
}
