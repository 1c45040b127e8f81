package workflow

import (
	"context"
	"sync"

	"github.com/oukeidos/cropper/internal/crop"
)

// Invocation is one in-flight or finished crop call. Done is closed after the
// outcome has been notified and the controller is back to idle.
type Invocation struct {
	id   uint64
	req  crop.Request
	done chan struct{}

	mu      sync.Mutex
	status  Status
	outcome Outcome
}

func newInvocation(id uint64, req crop.Request) *Invocation {
	return &Invocation{id: id, req: req, done: make(chan struct{}), status: StatusRunning}
}

func (i *Invocation) ID() uint64 { return i.id }

// Request returns the directories captured at trigger time.
func (i *Invocation) Request() crop.Request { return i.req }

func (i *Invocation) Done() <-chan struct{} { return i.done }

func (i *Invocation) Status() Status {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

// Outcome returns the result once the invocation has finished.
func (i *Invocation) Outcome() (Outcome, bool) {
	select {
	case <-i.done:
	default:
		return Outcome{}, false
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.outcome.clone(), true
}

// Wait blocks until the invocation finishes or ctx is done.
func (i *Invocation) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-i.done:
		o, _ := i.Outcome()
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

func (i *Invocation) resolve(status Status, outcome Outcome) {
	i.mu.Lock()
	i.status = status
	i.outcome = outcome
	i.mu.Unlock()
}
