package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oukeidos/cropper/internal/apperrors"
	"github.com/oukeidos/cropper/internal/crop"
	"github.com/oukeidos/cropper/internal/logger"
)

var (
	ErrSelectionIncomplete = apperrors.Precondition("selection incomplete")
	ErrSameDirectory       = apperrors.Precondition("image folder and crop folder must be different directories")
	ErrAlreadyRunning      = apperrors.Precondition("a crop is already running")
)

const cancelledMessage = "The crop operation was cancelled."

type Options struct {
	Service  crop.Service
	Picker   Picker
	Notifier Notifier
	// Timeout bounds each service call. 0 disables it.
	Timeout time.Duration
	// OnChange receives a copy of the state after every transition.
	OnChange func(State)
	// Context is the parent of every service call. Defaults to Background.
	Context context.Context
}

// Controller tracks the two directory selections and runs at most one crop at
// a time.
type Controller struct {
	service  crop.Service
	picker   Picker
	notifier Notifier
	timeout  time.Duration
	onChange func(State)
	baseCtx  context.Context

	mu         sync.Mutex
	selections [2]string
	status     Status
	active     *Invocation
	last       *Outcome
	seq        uint64
}

func New(opts Options) (*Controller, error) {
	if opts.Service == nil {
		return nil, errors.New("workflow: crop service is required")
	}
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("workflow: timeout must not be negative, got %s", opts.Timeout)
	}
	c := &Controller{
		service:  opts.Service,
		picker:   opts.Picker,
		notifier: opts.Notifier,
		timeout:  opts.Timeout,
		onChange: opts.OnChange,
		baseCtx:  opts.Context,
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(Outcome) {})
	}
	if c.baseCtx == nil {
		c.baseCtx = context.Background()
	}
	return c, nil
}

// SelectDirectory opens the picker for role and stores the chosen path. It
// blocks until the picker is dismissed. A cancelled or failed pick leaves the
// selection unchanged.
func (c *Controller) SelectDirectory(ctx context.Context, role Role) (string, bool) {
	if !role.valid() {
		logger.Warn("Unknown directory role", "role", role)
		return "", false
	}
	if c.picker == nil {
		logger.Warn("No directory picker configured", "role", role)
		return "", false
	}

	path, ok, err := c.picker.PickDirectory(ctx, PickRequest{Title: role.Title(), Directory: true})
	if err != nil {
		logger.Warn("Directory picker failed", "role", role, "error", err)
		return "", false
	}
	if !ok || strings.TrimSpace(path) == "" {
		logger.Debug("Directory pick cancelled", "role", role)
		return "", false
	}
	if err := c.SetDirectory(role, path); err != nil {
		logger.Warn("Directory selection rejected", "role", role, "error", err)
		return "", false
	}
	return c.Snapshot().Selection(role), true
}

// SetDirectory stores path for role as if it had been picked.
func (c *Controller) SetDirectory(role Role, path string) error {
	if !role.valid() {
		return fmt.Errorf("unknown directory role %d", int(role))
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return apperrors.InvalidPath("directory path is empty", nil)
	}
	clean := filepath.Clean(path)
	if abs, err := filepath.Abs(clean); err == nil {
		clean = abs
	}

	c.mu.Lock()
	c.selections[role] = clean
	state := c.snapshotLocked()
	c.mu.Unlock()

	logger.Info("Directory selected", "role", role, "path", clean)
	c.emitChange(state)
	return nil
}

// TriggerCrop starts a crop with the current selections and returns
// immediately. An incomplete or identical selection is notified once and
// rejected; a trigger while running is ignored.
func (c *Controller) TriggerCrop() (*Invocation, error) {
	c.mu.Lock()
	if c.status == StatusRunning {
		c.mu.Unlock()
		logger.Debug("Crop already running, trigger ignored")
		return nil, ErrAlreadyRunning
	}
	src, dst := c.selections[ImageSourceDir], c.selections[CropOutputDir]
	var reject error
	switch {
	case src == "" || dst == "":
		reject = ErrSelectionIncomplete
	case src == dst:
		reject = ErrSameDirectory
	}
	if reject != nil {
		outcome := ErrorOutcome(apperrors.PublicMessage(reject))
		c.last = &outcome
		state := c.snapshotLocked()
		c.mu.Unlock()

		logger.Warn("Crop not started", "reason", reject)
		c.notify(outcome)
		c.emitChange(state)
		return nil, reject
	}

	c.seq++
	inv := newInvocation(c.seq, crop.Request{ImageSourceDir: src, CropOutputDir: dst})
	c.status = StatusRunning
	c.active = inv
	state := c.snapshotLocked()
	c.mu.Unlock()

	logger.Info("Crop started", "id", inv.id, "src", src, "dst", dst)
	c.emitChange(state)
	go c.run(inv)
	return inv, nil
}

func (c *Controller) run(inv *Invocation) {
	ctx := c.baseCtx
	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}
	defer cancel()

	start := time.Now()
	var (
		res crop.Result
		err error
	)
	withPanicGuard("workflow.crop", func(r any) {
		err = apperrors.Internal(fmt.Errorf("crop service panicked: %v", r))
	}, func() {
		res, err = c.service.Crop(ctx, inv.req)
	})

	status, outcome := classify(res, err)
	if err != nil {
		logger.Error("Crop failed", "id", inv.id, "error", err, "elapsed", time.Since(start).Round(time.Millisecond))
	} else {
		logger.Info("Crop completed", "id", inv.id, "failed", len(res.Failed), "elapsed", time.Since(start).Round(time.Millisecond))
	}
	c.finish(inv, status, outcome)
}

// classify maps a service response onto the invocation status and the outcome
// shown to the user.
func classify(res crop.Result, err error) (Status, Outcome) {
	switch {
	case err == nil && len(res.Failed) == 0:
		return StatusSucceeded, Success()
	case err == nil:
		return StatusSucceeded, PartialFailure(res.Failed)
	case errors.Is(err, context.DeadlineExceeded):
		return StatusFailed, ErrorOutcome(apperrors.PublicMessage(apperrors.Timeout(err)))
	case errors.Is(err, context.Canceled):
		return StatusFailed, ErrorOutcome(cancelledMessage)
	default:
		return StatusFailed, ErrorOutcome(apperrors.PublicMessage(err))
	}
}

func (c *Controller) finish(inv *Invocation, status Status, outcome Outcome) {
	inv.resolve(status, outcome)

	c.mu.Lock()
	if c.active == inv {
		c.active = nil
		c.status = StatusIdle
	}
	last := outcome.clone()
	c.last = &last
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(outcome)
	c.emitChange(state)
	close(inv.done)
}

func (c *Controller) notify(o Outcome) {
	withPanicGuard("workflow.notify", nil, func() {
		c.notifier.Notify(o.clone())
	})
}

func (c *Controller) emitChange(s State) {
	if c.onChange == nil {
		return
	}
	withPanicGuard("workflow.on_change", nil, func() {
		c.onChange(s)
	})
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) snapshotLocked() State {
	s := State{
		Status:         c.status,
		ImageSourceDir: c.selections[ImageSourceDir],
		CropOutputDir:  c.selections[CropOutputDir],
	}
	if c.last != nil {
		last := c.last.clone()
		s.LastOutcome = &last
	}
	return s
}
