package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-priceform/pkg/client"
	pkgmodel "github.com/goliatone/go-priceform/pkg/model"
)

// Logger is the minimal logging surface the controller needs. *log.Logger
// satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	Features pkgmodel.FeatureSet   `json:"features"`
	State    pkgmodel.RequestState `json:"state"`
}

// Listener is notified after every change. It runs outside the controller
// lock and may call back into the controller.
type Listener func(Snapshot)

// Submission identifies one call to Submit. Done closes once the request has
// finished, whether its result was applied or discarded as stale.
type Submission struct {
	Generation uint64
	Done       <-chan struct{}
}

// View is what a renderer needs to draw the result area: at most one of the
// price or error panels, plus the pending flag for the submit button.
type View struct {
	Panel   pkgmodel.Panel `json:"panel"`
	Price   string         `json:"price,omitempty"`
	Message string         `json:"message,omitempty"`
	Pending bool           `json:"pending"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger injects a logger.
func WithLogger(logger Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDefaults replaces the initial feature values.
func WithDefaults(features pkgmodel.FeatureSet) Option {
	return func(c *Controller) {
		c.features = features
	}
}

// WithListener registers a change listener at construction time.
func WithListener(listener Listener) Option {
	return func(c *Controller) {
		if listener != nil {
			c.listeners = append(c.listeners, listener)
		}
	}
}

// Controller owns the feature values and the state of the latest prediction
// request. Only the response of the most recent Submit may change the state.
type Controller struct {
	predictor client.Predictor
	logger    Logger

	mu         sync.Mutex
	features   pkgmodel.FeatureSet
	state      pkgmodel.RequestState
	generation uint64
	cancel     context.CancelFunc
	listeners  []Listener
	closed     bool
}

// ErrNoPredictor is returned by New when predictor is nil.
var ErrNoPredictor = errors.New("controller: predictor is required")

// New creates a Controller with the default features and an idle state.
func New(predictor client.Predictor, options ...Option) (*Controller, error) {
	if predictor == nil {
		return nil, ErrNoPredictor
	}
	c := &Controller{
		predictor: predictor,
		logger:    discardLogger{},
		features:  pkgmodel.DefaultFeatures(),
		state:     pkgmodel.Idle(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// UpdateField parses raw and stores it under name. Input that is not a finite
// number is stored as 0; no range checks are applied. The stored value is
// returned.
func (c *Controller) UpdateField(name, raw string) (float64, error) {
	value := pkgmodel.ParseValue(raw)

	c.mu.Lock()
	if err := c.features.Set(name, value); err != nil {
		c.mu.Unlock()
		return 0, fmt.Errorf("controller: update field: %w", err)
	}
	snap := c.snapshotLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	notify(listeners, snap)
	return value, nil
}

// Submit marks a new request pending and sends the current features to the
// predictor in the background. Any request still in flight is cancelled and
// its response ignored. ctx bounds the network call, so HTTP handlers should
// pass a context detached from the inbound request.
func (c *Controller) Submit(ctx context.Context) Submission {
	done := make(chan struct{})

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	gen := c.generation
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = pkgmodel.Pending(gen)
	features := c.features
	snap := c.snapshotLocked()
	listeners := c.listenersLocked()
	closed := c.closed
	c.mu.Unlock()

	notify(listeners, snap)

	if closed {
		cancel()
	}
	go c.run(reqCtx, cancel, gen, features, done)
	return Submission{Generation: gen, Done: done}
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, gen uint64, features pkgmodel.FeatureSet, done chan<- struct{}) {
	defer close(done)
	defer cancel()

	prediction, err := c.predictor.Predict(ctx, features)

	var next pkgmodel.RequestState
	if err != nil {
		c.logger.Printf("prediction %d failed: %v", gen, err)
		next = pkgmodel.Failed(gen, client.Message(err))
	} else {
		next = pkgmodel.Succeeded(gen, prediction.FormattedPrice)
	}

	c.mu.Lock()
	if gen != c.generation {
		latest := c.generation
		c.mu.Unlock()
		c.logger.Printf("discarding stale prediction %d (latest %d)", gen, latest)
		return
	}
	c.state = next
	c.cancel = nil
	snap := c.snapshotLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	notify(listeners, snap)
}

// Subscribe registers listener and returns a function removing it.
func (c *Controller) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	c.mu.Lock()
	c.listeners = append(c.listeners, listener)
	idx := len(c.listeners) - 1
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if idx < len(c.listeners) {
				c.listeners[idx] = nil
			}
		})
	}
}

// Close cancels any request in flight. Later submissions fail immediately.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// State returns the current request state.
func (c *Controller) State() pkgmodel.RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Features returns a copy of the current feature values.
func (c *Controller) Features() pkgmodel.FeatureSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.features
}

// Pending reports whether a submission is in flight.
func (c *Controller) Pending() bool {
	return c.State().IsPending()
}

// Snapshot returns features and state read under one lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// View maps the current state onto the result area.
func (c *Controller) View() View {
	return ViewOf(c.State())
}

// ViewOf maps a request state onto the result area.
func ViewOf(state pkgmodel.RequestState) View {
	view := View{Panel: state.Panel(), Pending: state.IsPending()}
	switch view.Panel {
	case pkgmodel.PanelPrice:
		view.Price = state.Price
	case pkgmodel.PanelError:
		view.Message = state.Message
	}
	return view
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{Features: c.features, State: c.state}
}

func (c *Controller) listenersLocked() []Listener {
	out := make([]Listener, 0, len(c.listeners))
	for _, listener := range c.listeners {
		if listener != nil {
			out = append(out, listener)
		}
	}
	return out
}

func notify(listeners []Listener, snap Snapshot) {
	for _, listener := range listeners {
		listener(snap)
	}
}
