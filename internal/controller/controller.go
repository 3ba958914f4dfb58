package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fxconvert/internal/client"

	"go.uber.org/zap"
)

var (
	// ErrRequestInFlight is returned when submitting while a lookup is running
	ErrRequestInFlight = errors.New("conversion already in progress")
	// ErrNotLoading is returned when finishing a lookup that was never started
	ErrNotLoading = errors.New("no conversion in progress")
)

// Converter performs the lookup
type Converter interface {
	Convert(ctx context.Context, req client.ConversionRequest) (client.ConversionResult, error)
}

// Controller owns the request lifecycle. At most one lookup is in flight;
// starting a new one clears the previous result or error.
type Controller struct {
	converter Converter
	logger    *zap.Logger

	mu        sync.Mutex
	state     State
	observers []func(State)
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller's logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates an idle controller
func New(converter Converter, opts ...Option) *Controller {
	c := &Controller{
		converter: converter,
		logger:    zap.NewNop(),
		state:     Idle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to be called after every transition
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Start moves to Loading. It fails without side effects when a lookup is
// already running or the request is malformed.
func (c *Controller) Start(req client.ConversionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if IsLoading(c.state) {
		c.mu.Unlock()
		return ErrRequestInFlight
	}
	next := Loading{Request: req}
	c.state = next
	observers := c.observers
	c.mu.Unlock()

	c.logger.Debug("conversion started",
		zap.String("source", req.SourceCurrency),
		zap.String("target", req.TargetCurrency),
		zap.String("amount", req.Amount),
	)
	notify(observers, next)
	return nil
}

// Finish resolves the running lookup with its outcome
func (c *Controller) Finish(result client.ConversionResult, err error) (State, error) {
	var next State
	if err != nil {
		next = Failed{Err: client.AsConversionError(err)}
	} else {
		next = Succeeded{Result: result}
	}

	c.mu.Lock()
	if !IsLoading(c.state) {
		c.mu.Unlock()
		return c.State(), ErrNotLoading
	}
	c.state = next
	observers := c.observers
	c.mu.Unlock()

	if f, ok := next.(Failed); ok {
		c.logger.Info("conversion failed",
			zap.Stringer("kind", f.Err.Kind),
			zap.String("message", f.Err.Message),
			zap.Strings("fields", f.Err.Fields),
			zap.Error(f.Err.Err),
		)
	}
	notify(observers, next)
	return next, nil
}

// Execute performs the lookup for a request already passed to Start. It
// returns ErrNotLoading without calling the converter when req is not the
// lookup currently loading.
func (c *Controller) Execute(ctx context.Context, req client.ConversionRequest) (State, error) {
	current := c.State()
	if l, ok := current.(Loading); !ok || l.Request != req {
		return current, ErrNotLoading
	}

	result, err := c.converter.Convert(ctx, req)
	next, finishErr := c.Finish(result, err)
	if finishErr != nil {
		c.logger.Warn("conversion finished outside of loading state", zap.Error(finishErr))
	}
	return next, nil
}

// Submit starts a lookup and blocks until it resolves
func (c *Controller) Submit(ctx context.Context, req client.ConversionRequest) (State, error) {
	if err := c.Start(req); err != nil {
		return c.State(), fmt.Errorf("failed to start conversion: %w", err)
	}
	return c.Execute(ctx, req)
}

func notify(observers []func(State), s State) {
	for _, fn := range observers {
		fn(s)
	}
}
