// Package signal turns the first SIGINT or SIGTERM into a canceled run
// context. The pipeline checks the context between stages, so the stages
// not yet started are reported as skipped. After the first signal the
// default handling is restored and a second Ctrl+C ends the process.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler cancels its context when an interrupt arrives.
type Handler struct {
	ctx         context.Context //nolint:containedctx // the handler owns the run context lifecycle
	cancel      context.CancelFunc
	interrupted chan struct{}
	done        chan struct{}
	once        sync.Once
	stopOnce    sync.Once
	sigChan     chan os.Signal
	onInterrupt func(os.Signal)
}

// Option configures a Handler.
type Option func(*Handler)

// WithOnInterrupt registers a callback run once, with the received signal,
// before the context is canceled.
func WithOnInterrupt(fn func(os.Signal)) Option {
	return func(h *Handler) {
		h.onInterrupt = fn
	}
}

// NewHandler starts listening for SIGINT and SIGTERM.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	run := p.Execute(h.Context(), names, mode)
func NewHandler(parent context.Context, opts ...Option) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		sigChan:     make(chan os.Signal, 1),
	}
	for _, opt := range opts {
		opt(h)
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the context canceled by the first interrupt.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted returns a channel closed when an interrupt was received.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Stop releases the signal subscription and cancels the context.
// Safe to call more than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

// handleSignal cancels the run and restores default signal handling.
func (h *Handler) handleSignal(sig os.Signal) {
	h.once.Do(func() {
		signal.Stop(h.sigChan)
		if h.onInterrupt != nil {
			h.onInterrupt(sig)
		}
		h.cancel()
		close(h.interrupted)
	})
}

func (h *Handler) listen() {
	select {
	case <-h.ctx.Done():
	case <-h.done:
	case sig := <-h.sigChan:
		h.handleSignal(sig)
	}
}
