package screen

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/hush/internal/metrics"
)

// DefaultTimeout bounds a single decision, including the event log append.
const DefaultTimeout = 2 * time.Second

// Decision is the outcome of screening one contact.
type Decision int

const (
	Allow Decision = iota
	Block
)

// String returns "allow" or "block".
func (d Decision) String() string {
	if d == Block {
		return "block"
	}
	return "allow"
}

// Lookup answers whether a number is on the block list. *store.Store satisfies it.
type Lookup interface {
	Exists(ctx context.Context, number string) (bool, error)
}

// Recorder appends blocking events. *eventlog.Log satisfies it.
type Recorder interface {
	RecordBlockedCall(ctx context.Context, number string)
	RecordBlockedMessage(ctx context.Context, number, body string)
}

// CallResponse is returned to the call-screening hook.
type CallResponse struct {
	Block bool `json:"block"`
}

// MessageResponse is returned to the SMS hook. Abort drops the message.
type MessageResponse struct {
	Abort bool `json:"abort"`
}

const (
	channelLookup  = "lookup"
	channelCall    = "call"
	channelMessage = "message"
)

// Engine screens inbound contacts against the block list.
type Engine struct {
	lookup   Lookup
	recorder Recorder
	logger   *slog.Logger
	metrics  *metrics.Metrics
	timeout  time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithTimeout bounds each decision. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// New creates an Engine reading from lookup and recording to recorder.
func New(lookup Lookup, recorder Recorder, opts ...Option) *Engine {
	e := &Engine{
		lookup:   lookup,
		recorder: recorder,
		logger:   slog.Default(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide returns Block if number is on the block list, Allow otherwise.
// It has no side effects beyond diagnostics; use ScreenCall or ScreenMessage
// on the OS hook paths so blocked contacts are recorded.
func (e *Engine) Decide(ctx context.Context, number string) Decision {
	return e.decide(ctx, channelLookup, number)
}

// ScreenCall decides an inbound call and records it when blocked.
func (e *Engine) ScreenCall(ctx context.Context, number string) CallResponse {
	if e.decide(ctx, channelCall, number) != Block {
		return CallResponse{Block: false}
	}

	rctx, cancel := e.recordContext(ctx)
	defer cancel()
	e.recorder.RecordBlockedCall(rctx, number)

	return CallResponse{Block: true}
}

// ScreenMessage decides an inbound message and records it when blocked.
func (e *Engine) ScreenMessage(ctx context.Context, number, body string) MessageResponse {
	if e.decide(ctx, channelMessage, number) != Block {
		return MessageResponse{Abort: false}
	}

	rctx, cancel := e.recordContext(ctx)
	defer cancel()
	e.recorder.RecordBlockedMessage(rctx, number, body)

	return MessageResponse{Abort: true}
}

func (e *Engine) decide(ctx context.Context, channel, number string) (d Decision) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("screening panicked, allowing",
				"channel", channel,
				"number", number,
				"panic", r,
			)
			e.metrics.IncrementFailOpen(channel)
			d = Allow
		}
		e.metrics.ObserveDecideLatency(time.Since(start))
		e.metrics.IncrementDecision(channel, d.String())
	}()

	// Withheld caller ID: nothing to match, never a wildcard.
	if number == "" {
		e.logger.Debug("allowing contact without caller ID", "channel", channel)
		return Allow
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	blocked, err := e.lookup.Exists(ctx, number)
	if err != nil {
		e.logger.Error("block list lookup failed, allowing",
			"channel", channel,
			"number", number,
			"error", err,
		)
		e.metrics.IncrementFailOpen(channel)
		return Allow
	}

	if !blocked {
		e.logger.Debug("allowing contact", "channel", channel, "number", number)
		return Allow
	}

	e.logger.Info("blocking contact", "channel", channel, "number", number)
	return Block
}

// recordContext detaches the event append from caller cancellation (the
// decision is already made) while keeping it bounded.
func (e *Engine) recordContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if e.timeout > 0 {
		return context.WithTimeout(detached, e.timeout)
	}
	return detached, func() {}
}
