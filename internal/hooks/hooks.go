// Package hooks implements the extension-point bus: named hooks with bail or
// waterfall composition semantics that plugins tap into during setup.
//
// Both hook kinds invoke handlers strictly in registration order. A bail hook
// stops at the first handler that produces a result; a waterfall hook threads
// an accumulator through every handler. Default behavior is implemented as a
// handler registered last, so plugin handlers always get the first chance.
package hooks

import (
	"context"
	"log/slog"
)

// BailHandler is a handler for a bail hook. It returns the hook result and
// true to short-circuit the chain, or the zero value and false to pass.
type BailHandler[A, R any] func(ctx context.Context, arg A) (R, bool, error)

type bailReg[A, R any] struct {
	label string
	fn    BailHandler[A, R]
}

// Bail is a hook whose handlers run in registration order until one of them
// produces a result. With no registrations (or none producing a result) the
// invocation reports no outcome.
type Bail[A, R any] struct {
	name string
	regs []bailReg[A, R]
}

// NewBail creates a named bail hook.
func NewBail[A, R any](name string) *Bail[A, R] {
	return &Bail[A, R]{name: name}
}

// Name returns the hook's diagnostic name.
func (b *Bail[A, R]) Name() string { return b.name }

// Len returns the number of registered handlers.
func (b *Bail[A, R]) Len() int { return len(b.regs) }

// Tap appends a handler to the chain. The label identifies the registrant in
// diagnostics. Registration never fails and never reorders earlier handlers.
func (b *Bail[A, R]) Tap(label string, fn BailHandler[A, R]) {
	b.regs = append(b.regs, bailReg[A, R]{label: label, fn: fn})
}

// Run invokes handlers in registration order. The first handler returning
// ok=true short-circuits the chain and its result becomes the outcome.
// A handler error aborts the invocation. With no result from any handler,
// Run returns the zero value and false.
func (b *Bail[A, R]) Run(ctx context.Context, log *slog.Logger, arg A) (R, bool, error) {
	for _, reg := range b.regs {
		result, ok, err := reg.fn(ctx, arg)
		if err != nil {
			var zero R
			return zero, false, err
		}
		if ok {
			log.Debug("hook handled", "hook", b.name, "handler", reg.label)
			return result, true, nil
		}
	}

	log.Debug("hook unhandled", "hook", b.name, "handlers", len(b.regs))
	var zero R
	return zero, false, nil
}

// WaterfallHandler is a handler for a waterfall hook. It receives the current
// accumulator and returns the next one. Handlers must not mutate the value
// they are given; they return a new (or unchanged) accumulator.
type WaterfallHandler[T any] func(ctx context.Context, acc T) (T, error)

type waterfallReg[T any] struct {
	label string
	fn    WaterfallHandler[T]
}

// Waterfall is a hook whose handlers each transform an accumulator in
// registration order. With no registrations the seed passes through intact.
type Waterfall[T any] struct {
	name string
	regs []waterfallReg[T]
}

// NewWaterfall creates a named waterfall hook.
func NewWaterfall[T any](name string) *Waterfall[T] {
	return &Waterfall[T]{name: name}
}

// Name returns the hook's diagnostic name.
func (w *Waterfall[T]) Name() string { return w.name }

// Len returns the number of registered handlers.
func (w *Waterfall[T]) Len() int { return len(w.regs) }

// Tap appends a handler to the chain. Registration never fails.
func (w *Waterfall[T]) Tap(label string, fn WaterfallHandler[T]) {
	w.regs = append(w.regs, waterfallReg[T]{label: label, fn: fn})
}

// Run threads the seed through every handler in registration order and
// returns the final accumulator. No handler runs until the previous one's
// result is known; a handler error aborts the invocation.
func (w *Waterfall[T]) Run(ctx context.Context, log *slog.Logger, seed T) (T, error) {
	acc := seed
	for _, reg := range w.regs {
		next, err := reg.fn(ctx, acc)
		if err != nil {
			var zero T
			return zero, err
		}
		log.Debug("hook step", "hook", w.name, "handler", reg.label)
		acc = next
	}
	return acc, nil
}
