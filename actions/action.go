package actions

import (
	"context"
)

// Action is the unit of work every operation in this package implements.
// Handle performs the operation and returns its natural result shape.
type Action[R any] interface {
	Handle(ctx context.Context) (R, error)
}

// BeforeHook runs before Handle. Returning an error aborts the invocation;
// Handle and After never run, OnError does.
type BeforeHook interface {
	Before(ctx context.Context) error
}

// AfterHook receives the raw result of Handle and returns a (possibly
// transformed) replacement.
type AfterHook[R any] interface {
	After(ctx context.Context, result R) (R, error)
}

// ErrorHook observes a failed invocation. It runs for diagnostic or
// compensating side effects only; the original error always propagates
// after it returns.
type ErrorHook interface {
	OnError(ctx context.Context, err error)
}

// Run executes an action through the full lifecycle:
//
//	Before -> Handle -> After(result)
//
// with the alternate terminal edge
//
//	Before/Handle fails -> OnError(err) -> err
//
// Run is the single source of truth for the lifecycle. The Execute method on
// each action and the package-level convenience functions (List, Get, Create,
// ...) are pure delegation to Run, so all three invocation styles are
// observably identical.
//
// Exactly one of {After, OnError} runs per invocation. An error returned by
// After is returned as-is: After already ran, so OnError is not invoked.
func Run[R any](ctx context.Context, action Action[R]) (R, error) {
	var zero R

	if hook, ok := action.(BeforeHook); ok {
		if err := hook.Before(ctx); err != nil {
			return zero, notifyError(ctx, action, err)
		}
	}

	result, err := action.Handle(ctx)
	if err != nil {
		return zero, notifyError(ctx, action, err)
	}

	if hook, ok := action.(AfterHook[R]); ok {
		return hook.After(ctx, result)
	}
	return result, nil
}

// notifyError runs the ErrorHook, if any, and returns the original error
// unchanged. OnError cannot convert failure into success.
func notifyError[R any](ctx context.Context, action Action[R], err error) error {
	if hook, ok := action.(ErrorHook); ok {
		hook.OnError(ctx, err)
	}
	return err
}

// Hooks is an embeddable hook set with no-op defaults. The shipped CRUD
// actions embed it so callers can attach per-instance callbacks without
// defining a new type:
//
//	act := actions.NewList[User](db, cfg, opts)
//	act.BeforeFunc = func(ctx context.Context) error {
//		slog.Info("listing users")
//		return nil
//	}
//
// Author-defined action types may instead implement BeforeHook, AfterHook,
// and ErrorHook directly.
type Hooks[R any] struct {
	BeforeFunc  func(ctx context.Context) error
	AfterFunc   func(ctx context.Context, result R) (R, error)
	OnErrorFunc func(ctx context.Context, err error)
}

// Before implements BeforeHook.
func (h *Hooks[R]) Before(ctx context.Context) error {
	if h.BeforeFunc != nil {
		return h.BeforeFunc(ctx)
	}
	return nil
}

// After implements AfterHook. The default is identity.
func (h *Hooks[R]) After(ctx context.Context, result R) (R, error) {
	if h.AfterFunc != nil {
		return h.AfterFunc(ctx, result)
	}
	return result, nil
}

// OnError implements ErrorHook.
func (h *Hooks[R]) OnError(ctx context.Context, err error) {
	if h.OnErrorFunc != nil {
		h.OnErrorFunc(ctx, err)
	}
}
