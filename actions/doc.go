// Package actions provides generic CRUD action templates over the bun ORM,
// with a uniform invocation lifecycle and an optional caching decorator.
//
// # Overview
//
// An action is a small value holding the parameters of exactly one
// operation against one entity type: list a page, retrieve one record,
// create, update, delete, or a bulk variant. Construct it, invoke it,
// discard it. The package supplies the operation templates and the
// lifecycle around them; bun supplies SQL generation, relation loading,
// soft deletes, and scanning.
//
// # Invocation
//
// Every action exposes three equivalent entry points:
//
//	// direct
//	page, err := actions.Run[*actions.Page[User]](ctx, act)
//
//	// construct then execute
//	act := actions.NewList[User](db, cfg, opts)
//	page, err := act.Execute(ctx)
//
//	// one-shot convenience
//	page, err := actions.List[User](ctx, db, cfg, opts)
//
// Run is the single source of truth; the other two delegate to it, so all
// three run the same hooks and produce the same results and errors.
//
// # Lifecycle
//
// Run drives a linear lifecycle with no loops:
//
//	Before -> Handle -> After(result)
//
// When Before or Handle fails, OnError observes the failure and the
// original error propagates; After never runs. Exactly one of
// {After, OnError} executes per invocation. Hooks attach either as
// function fields on the embedded Hooks struct or by implementing the
// BeforeHook, AfterHook, and ErrorHook interfaces on a custom action type.
//
// # Errors
//
//   - ConfigurationError: the action was built without something it cannot
//     run without (database handle, known operator). Never retried.
//   - NotFoundError: a required single-record lookup matched nothing.
//   - Store errors propagate unchanged; this layer performs no recovery.
//
// # Caching
//
// Cached wraps any action with read-through memoization:
//
//	cached := actions.NewCached(act, service, keyer, cfg.Cache).
//		WithTTL(10).
//		WithTags("users")
//	page, err := cached.Execute(ctx)
//
// Keys derive from the action's own parameter snapshot, so identical
// invocations share one entry. WithoutCache turns the wrapper into a pure
// pass-through. Tags apply only on backends that support them; see the
// cache package.
//
// # Configuration
//
// Everything is constructed with an explicit Config; the package reads no
// global state. DefaultConfig gives page size 15 and "id DESC" baseline
// ordering so callers get deterministic most-recent-first behavior.
package actions
