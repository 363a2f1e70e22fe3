// Package authcase provides an authenticated use case: an operation that must obtain a
// valid credential before producing its result, re-attempts authentication whenever the
// global auth state changes, and either emits once and completes or keeps emitting.
//
// A [UseCase] is assembled with [New] and a [Builder]. Start registers it in a
// [registry.Registry] and subscribes to the auth stream; each credential runs the business
// stream and its values are relayed on a replayable [OutputStream]. Domain auth failures
// ([NotAuthenticated], [OtherError]) are mapped to ordinary values, never stream errors.
// [BroadcastAuthChanged] re-runs the auth attempt of every registered use case.
//
// # Architecture boundaries
//
// authcase is the public surface. It owns the per-instance state machine, the output
// stream and the teardown discipline. Scheduling is supplied by the caller through
// [Executor]; the concrete auth provider, the business operation and navigation are
// caller-supplied functions. Redis-backed collaborators live in the provider and notify
// packages; lifecycle event buffering lives under internal/.
//
// # What this package must NOT do
//
//   - Persist auth state or credentials.
//   - Retry failed streams, apply backoff, or impose timeouts.
//   - Deduplicate identical use cases.
//   - Hold its lock while calling caller-supplied functions.
package authcase
