// Package audit implements async delivery of use case lifecycle events.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, no-op, func).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event]: lifecycle record with timestamp, type, use case identity, state and metadata.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit; that responsibility belongs to the use case state machine.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on use case state.
//   - Import authcase or any sibling package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
