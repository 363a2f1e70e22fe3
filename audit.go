package authcase

import (
	"io"

	"github.com/MrEthical07/authcase/internal/audit"
)

// Lifecycle event types emitted to the AuditSink.
const (
	EventUseCaseStarted  = "usecase_started"
	EventAuthFailure     = "auth_failure"
	EventAuthSuccess     = "auth_success"
	EventLoginNavigation = "login_navigation"
	EventTransportError  = "transport_error"
	EventUseCaseTornDown = "usecase_torn_down"
)

// AuditEvent is one use case lifecycle record.
type AuditEvent = audit.Event

// AuditSink receives lifecycle events from the dispatcher goroutine.
type AuditSink = audit.Sink

// AuditSinkFunc adapts a plain function to AuditSink.
type AuditSinkFunc = audit.SinkFunc

// NoOpSink drops every event.
type NoOpSink = audit.NoOpSink

// ChannelSink buffers events in a channel readable through Events.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes one JSON object per event line.
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink returns a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a JSONWriterSink writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
