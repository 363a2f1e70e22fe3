// Package notify carries "auth status changed" events between processes over Redis
// pub/sub.
//
// [Publisher] is called by whichever component performs login, logout or refresh.
// [Listener] runs in every process hosting use cases and turns each event into one
// [Broadcaster.Broadcast] call, normally on registry.Default().
//
// # What this package must NOT do
//
//   - Carry credentials; events only say that something changed.
//   - Import authcase.
package notify
