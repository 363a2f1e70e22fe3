// Package registry tracks live authenticated use cases so that one "auth status
// changed" event can re-drive the auth attempt of every one of them.
//
// # Architecture boundaries
//
// This package owns membership and the snapshot-then-invoke broadcast. It does NOT
// know what a use case does on Reauthenticate, and it never holds its lock while
// calling into a member.
//
// # What this package must NOT do
//
//   - Import authcase (members are identified only through [Member]).
//   - Schedule work; Broadcast runs members on the calling goroutine.
package registry
