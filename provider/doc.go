// Package provider contains auth stream sources for authcase use cases.
//
// [RedisTokenSource] reads an access token from a Redis key and verifies it with a
// [jwt.Manager], turning a missing or expired token into NotAuthenticated, an
// unverifiable token into OtherError, and Redis outages into transport errors.
// [Func] adapts any single lookup function.
//
// # What this package must NOT do
//
//   - Write, refresh or delete tokens.
//   - Retry Redis failures; the use case forwards them to its error sink.
package provider
