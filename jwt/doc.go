// Package jwt issues and verifies the signed access tokens used as credentials by the
// Redis-backed auth provider.
//
// Expired tokens are reported separately ([ErrExpired]) from every other verification
// failure ([ErrInvalid]) so callers can map the former to a "not authenticated" state.
package jwt
