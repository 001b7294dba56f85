// Package common contains shared constants and sentinel errors used across
// gophauth components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName is the gRPC metadata key a caller may set to choose
// the id the server logs its request under.
const RequestIDHeaderName = "x-request-id"
