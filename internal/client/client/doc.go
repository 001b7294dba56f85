// Package client talks to the gophauth gRPC service.
//
// GRPCClient wraps the generated-style api.AuthServiceClient, attaches the
// access token to authenticated calls through the "access_token" metadata
// key, applies a per-call timeout and maps gRPC status codes to sentinel
// errors (ErrUnavailable, ErrUnauthorized and the common package errors) so
// callers can match them with errors.Is.
package client
