// Package client is the caller side of the ast.v1.Directory gRPC service.
//
// GRPCClient converts between the directory models and the well-known
// protobuf messages the service speaks, and maps gRPC status codes back onto
// sentinel errors so callers can use errors.Is:
//
//   - codes.InvalidArgument -> common.ErrorValidation
//   - codes.NotFound        -> common.ErrorNotFound
//   - codes.Unavailable     -> ErrUnavailable
package client
