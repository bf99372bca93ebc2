// Package tool defines callable operations exposed to the model.
//
// Includes:
//   - Descriptor: name, description, JSON parameter schema, handler.
//   - New[T](): reflect the parameter schema from a Go struct and validate
//     incoming arguments against it before decoding.
//   - Registry: immutable name lookup and Dispatch, which turns every
//     failure (unknown tool, bad arguments, handler error) into tool output
//     text instead of a Go error.
package tool
