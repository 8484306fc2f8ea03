// Package errors provides the classified error primitives used across docsite.
//
// A ClassifiedError carries a category (config, validation, not found, model,
// render, ...), a severity, a retry strategy and free-form context. Errors are
// built through a fluent builder and presented by the HTTP and CLI adapters.
//
// Example usage:
//
//	err := errors.NotFoundError("readme not found").
//		WithContext("package", pkg).
//		WithCause(readErr).
//		Build()
package errors
