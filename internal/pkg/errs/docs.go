// Package errs provides standardized error types for the order management service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value falls outside its accepted bounds
//   - ObjectNotFoundError: For when an object cannot be found
//   - BusinessRuleViolatedError: For when an operation breaks a lifecycle rule
//   - VersionIsInvalidError: For when an aggregate was changed by a concurrent writer
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// IsBusinessError groups the sentinels that describe a client mistake rather than
// an infrastructure failure. Callers use it to decide between a 4xx answer and a
// retry-worthy failure.
package errs
