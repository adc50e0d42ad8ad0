// Package errs provides the standardized error types of the dispatch service.
//
// Every type follows the same shape:
//   - a sentinel error variable (e.g. ErrValueIsRequired) usable with errors.Is
//   - a struct carrying the offending parameter and an optional cause
//   - constructors with and without a cause
//   - Error() for the message and Unwrap() returning the sentinel
//
// Domain packages declare their own sentinels (claim conflicts, invalid
// transitions, invalid codes) on top of these building blocks.
package errs
