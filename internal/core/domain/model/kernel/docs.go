// Package kernel holds the value objects shared by every aggregate of the dispatch domain.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - Location: a validated latitude/longitude pair with great-circle distance
//   - TravelDuration: speed based duration estimate used when no routing provider answers
//
// All values are immutable and safe for concurrent use. Zero values are invalid and
// fail Validate; construct them through the exported constructors.
package kernel
