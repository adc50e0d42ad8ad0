// Package services provides the stateless domain services of the dispatch
// engine: logic that spans aggregates or needs no aggregate at all.
//
// The package includes:
//   - DriverAssigner: selects the best eligible driver for a pickup point by weighted score
//   - ETAEstimator: routing-provider ETA with a mandatory straight-line fallback
//   - CalculateProgress: coarse straight-line progress of an active delivery
//   - FeePolicy: distance based delivery fee
//
// None of these services mutate aggregates. Callers decide what to persist.
package services
