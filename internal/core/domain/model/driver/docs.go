// Package driver contains the Driver aggregate of the Driver Directory.
//
// A driver is bound one-to-one to an account and carries the flags the
// assignment engine filters on: available, verified and active (on shift).
//
// Ownership of the fields is split on purpose:
//   - availability changes only through Occupy and Release, which the delivery
//     lifecycle calls while claiming and finishing deliveries
//   - location and the active flag belong to the directory (pings and shifts)
//   - rating and lifetime counters change when deliveries complete or are rated
package driver
