// Package delivery contains the Delivery aggregate: the record a customer
// order becomes once it needs a driver.
//
// A delivery is created in Pending, bound to exactly one driver by a claim, and
// moved through its lifecycle only by the transitions declared in status.go:
//
//	pending --claim--> assigned --> picked_up --> in_transit --> delivered
//	                                  picked_up ------------------> delivered
//	pending | assigned | picked_up | in_transit | emergency --> cancelled
//	assigned | picked_up | in_transit --> emergency
//
// Cancelled and Delivered are terminal. Emergency keeps the driver and can only
// be resolved by cancelling. Entering a terminal state releases the driver; the
// aggregate reports the released driver through the returned Transition so the
// caller can update the Driver aggregate inside the same unit of work.
//
// Pickup and delivery are gated by two confirmation codes generated from
// crypto/rand. Codes are compared in constant time.
package delivery
