package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRateDeliveryCommandIsNotConstructed = errors.New(
	"RateDeliveryCommand must be created via NewRateDeliveryCommand constructor",
)

// RateDeliveryCommand carries the customer's rating of a delivered delivery.
type RateDeliveryCommand struct {
	deliveryID kernel.UUID
	rating     int
	feedback   string

	guard guard.ConstructorGuard
}

func NewRateDeliveryCommand(deliveryID kernel.UUID, rating int, feedback string) (RateDeliveryCommand, error) {
	var ratingErr error
	if rating < delivery.MinRating || rating > delivery.MaxRating {
		ratingErr = errs.NewValueIsOutOfRangeError("rating", rating, delivery.MinRating, delivery.MaxRating)
	}

	if err := errors.Join(deliveryID.Validate(), ratingErr); err != nil {
		return RateDeliveryCommand{}, err
	}

	return RateDeliveryCommand{
		deliveryID: deliveryID,
		rating:     rating,
		feedback:   strings.TrimSpace(feedback),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRateDeliveryCommandIsNotConstructed)
}

func (c RateDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c RateDeliveryCommand) Rating() int             { return c.rating }
func (c RateDeliveryCommand) Feedback() string        { return c.feedback }
