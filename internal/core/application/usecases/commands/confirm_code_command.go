package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrConfirmCodeCommandIsNotConstructed = errors.New(
	"ConfirmCodeCommand must be created via NewConfirmCodeCommand constructor",
)

// ConfirmCodeCommand carries a QR code scanned at pickup or at the door.
type ConfirmCodeCommand struct {
	deliveryID kernel.UUID
	kind       delivery.CodeKind
	code       string
	location   *kernel.Location

	guard guard.ConstructorGuard
}

func NewConfirmCodeCommand(
	deliveryID kernel.UUID,
	kind delivery.CodeKind,
	code string,
	location *kernel.Location,
) (ConfirmCodeCommand, error) {
	code = strings.TrimSpace(code)

	var codeErr, locErr error
	if code == "" {
		codeErr = errs.NewValueIsRequiredError("code")
	}
	if location != nil {
		locErr = location.Validate()
	}
	_, kindErr := delivery.ParseCodeKind(string(kind))

	if err := errors.Join(deliveryID.Validate(), kindErr, codeErr, locErr); err != nil {
		return ConfirmCodeCommand{}, err
	}

	return ConfirmCodeCommand{
		deliveryID: deliveryID,
		kind:       kind,
		code:       code,
		location:   location,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmCodeCommand) Validate() error {
	return c.guard.Validate(ErrConfirmCodeCommandIsNotConstructed)
}

func (c ConfirmCodeCommand) DeliveryID() kernel.UUID    { return c.deliveryID }
func (c ConfirmCodeCommand) Kind() delivery.CodeKind    { return c.kind }
func (c ConfirmCodeCommand) Code() string               { return c.code }
func (c ConfirmCodeCommand) Location() *kernel.Location { return c.location }
