package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterDriverCommandIsNotConstructed = errors.New(
	"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
)

// RegisterDriverCommand adds an account to the driver directory.
type RegisterDriverCommand struct {
	accountID string
	name      string
	location  *kernel.Location

	guard guard.ConstructorGuard
}

func NewRegisterDriverCommand(accountID, name string, location *kernel.Location) (RegisterDriverCommand, error) {
	accountID = strings.TrimSpace(accountID)

	var accountErr, locErr error
	if accountID == "" {
		accountErr = driver.ErrAccountIsRequired
	}
	if location != nil {
		locErr = location.Validate()
	}

	if err := errors.Join(accountErr, requireValue("name", strings.TrimSpace(name)), locErr); err != nil {
		return RegisterDriverCommand{}, err
	}

	return RegisterDriverCommand{
		accountID: accountID,
		name:      strings.TrimSpace(name),
		location:  location,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

func (c RegisterDriverCommand) AccountID() string          { return c.accountID }
func (c RegisterDriverCommand) Name() string               { return c.name }
func (c RegisterDriverCommand) Location() *kernel.Location { return c.location }
