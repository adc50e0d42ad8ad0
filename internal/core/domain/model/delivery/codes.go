package delivery

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"time"

	"dispatch/internal/pkg/errs"
)

const (
	base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// CodePrefix starts every confirmation code.
	CodePrefix = "QR"
	// CodeRandomLength is the number of base-36 characters after CodePrefix (~82 bits).
	CodeRandomLength = 16

	// TrackingPrefix starts every tracking number.
	TrackingPrefix      = "TRK"
	trackingClockDigits = 8
	trackingRandomChars = 3
)

// CodeKind selects which of the two confirmation codes is being scanned.
type CodeKind string

const (
	PickupCode   CodeKind = "pickup"
	DeliveryCode CodeKind = "delivery"
)

// ParseCodeKind validates user input.
func ParseCodeKind(s string) (CodeKind, error) {
	switch kind := CodeKind(strings.ToLower(s)); kind {
	case PickupCode, DeliveryCode:
		return kind, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not pickup or delivery", s))
	}
}

// Codes holds the pickup and delivery secrets of one delivery.
type Codes struct {
	Pickup   string
	Delivery string
}

// NewCodes draws two independent confirmation codes.
func NewCodes() (Codes, error) {
	pickup, err := NewConfirmationCode()
	if err != nil {
		return Codes{}, err
	}
	deliveryCode, err := NewConfirmationCode()
	if err != nil {
		return Codes{}, err
	}
	return Codes{Pickup: pickup, Delivery: deliveryCode}, nil
}

// Matches compares code with the secret for kind in constant time.
func (c Codes) Matches(kind CodeKind, code string) bool {
	var expected string
	switch kind {
	case PickupCode:
		expected = c.Pickup
	case DeliveryCode:
		expected = c.Delivery
	default:
		return false
	}
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(code))) == 1
}

// NewConfirmationCode returns CodePrefix followed by CodeRandomLength base-36 characters.
func NewConfirmationCode() (string, error) {
	suffix, err := randomBase36(CodeRandomLength)
	if err != nil {
		return "", err
	}
	return CodePrefix + suffix, nil
}

// NewTrackingNumber returns TRK + the last 8 digits of now in Unix milliseconds
// + 3 random base-36 characters, e.g. TRK73422119X4Q. Uniqueness is enforced by
// storage; callers regenerate on collision.
func NewTrackingNumber(now time.Time) (string, error) {
	millis := fmt.Sprintf("%0*d", trackingClockDigits, now.UnixMilli())
	millis = millis[len(millis)-trackingClockDigits:]

	suffix, err := randomBase36(trackingRandomChars)
	if err != nil {
		return "", err
	}
	return TrackingPrefix + millis + suffix, nil
}

func randomBase36(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	limit := big.NewInt(int64(len(base36Alphabet)))
	for range n {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		sb.WriteByte(base36Alphabet[idx.Int64()])
	}
	return sb.String(), nil
}
