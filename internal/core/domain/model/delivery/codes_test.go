package delivery_test

import (
	"regexp"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	codePattern     = regexp.MustCompile(`^QR[0-9A-Z]{16}$`)
	trackingPattern = regexp.MustCompile(`^TRK[0-9]{8}[0-9A-Z]{3}$`)
)

func TestNewConfirmationCode_Format(t *testing.T) {
	seen := make(map[string]struct{})
	for range 200 {
		code, err := delivery.NewConfirmationCode()
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, 200, "codes must not repeat")
}

func TestNewCodes_AreIndependent(t *testing.T) {
	codes, err := delivery.NewCodes()
	require.NoError(t, err)
	assert.NotEqual(t, codes.Pickup, codes.Delivery)
}

func TestCodes_Matches(t *testing.T) {
	codes := delivery.Codes{Pickup: "QR0123456789ABCDEF", Delivery: "QRFEDCBA9876543210"}

	assert.True(t, codes.Matches(delivery.PickupCode, "QR0123456789ABCDEF"))
	assert.True(t, codes.Matches(delivery.PickupCode, " QR0123456789ABCDEF\n"))
	assert.False(t, codes.Matches(delivery.PickupCode, "QRFEDCBA9876543210"))
	assert.True(t, codes.Matches(delivery.DeliveryCode, "QRFEDCBA9876543210"))
	assert.False(t, codes.Matches(delivery.DeliveryCode, ""))
	assert.False(t, codes.Matches(delivery.CodeKind("other"), "QR0123456789ABCDEF"))
	assert.False(t, delivery.Codes{}.Matches(delivery.PickupCode, ""))
}

func TestNewTrackingNumber(t *testing.T) {
	now := time.UnixMilli(1_712_345_678_901)

	tn, err := delivery.NewTrackingNumber(now)
	require.NoError(t, err)
	assert.Regexp(t, trackingPattern, tn)
	assert.Equal(t, "TRK45678901", tn[:11])

	early := time.UnixMilli(42)
	tn, err = delivery.NewTrackingNumber(early)
	require.NoError(t, err)
	assert.Equal(t, "TRK00000042", tn[:11])
}

func TestParseCodeKind(t *testing.T) {
	kind, err := delivery.ParseCodeKind("PICKUP")
	require.NoError(t, err)
	assert.Equal(t, delivery.PickupCode, kind)

	kind, err = delivery.ParseCodeKind("delivery")
	require.NoError(t, err)
	assert.Equal(t, delivery.DeliveryCode, kind)

	_, err = delivery.ParseCodeKind("dropoff")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
