package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsUnknownValues(t *testing.T) {
	status, err := ParseOrderStatus("on_the_way")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusOnTheWay, status)

	_, err = ParseOrderStatus("shipped")
	assert.EqualError(t, err, `invalid order status "shipped"`)

	_, err = ParsePaymentMethodType("paypal")
	assert.EqualError(t, err, `invalid payment method type "paypal"`)
}

func TestParseCurrencyIgnoresCase(t *testing.T) {
	c, err := ParseCurrency(" ves ")
	require.NoError(t, err)
	assert.Equal(t, CurrencyVES, c)

	_, err = ParseCurrency("EUR")
	assert.Error(t, err)
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, s := range orderStatuses {
		assert.Equal(t, s == OrderStatusDelivered || s == OrderStatusCancelled, s.Terminal(), s)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, UserRoleDelivery.IsValid())
	assert.False(t, UserRole("owner").IsValid())
	assert.True(t, ChangeTypeDelete.IsValid())
	assert.False(t, ChangeType("TRUNCATE").IsValid())
	assert.True(t, NotificationTypeSystem.IsValid())
	assert.True(t, DeliveryStatusBusy.IsValid())
	assert.ElementsMatch(t, []UserRole{UserRoleAdmin, UserRoleTeam}, StaffRoles)
}
