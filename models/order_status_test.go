package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"Processing", "In Transit", "Delivered", "Cancelled"} {
		status, err := ParseOrderStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus(valid), status)
	}

	for _, invalid := range []string{"", "processing", "Shipped", "DELIVERED"} {
		_, err := ParseOrderStatus(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderProcessing, OrderInTransit, true},
		{OrderProcessing, OrderDelivered, true},
		{OrderProcessing, OrderCancelled, true},
		{OrderProcessing, OrderProcessing, false},
		{OrderInTransit, OrderDelivered, true},
		{OrderInTransit, OrderCancelled, true},
		{OrderInTransit, OrderProcessing, false},
		{OrderDelivered, OrderInTransit, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderProcessing, false},
		{OrderCancelled, OrderDelivered, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.False(t, OrderProcessing.Terminal())
	assert.False(t, OrderInTransit.Terminal())
	assert.True(t, OrderDelivered.Terminal())
	assert.True(t, OrderCancelled.Terminal())
}

func TestProductOrderable(t *testing.T) {
	product := Product{Status: ProductActive, Type: ProductAvailable, IsApproved: true}
	assert.True(t, product.Orderable())

	inactive := product
	inactive.Status = ProductInactive
	assert.False(t, inactive.Orderable())

	outOfStock := product
	outOfStock.Type = ProductOutOfStock
	assert.False(t, outOfStock.Orderable())

	unapproved := product
	unapproved.IsApproved = false
	assert.False(t, unapproved.Orderable())
}
