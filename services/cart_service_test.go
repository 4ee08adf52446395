package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddItemsCreatesCartLazily(t *testing.T) {
	db := newTestDB(t)
	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 20)

	carts := NewCartService(db)

	cart, err := carts.AddItems(buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 100.0, cart.Total)
}

func TestCartService_AddItemsMergesByProduct(t *testing.T) {
	db := newTestDB(t)
	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	tomatoes := createProduct(t, db, seller.ID, "Tomatoes", 50, 20)
	rice := createProduct(t, db, seller.ID, "Rice", 45, 100)

	carts := NewCartService(db)

	_, err := carts.AddItems(buyer.ID, []CartLine{{ProductID: tomatoes.ID, Quantity: 2}})
	require.NoError(t, err)

	cart, err := carts.AddItems(buyer.ID, []CartLine{
		{ProductID: tomatoes.ID, Quantity: 3},
		{ProductID: rice.ID, Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	byProduct := make(map[uint]int)
	for _, item := range cart.Items {
		byProduct[item.ProductID] = item.Quantity
	}
	assert.Equal(t, 5, byProduct[tomatoes.ID])
	assert.Equal(t, 1, byProduct[rice.ID])
	assert.Equal(t, 5*50.0+45.0, cart.Total)
}

func TestCartService_TotalTracksLivePrices(t *testing.T) {
	db := newTestDB(t)
	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 20)

	carts := NewCartService(db)
	_, err := carts.AddItems(buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 2}})
	require.NoError(t, err)

	// Price change between add and the next mutation is reflected in the
	// recomputed total.
	require.NoError(t, db.Model(product).Update("price", 80).Error)

	cart, err := carts.AddItems(buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, 240.0, cart.Total)
}

func TestCartService_GetCartNoImplicitCreate(t *testing.T) {
	db := newTestDB(t)
	buyer := createBuyer(t, db, "BYR-00001")

	carts := NewCartService(db)
	_, err := carts.GetCart(buyer.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_AddItemsRejectsBadQuantity(t *testing.T) {
	db := newTestDB(t)
	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 20)

	carts := NewCartService(db)

	_, err := carts.AddItems(buyer.ID, nil)
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = carts.AddItems(buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_AddItemsRejectsUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	buyer := createBuyer(t, db, "BYR-00001")

	carts := NewCartService(db)
	_, err := carts.AddItems(buyer.ID, []CartLine{{ProductID: 999, Quantity: 1}})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_RemoveItems(t *testing.T) {
	db := newTestDB(t)
	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	tomatoes := createProduct(t, db, seller.ID, "Tomatoes", 50, 20)
	rice := createProduct(t, db, seller.ID, "Rice", 45, 100)

	carts := NewCartService(db)
	_, err := carts.AddItems(buyer.ID, []CartLine{
		{ProductID: tomatoes.ID, Quantity: 2},
		{ProductID: rice.ID, Quantity: 4},
	})
	require.NoError(t, err)

	cart, err := carts.RemoveItems(buyer.ID, []uint{tomatoes.ID})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, rice.ID, cart.Items[0].ProductID)
	assert.Equal(t, 180.0, cart.Total)
}

func TestCartService_RemoveItemsNoMatch(t *testing.T) {
	db := newTestDB(t)
	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 20)

	carts := NewCartService(db)
	_, err := carts.AddItems(buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = carts.RemoveItems(buyer.ID, []uint{12345})
	assert.ErrorIs(t, err, ErrNoMatchingItems)
}

func TestCartService_Clear(t *testing.T) {
	db := newTestDB(t)
	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 20)

	carts := NewCartService(db)
	_, err := carts.AddItems(buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 3}})
	require.NoError(t, err)

	require.NoError(t, carts.Clear(buyer.ID))

	cart, err := carts.GetCart(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}
