package services

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NIORSAYSON/agriculture-system-api/internal/ws"
	"github.com/NIORSAYSON/agriculture-system-api/models"
)

var orderIDPattern = regexp.MustCompile(`^[1-9]\d{7}$`)

func seedCart(t *testing.T, svc *OrderService, buyerID uint, lines []CartLine) {
	t.Helper()
	_, err := svc.carts.AddItems(buyerID, lines)
	require.NoError(t, err)
}

func TestPlaceOrder_HappyPath(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)

	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 2}})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{ShippingFee: 30})
	require.NoError(t, err)

	assert.Regexp(t, orderIDPattern, order.OrderID)
	assert.Equal(t, models.OrderProcessing, order.Status)
	assert.Equal(t, 130.0, order.TotalAmount)
	assert.Equal(t, "Quezon City", order.ShipCity)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 50.0, order.Items[0].UnitPrice)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 3, reloaded.Stock)

	cart, err := svc.carts.GetCart(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestPlaceOrder_OneNotificationPerSeller(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	sellerA := createSeller(t, db, "SLR-00001")
	sellerB := createSeller(t, db, "SLR-00002")
	tomatoes := createProduct(t, db, sellerA.ID, "Tomatoes", 50, 10)
	onions := createProduct(t, db, sellerA.ID, "Onions", 60, 10)
	rice := createProduct(t, db, sellerB.ID, "Rice", 45, 10)

	seedCart(t, svc, buyer.ID, []CartLine{
		{ProductID: tomatoes.ID, Quantity: 1},
		{ProductID: onions.ID, Quantity: 2},
		{ProductID: rice.ID, Quantity: 3},
	})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	// One notification per distinct seller, not per line item.
	var notifications []models.Notification
	require.NoError(t, db.Where("order_ref = ?", order.ID).Find(&notifications).Error)
	require.Len(t, notifications, 2)

	recipients := map[uint]bool{}
	for _, n := range notifications {
		recipients[n.RecipientID] = true
		assert.Equal(t, buyer.ID, n.ActorID)
		assert.False(t, n.IsRead)
		// The item summary reads cleanly, no dangling separator.
		assert.NotContains(t, n.Message, ", (")
		if n.RecipientID == sellerA.ID {
			assert.Contains(t, n.Message, "1x Tomatoes, 2x Onions (3 item/s)")
		}
	}
	assert.True(t, recipients[sellerA.ID])
	assert.True(t, recipients[sellerB.ID])

	// A courtesy message per seller gives the buyer a thread to follow up on.
	var messageCount int64
	require.NoError(t, db.Model(&models.Message{}).
		Where("receiver_id = ?", buyer.ID).Count(&messageCount).Error)
	assert.EqualValues(t, 2, messageCount)
}

func TestPlaceOrder_PickupZeroesShippingFee(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)

	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{
		ShippingFee:    100,
		DeliveryMethod: models.DeliveryPickup,
	})
	require.NoError(t, err)
	assert.Zero(t, order.ShippingFee)
	assert.Equal(t, 50.0, order.TotalAmount)
}

func TestPlaceOrder_InsufficientStockLeavesEverythingUnchanged(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 1)

	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 5}})

	_, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 1, reloaded.Stock)

	cart, err := svc.carts.GetCart(buyer.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)
	buyer := createBuyer(t, db, "BYR-00001")

	_, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestPlaceOrder_NoAddress(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := &models.Account{
		IDNumber:  "BYR-00009",
		Firstname: "Pedro",
		Lastname:  "Reyes",
		Email:     "pedro@example.com",
		Password:  "hashed",
		Role:      models.RoleBuyer,
		Status:    models.AccountActive,
	}
	require.NoError(t, db.Create(buyer).Error)

	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)
	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	_, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	assert.ErrorIs(t, err, ErrShippingAddressRequired)
}

func TestBuyNow_LeavesCartUntouched(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	inCart := createProduct(t, db, seller.ID, "Rice", 45, 10)
	direct := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)

	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: inCart.ID, Quantity: 2}})

	order, err := svc.BuyNow(buyer.IDNumber, BuyNowInput{
		ProductID:   direct.ID,
		Quantity:    2,
		ShippingFee: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 110.0, order.TotalAmount)

	cart, err := svc.carts.GetCart(buyer.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, inCart.ID, cart.Items[0].ProductID)
}

func TestBuyNow_RejectsBadQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)

	_, err := svc.BuyNow(buyer.IDNumber, BuyNowInput{ProductID: product.ID, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUpdateStatus_SellerTransition(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)
	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(seller.IDNumber, order.OrderID, "In Transit")
	require.NoError(t, err)
	assert.Equal(t, models.OrderInTransit, updated.Status)

	// The buyer is notified of the change.
	var notification models.Notification
	require.NoError(t, db.Where("recipient_id = ? AND order_ref = ?", buyer.ID, order.ID).
		First(&notification).Error)
	assert.Contains(t, notification.Message, order.OrderID)
}

func TestUpdateStatus_PushesOneStatusEventToBuyer(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)
	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	// Buyer is offline during checkout; the connection registers afterwards.
	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	go svc.hub.Run()
	conn := ws.NewClient(svc.hub, nil, "conn-1", nil, zap.NewNop())
	svc.hub.Register <- conn
	svc.hub.Bind(conn, buyer.ID)

	_, err = svc.UpdateStatus(seller.IDNumber, order.OrderID, "Delivered")
	require.NoError(t, err)

	statusEvents := 0
	for len(conn.Send) > 0 {
		var envelope ws.Envelope
		require.NoError(t, json.Unmarshal(<-conn.Send, &envelope))
		if envelope.Event != ws.EventOrderStatusUpdate {
			continue
		}
		statusEvents++
		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, order.OrderID, data["orderId"])
		assert.Equal(t, "Delivered", data["status"])
	}
	assert.Equal(t, 1, statusEvents)
}

func TestUpdateStatus_RejectsBackwardTransition(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)
	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(seller.IDNumber, order.OrderID, "In Transit")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(seller.IDNumber, order.OrderID, "Processing")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_TerminalStateFrozen(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)
	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(seller.IDNumber, order.OrderID, "Delivered")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(seller.IDNumber, order.OrderID, "In Transit")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_RequiresOwningSeller(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	other := createSeller(t, db, "SLR-00002")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)
	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(other.IDNumber, order.OrderID, "In Transit")
	assert.ErrorIs(t, err, ErrNotOrderSeller)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)
	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(seller.IDNumber, order.OrderID, "Shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCancel_OnlyWhileProcessing(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)
	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(buyer.IDNumber, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
}

func TestCancel_RejectedAfterInTransit(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)
	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(seller.IDNumber, order.OrderID, "In Transit")
	require.NoError(t, err)

	_, err = svc.Cancel(buyer.IDNumber, order.OrderID)
	assert.ErrorIs(t, err, ErrOrderNotPending)
}

func TestCancel_RequiresOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	stranger := createBuyer(t, db, "BYR-00002")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)
	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	_, err = svc.Cancel(stranger.IDNumber, order.OrderID)
	assert.ErrorIs(t, err, ErrNotOrderOwner)
}

func TestBackOrder_SoftDeletes(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)
	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	_, err = svc.BackOrder(buyer.IDNumber, order.OrderID)
	require.NoError(t, err)

	_, err = svc.GetOrderDetails(buyer.IDNumber, order.OrderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// The row survives behind the soft delete marker.
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Order{}).
		Where("order_id = ?", order.OrderID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBackOrder_RejectsCancelledOrders(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)
	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	_, err = svc.Cancel(buyer.IDNumber, order.OrderID)
	require.NoError(t, err)

	_, err = svc.BackOrder(buyer.IDNumber, order.OrderID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestGetOrders_StatusFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 50)

	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})
	first, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})
	_, err = svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	_, err = svc.Cancel(buyer.IDNumber, first.OrderID)
	require.NoError(t, err)

	cancelled, total, err := svc.GetOrders(buyer.IDNumber, 10, 1, "Cancelled")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, cancelled, 1)
	assert.Equal(t, first.OrderID, cancelled[0].OrderID)

	_, _, err = svc.GetOrders(buyer.IDNumber, 10, 1, "Shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetOrderDetails_Visibility(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	stranger := createBuyer(t, db, "BYR-00002")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 5)
	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})

	order, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	_, err = svc.GetOrderDetails(buyer.IDNumber, order.OrderID)
	assert.NoError(t, err)

	_, err = svc.GetOrderDetails(seller.IDNumber, order.OrderID)
	assert.NoError(t, err)

	_, err = svc.GetOrderDetails(stranger.IDNumber, order.OrderID)
	assert.ErrorIs(t, err, ErrNotOrderOwner)
}

func TestGetSellerStats(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(t, db)

	buyer := createBuyer(t, db, "BYR-00001")
	seller := createSeller(t, db, "SLR-00001")
	product := createProduct(t, db, seller.ID, "Tomatoes", 50, 50)

	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 2}})
	delivered, err := svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(seller.IDNumber, delivered.OrderID, "Delivered")
	require.NoError(t, err)

	seedCart(t, svc, buyer.ID, []CartLine{{ProductID: product.ID, Quantity: 1}})
	_, err = svc.PlaceOrder(buyer.IDNumber, PlaceOrderInput{})
	require.NoError(t, err)

	stats, err := svc.GetSellerStats(seller.IDNumber)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalOrders)
	assert.EqualValues(t, 1, stats.Processing)
	assert.EqualValues(t, 1, stats.Delivered)
	assert.Equal(t, 100.0, stats.TotalRevenue)
}
