package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/internal/ws"
	"github.com/NIORSAYSON/agriculture-system-api/models"
)

// PlaceOrderInput carries the checkout request body.
type PlaceOrderInput struct {
	AddressID      uint                  `json:"address_id"`
	ShippingFee    float64               `json:"shipping_fee"`
	DeliveryMethod models.DeliveryMethod `json:"delivery_method"`
}

// BuyNowInput is the single-item checkout variant.
type BuyNowInput struct {
	ProductID      uint                  `json:"product_id"`
	Quantity       int                   `json:"quantity"`
	AddressID      uint                  `json:"address_id"`
	ShippingFee    float64               `json:"shipping_fee"`
	DeliveryMethod models.DeliveryMethod `json:"delivery_method"`
}

// OrderService drives the order placement saga and owns the order status
// state machine. Order persistence is the commit point: everything before it
// is a hard gate with no side effects, everything after it (stock decrement,
// notification fan-out, cart clear) is best-effort and only logged on
// failure.
type OrderService struct {
	db       *gorm.DB
	identity *IdentityService
	carts    *CartService
	gate     *StockGate
	notifier *NotificationService
	hub      *ws.Hub
	logger   *zap.Logger
}

func NewOrderService(db *gorm.DB, identity *IdentityService, carts *CartService, gate *StockGate, notifier *NotificationService, hub *ws.Hub, logger *zap.Logger) *OrderService {
	return &OrderService{
		db:       db,
		identity: identity,
		carts:    carts,
		gate:     gate,
		notifier: notifier,
		hub:      hub,
		logger:   logger,
	}
}

// PlaceOrder converts the caller's cart into an immutable order.
func (s *OrderService) PlaceOrder(idNumber string, input PlaceOrderInput) (*models.Order, error) {
	account, err := s.identity.Resolve(idNumber)
	if err != nil {
		return nil, err
	}

	if input.DeliveryMethod == "" {
		input.DeliveryMethod = models.DeliveryCourier
	}
	if input.DeliveryMethod == models.DeliveryPickup {
		input.ShippingFee = 0
	}

	address, err := SelectShippingAddress(account, input.AddressID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(account.ID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	lines := make([]CartLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	validated, err := s.gate.Validate(lines)
	if err != nil {
		return nil, err
	}

	order, err := s.commit(account, address, validated, cart.Total, input.ShippingFee, input.DeliveryMethod)
	if err != nil {
		return nil, err
	}

	// Committed. Everything below is best-effort.
	s.fanOut(account, order, validated)

	if err := s.carts.Clear(account.ID); err != nil {
		s.logger.Error("cart clear failed after order commit",
			zap.String("order_id", order.OrderID), zap.Error(err))
	}

	return order, nil
}

// BuyNow runs the same gates and side effects over one synthesized line,
// leaving the cart untouched.
func (s *OrderService) BuyNow(idNumber string, input BuyNowInput) (*models.Order, error) {
	account, err := s.identity.Resolve(idNumber)
	if err != nil {
		return nil, err
	}

	if input.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if input.DeliveryMethod == "" {
		input.DeliveryMethod = models.DeliveryCourier
	}
	if input.DeliveryMethod == models.DeliveryPickup {
		input.ShippingFee = 0
	}

	address, err := SelectShippingAddress(account, input.AddressID)
	if err != nil {
		return nil, err
	}

	validated, err := s.gate.Validate([]CartLine{{ProductID: input.ProductID, Quantity: input.Quantity}})
	if err != nil {
		return nil, err
	}

	subtotal := validated[0].Product.Price * float64(validated[0].Quantity)

	order, err := s.commit(account, address, validated, subtotal, input.ShippingFee, input.DeliveryMethod)
	if err != nil {
		return nil, err
	}

	s.fanOut(account, order, validated)
	return order, nil
}

// commit generates the unique order id, persists the snapshot, and
// decrements stock. Stock decrement failures after the order row exists are
// logged, not rolled back.
func (s *OrderService) commit(account *models.Account, address models.Address, validated []ValidatedLine, subtotal, shippingFee float64, method models.DeliveryMethod) (*models.Order, error) {
	orderID, err := s.generateOrderID()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderID:        orderID,
		AccountID:      account.ID,
		TotalAmount:    subtotal + shippingFee,
		ShippingFee:    shippingFee,
		DeliveryMethod: method,
		Status:         models.OrderProcessing,
	}
	order.SnapshotAddress(address)

	for _, line := range validated {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
		})
	}

	if err := s.db.Create(order).Error; err != nil {
		return nil, err
	}

	if err := s.gate.Decrement(validated); err != nil {
		s.logger.Error("stock decrement failed after order commit",
			zap.String("order_id", order.OrderID), zap.Error(err))
	}

	return order, nil
}

// generateOrderID draws 8-digit numeric ids until one is free. The space
// holds ninety million values, so the loop terminates quickly in practice,
// but the collision check is mandatory.
func (s *OrderService) generateOrderID() (string, error) {
	for {
		candidate := fmt.Sprintf("%d", 10000000+rand.Intn(90000000))
		var count int64
		if err := s.db.Model(&models.Order{}).Where("order_id = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

// fanOut groups the order's lines by seller and, per seller, persists a
// notification, pushes the new-order event, and queues a courtesy message to
// the buyer. Failures are logged and swallowed; the order already stands.
func (s *OrderService) fanOut(buyer *models.Account, order *models.Order, validated []ValidatedLine) {
	type sellerBatch struct {
		products []uint
		summary  string
		items    int
	}
	bySeller := make(map[uint]*sellerBatch)
	for _, line := range validated {
		batch, ok := bySeller[line.Product.SellerID]
		if !ok {
			batch = &sellerBatch{}
			bySeller[line.Product.SellerID] = batch
		}
		batch.products = append(batch.products, line.Product.ID)
		batch.items += line.Quantity
		batch.summary += fmt.Sprintf("%dx %s, ", line.Quantity, line.Product.Name)
	}

	for sellerID, batch := range bySeller {
		var seller models.Account
		if err := s.db.First(&seller, sellerID).Error; err != nil {
			s.logger.Error("seller lookup failed during fan-out",
				zap.String("order_id", order.OrderID), zap.Uint("seller_id", sellerID), zap.Error(err))
			continue
		}

		message := fmt.Sprintf("New order #%s from %s %s: %s (%d item/s)",
			order.OrderID, buyer.Firstname, buyer.Lastname,
			strings.TrimSuffix(batch.summary, ", "), batch.items)

		_, err := s.notifier.Notify(&seller, buyer.ID, order.ID, batch.products, message,
			ws.EventNewOrderNotification, map[string]interface{}{
				"orderId": order.OrderID,
				"status":  string(order.Status),
			})
		if err != nil {
			s.logger.Error("seller notification failed",
				zap.String("order_id", order.OrderID), zap.Uint("seller_id", sellerID), zap.Error(err))
		}

		// Courtesy acknowledgement from the seller's side of the
		// conversation so the buyer has a thread to follow up on.
		courtesy := models.Message{
			SenderID:   sellerID,
			ReceiverID: buyer.ID,
			Content:    fmt.Sprintf("Thank you for your order #%s! We are preparing your items.", order.OrderID),
		}
		if err := s.db.Create(&courtesy).Error; err != nil {
			s.logger.Error("courtesy message failed",
				zap.String("order_id", order.OrderID), zap.Error(err))
		}
	}

	if s.hub.IsOnline(buyer.ID) {
		s.hub.EmitToAccount(buyer.ID, ws.EventRefreshConversation, map[string]interface{}{
			"message": "You have new messages",
		})
		s.hub.EmitToAccount(buyer.ID, ws.EventRefreshCount, map[string]interface{}{
			"message": "Order placed",
			"orderId": order.OrderID,
		})
	}
}

// GetOrders lists the caller's orders, newest first, optionally filtered by
// status.
func (s *OrderService) GetOrders(idNumber string, limit, page int, status string) ([]models.Order, int64, error) {
	account, err := s.identity.Resolve(idNumber)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Order{}).Where("account_id = ?", account.ID)
	if status != "" {
		parsed, err := models.ParseOrderStatus(status)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
		}
		query = query.Where("status = ?", parsed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err = query.Preload("Items.Product").
		Order("created_at desc").
		Limit(limit).Offset((page - 1) * limit).
		Find(&orders).Error
	return orders, total, err
}

// GetSellerOrders lists orders containing at least one of the seller's
// products.
func (s *OrderService) GetSellerOrders(idNumber string, limit, page int) ([]models.Order, int64, error) {
	seller, err := s.identity.Resolve(idNumber)
	if err != nil {
		return nil, 0, err
	}

	sub := s.db.Model(&models.OrderItem{}).
		Select("order_items.order_ref").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", seller.ID)

	query := s.db.Model(&models.Order{}).Where("id IN (?)", sub)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err = query.Preload("Items.Product").Preload("Account").
		Order("created_at desc").
		Limit(limit).Offset((page - 1) * limit).
		Find(&orders).Error
	return orders, total, err
}

// SellerStats summarizes a seller's order book by status.
type SellerStats struct {
	TotalOrders  int64   `json:"total_orders"`
	Processing   int64   `json:"processing"`
	InTransit    int64   `json:"in_transit"`
	Delivered    int64   `json:"delivered"`
	Cancelled    int64   `json:"cancelled"`
	TotalRevenue float64 `json:"total_revenue"`
}

// GetSellerStats aggregates order counts and delivered revenue for the
// seller's line items.
func (s *OrderService) GetSellerStats(idNumber string) (*SellerStats, error) {
	seller, err := s.identity.Resolve(idNumber)
	if err != nil {
		return nil, err
	}

	sub := s.db.Model(&models.OrderItem{}).
		Select("order_items.order_ref").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", seller.ID)

	stats := &SellerStats{}
	counts := []struct {
		status models.OrderStatus
		target *int64
	}{
		{models.OrderProcessing, &stats.Processing},
		{models.OrderInTransit, &stats.InTransit},
		{models.OrderDelivered, &stats.Delivered},
		{models.OrderCancelled, &stats.Cancelled},
	}
	for _, c := range counts {
		if err := s.db.Model(&models.Order{}).
			Where("id IN (?) AND status = ?", sub, c.status).
			Count(c.target).Error; err != nil {
			return nil, err
		}
	}
	stats.TotalOrders = stats.Processing + stats.InTransit + stats.Delivered + stats.Cancelled

	err = s.db.Model(&models.OrderItem{}).
		Select("COALESCE(SUM(order_items.unit_price * order_items.quantity), 0)").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_ref").
		Where("products.seller_id = ? AND orders.status = ?", seller.ID, models.OrderDelivered).
		Scan(&stats.TotalRevenue).Error
	return stats, err
}

// GetOrderDetails fetches one order visible to the caller: its owner, or a
// seller with at least one line item in it.
func (s *OrderService) GetOrderDetails(idNumber, orderID string) (*models.Order, error) {
	account, err := s.identity.Resolve(idNumber)
	if err != nil {
		return nil, err
	}

	order, err := s.findByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	if order.AccountID == account.ID {
		return order, nil
	}
	if account.Role == models.RoleSeller && s.sellerOwnsLine(account.ID, order) {
		return order, nil
	}
	if account.Role == models.RoleAdmin {
		return order, nil
	}
	return nil, ErrNotOrderOwner
}

// UpdateStatus applies a seller-driven status transition. The seller must
// own at least one line item's product; the target status must be on the
// allow-list and reachable from the current state (forward-only, terminal
// states frozen).
func (s *OrderService) UpdateStatus(idNumber, orderID, rawStatus string) (*models.Order, error) {
	seller, err := s.identity.Resolve(idNumber)
	if err != nil {
		return nil, err
	}

	newStatus, err := models.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, rawStatus)
	}

	order, err := s.findByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	if !s.sellerOwnsLine(seller.ID, order) {
		return nil, ErrNotOrderSeller
	}

	if !order.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	if err := s.db.Model(order).Update("status", newStatus).Error; err != nil {
		return nil, err
	}
	order.Status = newStatus

	s.notifyBuyerStatus(order, seller.ID)
	return order, nil
}

// Cancel is the buyer-driven transition: only permitted while the order is
// still Processing.
func (s *OrderService) Cancel(idNumber, orderID string) (*models.Order, error) {
	account, err := s.identity.Resolve(idNumber)
	if err != nil {
		return nil, err
	}

	order, err := s.findByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if order.AccountID != account.ID {
		return nil, ErrNotOrderOwner
	}
	if order.Status != models.OrderProcessing {
		return nil, ErrOrderNotPending
	}

	if err := s.db.Model(order).Update("status", models.OrderCancelled).Error; err != nil {
		return nil, err
	}
	order.Status = models.OrderCancelled

	s.notifyBuyerStatus(order, account.ID)
	return order, nil
}

// BackOrder soft-deletes an order from the buyer's view. Distinct from
// cancellation: the status is untouched, the row is only marked removed.
func (s *OrderService) BackOrder(idNumber, orderID string) (*models.Order, error) {
	account, err := s.identity.Resolve(idNumber)
	if err != nil {
		return nil, err
	}

	order, err := s.findByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if order.AccountID != account.ID {
		return nil, ErrNotOrderOwner
	}
	if order.Status == models.OrderCancelled {
		return nil, ErrAlreadyCancelled
	}

	if err := s.db.Delete(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// notifyBuyerStatus persists a notification and pushes orderStatusUpdate to
// the buyer. Best-effort; failures are logged.
func (s *OrderService) notifyBuyerStatus(order *models.Order, actorID uint) {
	var buyer models.Account
	if err := s.db.First(&buyer, order.AccountID).Error; err != nil {
		s.logger.Error("buyer lookup failed for status notification",
			zap.String("order_id", order.OrderID), zap.Error(err))
		return
	}

	productIDs := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	message := fmt.Sprintf("Your order #%s is now %s", order.OrderID, order.Status)
	_, err := s.notifier.Notify(&buyer, actorID, order.ID, productIDs, message,
		ws.EventOrderStatusUpdate, map[string]interface{}{
			"orderId": order.OrderID,
			"status":  string(order.Status),
		})
	if err != nil {
		s.logger.Error("status notification failed",
			zap.String("order_id", order.OrderID), zap.Error(err))
	}
}

func (s *OrderService) findByOrderID(orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items.Product").Where("order_id = ?", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) sellerOwnsLine(sellerID uint, order *models.Order) bool {
	for _, item := range order.Items {
		if item.Product.SellerID == sellerID {
			return true
		}
	}
	return false
}
