package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/NIORSAYSON/agriculture-system-api/models"
	"github.com/NIORSAYSON/agriculture-system-api/services"
)

type OrderHandler struct {
	Orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

// PlaceOrder - POST /api/order/placeOrder
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	var input services.PlaceOrderInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	order, err := h.Orders.PlaceOrder(callerIDNumber(c), input)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// BuyNow - POST /api/order/buyNow
func (h *OrderHandler) BuyNow(c *fiber.Ctx) error {
	var input services.BuyNowInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if input.ProductID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Product ID is required"})
	}

	order, err := h.Orders.BuyNow(callerIDNumber(c), input)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetOrders - GET /api/order?limit&page&status
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	limit, page := paginationParams(c)
	status := c.Query("status")

	orders, total, err := h.Orders.GetOrders(callerIDNumber(c), limit, page, status)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Orders fetched successfully",
		"orders":  orders,
		"meta":    models.NewPaginationMeta(page, limit, total),
	})
}

// GetSellerOrders - GET /api/order/seller
func (h *OrderHandler) GetSellerOrders(c *fiber.Ctx) error {
	limit, page := paginationParams(c)

	orders, total, err := h.Orders.GetSellerOrders(callerIDNumber(c), limit, page)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Seller orders fetched successfully",
		"orders":  orders,
		"meta":    models.NewPaginationMeta(page, limit, total),
	})
}

// GetSellerStats - GET /api/order/seller/stats
func (h *OrderHandler) GetSellerStats(c *fiber.Ctx) error {
	stats, err := h.Orders.GetSellerStats(callerIDNumber(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Seller stats fetched successfully",
		"data":    stats,
	})
}

// UpdateStatusRequest carries the target status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus - PUT /api/order/seller/:orderId/status
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Status is required"})
	}

	order, err := h.Orders.UpdateStatus(callerIDNumber(c), c.Params("orderId"), req.Status)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// CancelOrder - PATCH /api/order/cancel?orderId=
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	orderID := c.Query("orderId")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "orderId is required"})
	}

	order, err := h.Orders.Cancel(callerIDNumber(c), orderID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}

// BackOrder - PATCH /api/order/:orderId/back
func (h *OrderHandler) BackOrder(c *fiber.Ctx) error {
	order, err := h.Orders.BackOrder(callerIDNumber(c), c.Params("orderId"))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Order removed successfully",
		"order":   order,
	})
}

// GetOrderDetails - GET /api/order/:orderId
func (h *OrderHandler) GetOrderDetails(c *fiber.Ctx) error {
	order, err := h.Orders.GetOrderDetails(callerIDNumber(c), c.Params("orderId"))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Order fetched successfully",
		"order":   order,
	})
}
