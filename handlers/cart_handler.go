package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/NIORSAYSON/agriculture-system-api/services"
)

type CartHandler struct {
	Carts *services.CartService
}

func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{Carts: carts}
}

// AddToCartRequest carries the incoming lines.
type AddToCartRequest struct {
	Products []services.CartLine `json:"products"`
}

// AddToCart - POST /api/cart
func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil || len(req.Products) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	cart, err := h.Carts.AddItems(callerAccountID(c), req.Products)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product added to cart successfully",
		"cart":    cart,
	})
}

// GetCart - GET /api/cart
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	cart, err := h.Carts.GetCart(callerAccountID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart retrieved successfully",
		"cart":    cart,
	})
}

// DeleteFromCartRequest lists the product ids to remove.
type DeleteFromCartRequest struct {
	ProductIDs []uint `json:"productIds"`
}

// DeleteFromCart - DELETE /api/cart/delete
func (h *CartHandler) DeleteFromCart(c *fiber.Ctx) error {
	var req DeleteFromCartRequest
	if err := c.BodyParser(&req); err != nil || len(req.ProductIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Product ID array is required"})
	}

	cart, err := h.Carts.RemoveItems(callerAccountID(c), req.ProductIDs)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Products removed from cart successfully",
		"cart":    cart,
	})
}
