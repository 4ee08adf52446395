package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/NIORSAYSON/agriculture-system-api/services"
)

// paginationParams reads limit/page query params, clamped to a minimum of 1.
func paginationParams(c *fiber.Ctx) (limit, page int) {
	limit = c.QueryInt("limit", 10)
	if limit < 1 {
		limit = 1
	}
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return limit, page
}

// callerIDNumber returns the identity code stored by the auth middleware.
func callerIDNumber(c *fiber.Ctx) string {
	idNumber, _ := c.Locals("id_number").(string)
	return idNumber
}

// callerAccountID returns the internal account id stored by the auth middleware.
func callerAccountID(c *fiber.Ctx) uint {
	accountID, _ := c.Locals("account_id").(uint)
	return accountID
}

// serviceError converts service-layer sentinel errors to HTTP responses.
// Anything unanticipated becomes a 500 with the raw message attached.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrCartNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})

	case errors.Is(err, services.ErrInvalidAddress),
		errors.Is(err, services.ErrShippingAddressRequired),
		errors.Is(err, services.ErrCartEmpty),
		errors.Is(err, services.ErrNoMatchingItems),
		errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrSellerUnavailable),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrNoItems),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})

	case errors.Is(err, services.ErrNotOrderOwner),
		errors.Is(err, services.ErrNotOrderSeller):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})

	case errors.Is(err, services.ErrOrderNotPending),
		errors.Is(err, services.ErrAlreadyCancelled),
		errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}
