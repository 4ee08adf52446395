package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/NIORSAYSON/agriculture-system-api/models"
	"github.com/NIORSAYSON/agriculture-system-api/services"
)

type NotificationHandler struct {
	Notifier *services.NotificationService
}

func NewNotificationHandler(notifier *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Notifier: notifier}
}

// GetNotifications - GET /api/notification
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	limit, page := paginationParams(c)

	notifications, total, err := h.Notifier.List(callerAccountID(c), limit, page)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":       "Notifications retrieved successfully",
		"notifications": notifications,
		"meta":          models.NewPaginationMeta(page, limit, total),
	})
}

// MarkRead - PATCH /api/notification/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	if err := h.Notifier.MarkRead(callerAccountID(c), uint(id)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}
