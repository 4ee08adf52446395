package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/internal/ws"
	"github.com/NIORSAYSON/agriculture-system-api/models"
)

type MessageHandler struct {
	DB  *gorm.DB
	Hub *ws.Hub
}

func NewMessageHandler(db *gorm.DB, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{DB: db, Hub: hub}
}

// SendMessageRequest is the payload for sending a chat message.
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiverId"`
	Content    string `json:"content"`
}

// SendMessage - POST /api/message
// Persists the message, then nudges the receiver's open conversation view
// if they are online.
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil || req.ReceiverID == 0 || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Receiver and content are required"})
	}

	message := models.Message{
		SenderID:   callerAccountID(c),
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}
	if err := h.DB.Create(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send message"})
	}

	if h.Hub.IsOnline(req.ReceiverID) {
		h.Hub.EmitToAccount(req.ReceiverID, ws.EventRefreshConversation, map[string]interface{}{
			"message":  "New message received",
			"senderId": message.SenderID,
		})
		h.Hub.EmitToAccount(req.ReceiverID, ws.EventRefreshCount, map[string]interface{}{
			"message": "Unread count changed",
		})
	}

	return c.JSON(fiber.Map{"success": "Ok", "data": message})
}

// GetConversations - GET /api/message/conversations
// Lists the caller's conversation partners with the latest message each,
// newest conversation first.
func (h *MessageHandler) GetConversations(c *fiber.Ctx) error {
	limit, page := paginationParams(c)
	accountID := callerAccountID(c)

	var messages []models.Message
	err := h.DB.Where("sender_id = ? OR receiver_id = ?", accountID, accountID).
		Order("created_at desc").
		Find(&messages).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch conversations"})
	}

	type conversation struct {
		OtherUser models.Account `json:"other_user"`
		Latest    models.Message `json:"latest_message"`
	}

	partnerOrder := make([]uint, 0)
	latest := make(map[uint]models.Message)
	for _, msg := range messages {
		partner := msg.SenderID
		if partner == accountID {
			partner = msg.ReceiverID
		}
		if _, ok := latest[partner]; !ok {
			latest[partner] = msg
			partnerOrder = append(partnerOrder, partner)
		}
	}

	total := len(partnerOrder)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	conversations := make([]conversation, 0, end-start)
	for _, partnerID := range partnerOrder[start:end] {
		var partner models.Account
		if err := h.DB.Select("id, id_number, firstname, lastname, avatar").
			First(&partner, partnerID).Error; err != nil {
			continue
		}
		conversations = append(conversations, conversation{OtherUser: partner, Latest: latest[partnerID]})
	}

	return c.JSON(fiber.Map{
		"success":       "Ok",
		"conversations": conversations,
		"meta":          models.NewPaginationMeta(page, limit, int64(total)),
	})
}

// GetConversationMessages - GET /api/message/conversation/:partnerId
func (h *MessageHandler) GetConversationMessages(c *fiber.Ctx) error {
	partnerID, err := c.ParamsInt("partnerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid partner ID"})
	}
	limit, page := paginationParams(c)
	accountID := callerAccountID(c)

	var partner models.Account
	if err := h.DB.Select("id, firstname, lastname").First(&partner, partnerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	query := h.DB.Model(&models.Message{}).Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		accountID, partnerID, partnerID, accountID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}

	var messages []models.Message
	if err := query.Order("created_at desc").
		Limit(limit).Offset((page - 1) * limit).
		Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}

	return c.JSON(fiber.Map{
		"success":  "Ok",
		"chatWith": partner.Firstname + " " + partner.Lastname,
		"messages": messages,
		"meta":     models.NewPaginationMeta(page, limit, total),
	})
}
