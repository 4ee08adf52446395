package services

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/internal/ws"
	"github.com/NIORSAYSON/agriculture-system-api/models"
)

// NotificationService persists notification rows and layers best-effort
// real-time delivery on top. Persistence always happens first; push failures
// never propagate. Delivery is deliberately redundant: a direct emit to the
// recipient's registered connection plus a role-scoped room broadcast, so
// multi-tab and room-only subscribers both receive the event.
type NotificationService struct {
	db     *gorm.DB
	hub    *ws.Hub
	logger *zap.Logger
}

func NewNotificationService(db *gorm.DB, hub *ws.Hub, logger *zap.Logger) *NotificationService {
	return &NotificationService{db: db, hub: hub, logger: logger}
}

// Notify persists a notification for the recipient and pushes the given
// event through both real-time paths.
func (s *NotificationService) Notify(recipient *models.Account, actorID, orderRef uint, productIDs []uint, message, event string, payload map[string]interface{}) (*models.Notification, error) {
	notification := &models.Notification{
		ActorID:     actorID,
		RecipientID: recipient.ID,
		OrderRef:    orderRef,
		ProductIDs:  productIDs,
		Message:     message,
	}
	if err := s.db.Create(notification).Error; err != nil {
		return nil, err
	}

	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["message"] = message

	delivered := s.hub.EmitToAccount(recipient.ID, event, payload)
	s.hub.EmitToRoom(string(recipient.Role), recipient.ID, event, payload)

	s.logger.Info("notification dispatched",
		zap.Uint("recipient_id", recipient.ID),
		zap.String("event", event),
		zap.Bool("direct_delivery", delivered))

	return notification, nil
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(accountID uint, limit, page int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := s.db.Model(&models.Notification{}).Where("recipient_id = ?", accountID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Order").
		Order("created_at desc").
		Limit(limit).Offset((page - 1) * limit).
		Find(&notifications).Error
	return notifications, total, err
}

// MarkRead flips the read flag on one of the caller's notifications.
func (s *NotificationService) MarkRead(accountID, notificationID uint) error {
	var notification models.Notification
	err := s.db.Where("id = ? AND recipient_id = ?", notificationID, accountID).First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return err
	}
	return s.db.Model(&notification).Update("is_read", true).Error
}
