package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/internal/ws"
	"github.com/NIORSAYSON/agriculture-system-api/models"
	"github.com/NIORSAYSON/agriculture-system-api/services"
	"github.com/NIORSAYSON/agriculture-system-api/utils"
)

type WSHandler struct {
	Hub    *ws.Hub
	Auth   ws.Authenticator
	Logger *zap.Logger
}

func NewWSHandler(hub *ws.Hub, auth ws.Authenticator, logger *zap.Logger) *WSHandler {
	return &WSHandler{Hub: hub, Auth: auth, Logger: logger}
}

// UpgradeMiddleware ensures the client is trying to upgrade to WebSocket
func (h *WSHandler) UpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler returns the websocket handler function. Connections start
// unauthenticated; the client must send a register message with its token
// before it can receive direct pushes.
func (h *WSHandler) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := ws.NewClient(h.Hub, conn, uuid.NewString(), h.Auth, h.Logger)

		client.Hub.Register <- client

		go client.WritePump()
		client.ReadPump()
	})
}

// TokenAuthenticator implements ws.Authenticator over the dual-scheme
// verifier and the identity resolver.
type TokenAuthenticator struct {
	Verifier *utils.TokenVerifier
	Identity *services.IdentityService
	DB       *gorm.DB
}

func (a *TokenAuthenticator) AuthenticateToken(token string) (uint, error) {
	cred, err := a.Verifier.Verify(token)
	if err != nil {
		return 0, err
	}

	if cred.Scheme == utils.SchemeLocal {
		var revoked int64
		if err := a.DB.Model(&models.BlacklistedToken{}).Where("token = ?", token).Count(&revoked).Error; err == nil && revoked > 0 {
			return 0, utils.ErrInvalidToken
		}
	}

	var account *models.Account
	switch cred.Scheme {
	case utils.SchemeLocal:
		account, err = a.Identity.Resolve(cred.IDNumber)
	case utils.SchemeProvider:
		account, err = a.Identity.ResolveByEmail(cred.Email)
	}
	if err != nil {
		return 0, err
	}
	if account.Status != models.AccountActive {
		return 0, utils.ErrInvalidToken
	}
	return account.ID, nil
}
