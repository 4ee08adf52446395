package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/models"
	"github.com/NIORSAYSON/agriculture-system-api/services"
	"github.com/NIORSAYSON/agriculture-system-api/utils"
)

// Protected validates the bearer token through the dual-scheme verifier,
// rejects revoked local tokens, resolves the caller's account, and stores
// the identity in Locals for downstream handlers.
func Protected(verifier *utils.TokenVerifier, identity *services.IdentityService, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No Token Provided"})
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		cred, err := verifier.Verify(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token is invalid or expired."})
		}

		if cred.Scheme == utils.SchemeLocal {
			var revoked int64
			if err := db.Model(&models.BlacklistedToken{}).Where("token = ?", tokenString).Count(&revoked).Error; err == nil && revoked > 0 {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token has been revoked."})
			}
		}

		var account *models.Account
		switch cred.Scheme {
		case utils.SchemeLocal:
			account, err = identity.Resolve(cred.IDNumber)
		case utils.SchemeProvider:
			account, err = identity.ResolveByEmail(cred.Email)
		}
		if err != nil || account == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token is invalid or expired."})
		}
		if account.Status != models.AccountActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Account is inactive."})
		}

		c.Locals("account_id", account.ID)
		c.Locals("id_number", account.IDNumber)
		c.Locals("role", string(account.Role))
		return c.Next()
	}
}

// RequireRole gates a route to specific account roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, _ := c.Locals("role").(string)
		for _, role := range roles {
			if current == string(role) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not authorized"})
	}
}
