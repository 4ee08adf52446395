package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/models"
	"github.com/NIORSAYSON/agriculture-system-api/services"
	"github.com/NIORSAYSON/agriculture-system-api/utils"
)

type AuthHandler struct {
	DB       *gorm.DB
	Verifier *utils.TokenVerifier
	Identity *services.IdentityService
	Secret   []byte
	TokenTTL time.Duration
}

func NewAuthHandler(db *gorm.DB, verifier *utils.TokenVerifier, identity *services.IdentityService, secret []byte, ttl time.Duration) *AuthHandler {
	return &AuthHandler{DB: db, Verifier: verifier, Identity: identity, Secret: secret, TokenTTL: ttl}
}

// RegisterRequest defines the payload for registration
type RegisterRequest struct {
	Firstname    string      `json:"firstname"`
	Lastname     string      `json:"lastname"`
	Email        string      `json:"email"`
	MobileNumber string      `json:"mobile_number"`
	Password     string      `json:"password"`
	Role         models.Role `json:"role"`
}

// LoginRequest defines the payload for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if req.Email == "" || req.Password == "" || req.Firstname == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	role := req.Role
	if role != models.RoleSeller {
		role = models.RoleBuyer
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not hash password"})
	}

	account := models.Account{
		IDNumber:     h.nextIDNumber(role),
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Password:     hashedPassword,
		Role:         role,
		Status:       models.AccountActive,
	}

	if err := h.DB.Create(&account).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Account already exists"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Account registered successfully",
		"id_number": account.IDNumber,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	var account models.Account
	if err := h.DB.Where("email = ?", req.Email).First(&account).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	if !utils.CheckPasswordHash(req.Password, account.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}
	if account.Status != models.AccountActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Account is inactive"})
	}

	token, err := utils.GenerateAccessToken(h.Secret, account.IDNumber, string(account.Role), h.TokenTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not login"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":        account.ID,
			"id_number": account.IDNumber,
			"firstname": account.Firstname,
			"lastname":  account.Lastname,
			"email":     account.Email,
			"role":      account.Role,
			"avatar":    account.Avatar,
		},
	})
}

// Logout revokes the caller's local token by blacklisting it. Provider
// tokens are revoked on the provider side; nothing to do here for those.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No token provided"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	cred, err := h.Verifier.Verify(tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token is invalid or expired."})
	}

	if cred.Scheme == utils.SchemeLocal {
		entry := models.BlacklistedToken{Token: tokenString}
		if err := h.DB.Create(&entry).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token already revoked. User is logged out."})
		}
	}

	return c.JSON(fiber.Map{"message": "Logout successful, tokens revoked."})
}

// ProviderLogin accepts a provider-issued identity token, verifies it, and
// returns the matching account.
func (h *AuthHandler) ProviderLogin(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	cred, err := h.Verifier.Verify(tokenString)
	if err != nil || cred.Scheme != utils.SchemeProvider {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token is invalid or expired."})
	}

	account, err := h.Identity.ResolveByEmail(cred.Email)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Google login successful",
		"user": fiber.Map{
			"id":        account.ID,
			"id_number": account.IDNumber,
			"firstname": account.Firstname,
			"lastname":  account.Lastname,
			"email":     account.Email,
			"role":      account.Role,
		},
	})
}

// nextIDNumber builds the next role-prefixed identity code, e.g. BYR-00042.
func (h *AuthHandler) nextIDNumber(role models.Role) string {
	prefix := "BYR"
	switch role {
	case models.RoleSeller:
		prefix = "SLR"
	case models.RoleAdmin:
		prefix = "ADM"
	}

	var count int64
	h.DB.Model(&models.Account{}).Where("role = ?", role).Count(&count)
	return fmt.Sprintf("%s-%05d", prefix, count+1)
}
