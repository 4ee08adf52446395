package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/models"
)

type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// GetProfile - GET /api/user/me
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	var account models.Account
	if err := h.DB.Preload("Addresses").First(&account, callerAccountID(c)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}
	return c.JSON(fiber.Map{"message": "Profile fetched successfully", "data": account})
}

// ListAddresses - GET /api/user/address
func (h *UserHandler) ListAddresses(c *fiber.Ctx) error {
	var addresses []models.Address
	if err := h.DB.Where("account_id = ?", callerAccountID(c)).Find(&addresses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch addresses"})
	}
	return c.JSON(fiber.Map{"message": "Addresses fetched successfully", "data": addresses})
}

// AddressRequest is the payload for creating or updating an address.
type AddressRequest struct {
	Category  models.AddressCategory `json:"category"`
	Street    string                 `json:"street"`
	City      string                 `json:"city"`
	Province  string                 `json:"province"`
	Zipcode   string                 `json:"zipcode"`
	Country   string                 `json:"country"`
	IsDefault bool                   `json:"is_default"`
}

// AddAddress - POST /api/user/address
func (h *UserHandler) AddAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if req.Category != models.AddressShipping && req.Category != models.AddressSeller {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid address category"})
	}

	accountID := callerAccountID(c)
	address := models.Address{
		AccountID: accountID,
		Category:  req.Category,
		Street:    req.Street,
		City:      req.City,
		Province:  req.Province,
		Zipcode:   req.Zipcode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.Address{}).Where("account_id = ?", accountID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create address"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Address added successfully", "data": address})
}

// UpdateAddress - PUT /api/user/address/:addressId
// Setting is_default here clears the flag on every sibling first, so exactly
// one default survives no matter the prior state.
func (h *UserHandler) UpdateAddress(c *fiber.Ctx) error {
	addressID, err := c.ParamsInt("addressId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid address ID"})
	}
	accountID := callerAccountID(c)

	var address models.Address
	if err := h.DB.Where("id = ? AND account_id = ?", addressID, accountID).First(&address).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Address not found"})
	}

	var req AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.Address{}).Where("account_id = ?", accountID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		updates := map[string]interface{}{
			"street":     req.Street,
			"city":       req.City,
			"province":   req.Province,
			"zipcode":    req.Zipcode,
			"is_default": req.IsDefault,
		}
		if req.Category == models.AddressShipping || req.Category == models.AddressSeller {
			updates["category"] = req.Category
		}
		if req.Country != "" {
			updates["country"] = req.Country
		}
		return tx.Model(&address).Updates(updates).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update address"})
	}

	return c.JSON(fiber.Map{"message": "Address updated successfully", "data": address})
}
