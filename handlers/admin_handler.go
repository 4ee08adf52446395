package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/internal/ws"
	"github.com/NIORSAYSON/agriculture-system-api/models"
	"github.com/NIORSAYSON/agriculture-system-api/services"
)

type AdminHandler struct {
	DB       *gorm.DB
	Notifier *services.NotificationService
}

func NewAdminHandler(db *gorm.DB, notifier *services.NotificationService) *AdminHandler {
	return &AdminHandler{DB: db, Notifier: notifier}
}

// GetDashboard - GET /api/admin/dashboard
func (h *AdminHandler) GetDashboard(c *fiber.Ctx) error {
	var totalBuyers, totalSellers, totalProducts int64

	h.DB.Model(&models.Account{}).
		Where("role = ? AND status = ?", models.RoleBuyer, models.AccountActive).
		Count(&totalBuyers)
	h.DB.Model(&models.Account{}).
		Where("role = ? AND status = ?", models.RoleSeller, models.AccountActive).
		Count(&totalSellers)
	h.DB.Model(&models.Product{}).
		Where("status = ? AND is_approved = ? AND type = ?",
			models.ProductActive, true, models.ProductAvailable).
		Count(&totalProducts)

	var totalOrderAmount float64
	h.DB.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status = ?", models.OrderDelivered).
		Scan(&totalOrderAmount)

	return c.JSON(fiber.Map{
		"message": "Admin dashboard data fetched successfully",
		"data": fiber.Map{
			"totalBuyers":      totalBuyers,
			"totalSellers":     totalSellers,
			"totalProducts":    totalProducts,
			"totalOrderAmount": totalOrderAmount,
		},
	})
}

// GetPendingProducts - GET /api/admin/products/pending
// Groups unapproved products by seller; pagination applies to the groups.
func (h *AdminHandler) GetPendingProducts(c *fiber.Ctx) error {
	limit, page := paginationParams(c)

	var pending []models.Product
	err := h.DB.Preload("Category").
		Preload("Seller", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, id_number, firstname, lastname")
		}).
		Where("is_approved = ?", false).
		Order("seller_id, created_at desc").
		Find(&pending).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch pending products"})
	}

	type sellerGroup struct {
		Seller   models.Account   `json:"seller"`
		Products []models.Product `json:"products"`
	}

	order := make([]uint, 0)
	grouped := make(map[uint]*sellerGroup)
	for _, product := range pending {
		group, ok := grouped[product.SellerID]
		if !ok {
			group = &sellerGroup{Seller: product.Seller}
			grouped[product.SellerID] = group
			order = append(order, product.SellerID)
		}
		group.Products = append(group.Products, product)
	}

	groups := make([]*sellerGroup, 0, len(order))
	for _, sellerID := range order {
		groups = append(groups, grouped[sellerID])
	}

	totalGroups := len(groups)
	start := (page - 1) * limit
	if start > totalGroups {
		start = totalGroups
	}
	end := start + limit
	if end > totalGroups {
		end = totalGroups
	}

	return c.JSON(fiber.Map{
		"message":       "Pending products grouped by seller fetched successfully",
		"data":          groups[start:end],
		"totalSellers":  totalGroups,
		"totalProducts": len(pending),
		"meta":          models.NewPaginationMeta(page, limit, int64(totalGroups)),
	})
}

// ApprovalRequest is the bulk product approval payload.
type ApprovalRequest struct {
	ProductIDs []uint `json:"productIds"`
	IsApproved bool   `json:"isApproved"`
}

// ProductApproval - PUT /api/admin/products/approval
// Flips the approval flag on the given products and notifies each affected
// seller, with a productStatusUpdate push per product.
func (h *AdminHandler) ProductApproval(c *fiber.Ctx) error {
	var req ApprovalRequest
	if err := c.BodyParser(&req); err != nil || len(req.ProductIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product IDs and approval status are required",
		})
	}

	var products []models.Product
	if err := h.DB.Preload("Seller").Where("id IN ?", req.ProductIDs).Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch products"})
	}
	if len(products) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No products found with the given IDs"})
	}

	if err := h.DB.Model(&models.Product{}).Where("id IN ?", req.ProductIDs).
		Update("is_approved", req.IsApproved).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update products"})
	}

	decision := "rejected"
	if req.IsApproved {
		decision = "approved"
	}

	adminID := callerAccountID(c)
	for _, product := range products {
		message := fmt.Sprintf("Your product %q has been %s by admin", product.Name, decision)
		_, err := h.Notifier.Notify(&product.Seller, adminID, 0, []uint{product.ID}, message,
			ws.EventProductStatusUpdate, map[string]interface{}{
				"productId": product.ID,
				"status":    decision,
			})
		if err != nil {
			// Approval already stands; delivery is best-effort.
			continue
		}
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Products %s successfully", decision),
	})
}

// GetAllUsers - GET /api/admin/users
func (h *AdminHandler) GetAllUsers(c *fiber.Ctx) error {
	limit, page := paginationParams(c)

	query := h.DB.Model(&models.Account{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch users"})
	}

	var accounts []models.Account
	if err := query.Limit(limit).Offset((page - 1) * limit).Find(&accounts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch users"})
	}

	if len(accounts) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No users found."})
	}

	return c.JSON(fiber.Map{
		"message": "Users fetched successfully",
		"data":    accounts,
		"meta":    models.NewPaginationMeta(page, limit, total),
	})
}

// DeleteUser - DELETE /api/admin/users/:id (soft delete)
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var account models.Account
	if err := h.DB.First(&account, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	if err := h.DB.Delete(&account).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete user"})
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
