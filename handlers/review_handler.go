package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/models"
)

type ReviewHandler struct {
	DB *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{DB: db}
}

// AddReviewRequest is the payload for posting a review.
type AddReviewRequest struct {
	ProductID uint   `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// AddReview - POST /api/review
// Persists the review and flips is_rated on the caller's order lines for
// that product, which drives review-eligibility in the order views.
func (h *ReviewHandler) AddReview(c *fiber.Ctx) error {
	var req AddReviewRequest
	if err := c.BodyParser(&req); err != nil || req.ProductID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Product and rating are required"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rating must be between 1 and 5"})
	}

	accountID := callerAccountID(c)
	review := models.Review{
		ProductID:  req.ProductID,
		CustomerID: accountID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := h.DB.Create(&review).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not add review"})
	}

	err := h.DB.Model(&models.OrderItem{}).
		Where("product_id = ? AND order_ref IN (?)", req.ProductID,
			h.DB.Model(&models.Order{}).Select("id").Where("account_id = ?", accountID)).
		Update("is_rated", true).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update order items"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Review added successfully", "review": review})
}

// GetReviews - GET /api/review?productId&limit&page
func (h *ReviewHandler) GetReviews(c *fiber.Ctx) error {
	productID := c.QueryInt("productId")
	if productID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "productId is required"})
	}
	limit, page := paginationParams(c)

	query := h.DB.Model(&models.Review{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch reviews"})
	}

	var reviews []models.Review
	err := query.Preload("Product", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, name, price")
	}).Preload("Customer", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, firstname, lastname")
	}).Order("created_at desc").
		Limit(limit).Offset((page - 1) * limit).
		Find(&reviews).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch reviews"})
	}

	var averageRating float64
	h.DB.Model(&models.Review{}).Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0)").Scan(&averageRating)

	return c.JSON(fiber.Map{
		"reviews":       reviews,
		"averageRating": averageRating,
		"meta":          models.NewPaginationMeta(page, limit, total),
	})
}
