package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/models"
)

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{DB: db}
}

// ProductRequest is the create/update payload.
type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  uint    `json:"category_id"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

// CreateProduct - POST /api/product (seller only)
// New products await admin approval before they can be ordered.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if req.Name == "" || req.Price < 0 || req.Stock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product data"})
	}

	product := models.Product{
		SellerID:    callerAccountID(c),
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
		Status:      models.ProductActive,
		Type:        models.ProductAvailable,
		IsApproved:  false,
	}

	if err := h.DB.Create(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create product"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created successfully", "product": product})
}

// GetAllProducts - GET /api/product?limit&page&status&type&category_id
func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	limit, page := paginationParams(c)

	query := h.DB.Model(&models.Product{}).Preload("Category").
		Preload("Seller", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, id_number, firstname, lastname, avatar, store_id")
		})

	status := c.Query("status", string(models.ProductActive))
	query = query.Where("status = ?", status)

	if productType := c.Query("type"); productType != "" {
		query = query.Where("type = ?", productType)
	}
	if categoryID := c.QueryInt("category_id"); categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch products"})
	}

	var products []models.Product
	if err := query.Order("created_at desc").Limit(limit).Offset((page - 1) * limit).Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch products"})
	}

	if len(products) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No products found"})
	}

	return c.JSON(fiber.Map{
		"message":  "Products retrieved successfully",
		"products": products,
		"meta":     models.NewPaginationMeta(page, limit, total),
	})
}

// GetProduct - GET /api/product/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product models.Product
	if err := h.DB.Preload("Category").
		Preload("Seller", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, id_number, firstname, lastname, avatar, email, store_id")
		}).First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}

	return c.JSON(fiber.Map{"message": "Product retrieved successfully", "product": product})
}

// GetMyProducts - GET /api/product/mine (seller only)
func (h *ProductHandler) GetMyProducts(c *fiber.Ctx) error {
	limit, page := paginationParams(c)

	query := h.DB.Model(&models.Product{}).Where("seller_id = ?", callerAccountID(c))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch products"})
	}

	var products []models.Product
	if err := query.Preload("Category").Order("created_at desc").
		Limit(limit).Offset((page - 1) * limit).Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch products"})
	}

	return c.JSON(fiber.Map{
		"message":  "Products retrieved successfully",
		"products": products,
		"meta":     models.NewPaginationMeta(page, limit, total),
	})
}

// UpdateProduct - PUT /api/product/:id (owning seller)
// Editing resets the approval flag; the product goes back through review.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}

	if product.SellerID != callerAccountID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not authorized"})
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if req.Price < 0 || req.Stock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product data"})
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.CategoryID = req.CategoryID
	product.Stock = req.Stock
	product.Image = req.Image
	product.IsApproved = false
	if req.Stock > 0 {
		product.Type = models.ProductAvailable
	} else {
		product.Type = models.ProductOutOfStock
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update product"})
	}

	return c.JSON(fiber.Map{"message": "Product updated successfully", "product": product})
}

// DeleteProduct - DELETE /api/product/:id (admin soft delete)
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}

	if err := h.DB.Delete(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete product"})
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully", "product": product})
}
