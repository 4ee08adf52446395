package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NIORSAYSON/agriculture-system-api/internal/ws"
	"github.com/NIORSAYSON/agriculture-system-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Account{},
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
		&models.Message{},
		&models.Review{},
		&models.BlacklistedToken{},
	)
	require.NoError(t, err)
	return db
}

func newTestOrderService(t *testing.T, db *gorm.DB) *OrderService {
	t.Helper()
	hub := ws.NewHub(zap.NewNop())
	identity := NewIdentityService(db)
	carts := NewCartService(db)
	gate := NewStockGate(db)
	notifier := NewNotificationService(db, hub, zap.NewNop())
	return NewOrderService(db, identity, carts, gate, notifier, hub, zap.NewNop())
}

func createBuyer(t *testing.T, db *gorm.DB, idNumber string) *models.Account {
	t.Helper()
	buyer := &models.Account{
		IDNumber:  idNumber,
		Firstname: "Juan",
		Lastname:  "Dela Cruz",
		Email:     idNumber + "@example.com",
		Password:  "hashed",
		Role:      models.RoleBuyer,
		Status:    models.AccountActive,
		Addresses: []models.Address{
			{
				Category:  models.AddressShipping,
				Street:    "123 Mabini St",
				City:      "Quezon City",
				Province:  "Metro Manila",
				Zipcode:   "1100",
				Country:   "Philippines",
				IsDefault: true,
			},
		},
	}
	require.NoError(t, db.Create(buyer).Error)
	return buyer
}

func createSeller(t *testing.T, db *gorm.DB, idNumber string) *models.Account {
	t.Helper()
	seller := &models.Account{
		IDNumber:  idNumber,
		Firstname: "Maria",
		Lastname:  "Santos",
		Email:     idNumber + "@example.com",
		Password:  "hashed",
		Role:      models.RoleSeller,
		Status:    models.AccountActive,
	}
	require.NoError(t, db.Create(seller).Error)
	return seller
}

func createProduct(t *testing.T, db *gorm.DB, sellerID uint, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		SellerID:   sellerID,
		Name:       name,
		Price:      price,
		Stock:      stock,
		Status:     models.ProductActive,
		Type:       models.ProductAvailable,
		IsApproved: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
