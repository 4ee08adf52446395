package config

import (
	"log"

	"github.com/NIORSAYSON/agriculture-system-api/models"
	"github.com/NIORSAYSON/agriculture-system-api/utils"

	"gorm.io/gorm"
)

func SeedCategories(db *gorm.DB) {
	categories := []models.Category{
		{Name: "Vegetables"},
		{Name: "Fruits"},
		{Name: "Grains"},
		{Name: "Livestock"},
		{Name: "Fertilizers"},
		{Name: "Tools"},
	}

	for _, category := range categories {
		var existing models.Category
		if err := db.Where("name = ?", category.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Failed to seed category %s: %v", category.Name, err)
			}
		}
	}
}

func SeedAccounts(db *gorm.DB) {
	log.Println("Seeding accounts...")

	password, _ := utils.HashPassword("password123")

	accounts := []models.Account{
		{
			IDNumber:     "ADM-00001",
			Firstname:    "System",
			Lastname:     "Admin",
			Email:        "admin@example.com",
			MobileNumber: "09170000001",
			Password:     password,
			Role:         models.RoleAdmin,
		},
		{
			IDNumber:     "SLR-00001",
			Firstname:    "Maria",
			Lastname:     "Santos",
			Email:        "seller1@example.com",
			MobileNumber: "09170000002",
			Password:     password,
			Role:         models.RoleSeller,
			StoreID:      "STORE-001",
			Addresses: []models.Address{
				{Category: models.AddressSeller, Street: "12 Farm Road", City: "Los Banos", Province: "Laguna", Zipcode: "4030", IsDefault: true},
			},
		},
		{
			IDNumber:     "BYR-00001",
			Firstname:    "Juan",
			Lastname:     "Dela Cruz",
			Email:        "buyer1@example.com",
			MobileNumber: "09170000003",
			Password:     password,
			Role:         models.RoleBuyer,
			Addresses: []models.Address{
				{Category: models.AddressShipping, Street: "45 Mabini St", City: "Calamba", Province: "Laguna", Zipcode: "4027", IsDefault: true},
			},
		},
	}

	for _, account := range accounts {
		var existing models.Account
		if err := db.Where("email = ?", account.Email).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&account).Error; err != nil {
					log.Printf("Failed to seed account %s: %v", account.IDNumber, err)
				} else {
					log.Printf("Account seeded: %s (ID: %d)", account.IDNumber, account.ID)
				}
			}
		} else {
			log.Printf("Account already exists: %s", account.IDNumber)
		}
	}

	log.Println("Seeding complete.")
}

func SeedProducts(db *gorm.DB) {
	var seller models.Account
	if err := db.Where("role = ?", models.RoleSeller).First(&seller).Error; err != nil {
		log.Printf("No seller to attach seed products to: %v", err)
		return
	}

	var category models.Category
	if err := db.First(&category).Error; err != nil {
		log.Printf("No category to attach seed products to: %v", err)
		return
	}

	products := []models.Product{
		{SellerID: seller.ID, CategoryID: category.ID, Name: "Fresh Tomatoes (1kg)", Price: 80, Stock: 50, IsApproved: true},
		{SellerID: seller.ID, CategoryID: category.ID, Name: "Organic Rice (5kg)", Price: 350, Stock: 25, IsApproved: true},
		{SellerID: seller.ID, CategoryID: category.ID, Name: "Sweet Corn (dozen)", Price: 120, Stock: 40, IsApproved: true},
	}

	for _, product := range products {
		var existing models.Product
		if err := db.Where("name = ? AND seller_id = ?", product.Name, seller.ID).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&product).Error; err != nil {
				log.Printf("Failed to seed product %s: %v", product.Name, err)
			}
		}
	}
}
