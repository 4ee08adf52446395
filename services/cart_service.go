package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/models"
)

// CartLine is an incoming (product, quantity) pair.
type CartLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CartService owns the one-cart-per-account aggregate. The cart total is
// derived: every mutation re-fetches current product prices, so a price
// change between add time and checkout time shows up immediately.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// AddItems merges incoming lines into the account's cart, creating the cart
// lazily on first add. A line matching an existing product increments its
// quantity in place; anything else is appended.
func (s *CartService) AddItems(accountID uint, items []CartLine) (*models.Cart, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		var count int64
		if err := s.db.Model(&models.Product{}).Where("id = ?", item.ProductID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrProductNotFound
		}
	}

	cart, err := s.lookupOrCreate(accountID)
	if err != nil {
		return nil, err
	}

	for _, incoming := range items {
		merged := false
		for i := range cart.Items {
			if cart.Items[i].ProductID == incoming.ProductID {
				cart.Items[i].Quantity += incoming.Quantity
				if err := s.db.Save(&cart.Items[i]).Error; err != nil {
					return nil, err
				}
				merged = true
				break
			}
		}
		if !merged {
			line := models.CartItem{
				CartID:    cart.ID,
				ProductID: incoming.ProductID,
				Quantity:  incoming.Quantity,
			}
			if err := s.db.Create(&line).Error; err != nil {
				return nil, err
			}
			cart.Items = append(cart.Items, line)
		}
	}

	if err := s.recomputeTotal(cart); err != nil {
		return nil, err
	}
	return s.GetCart(accountID)
}

// GetCart returns the account's cart with live product data. No implicit
// creation on read.
func (s *CartService) GetCart(accountID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items.Product.Seller").Preload("Items.Product").
		Where("account_id = ?", accountID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveItems drops the lines matching any of the given product ids and
// recomputes the total. Fails when nothing matches.
func (s *CartService) RemoveItems(accountID uint, productIDs []uint) (*models.Cart, error) {
	cart, err := s.GetCart(accountID)
	if err != nil {
		return nil, err
	}

	remove := make(map[uint]bool, len(productIDs))
	for _, id := range productIDs {
		remove[id] = true
	}

	var kept []models.CartItem
	var dropped []uint
	for _, item := range cart.Items {
		if remove[item.ProductID] {
			dropped = append(dropped, item.ID)
		} else {
			kept = append(kept, item)
		}
	}

	if len(dropped) == 0 {
		return nil, ErrNoMatchingItems
	}

	if err := s.db.Delete(&models.CartItem{}, dropped).Error; err != nil {
		return nil, err
	}
	cart.Items = kept

	if err := s.recomputeTotal(cart); err != nil {
		return nil, err
	}
	return s.GetCart(accountID)
}

// Clear empties the cart after a successful order commit.
func (s *CartService) Clear(accountID uint) error {
	cart, err := s.GetCart(accountID)
	if err != nil {
		return err
	}
	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return s.db.Model(cart).Update("total", 0).Error
}

func (s *CartService) lookupOrCreate(accountID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items").Where("account_id = ?", accountID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{AccountID: accountID, Total: 0}
		if err := s.db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// recomputeTotal rebuilds the derived total from current product prices.
func (s *CartService) recomputeTotal(cart *models.Cart) error {
	var total float64
	for _, item := range cart.Items {
		var product models.Product
		if err := s.db.Select("price").First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		total += product.Price * float64(item.Quantity)
	}
	cart.Total = total
	return s.db.Model(cart).Update("total", total).Error
}
