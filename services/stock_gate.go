package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/models"
)

// ValidatedLine is a cart line resolved to live product data after passing
// the availability checks. UnitPrice snapshots the price seen at validation.
type ValidatedLine struct {
	Product  models.Product
	Quantity int
}

// StockGate validates every line of a prospective order and decrements stock
// on commit. All-or-nothing at validation time: the first violation aborts
// the whole operation with no partial reservation. Validation and decrement
// are separate steps, so concurrent checkouts of the same product can race
// between them.
type StockGate struct {
	db *gorm.DB
}

func NewStockGate(db *gorm.DB) *StockGate {
	return &StockGate{db: db}
}

// Validate checks product availability, seller eligibility, and stock for
// every line. Returns the resolved lines on success.
func (g *StockGate) Validate(lines []CartLine) ([]ValidatedLine, error) {
	validated := make([]ValidatedLine, 0, len(lines))

	for _, line := range lines {
		var product models.Product
		err := g.db.First(&product, line.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrProductUnavailable, line.ProductID)
		}
		if err != nil {
			return nil, err
		}

		if !product.Orderable() {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
		}

		var seller models.Account
		err = g.db.First(&seller, product.SellerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSellerUnavailable, product.Name)
		}
		if err != nil {
			return nil, err
		}
		if seller.Role != models.RoleSeller || seller.Status != models.AccountActive {
			return nil, fmt.Errorf("%w: %s", ErrSellerUnavailable, product.Name)
		}

		if line.Quantity > product.Stock {
			return nil, fmt.Errorf("%w: %s (requested %d, in stock %d)",
				ErrInsufficientStock, product.Name, line.Quantity, product.Stock)
		}

		validated = append(validated, ValidatedLine{Product: product, Quantity: line.Quantity})
	}

	return validated, nil
}

// Decrement reduces stock per line after a successful validation pass. Each
// product is updated independently; a product whose stock reaches zero is
// flipped to Out of Stock.
func (g *StockGate) Decrement(lines []ValidatedLine) error {
	for _, line := range lines {
		err := g.db.Model(&models.Product{}).Where("id = ?", line.Product.ID).
			UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity)).Error
		if err != nil {
			return err
		}

		var remaining models.Product
		if err := g.db.Select("stock").First(&remaining, line.Product.ID).Error; err != nil {
			return err
		}
		if remaining.Stock <= 0 {
			if err := g.db.Model(&models.Product{}).Where("id = ?", line.Product.ID).
				Update("type", models.ProductOutOfStock).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
