package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/NIORSAYSON/agriculture-system-api/models"
)

// IdentityService maps opaque caller identities (role-prefixed id numbers,
// provider emails) to internal account rows. Every other service goes
// through it to answer "whose cart/order/product is this".
type IdentityService struct {
	db *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

// Resolve finds the active account for an identity code.
func (s *IdentityService) Resolve(idNumber string) (*models.Account, error) {
	var account models.Account
	err := s.db.Preload("Addresses").Where("id_number = ?", idNumber).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ResolveByEmail finds the account for a provider-issued credential, which
// carries an email instead of an id number.
func (s *IdentityService) ResolveByEmail(email string) (*models.Account, error) {
	var account models.Account
	err := s.db.Preload("Addresses").Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}
