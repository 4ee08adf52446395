package services

import (
	"github.com/NIORSAYSON/agriculture-system-api/models"
)

// SelectShippingAddress picks the address an order ships to. Precedence is
// fixed across every order-creation path: explicit id, then the default
// flag, then the first saved address, then failure.
func SelectShippingAddress(account *models.Account, explicitAddressID uint) (models.Address, error) {
	if explicitAddressID != 0 {
		for _, addr := range account.Addresses {
			if addr.ID == explicitAddressID {
				return addr, nil
			}
		}
		return models.Address{}, ErrInvalidAddress
	}

	for _, addr := range account.Addresses {
		if addr.IsDefault {
			return addr, nil
		}
	}

	if len(account.Addresses) > 0 {
		return account.Addresses[0], nil
	}

	return models.Address{}, ErrShippingAddressRequired
}
