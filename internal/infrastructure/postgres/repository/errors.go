package repository

import (
	"errors"
	"fmt"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"gorm.io/gorm"
)

// translate maps gorm errors into the domain taxonomy before they leave
// the repository boundary.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, domain.ErrAlreadyExists)
	}
	return &domain.DatabaseError{Op: op, Err: err}
}

func notFoundOr(op, entity, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFoundError(entity, id)
	}
	return translate(op, err)
}
