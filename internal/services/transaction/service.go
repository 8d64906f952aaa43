// Package transaction exposes read access to the transaction record store.
// Money movement itself lives in the transfer package; this service only
// looks records up for the API layer.
package transaction

import (
	"context"
	"fmt"

	domainerrors "bankcards/internal/errors"
	"bankcards/internal/models"
	"bankcards/internal/repositories"
)

type Service interface {
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error)
}

type service struct {
	store repositories.Store
}

func NewService(store repositories.Store) Service {
	if store == nil {
		panic("store is required")
	}
	return &service{store: store}
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	txn, err := s.store.Transactions().GetByID(id)
	if err != nil {
		if err == repositories.ErrTransactionNotFound {
			return nil, domainerrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

func (s *service) GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	txn, err := s.store.Transactions().GetByTransactionID(transactionID)
	if err != nil {
		if err == repositories.ErrTransactionNotFound {
			return nil, domainerrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

func (s *service) GetUserTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	return s.store.Transactions().GetAllForUser(userID, limit, offset)
}
