package repositories

import "bankcards/internal/models"

// TransactionRepository defines the interface for transaction records.
type TransactionRepository interface {
	Create(txn *models.Transaction) error
	// UpdateStatusIfPending transitions the record from PENDING to status in
	// one guarded write. It reports ErrTransactionNotPending when another
	// writer reached a terminal status first, so terminal statuses are never
	// overwritten.
	UpdateStatusIfPending(txn *models.Transaction, status string) error
	GetByID(id uint) (*models.Transaction, error)
	GetByTransactionID(transactionID string) (*models.Transaction, error)
	// GetAllForUser returns transactions where the user owns either
	// participating card, newest first.
	GetAllForUser(userID uint, limit, offset int) ([]models.Transaction, int64, error)
}
