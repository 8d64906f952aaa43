package transfer

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"strings"

	domainerrors "bankcards/internal/errors"
	"bankcards/internal/models"
	"bankcards/internal/repositories"
	"bankcards/internal/services/ledger"
	"bankcards/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type service struct {
	store   repositories.Store
	cache   Cache
	config  Config
	metrics MetricsCollector
}

// NewService creates a new transfer engine. Cache and metrics are optional.
func NewService(store repositories.Store, cache Cache, config Config, metrics MetricsCollector) Service {
	if store == nil {
		panic("store is required")
	}

	if config.CommissionRate.IsZero() {
		config.CommissionRate = DefaultCommissionRate
	}
	if config.MinTransferAmount.IsZero() {
		config.MinTransferAmount = DefaultMinTransferAmount
	}
	if config.MinDepositAmount.IsZero() {
		config.MinDepositAmount = DefaultMinDepositAmount
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		store:   store,
		cache:   cache,
		config:  config,
		metrics: metrics,
	}
}

func (s *service) Transfer(ctx context.Context, req TransferRequest) (*models.Transaction, error) {
	fromCard, err := s.loadCard(req.FromCardID)
	if err != nil {
		return nil, err
	}
	toCard, err := s.loadCardByNumber(req.ToCardNumber)
	if err != nil {
		return nil, err
	}
	return s.executeTransfer(ctx, fromCard, toCard, req.Amount, req.Description)
}

func (s *service) TransferBetweenOwnCards(ctx context.Context, req OwnCardsTransferRequest) (*models.Transaction, error) {
	fromCard, err := s.loadCard(req.FromCardID)
	if err != nil {
		return nil, err
	}
	toCard, err := s.loadCard(req.ToCardID)
	if err != nil {
		return nil, err
	}
	if fromCard.UserID != req.UserID || toCard.UserID != req.UserID {
		s.metrics.RecordError("transfer_own", "ownership_violation")
		return nil, domainerrors.ErrOwnershipViolation
	}
	return s.executeTransfer(ctx, fromCard, toCard, req.Amount, req.Description)
}

// executeTransfer runs the shared transfer path. Validation completes fully
// before any write; the PENDING record is written before balances move, so a
// crash mid-transfer leaves a discoverable PENDING-or-terminal record and
// never a balance change without one.
func (s *service) executeTransfer(ctx context.Context, fromCard, toCard *models.Card, amount decimal.Decimal, description string) (*models.Transaction, error) {
	if err := s.validateTransfer(fromCard, toCard, amount); err != nil {
		s.metrics.RecordError("transfer", errType(err))
		return nil, err
	}

	commission := s.calculateCommission(amount)
	totalAmount := amount.Add(commission)
	if !ledger.HasSufficientFunds(fromCard, totalAmount) {
		s.metrics.RecordError("transfer", "insufficient_funds")
		return nil, insufficientFundsError(fromCard, totalAmount)
	}

	if description == "" {
		description = DefaultTransferDescription
	}

	txn := &models.Transaction{
		TransactionID: generateTransactionID(),
		Amount:        amount,
		Type:          models.TransactionTypeTransfer,
		Status:        models.TransactionStatusPending,
		Description:   description,
		Commission:    commission,
		FromCardID:    &fromCard.ID,
		ToCardID:      toCard.ID,
	}
	if err := s.store.Transactions().Create(txn); err != nil {
		return nil, fmt.Errorf("failed to create transaction record: %w", err)
	}

	err := s.store.ExecuteInTransaction(func(tx repositories.Store) error {
		from, to, err := lockCardPair(tx, fromCard.ID, toCard.ID)
		if err != nil {
			return err
		}

		// The unlocked pre-check may have raced a concurrent transfer;
		// repeat it against the locked rows.
		if !from.IsValid() {
			return domainerrors.ErrCardInvalid.WithMessage("source card is invalid or expired")
		}
		if !to.IsValid() {
			return domainerrors.ErrCardInvalid.WithMessage("destination card is invalid or expired")
		}
		if !ledger.HasSufficientFunds(from, totalAmount) {
			return insufficientFundsError(from, totalAmount)
		}

		ledger.Debit(from, totalAmount)
		ledger.Credit(to, amount)
		if err := tx.Cards().Update(from); err != nil {
			return err
		}
		if err := tx.Cards().Update(to); err != nil {
			return err
		}

		// A guarded transition: if a cancel won the race while balances
		// moved, the write is refused and everything rolls back.
		return tx.Transactions().UpdateStatusIfPending(txn, models.TransactionStatusCompleted)
	})
	if err != nil {
		if stderrors.Is(err, repositories.ErrTransactionNotPending) {
			s.metrics.RecordError("transfer", "cancelled")
			return nil, domainerrors.ErrInvalidOperation.WithMessage(
				"transaction %s is no longer pending", txn.TransactionID)
		}
		return nil, s.recordFailure(txn, "transfer", err)
	}

	s.invalidateCards(ctx, fromCard.ID, toCard.ID)
	s.metrics.RecordTransaction(models.TransactionTypeTransfer, amount)
	s.metrics.RecordCommission(commission)
	log.Printf("transfer %s completed: card %d -> card %d, amount %s, commission %s",
		txn.TransactionID, fromCard.ID, toCard.ID, amount, commission)
	return txn, nil
}

func (s *service) Deposit(ctx context.Context, cardID uint, amount decimal.Decimal) (*models.Transaction, error) {
	if err := s.validateDeposit(amount); err != nil {
		s.metrics.RecordError("deposit", errType(err))
		return nil, err
	}

	card, err := s.loadCard(cardID)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		TransactionID: generateTransactionID(),
		Amount:        amount,
		Type:          models.TransactionTypeDeposit,
		Status:        models.TransactionStatusPending,
		Description:   DepositDescription,
		Commission:    decimal.Zero,
		ToCardID:      card.ID,
	}
	if err := s.store.Transactions().Create(txn); err != nil {
		return nil, fmt.Errorf("failed to create transaction record: %w", err)
	}

	err = s.store.ExecuteInTransaction(func(tx repositories.Store) error {
		locked, err := tx.Cards().GetByIDForUpdate(card.ID)
		if err != nil {
			return err
		}
		ledger.Credit(locked, amount)
		if err := tx.Cards().Update(locked); err != nil {
			return err
		}
		return tx.Transactions().UpdateStatusIfPending(txn, models.TransactionStatusCompleted)
	})
	if err != nil {
		if stderrors.Is(err, repositories.ErrTransactionNotPending) {
			s.metrics.RecordError("deposit", "cancelled")
			return nil, domainerrors.ErrInvalidOperation.WithMessage(
				"transaction %s is no longer pending", txn.TransactionID)
		}
		return nil, s.recordFailure(txn, "deposit", err)
	}

	s.invalidateCards(ctx, card.ID)
	s.metrics.RecordTransaction(models.TransactionTypeDeposit, amount)
	log.Printf("deposit %s completed: card %d, amount %s", txn.TransactionID, card.ID, amount)
	return txn, nil
}

func (s *service) Cancel(ctx context.Context, transactionID uint) (*models.Transaction, error) {
	txn, err := s.store.Transactions().GetByID(transactionID)
	if err != nil {
		if err == repositories.ErrTransactionNotFound {
			return nil, domainerrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if txn.Status != models.TransactionStatusPending {
		s.metrics.RecordError("cancel", "not_pending")
		return nil, domainerrors.ErrInvalidOperation.WithMessage(
			"only pending transactions can be cancelled, current status: %s", txn.Status)
	}

	// The guarded write closes the gap between the check above and a
	// transfer completing concurrently.
	if err := s.store.Transactions().UpdateStatusIfPending(txn, models.TransactionStatusCancelled); err != nil {
		if stderrors.Is(err, repositories.ErrTransactionNotPending) {
			s.metrics.RecordError("cancel", "not_pending")
			return nil, domainerrors.ErrInvalidOperation.WithMessage(
				"only pending transactions can be cancelled")
		}
		return nil, fmt.Errorf("failed to cancel transaction: %w", err)
	}
	log.Printf("transaction %s cancelled", txn.TransactionID)
	return txn, nil
}

func (s *service) validateTransfer(fromCard, toCard *models.Card, amount decimal.Decimal) error {
	if !fromCard.IsValid() {
		return domainerrors.ErrCardInvalid.WithMessage("source card is invalid or expired")
	}
	if !toCard.IsValid() {
		return domainerrors.ErrCardInvalid.WithMessage("destination card is invalid or expired")
	}
	if fromCard.ID == toCard.ID {
		return domainerrors.ErrSameCardTransfer
	}
	if !amount.IsPositive() {
		return domainerrors.ErrInvalidAmount.WithMessage("transfer amount must be positive")
	}
	if amount.LessThan(s.config.MinTransferAmount) {
		return domainerrors.ErrInvalidAmount.WithMessage("minimum transfer amount is %s", s.config.MinTransferAmount)
	}
	return nil
}

func (s *service) validateDeposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerrors.ErrInvalidAmount.WithMessage("deposit amount must be positive")
	}
	if amount.LessThan(s.config.MinDepositAmount) {
		return domainerrors.ErrInvalidAmount.WithMessage("minimum deposit amount is %s", s.config.MinDepositAmount)
	}
	return nil
}

// calculateCommission rounds to two decimal places, half-up.
func (s *service) calculateCommission(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(s.config.CommissionRate).Round(2)
}

func (s *service) loadCard(cardID uint) (*models.Card, error) {
	card, err := s.store.Cards().GetByID(cardID)
	if err != nil {
		if err == repositories.ErrCardNotFound {
			return nil, domainerrors.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

func (s *service) loadCardByNumber(number string) (*models.Card, error) {
	card, err := s.store.Cards().GetByNumberHash(utils.HashCardNumber(number))
	if err != nil {
		if err == repositories.ErrCardNotFound {
			return nil, domainerrors.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card by number: %w", err)
	}
	return card, nil
}

// lockCardPair acquires row locks on both cards in ascending id order, so two
// transfers referencing the same cards in opposite directions cannot
// deadlock.
func lockCardPair(tx repositories.Store, fromID, toID uint) (from, to *models.Card, err error) {
	firstID, secondID := fromID, toID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := tx.Cards().GetByIDForUpdate(firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := tx.Cards().GetByIDForUpdate(secondID)
	if err != nil {
		return nil, nil, err
	}
	if first.ID == fromID {
		return first, second, nil
	}
	return second, first, nil
}

// recordFailure marks the transaction FAILED and keeps it as a durable
// failure record. Domain errors detected under lock (a raced sufficiency
// check, a card blocked mid-flight) propagate as themselves; anything else is
// wrapped as an execution failure. The guarded write never reopens a record
// that already reached a terminal status.
func (s *service) recordFailure(txn *models.Transaction, operation string, cause error) error {
	saveErr := s.store.Transactions().UpdateStatusIfPending(txn, models.TransactionStatusFailed)
	if saveErr != nil && !stderrors.Is(saveErr, repositories.ErrTransactionNotPending) {
		log.Printf("failed to record %s failure for %s: %v", operation, txn.TransactionID, saveErr)
	}
	s.metrics.RecordError(operation, errType(cause))

	var domainErr *domainerrors.DomainError
	if stderrors.As(cause, &domainErr) {
		return domainErr
	}
	return domainerrors.ErrTransferFailed.WithCause(cause)
}

func (s *service) invalidateCards(ctx context.Context, cardIDs ...uint) {
	if s.cache == nil {
		return
	}
	for _, id := range cardIDs {
		if err := s.cache.InvalidateCard(ctx, id); err != nil {
			log.Printf("failed to invalidate card %d cache: %v", id, err)
		}
	}
}

func insufficientFundsError(card *models.Card, required decimal.Decimal) error {
	return domainerrors.ErrInsufficientFunds.WithMessage(
		"insufficient funds: required %s, available %s",
		required.StringFixed(2), ledger.AvailableFunds(card).StringFixed(2))
}

func errType(err error) string {
	var domainErr *domainerrors.DomainError
	if stderrors.As(err, &domainErr) {
		return strings.ToLower(domainErr.Code)
	}
	return "internal"
}

// generateTransactionID produces the externally visible identifier, e.g.
// TXN9F8E2C41A07B5D63.
func generateTransactionID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN" + strings.ToUpper(raw[:16])
}
