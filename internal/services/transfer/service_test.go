package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "bankcards/internal/errors"
	"bankcards/internal/models"
	"bankcards/internal/repositories"
	"bankcards/internal/services/ledger"
	"bankcards/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeData backs the in-memory store. Repositories hand out copies the way
// the database does, so mutations only land through Update/Save.
type fakeData struct {
	cards      map[uint]*models.Card
	txns       map[uint]*models.Transaction
	users      map[uint]*models.User
	nextCardID uint
	nextTxnID  uint

	failCardUpdate bool
	statusConflict bool
}

func newFakeData() *fakeData {
	return &fakeData{
		cards: make(map[uint]*models.Card),
		txns:  make(map[uint]*models.Transaction),
		users: make(map[uint]*models.User),
	}
}

func (d *fakeData) clone() *fakeData {
	out := newFakeData()
	out.nextCardID = d.nextCardID
	out.nextTxnID = d.nextTxnID
	out.failCardUpdate = d.failCardUpdate
	out.statusConflict = d.statusConflict
	for id, c := range d.cards {
		cc := *c
		out.cards[id] = &cc
	}
	for id, t := range d.txns {
		tt := *t
		out.txns[id] = &tt
	}
	for id, u := range d.users {
		uu := *u
		out.users[id] = &uu
	}
	return out
}

type fakeStore struct {
	data *fakeData
}

func (s *fakeStore) Cards() repositories.CardRepository { return &fakeCardRepo{s.data} }

func (s *fakeStore) Transactions() repositories.TransactionRepository {
	return &fakeTxnRepo{s.data}
}

func (s *fakeStore) Users() repositories.UserRepository { return &fakeUserRepo{s.data} }

func (s *fakeStore) ExecuteInTransaction(fn func(repositories.Store) error) error {
	snapshot := s.data.clone()
	if err := fn(s); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

type fakeCardRepo struct {
	data *fakeData
}

func (r *fakeCardRepo) Create(card *models.Card) error {
	r.data.nextCardID++
	card.ID = r.data.nextCardID
	cc := *card
	r.data.cards[card.ID] = &cc
	return nil
}

func (r *fakeCardRepo) GetByID(id uint) (*models.Card, error) {
	card, ok := r.data.cards[id]
	if !ok {
		return nil, repositories.ErrCardNotFound
	}
	cc := *card
	return &cc, nil
}

func (r *fakeCardRepo) GetByIDForUpdate(id uint) (*models.Card, error) {
	return r.GetByID(id)
}

func (r *fakeCardRepo) GetByNumberHash(hash string) (*models.Card, error) {
	for _, card := range r.data.cards {
		if card.CardNumberHash == hash {
			cc := *card
			return &cc, nil
		}
	}
	return nil, repositories.ErrCardNotFound
}

func (r *fakeCardRepo) GetByUserID(userID uint) ([]models.Card, error) {
	var out []models.Card
	for _, card := range r.data.cards {
		if card.UserID == userID {
			out = append(out, *card)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) GetActiveByUserID(userID uint) ([]models.Card, error) {
	var out []models.Card
	for _, card := range r.data.cards {
		if card.UserID == userID && card.Active {
			out = append(out, *card)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) Search(userID uint, filter repositories.CardFilter, limit, offset int) ([]models.Card, int64, error) {
	cards, _ := r.GetByUserID(userID)
	return cards, int64(len(cards)), nil
}

func (r *fakeCardRepo) Update(card *models.Card) error {
	if r.data.failCardUpdate {
		return errors.New("connection reset by peer")
	}
	cc := *card
	r.data.cards[card.ID] = &cc
	return nil
}

func (r *fakeCardRepo) GetTotalBalance(userID uint) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, card := range r.data.cards {
		if card.UserID == userID {
			total = total.Add(card.Balance)
		}
	}
	return total, nil
}

type fakeTxnRepo struct {
	data *fakeData
}

func (r *fakeTxnRepo) Create(txn *models.Transaction) error {
	r.data.nextTxnID++
	txn.ID = r.data.nextTxnID
	tt := *txn
	r.data.txns[txn.ID] = &tt
	return nil
}

func (r *fakeTxnRepo) UpdateStatusIfPending(txn *models.Transaction, status string) error {
	if r.data.statusConflict {
		return repositories.ErrTransactionNotPending
	}
	stored, ok := r.data.txns[txn.ID]
	if !ok || stored.Status != models.TransactionStatusPending {
		return repositories.ErrTransactionNotPending
	}
	stored.Status = status
	txn.Status = status
	return nil
}

func (r *fakeTxnRepo) GetByID(id uint) (*models.Transaction, error) {
	txn, ok := r.data.txns[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	tt := *txn
	return &tt, nil
}

func (r *fakeTxnRepo) GetByTransactionID(transactionID string) (*models.Transaction, error) {
	for _, txn := range r.data.txns {
		if txn.TransactionID == transactionID {
			tt := *txn
			return &tt, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (r *fakeTxnRepo) GetAllForUser(userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	var out []models.Transaction
	for _, txn := range r.data.txns {
		if r.ownsCard(userID, txn.FromCardID) || r.ownsCard(userID, &txn.ToCardID) {
			out = append(out, *txn)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTxnRepo) ownsCard(userID uint, cardID *uint) bool {
	if cardID == nil {
		return false
	}
	card, ok := r.data.cards[*cardID]
	return ok && card.UserID == userID
}

type fakeUserRepo struct {
	data *fakeData
}

func (r *fakeUserRepo) Create(user *models.User) error {
	uu := *user
	r.data.users[user.ID] = &uu
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := r.data.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	uu := *user
	return &uu, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.data.users {
		if user.Email == email {
			uu := *user
			return &uu, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) List(limit, offset int) ([]models.User, int64, error) {
	var out []models.User
	for _, user := range r.data.users {
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	uu := *user
	r.data.users[user.ID] = &uu
	return nil
}

func (r *fakeUserRepo) IncrementTokenVersion(userID uint) error {
	user, ok := r.data.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.TokenVersion++
	return nil
}

type env struct {
	data  *fakeData
	store *fakeStore
	svc   Service
}

func newEnv(t *testing.T, config Config) *env {
	t.Helper()
	data := newFakeData()
	store := &fakeStore{data: data}
	return &env{
		data:  data,
		store: store,
		svc:   NewService(store, nil, config, nil),
	}
}

func (e *env) addCard(userID uint, cardType, number, balance, creditLimit string) *models.Card {
	card := &models.Card{
		CardNumber:     "enc:" + number,
		CardNumberHash: utils.HashCardNumber(number),
		CardHolderName: "Test Holder",
		CardType:       cardType,
		Currency:       "USD",
		Balance:        dec(balance),
		CreditLimit:    dec(creditLimit),
		Active:         true,
		ExpiryDate:     time.Now().AddDate(4, 0, 0),
		UserID:         userID,
	}
	if err := (&fakeCardRepo{e.data}).Create(card); err != nil {
		panic(err)
	}
	return card
}

func (e *env) cardBalance(id uint) decimal.Decimal {
	return e.data.cards[id].Balance
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTransferDebitToDebit(t *testing.T) {
	e := newEnv(t, Config{})
	from := e.addCard(1, models.CardTypeDebit, "4000000000000001", "1000.00", "0")
	to := e.addCard(2, models.CardTypeDebit, "4000000000000002", "50.00", "0")

	txn, err := e.svc.Transfer(context.Background(), TransferRequest{
		FromCardID:   from.ID,
		ToCardNumber: "4000000000000002",
		Amount:       dec("100.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
	assert.Equal(t, models.TransactionTypeTransfer, txn.Type)
	assert.Equal(t, DefaultTransferDescription, txn.Description)
	require.NotNil(t, txn.FromCardID)
	assert.Equal(t, from.ID, *txn.FromCardID)
	assert.Equal(t, to.ID, txn.ToCardID)
	assert.True(t, dec("1.00").Equal(txn.Commission), "got commission %s", txn.Commission)
	assert.True(t, dec("101.00").Equal(txn.TotalAmount()))

	// Source loses principal plus commission, destination gains the principal.
	assert.True(t, dec("899.00").Equal(e.cardBalance(from.ID)), "got %s", e.cardBalance(from.ID))
	assert.True(t, dec("150.00").Equal(e.cardBalance(to.ID)), "got %s", e.cardBalance(to.ID))

	stored, err := e.store.Transactions().GetByID(txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, stored.Status)
	assert.Contains(t, stored.TransactionID, "TXN")
}

func TestTransferInsufficientFunds(t *testing.T) {
	e := newEnv(t, Config{})
	from := e.addCard(1, models.CardTypeDebit, "4000000000000001", "100.00", "0")
	to := e.addCard(2, models.CardTypeDebit, "4000000000000002", "0.00", "0")

	// 100.00 principal + 1.00 commission exceeds the 100.00 balance.
	_, err := e.svc.Transfer(context.Background(), TransferRequest{
		FromCardID:   from.ID,
		ToCardNumber: "4000000000000002",
		Amount:       dec("100.00"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)

	assert.True(t, dec("100.00").Equal(e.cardBalance(from.ID)))
	assert.True(t, dec("0.00").Equal(e.cardBalance(to.ID)))
	assert.Empty(t, e.data.txns, "a rejected transfer must leave no record")
}

func TestTransferFromCreditCard(t *testing.T) {
	e := newEnv(t, Config{})
	from := e.addCard(1, models.CardTypeCredit, "5100000000000001", "0.00", "1000.00")
	to := e.addCard(2, models.CardTypeDebit, "4000000000000002", "0.00", "0")

	txn, err := e.svc.Transfer(context.Background(), TransferRequest{
		FromCardID:   from.ID,
		ToCardNumber: "4000000000000002",
		Amount:       dec("500.00"),
	})
	require.NoError(t, err)

	assert.True(t, dec("5.00").Equal(txn.Commission))
	assert.True(t, dec("-505.00").Equal(e.cardBalance(from.ID)), "got %s", e.cardBalance(from.ID))
	assert.True(t, dec("500.00").Equal(e.cardBalance(to.ID)))
	assert.True(t, dec("495.00").Equal(ledger.AvailableFunds(e.data.cards[from.ID])))
}

func TestTransferSameCardRejected(t *testing.T) {
	e := newEnv(t, Config{})
	card := e.addCard(1, models.CardTypeDebit, "4000000000000001", "1000.00", "0")

	_, err := e.svc.Transfer(context.Background(), TransferRequest{
		FromCardID:   card.ID,
		ToCardNumber: "4000000000000001",
		Amount:       dec("10.00"),
	})
	assert.ErrorIs(t, err, domainerrors.ErrSameCardTransfer)
	assert.True(t, dec("1000.00").Equal(e.cardBalance(card.ID)))
}

func TestTransferInvalidCards(t *testing.T) {
	t.Run("blocked source card", func(t *testing.T) {
		e := newEnv(t, Config{})
		from := e.addCard(1, models.CardTypeDebit, "4000000000000001", "1000.00", "0")
		e.addCard(2, models.CardTypeDebit, "4000000000000002", "0.00", "0")
		e.data.cards[from.ID].Blocked = true

		_, err := e.svc.Transfer(context.Background(), TransferRequest{
			FromCardID:   from.ID,
			ToCardNumber: "4000000000000002",
			Amount:       dec("10.00"),
		})
		assert.ErrorIs(t, err, domainerrors.ErrCardInvalid)
	})

	t.Run("expired destination card", func(t *testing.T) {
		e := newEnv(t, Config{})
		from := e.addCard(1, models.CardTypeDebit, "4000000000000001", "1000.00", "0")
		to := e.addCard(2, models.CardTypeDebit, "4000000000000002", "0.00", "0")
		e.data.cards[to.ID].ExpiryDate = time.Now().AddDate(0, 0, -30)

		_, err := e.svc.Transfer(context.Background(), TransferRequest{
			FromCardID:   from.ID,
			ToCardNumber: "4000000000000002",
			Amount:       dec("10.00"),
		})
		assert.ErrorIs(t, err, domainerrors.ErrCardInvalid)
	})

	t.Run("unknown source card", func(t *testing.T) {
		e := newEnv(t, Config{})
		e.addCard(2, models.CardTypeDebit, "4000000000000002", "0.00", "0")

		_, err := e.svc.Transfer(context.Background(), TransferRequest{
			FromCardID:   999,
			ToCardNumber: "4000000000000002",
			Amount:       dec("10.00"),
		})
		assert.ErrorIs(t, err, domainerrors.ErrCardNotFound)
	})
}

func TestTransferInvalidAmount(t *testing.T) {
	e := newEnv(t, Config{})
	from := e.addCard(1, models.CardTypeDebit, "4000000000000001", "1000.00", "0")
	e.addCard(2, models.CardTypeDebit, "4000000000000002", "0.00", "0")

	for _, amount := range []string{"0", "-5.00", "0.001"} {
		_, err := e.svc.Transfer(context.Background(), TransferRequest{
			FromCardID:   from.ID,
			ToCardNumber: "4000000000000002",
			Amount:       dec(amount),
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount, "amount %s", amount)
	}
}

func TestCommissionRoundsHalfUp(t *testing.T) {
	e := newEnv(t, Config{CommissionRate: dec("0.015")})
	from := e.addCard(1, models.CardTypeDebit, "4000000000000001", "1000.00", "0")
	e.addCard(2, models.CardTypeDebit, "4000000000000002", "0.00", "0")

	// 1.00 * 0.015 = 0.015, which rounds half-up to 0.02.
	txn, err := e.svc.Transfer(context.Background(), TransferRequest{
		FromCardID:   from.ID,
		ToCardNumber: "4000000000000002",
		Amount:       dec("1.00"),
	})
	require.NoError(t, err)
	assert.True(t, dec("0.02").Equal(txn.Commission), "got %s", txn.Commission)
	assert.True(t, dec("998.98").Equal(e.cardBalance(from.ID)))
}

func TestTransferBetweenOwnCards(t *testing.T) {
	t.Run("moves funds between the user's cards", func(t *testing.T) {
		e := newEnv(t, Config{})
		from := e.addCard(1, models.CardTypeDebit, "4000000000000001", "300.00", "0")
		to := e.addCard(1, models.CardTypeDebit, "4000000000000002", "0.00", "0")

		txn, err := e.svc.TransferBetweenOwnCards(context.Background(), OwnCardsTransferRequest{
			FromCardID:  from.ID,
			ToCardID:    to.ID,
			Amount:      dec("200.00"),
			Description: "Savings top-up",
			UserID:      1,
		})
		require.NoError(t, err)
		assert.Equal(t, "Savings top-up", txn.Description)
		assert.True(t, dec("98.00").Equal(e.cardBalance(from.ID)))
		assert.True(t, dec("200.00").Equal(e.cardBalance(to.ID)))
	})

	t.Run("rejects a card owned by someone else", func(t *testing.T) {
		e := newEnv(t, Config{})
		from := e.addCard(1, models.CardTypeDebit, "4000000000000001", "300.00", "0")
		to := e.addCard(2, models.CardTypeDebit, "4000000000000002", "0.00", "0")

		_, err := e.svc.TransferBetweenOwnCards(context.Background(), OwnCardsTransferRequest{
			FromCardID: from.ID,
			ToCardID:   to.ID,
			Amount:     dec("50.00"),
			UserID:     1,
		})
		assert.ErrorIs(t, err, domainerrors.ErrOwnershipViolation)
		assert.True(t, dec("300.00").Equal(e.cardBalance(from.ID)))
	})
}

func TestTransferExecutionFailureLeavesFailedRecord(t *testing.T) {
	e := newEnv(t, Config{})
	from := e.addCard(1, models.CardTypeDebit, "4000000000000001", "1000.00", "0")
	e.addCard(2, models.CardTypeDebit, "4000000000000002", "0.00", "0")
	e.data.failCardUpdate = true

	_, err := e.svc.Transfer(context.Background(), TransferRequest{
		FromCardID:   from.ID,
		ToCardNumber: "4000000000000002",
		Amount:       dec("100.00"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrTransferFailed)

	// Balances roll back, and exactly one FAILED record remains.
	e.data.failCardUpdate = false
	assert.True(t, dec("1000.00").Equal(e.cardBalance(from.ID)))
	require.Len(t, e.data.txns, 1)
	for _, txn := range e.data.txns {
		assert.Equal(t, models.TransactionStatusFailed, txn.Status)
	}
}

func TestTransferRacingCancelIsNotOverwritten(t *testing.T) {
	e := newEnv(t, Config{})
	from := e.addCard(1, models.CardTypeDebit, "4000000000000001", "1000.00", "0")
	e.addCard(2, models.CardTypeDebit, "4000000000000002", "0.00", "0")

	// A concurrent cancel reaches the record between the PENDING insert and
	// the commit, so the guarded completion write finds it no longer pending.
	e.data.statusConflict = true

	_, err := e.svc.Transfer(context.Background(), TransferRequest{
		FromCardID:   from.ID,
		ToCardNumber: "4000000000000002",
		Amount:       dec("100.00"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOperation)

	// Balances roll back, and the record's terminal status is left alone:
	// it must not be flipped to COMPLETED or FAILED.
	assert.True(t, dec("1000.00").Equal(e.cardBalance(from.ID)))
	require.Len(t, e.data.txns, 1)
	for _, txn := range e.data.txns {
		assert.NotEqual(t, models.TransactionStatusCompleted, txn.Status)
		assert.NotEqual(t, models.TransactionStatusFailed, txn.Status)
	}
}

func TestDeposit(t *testing.T) {
	t.Run("credits the card with zero commission", func(t *testing.T) {
		e := newEnv(t, Config{})
		card := e.addCard(1, models.CardTypeDebit, "4000000000000001", "10.00", "0")

		txn, err := e.svc.Deposit(context.Background(), card.ID, dec("90.00"))
		require.NoError(t, err)

		assert.Equal(t, models.TransactionTypeDeposit, txn.Type)
		assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
		assert.Equal(t, DepositDescription, txn.Description)
		assert.Nil(t, txn.FromCardID)
		assert.True(t, txn.Commission.IsZero())
		assert.True(t, dec("100.00").Equal(e.cardBalance(card.ID)))
	})

	t.Run("accepts a blocked card", func(t *testing.T) {
		e := newEnv(t, Config{})
		card := e.addCard(1, models.CardTypeDebit, "4000000000000001", "0.00", "0")
		e.data.cards[card.ID].Blocked = true

		_, err := e.svc.Deposit(context.Background(), card.ID, dec("25.00"))
		require.NoError(t, err)
		assert.True(t, dec("25.00").Equal(e.cardBalance(card.ID)))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		e := newEnv(t, Config{})
		card := e.addCard(1, models.CardTypeDebit, "4000000000000001", "0.00", "0")

		_, err := e.svc.Deposit(context.Background(), card.ID, dec("0"))
		assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
	})
}

func TestCancel(t *testing.T) {
	pendingTxn := func(t *testing.T, e *env) *models.Transaction {
		t.Helper()
		txn := &models.Transaction{
			TransactionID: "TXN00000000000000AB",
			Amount:        dec("10.00"),
			Type:          models.TransactionTypeTransfer,
			Status:        models.TransactionStatusPending,
			ToCardID:      1,
		}
		require.NoError(t, e.store.Transactions().Create(txn))
		return txn
	}

	t.Run("cancels a pending transaction", func(t *testing.T) {
		e := newEnv(t, Config{})
		txn := pendingTxn(t, e)

		cancelled, err := e.svc.Cancel(context.Background(), txn.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCancelled, cancelled.Status)

		stored, err := e.store.Transactions().GetByID(txn.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCancelled, stored.Status)
	})

	t.Run("rejects a second cancellation", func(t *testing.T) {
		e := newEnv(t, Config{})
		txn := pendingTxn(t, e)

		_, err := e.svc.Cancel(context.Background(), txn.ID)
		require.NoError(t, err)
		_, err = e.svc.Cancel(context.Background(), txn.ID)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidOperation)
	})

	t.Run("rejects a completed transaction", func(t *testing.T) {
		e := newEnv(t, Config{})
		from := e.addCard(1, models.CardTypeDebit, "4000000000000001", "1000.00", "0")
		e.addCard(2, models.CardTypeDebit, "4000000000000002", "0.00", "0")

		txn, err := e.svc.Transfer(context.Background(), TransferRequest{
			FromCardID:   from.ID,
			ToCardNumber: "4000000000000002",
			Amount:       dec("10.00"),
		})
		require.NoError(t, err)

		_, err = e.svc.Cancel(context.Background(), txn.ID)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidOperation)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		e := newEnv(t, Config{})
		_, err := e.svc.Cancel(context.Background(), 404)
		assert.ErrorIs(t, err, domainerrors.ErrTransactionNotFound)
	})
}
