package repositories

import "gorm.io/gorm"

// Store bundles the repositories behind a single handle so multi-entity
// units of work (a transfer touches two cards and a transaction record)
// can run in one database transaction.
type Store interface {
	Cards() CardRepository
	Transactions() TransactionRepository
	Users() UserRepository

	// ExecuteInTransaction runs fn against a Store bound to a single
	// database transaction. All writes commit together or not at all.
	ExecuteInTransaction(fn func(Store) error) error
}

type gormStore struct {
	db           *gorm.DB
	cards        CardRepository
	transactions TransactionRepository
	users        UserRepository
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:           db,
		cards:        NewCardRepository(db),
		transactions: NewTransactionRepository(db),
		users:        NewUserRepository(db),
	}
}

func (s *gormStore) Cards() CardRepository { return s.cards }

func (s *gormStore) Transactions() TransactionRepository { return s.transactions }

func (s *gormStore) Users() UserRepository { return s.users }

func (s *gormStore) ExecuteInTransaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
