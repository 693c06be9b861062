package ledger

import (
	"context"

	"github.com/crewpay/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the ledger repositories.
// Every mutation runs "append event + recompute + persist balance" as one
// atomic unit inside a scope: if the function returns an error the whole
// unit is rolled back, so a stored event can never be paired with a
// partially-written balance.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories within
// a transaction. Both repositories share the same underlying transaction.
type TransactionalRepositories interface {
	// EventRepo returns the ledger event repository scoped to the current transaction
	EventRepo() ledger.EventRepository
	// AccountRepo returns the account repository scoped to the current transaction
	AccountRepo() ledger.AccountRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests over in-memory repositories.
type NoOpTransactionScope struct {
	eventRepo   ledger.EventRepository
	accountRepo ledger.AccountRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(eventRepo ledger.EventRepository, accountRepo ledger.AccountRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		eventRepo:   eventRepo,
		accountRepo: accountRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// EventRepo returns the ledger event repository.
func (s *NoOpTransactionScope) EventRepo() ledger.EventRepository {
	return s.eventRepo
}

// AccountRepo returns the account repository.
func (s *NoOpTransactionScope) AccountRepo() ledger.AccountRepository {
	return s.accountRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
