package ledger

import (
	"context"

	"github.com/negoce/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and are committed or
// rolled back atomically. A failed operation must leave no partial writes:
// no lot deduction without its operation, no operation without its movement.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all ledger repositories within
// a transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// LotRepo returns the lot repository scoped to the current transaction
	LotRepo() ledger.LotRepository
	// OperationRepo returns the operation repository scoped to the current transaction
	OperationRepo() ledger.OperationRepository
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() ledger.MovementRepository
	// SettingsRepo returns the settings repository scoped to the current transaction
	SettingsRepo() ledger.SettingsRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing or for backends without transaction
// support.
type NoOpTransactionScope struct {
	lotRepo       ledger.LotRepository
	operationRepo ledger.OperationRepository
	movementRepo  ledger.MovementRepository
	settingsRepo  ledger.SettingsRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	lotRepo ledger.LotRepository,
	operationRepo ledger.OperationRepository,
	movementRepo ledger.MovementRepository,
	settingsRepo ledger.SettingsRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		lotRepo:       lotRepo,
		operationRepo: operationRepo,
		movementRepo:  movementRepo,
		settingsRepo:  settingsRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LotRepo returns the lot repository.
func (s *NoOpTransactionScope) LotRepo() ledger.LotRepository {
	return s.lotRepo
}

// OperationRepo returns the operation repository.
func (s *NoOpTransactionScope) OperationRepo() ledger.OperationRepository {
	return s.operationRepo
}

// MovementRepo returns the movement repository.
func (s *NoOpTransactionScope) MovementRepo() ledger.MovementRepository {
	return s.movementRepo
}

// SettingsRepo returns the settings repository.
func (s *NoOpTransactionScope) SettingsRepo() ledger.SettingsRepository {
	return s.settingsRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
