package usecase

import (
	"github.com/iho/txengine/internal/domain"
)

// AccountStore is the client-keyed account state. Implementations must
// support concurrent access across different clients without a global
// lock; the callbacks run under the client's serializer.
type AccountStore interface {
	// WithAccount runs fn under the client's serializer, creating the
	// account on first reference.
	WithAccount(clientID uint16, fn func(*domain.Account) error) error
	// WithExistingAccount is WithAccount without lazy creation; it
	// returns ErrAccountNotFound for an unknown client.
	WithExistingAccount(clientID uint16, fn func(*domain.Account) error) error
	// Snapshots returns all accounts, sorted by ascending client id.
	Snapshots() []domain.Snapshot
	Len() int
}

// TransactionLedger retains disputable transactions by id.
type TransactionLedger interface {
	// Record inserts a transaction; duplicate ids are rejected.
	Record(tx *domain.Transaction) error
	Lookup(txID uint32) (*domain.Transaction, bool)
	// SetState mutates the state field only; the caller is responsible
	// for holding the owning client's serializer and for having
	// validated the transition.
	SetState(txID uint32, state domain.TxState) error
	// Snapshot returns value copies of all retained transactions.
	Snapshot() []domain.Transaction
	Len() int
}

// IDGenerator generates unique IDs for audit events.
type IDGenerator interface {
	Generate() string
}
