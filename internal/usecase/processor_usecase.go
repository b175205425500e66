package usecase

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/txengine/internal/domain"
	"github.com/iho/txengine/internal/infrastructure/metrics"
)

// ProcessorUseCase is the ledger engine: it routes each input record to a
// handler, enforces the funds-movement invariants and the dispute state
// machine, and mutates the account store and transaction ledger.
//
// Process is safe for concurrent use. All state for one client is touched
// under that client's serializer; dispute-family handlers only read a
// transaction's mutable state after the ownership check has passed, which
// means the serializer they hold is the owner's.
type ProcessorUseCase struct {
	accounts AccountStore
	ledger   TransactionLedger
	audit    domain.AuditSink
	idGen    IDGenerator
	runID    string
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// NewProcessorUseCase creates the engine. audit and metrics may be nil.
func NewProcessorUseCase(
	accounts AccountStore,
	ledger TransactionLedger,
	audit domain.AuditSink,
	idGen IDGenerator,
	runID string,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *ProcessorUseCase {
	return &ProcessorUseCase{
		accounts: accounts,
		ledger:   ledger,
		audit:    audit,
		idGen:    idGen,
		runID:    runID,
		logger:   logger,
		metrics:  m,
	}
}

// Process applies one record. A nil return means the record was accepted;
// a domain error means it was rejected as a business decision, already
// audited, with no effect on state or on subsequent records. Process
// never returns a fatal error: malformed input is rejected upstream.
func (uc *ProcessorUseCase) Process(rec domain.Record) error {
	start := time.Now()

	var err error
	switch rec.Type {
	case domain.RecordDeposit:
		err = uc.handleDeposit(rec)
	case domain.RecordWithdrawal:
		err = uc.handleWithdrawal(rec)
	case domain.RecordDispute:
		err = uc.handleDispute(rec)
	case domain.RecordResolve:
		err = uc.handleResolve(rec)
	case domain.RecordChargeback:
		err = uc.handleChargeback(rec)
	}

	uc.observe(rec, err, start)
	return err
}

func (uc *ProcessorUseCase) handleDeposit(rec domain.Record) error {
	amount, err := requireAmount(rec)
	if err != nil {
		return err
	}

	return uc.accounts.WithAccount(rec.ClientID, func(acc *domain.Account) error {
		if _, ok := uc.ledger.Lookup(rec.TxID); ok {
			return domain.ErrDuplicateTransaction
		}
		if err := acc.Deposit(amount); err != nil {
			return err
		}
		tx := domain.NewTransaction(rec.TxID, rec.ClientID, domain.RecordDeposit, amount)
		if err := uc.ledger.Record(tx); err != nil {
			// Lost the insert race to a concurrent deposit reusing
			// this id under another client's serializer.
			acc.RevertDeposit(amount)
			return err
		}
		return nil
	})
}

func (uc *ProcessorUseCase) handleWithdrawal(rec domain.Record) error {
	amount, err := requireAmount(rec)
	if err != nil {
		return err
	}

	// Withdrawals are never retained: applied or not, they cannot be
	// disputed.
	return uc.accounts.WithAccount(rec.ClientID, func(acc *domain.Account) error {
		return acc.Withdraw(amount)
	})
}

func (uc *ProcessorUseCase) handleDispute(rec domain.Record) error {
	tx, err := uc.referencedTransaction(rec)
	if err != nil {
		return err
	}
	if tx.Type != domain.RecordDeposit {
		return domain.ErrNonDepositTransaction
	}

	return uc.accounts.WithExistingAccount(rec.ClientID, func(acc *domain.Account) error {
		if tx.State != domain.TxStateNormal {
			return domain.ErrInvalidTransactionState
		}
		if err := acc.HoldFunds(tx.Amount); err != nil {
			return err
		}
		if uc.metrics != nil {
			uc.metrics.DisputesOpened.Inc()
		}
		return uc.ledger.SetState(tx.TxID, domain.TxStateUnderDispute)
	})
}

func (uc *ProcessorUseCase) handleResolve(rec domain.Record) error {
	tx, err := uc.referencedTransaction(rec)
	if err != nil {
		return err
	}

	return uc.accounts.WithExistingAccount(rec.ClientID, func(acc *domain.Account) error {
		if tx.State != domain.TxStateUnderDispute {
			return domain.ErrInvalidTransactionState
		}
		if err := acc.ReleaseFunds(tx.Amount); err != nil {
			return err
		}
		if uc.metrics != nil {
			uc.metrics.DisputesResolved.Inc()
		}
		return uc.ledger.SetState(tx.TxID, domain.TxStateNormal)
	})
}

func (uc *ProcessorUseCase) handleChargeback(rec domain.Record) error {
	tx, err := uc.referencedTransaction(rec)
	if err != nil {
		return err
	}

	return uc.accounts.WithExistingAccount(rec.ClientID, func(acc *domain.Account) error {
		if tx.State != domain.TxStateUnderDispute {
			return domain.ErrInvalidTransactionState
		}
		if err := acc.Chargeback(tx.Amount); err != nil {
			return err
		}
		if uc.metrics != nil {
			uc.metrics.Chargebacks.Inc()
			uc.metrics.AccountsLocked.Inc()
		}
		return uc.ledger.SetState(tx.TxID, domain.TxStateChargedBack)
	})
}

// referencedTransaction resolves the transaction a dispute/resolve/
// chargeback record points at and verifies ownership. Only immutable
// fields are read here; state is checked by the caller under the owner's
// serializer.
func (uc *ProcessorUseCase) referencedTransaction(rec domain.Record) (*domain.Transaction, error) {
	tx, ok := uc.ledger.Lookup(rec.TxID)
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	if tx.ClientID != rec.ClientID {
		return nil, domain.ErrClientMismatch
	}
	return tx, nil
}

func requireAmount(rec domain.Record) (decimal.Decimal, error) {
	if rec.Amount == nil {
		return decimal.Zero, domain.ErrMissingAmount
	}
	if rec.Amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.ErrNonPositiveAmount
	}
	return *rec.Amount, nil
}

func (uc *ProcessorUseCase) observe(rec domain.Record, err error, start time.Time) {
	status := domain.AuditStatusAccepted
	var reason domain.RejectReason
	if err != nil {
		status = domain.AuditStatusRejected
		reason = domain.ReasonForError(err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordsProcessed.WithLabelValues(string(rec.Type), string(status)).Inc()
		if err != nil {
			uc.metrics.Rejections.WithLabelValues(string(reason)).Inc()
		}
		uc.metrics.RecordDuration.WithLabelValues(string(rec.Type)).Observe(time.Since(start).Seconds())
		uc.metrics.AccountsKnown.Set(float64(uc.accounts.Len()))
		uc.metrics.TransactionsRetained.Set(float64(uc.ledger.Len()))
	}

	if uc.audit != nil {
		event := domain.AuditEvent{
			ID:       uc.idGen.Generate(),
			RunID:    uc.runID,
			At:       time.Now(),
			Type:     rec.Type,
			ClientID: rec.ClientID,
			TxID:     rec.TxID,
			Status:   status,
			Reason:   reason,
		}
		if rec.Amount != nil {
			event.Amount = rec.Amount.String()
		}
		uc.audit.Record(event)
	}

	if err != nil {
		uc.logger.Debug().
			Str("type", string(rec.Type)).
			Uint16("client", rec.ClientID).
			Uint32("tx", rec.TxID).
			Str("reason", string(reason)).
			Msg("record rejected")
	}
}

// Snapshots returns all account states, sorted by ascending client id.
func (uc *ProcessorUseCase) Snapshots() []domain.Snapshot {
	return uc.accounts.Snapshots()
}

// Snapshot returns one client's account state.
func (uc *ProcessorUseCase) Snapshot(clientID uint16) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := uc.accounts.WithExistingAccount(clientID, func(acc *domain.Account) error {
		snap = acc.Snapshot()
		return nil
	})
	return snap, err
}
