package domain

import "errors"

var (
	// Record validation errors
	ErrMissingAmount     = errors.New("amount is required for this record type")
	ErrNonPositiveAmount = errors.New("amount must be positive")

	// Account errors
	ErrAccountNotFound            = errors.New("account not found")
	ErrAccountLocked              = errors.New("account is locked")
	ErrInsufficientFundsOrLocked  = errors.New("insufficient funds or account locked")
	ErrInsufficientAvailableFunds = errors.New("insufficient available funds")
	ErrInsufficientHeldFunds      = errors.New("insufficient held funds")

	// Transaction errors
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrDuplicateTransaction    = errors.New("duplicate transaction id")
	ErrClientMismatch          = errors.New("transaction belongs to a different client")
	ErrNonDepositTransaction   = errors.New("only deposits can be disputed")
	ErrInvalidTransactionState = errors.New("transaction is not in a valid state for this operation")
)

// RejectReason is the short audit code for a business rejection.
type RejectReason string

const (
	ReasonMissingAmount        RejectReason = "missing_amount"
	ReasonNonPositiveAmount    RejectReason = "non_positive_amount"
	ReasonAccountLocked        RejectReason = "account_locked"
	ReasonInsufficientOrLocked RejectReason = "insufficient_funds_or_locked"
	ReasonTxNotFound           RejectReason = "transaction_not_found"
	ReasonDuplicateTx          RejectReason = "duplicate_transaction"
	ReasonClientMismatch       RejectReason = "client_mismatch"
	ReasonNonDepositTx         RejectReason = "non_deposit_transaction"
	ReasonInvalidState         RejectReason = "invalid_state"
	ReasonAccountNotFound      RejectReason = "account_not_found"
	ReasonInsufficientAvail    RejectReason = "insufficient_available_funds"
	ReasonInsufficientHeld     RejectReason = "insufficient_held_funds"
)

// ReasonForError maps a business error to its audit reason code.
func ReasonForError(err error) RejectReason {
	switch {
	case errors.Is(err, ErrMissingAmount):
		return ReasonMissingAmount
	case errors.Is(err, ErrNonPositiveAmount):
		return ReasonNonPositiveAmount
	case errors.Is(err, ErrAccountLocked):
		return ReasonAccountLocked
	case errors.Is(err, ErrInsufficientFundsOrLocked):
		return ReasonInsufficientOrLocked
	case errors.Is(err, ErrTransactionNotFound):
		return ReasonTxNotFound
	case errors.Is(err, ErrDuplicateTransaction):
		return ReasonDuplicateTx
	case errors.Is(err, ErrClientMismatch):
		return ReasonClientMismatch
	case errors.Is(err, ErrNonDepositTransaction):
		return ReasonNonDepositTx
	case errors.Is(err, ErrInvalidTransactionState):
		return ReasonInvalidState
	case errors.Is(err, ErrAccountNotFound):
		return ReasonAccountNotFound
	case errors.Is(err, ErrInsufficientAvailableFunds):
		return ReasonInsufficientAvail
	case errors.Is(err, ErrInsufficientHeldFunds):
		return ReasonInsufficientHeld
	default:
		return RejectReason("unknown")
	}
}
