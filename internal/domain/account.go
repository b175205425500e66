package domain

import (
	"github.com/shopspring/decimal"
)

// Account holds the balances for a single client. Available and held are
// never negative; total is always derived, never stored.
type Account struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount creates an unlocked account with zero balances.
func NewAccount(clientID uint16) *Account {
	return &Account{
		ClientID:  clientID,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns available + held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Deposit credits available funds.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}
	a.Available = a.Available.Add(amount)
	return nil
}

// RevertDeposit takes back funds credited by a deposit that could not be
// retained. The credit being undone happened earlier in the same
// operation, so the lock flag and the balance are not rechecked.
func (a *Account) RevertDeposit(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
}

// Withdraw debits available funds.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if a.Locked || a.Available.LessThan(amount) {
		return ErrInsufficientFundsOrLocked
	}
	a.Available = a.Available.Sub(amount)
	return nil
}

// HoldFunds moves amount from available to held. The lock flag is not
// checked: disputes on an already-locked account are still honored.
func (a *Account) HoldFunds(amount decimal.Decimal) error {
	if a.Available.LessThan(amount) {
		return ErrInsufficientAvailableFunds
	}
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
	return nil
}

// ReleaseFunds moves amount from held back to available.
func (a *Account) ReleaseFunds(amount decimal.Decimal) error {
	if a.Held.LessThan(amount) {
		return ErrInsufficientHeldFunds
	}
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
	return nil
}

// Chargeback removes amount from held and locks the account. This is the
// only operation that sets the lock, and the lock never reverts.
func (a *Account) Chargeback(amount decimal.Decimal) error {
	if a.Held.LessThan(amount) {
		return ErrInsufficientHeldFunds
	}
	a.Held = a.Held.Sub(amount)
	a.Locked = true
	return nil
}

// Snapshot is the reported view of an account.
type Snapshot struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Snapshot returns a point-in-time copy of the account state.
func (a *Account) Snapshot() Snapshot {
	return Snapshot{
		ClientID:  a.ClientID,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total(),
		Locked:    a.Locked,
	}
}
