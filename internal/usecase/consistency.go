package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/txengine/internal/domain"
)

// ConsistencyReport is the result of a full-state invariant check.
type ConsistencyReport struct {
	Consistent   bool     `json:"consistent"`
	Accounts     int      `json:"accounts"`
	Transactions int      `json:"transactions"`
	Violations   []string `json:"violations,omitempty"`
}

// CheckConsistency verifies the funds-conservation invariants over the
// current state: no negative balances, derived totals, and every disputed
// transaction's amount covered exactly by its owner's held balance. It is
// meant to run when no records are in flight.
func (uc *ProcessorUseCase) CheckConsistency() ConsistencyReport {
	report := ConsistencyReport{Consistent: true}

	heldByClient := make(map[uint16]decimal.Decimal)
	snaps := uc.accounts.Snapshots()
	report.Accounts = len(snaps)
	for _, snap := range snaps {
		if snap.Available.IsNegative() {
			report.Violations = append(report.Violations,
				fmt.Sprintf("client %d: negative available balance %s", snap.ClientID, snap.Available))
		}
		if snap.Held.IsNegative() {
			report.Violations = append(report.Violations,
				fmt.Sprintf("client %d: negative held balance %s", snap.ClientID, snap.Held))
		}
		if !snap.Total.Equal(snap.Available.Add(snap.Held)) {
			report.Violations = append(report.Violations,
				fmt.Sprintf("client %d: total %s != available %s + held %s",
					snap.ClientID, snap.Total, snap.Available, snap.Held))
		}
		heldByClient[snap.ClientID] = snap.Held
	}

	disputedByClient := make(map[uint16]decimal.Decimal)
	txs := uc.ledger.Snapshot()
	report.Transactions = len(txs)
	for _, tx := range txs {
		if tx.State == domain.TxStateUnderDispute {
			disputedByClient[tx.ClientID] = disputedByClient[tx.ClientID].Add(tx.Amount)
		}
	}
	for clientID, disputed := range disputedByClient {
		held, ok := heldByClient[clientID]
		if !ok {
			report.Violations = append(report.Violations,
				fmt.Sprintf("client %d: disputed transactions but no account", clientID))
			continue
		}
		if !held.Equal(disputed) {
			report.Violations = append(report.Violations,
				fmt.Sprintf("client %d: held %s != disputed %s", clientID, held, disputed))
		}
	}
	for clientID, held := range heldByClient {
		if !held.IsZero() {
			if _, ok := disputedByClient[clientID]; !ok {
				report.Violations = append(report.Violations,
					fmt.Sprintf("client %d: held %s with no open dispute", clientID, held))
			}
		}
	}

	report.Consistent = len(report.Violations) == 0
	return report
}
