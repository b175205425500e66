package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RecordType identifies one of the five supported record types.
type RecordType string

const (
	RecordDeposit    RecordType = "deposit"
	RecordWithdrawal RecordType = "withdrawal"
	RecordDispute    RecordType = "dispute"
	RecordResolve    RecordType = "resolve"
	RecordChargeback RecordType = "chargeback"
)

// ParseRecordType parses a record type, case-insensitively.
func ParseRecordType(s string) (RecordType, error) {
	switch RecordType(strings.ToLower(strings.TrimSpace(s))) {
	case RecordDeposit:
		return RecordDeposit, nil
	case RecordWithdrawal:
		return RecordWithdrawal, nil
	case RecordDispute:
		return RecordDispute, nil
	case RecordResolve:
		return RecordResolve, nil
	case RecordChargeback:
		return RecordChargeback, nil
	default:
		return "", fmt.Errorf("unknown record type %q", s)
	}
}

// Record is one input record. Amount is nil for dispute/resolve/chargeback.
type Record struct {
	Type     RecordType
	ClientID uint16
	TxID     uint32
	Amount   *decimal.Decimal
}

// TxState is the dispute life-cycle state of a retained transaction.
// Transitions are monotonic: Normal -> UnderDispute -> {Normal, ChargedBack};
// ChargedBack is terminal.
type TxState string

const (
	TxStateNormal       TxState = "normal"
	TxStateUnderDispute TxState = "under_dispute"
	TxStateChargedBack  TxState = "charged_back"
)

// Transaction is a retained, disputable transaction. Amount is fixed at
// creation and never mutated; only deposits are recorded.
type Transaction struct {
	TxID     uint32
	ClientID uint16
	Type     RecordType
	Amount   decimal.Decimal
	State    TxState
}

// NewTransaction creates a retained transaction in the Normal state.
func NewTransaction(txID uint32, clientID uint16, recType RecordType, amount decimal.Decimal) *Transaction {
	return &Transaction{
		TxID:     txID,
		ClientID: clientID,
		Type:     recType,
		Amount:   amount,
		State:    TxStateNormal,
	}
}
