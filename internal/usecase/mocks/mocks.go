package mocks

import (
	"strconv"
	"sync"

	"github.com/iho/txengine/internal/domain"
)

// MockAuditSink is a mock implementation of domain.AuditSink that records
// every event it receives.
type MockAuditSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent

	RecordFunc func(event domain.AuditEvent)
	CloseFunc  func() error
}

func NewMockAuditSink() *MockAuditSink {
	return &MockAuditSink{}
}

func (m *MockAuditSink) Record(event domain.AuditEvent) {
	if m.RecordFunc != nil {
		m.RecordFunc(event)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockAuditSink) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Events returns a copy of the recorded events.
func (m *MockAuditSink) Events() []domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockTransactionLedger is a mock implementation of
// usecase.TransactionLedger. Unset funcs return zero values, so a fresh
// mock behaves like an empty ledger that rejects nothing.
type MockTransactionLedger struct {
	RecordFunc   func(tx *domain.Transaction) error
	LookupFunc   func(txID uint32) (*domain.Transaction, bool)
	SetStateFunc func(txID uint32, state domain.TxState) error
	SnapshotFunc func() []domain.Transaction
	LenFunc      func() int
}

func NewMockTransactionLedger() *MockTransactionLedger {
	return &MockTransactionLedger{}
}

func (m *MockTransactionLedger) Record(tx *domain.Transaction) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(tx)
	}
	return nil
}

func (m *MockTransactionLedger) Lookup(txID uint32) (*domain.Transaction, bool) {
	if m.LookupFunc != nil {
		return m.LookupFunc(txID)
	}
	return nil, false
}

func (m *MockTransactionLedger) SetState(txID uint32, state domain.TxState) error {
	if m.SetStateFunc != nil {
		return m.SetStateFunc(txID, state)
	}
	return nil
}

func (m *MockTransactionLedger) Snapshot() []domain.Transaction {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return nil
}

func (m *MockTransactionLedger) Len() int {
	if m.LenFunc != nil {
		return m.LenFunc()
	}
	return 0
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu sync.Mutex
	n  int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return "id-" + strconv.Itoa(m.n)
}
