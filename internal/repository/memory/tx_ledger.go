package memory

import (
	"sync"

	"github.com/iho/txengine/internal/domain"
)

const txShardCount = 64

type txShard struct {
	mu  sync.RWMutex
	txs map[uint32]*domain.Transaction
}

// TxLedger maps transaction ids to retained disputable transactions.
// Transactions are never deleted: a stale entry is what lets a replayed
// dispute or chargeback attempt be rejected.
//
// Mutable transaction state (State) is only read or written by a handler
// that holds the owning client's serializer; the shard locks here guard
// the map itself. Immutable fields (id, client, type, amount) are safe to
// read from any goroutine after Record publishes the pointer.
type TxLedger struct {
	shards [txShardCount]txShard
}

// NewTxLedger creates an empty transaction ledger.
func NewTxLedger() *TxLedger {
	l := &TxLedger{}
	for i := range l.shards {
		l.shards[i].txs = make(map[uint32]*domain.Transaction)
	}
	return l
}

func (l *TxLedger) shard(txID uint32) *txShard {
	return &l.shards[txID%txShardCount]
}

// Record inserts a new transaction. Duplicate ids are rejected, not
// overwritten.
func (l *TxLedger) Record(tx *domain.Transaction) error {
	sh := l.shard(tx.TxID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.txs[tx.TxID]; ok {
		return domain.ErrDuplicateTransaction
	}
	sh.txs[tx.TxID] = tx
	return nil
}

// Lookup returns the transaction for txID, if it was ever recorded.
func (l *TxLedger) Lookup(txID uint32) (*domain.Transaction, bool) {
	sh := l.shard(txID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	tx, ok := sh.txs[txID]
	return tx, ok
}

// SetState updates the dispute state of a recorded transaction. The caller
// must hold the owning client's serializer and have validated the
// transition.
func (l *TxLedger) SetState(txID uint32, state domain.TxState) error {
	tx, ok := l.Lookup(txID)
	if !ok {
		return domain.ErrTransactionNotFound
	}
	tx.State = state
	return nil
}

// Snapshot returns value copies of all retained transactions. State reads
// are only guaranteed stable when no handlers are running, which is when
// consistency checks happen.
func (l *TxLedger) Snapshot() []domain.Transaction {
	txs := make([]domain.Transaction, 0, l.Len())
	for i := range l.shards {
		sh := &l.shards[i]
		sh.mu.RLock()
		for _, tx := range sh.txs {
			txs = append(txs, *tx)
		}
		sh.mu.RUnlock()
	}
	return txs
}

// Len returns the number of retained transactions.
func (l *TxLedger) Len() int {
	n := 0
	for i := range l.shards {
		sh := &l.shards[i]
		sh.mu.RLock()
		n += len(sh.txs)
		sh.mu.RUnlock()
	}
	return n
}
