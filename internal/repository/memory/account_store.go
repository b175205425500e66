package memory

import (
	"sort"
	"sync"

	"github.com/iho/txengine/internal/domain"
)

const accountShardCount = 32

type accountEntry struct {
	// mu is the per-client serializer: every handler touching this
	// client's state runs under it, so one client's records apply in
	// arrival order while other clients proceed in parallel. Created
	// with the account, never removed.
	mu      sync.Mutex
	account *domain.Account
}

type accountShard struct {
	mu      sync.RWMutex
	entries map[uint16]*accountEntry
}

// AccountStore maps client ids to accounts. Insertion and lookup are
// guarded per shard, so unrelated clients never contend on a global lock.
type AccountStore struct {
	shards [accountShardCount]accountShard
}

// NewAccountStore creates an empty account store.
func NewAccountStore() *AccountStore {
	s := &AccountStore{}
	for i := range s.shards {
		s.shards[i].entries = make(map[uint16]*accountEntry)
	}
	return s
}

func (s *AccountStore) shard(clientID uint16) *accountShard {
	return &s.shards[clientID%accountShardCount]
}

func (s *AccountStore) getOrCreate(clientID uint16) *accountEntry {
	sh := s.shard(clientID)

	sh.mu.RLock()
	e, ok := sh.entries[clientID]
	sh.mu.RUnlock()
	if ok {
		return e
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if e, ok = sh.entries[clientID]; ok {
		return e
	}
	e = &accountEntry{account: domain.NewAccount(clientID)}
	sh.entries[clientID] = e
	return e
}

func (s *AccountStore) get(clientID uint16) (*accountEntry, bool) {
	sh := s.shard(clientID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	e, ok := sh.entries[clientID]
	return e, ok
}

// WithAccount runs fn against the client's account under its serializer,
// creating the account (zero balances, unlocked) on first reference.
func (s *AccountStore) WithAccount(clientID uint16, fn func(*domain.Account) error) error {
	e := s.getOrCreate(clientID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.account)
}

// WithExistingAccount runs fn against the client's account under its
// serializer, or returns ErrAccountNotFound if the client has never been
// seen.
func (s *AccountStore) WithExistingAccount(clientID uint16, fn func(*domain.Account) error) error {
	e, ok := s.get(clientID)
	if !ok {
		return domain.ErrAccountNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.account)
}

// Len returns the number of known accounts.
func (s *AccountStore) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.entries)
		sh.mu.RUnlock()
	}
	return n
}

// Snapshots returns a copy of every account, sorted by ascending client id.
// Each account is read under its serializer so no snapshot row is torn.
func (s *AccountStore) Snapshots() []domain.Snapshot {
	snaps := make([]domain.Snapshot, 0, s.Len())
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		entries := make([]*accountEntry, 0, len(sh.entries))
		for _, e := range sh.entries {
			entries = append(entries, e)
		}
		sh.mu.RUnlock()

		for _, e := range entries {
			e.mu.Lock()
			snaps = append(snaps, e.account.Snapshot())
			e.mu.Unlock()
		}
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].ClientID < snaps[j].ClientID
	})
	return snaps
}
