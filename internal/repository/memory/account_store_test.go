package memory

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/txengine/internal/domain"
)

func TestAccountStore_WithAccount_CreatesLazily(t *testing.T) {
	store := NewAccountStore()

	err := store.WithAccount(1, func(acc *domain.Account) error {
		if acc.ClientID != 1 {
			t.Errorf("client = %d, want 1", acc.ClientID)
		}
		if !acc.Available.IsZero() || !acc.Held.IsZero() || acc.Locked {
			t.Error("new account is not zeroed and unlocked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("len = %d, want 1", store.Len())
	}

	// Second reference must see the same account.
	_ = store.WithAccount(1, func(acc *domain.Account) error {
		return acc.Deposit(decimal.NewFromInt(10))
	})
	_ = store.WithAccount(1, func(acc *domain.Account) error {
		if !acc.Available.Equal(decimal.NewFromInt(10)) {
			t.Errorf("available = %s, want 10", acc.Available)
		}
		return nil
	})
}

func TestAccountStore_WithExistingAccount(t *testing.T) {
	store := NewAccountStore()

	err := store.WithExistingAccount(9, func(*domain.Account) error { return nil })
	if err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	_ = store.WithAccount(9, func(*domain.Account) error { return nil })
	if err := store.WithExistingAccount(9, func(*domain.Account) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAccountStore_ConcurrentCreateAndDeposit(t *testing.T) {
	store := NewAccountStore()

	const clients = 100
	const depositsPerClient = 50

	var wg sync.WaitGroup
	for c := 0; c < clients; c++ {
		for d := 0; d < depositsPerClient; d++ {
			wg.Add(1)
			go func(clientID uint16) {
				defer wg.Done()
				_ = store.WithAccount(clientID, func(acc *domain.Account) error {
					return acc.Deposit(decimal.NewFromInt(1))
				})
			}(uint16(c))
		}
	}
	wg.Wait()

	if store.Len() != clients {
		t.Fatalf("len = %d, want %d", store.Len(), clients)
	}
	for _, snap := range store.Snapshots() {
		if !snap.Available.Equal(decimal.NewFromInt(depositsPerClient)) {
			t.Errorf("client %d available = %s, want %d", snap.ClientID, snap.Available, depositsPerClient)
		}
	}
}

func TestAccountStore_SnapshotsSorted(t *testing.T) {
	store := NewAccountStore()
	for _, id := range []uint16{500, 3, 65535, 0, 42} {
		_ = store.WithAccount(id, func(*domain.Account) error { return nil })
	}

	snaps := store.Snapshots()
	if len(snaps) != 5 {
		t.Fatalf("len = %d, want 5", len(snaps))
	}
	for i := 1; i < len(snaps); i++ {
		if snaps[i-1].ClientID >= snaps[i].ClientID {
			t.Fatalf("snapshots not sorted: %d before %d", snaps[i-1].ClientID, snaps[i].ClientID)
		}
	}
}

func TestAccountStore_EmptySnapshot(t *testing.T) {
	store := NewAccountStore()
	if snaps := store.Snapshots(); len(snaps) != 0 {
		t.Errorf("expected empty snapshot, got %d rows", len(snaps))
	}
}
