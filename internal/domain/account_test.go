package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAccount_Deposit(t *testing.T) {
	tests := []struct {
		name          string
		locked        bool
		amount        string
		expectErr     error
		wantAvailable string
	}{
		{
			name:          "deposit to unlocked account",
			amount:        "100.5",
			wantAvailable: "100.5",
		},
		{
			name:      "deposit to locked account",
			locked:    true,
			amount:    "100",
			expectErr: ErrAccountLocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccount(1)
			acc.Locked = tt.locked

			err := acc.Deposit(dec(tt.amount))
			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("expected %v, got %v", tt.expectErr, err)
				}
				if !acc.Available.IsZero() {
					t.Errorf("balance changed on rejected deposit: %s", acc.Available)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !acc.Available.Equal(dec(tt.wantAvailable)) {
				t.Errorf("available = %s, want %s", acc.Available, tt.wantAvailable)
			}
		})
	}
}

func TestAccount_RevertDeposit(t *testing.T) {
	acc := NewAccount(1)
	if err := acc.Deposit(dec("70")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := acc.Deposit(dec("30")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	acc.RevertDeposit(dec("30"))
	if !acc.Available.Equal(dec("70")) {
		t.Errorf("available = %s, want 70", acc.Available)
	}
	if !acc.Held.IsZero() {
		t.Errorf("held = %s, want 0", acc.Held)
	}
}

func TestAccount_Withdraw(t *testing.T) {
	tests := []struct {
		name          string
		available     string
		locked        bool
		amount        string
		expectErr     error
		wantAvailable string
	}{
		{
			name:          "withdraw within balance",
			available:     "100",
			amount:        "40",
			wantAvailable: "60",
		},
		{
			name:          "withdraw exact balance",
			available:     "100",
			amount:        "100",
			wantAvailable: "0",
		},
		{
			name:      "withdraw more than balance",
			available: "100",
			amount:    "100.0001",
			expectErr: ErrInsufficientFundsOrLocked,
		},
		{
			name:      "withdraw from locked account",
			available: "100",
			locked:    true,
			amount:    "10",
			expectErr: ErrInsufficientFundsOrLocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccount(1)
			acc.Available = dec(tt.available)
			acc.Locked = tt.locked

			err := acc.Withdraw(dec(tt.amount))
			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("expected %v, got %v", tt.expectErr, err)
				}
				if !acc.Available.Equal(dec(tt.available)) {
					t.Errorf("balance changed on rejected withdrawal: %s", acc.Available)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !acc.Available.Equal(dec(tt.wantAvailable)) {
				t.Errorf("available = %s, want %s", acc.Available, tt.wantAvailable)
			}
		})
	}
}

func TestAccount_HoldFunds(t *testing.T) {
	t.Run("moves funds from available to held", func(t *testing.T) {
		acc := NewAccount(1)
		acc.Available = dec("150")

		if err := acc.HoldFunds(dec("100")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !acc.Available.Equal(dec("50")) || !acc.Held.Equal(dec("100")) {
			t.Errorf("available=%s held=%s, want 50/100", acc.Available, acc.Held)
		}
		if !acc.Total().Equal(dec("150")) {
			t.Errorf("total changed by hold: %s", acc.Total())
		}
	})

	t.Run("insufficient available funds", func(t *testing.T) {
		acc := NewAccount(1)
		acc.Available = dec("50")

		err := acc.HoldFunds(dec("100"))
		if !errors.Is(err, ErrInsufficientAvailableFunds) {
			t.Fatalf("expected ErrInsufficientAvailableFunds, got %v", err)
		}
		if !acc.Available.Equal(dec("50")) || !acc.Held.IsZero() {
			t.Errorf("partial application on failed hold: available=%s held=%s", acc.Available, acc.Held)
		}
	})

	t.Run("ignores lock flag", func(t *testing.T) {
		acc := NewAccount(1)
		acc.Available = dec("100")
		acc.Locked = true

		if err := acc.HoldFunds(dec("100")); err != nil {
			t.Fatalf("hold on locked account should succeed, got %v", err)
		}
	})
}

func TestAccount_ReleaseFunds(t *testing.T) {
	t.Run("moves funds from held to available", func(t *testing.T) {
		acc := NewAccount(1)
		acc.Held = dec("100")

		if err := acc.ReleaseFunds(dec("100")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !acc.Available.Equal(dec("100")) || !acc.Held.IsZero() {
			t.Errorf("available=%s held=%s, want 100/0", acc.Available, acc.Held)
		}
	})

	t.Run("insufficient held funds", func(t *testing.T) {
		acc := NewAccount(1)
		acc.Held = dec("50")

		err := acc.ReleaseFunds(dec("100"))
		if !errors.Is(err, ErrInsufficientHeldFunds) {
			t.Fatalf("expected ErrInsufficientHeldFunds, got %v", err)
		}
	})
}

func TestAccount_Chargeback(t *testing.T) {
	t.Run("removes held funds and locks", func(t *testing.T) {
		acc := NewAccount(1)
		acc.Available = dec("50")
		acc.Held = dec("100")

		if err := acc.Chargeback(dec("100")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !acc.Held.IsZero() {
			t.Errorf("held = %s, want 0", acc.Held)
		}
		if !acc.Available.Equal(dec("50")) {
			t.Errorf("available = %s, want 50", acc.Available)
		}
		if !acc.Locked {
			t.Error("account not locked after chargeback")
		}
	})

	t.Run("insufficient held funds leaves state unchanged", func(t *testing.T) {
		acc := NewAccount(1)
		acc.Held = dec("50")

		err := acc.Chargeback(dec("100"))
		if !errors.Is(err, ErrInsufficientHeldFunds) {
			t.Fatalf("expected ErrInsufficientHeldFunds, got %v", err)
		}
		if acc.Locked {
			t.Error("account locked by failed chargeback")
		}
		if !acc.Held.Equal(dec("50")) {
			t.Errorf("held changed on failed chargeback: %s", acc.Held)
		}
	})
}

func TestAccount_Snapshot(t *testing.T) {
	acc := NewAccount(7)
	acc.Available = dec("1.2345")
	acc.Held = dec("0.0005")

	snap := acc.Snapshot()
	if snap.ClientID != 7 {
		t.Errorf("client = %d, want 7", snap.ClientID)
	}
	if !snap.Total.Equal(dec("1.235")) {
		t.Errorf("total = %s, want 1.235", snap.Total)
	}
	if !snap.Total.Equal(snap.Available.Add(snap.Held)) {
		t.Error("total != available + held")
	}
}
