package csvio

import (
	"strings"
	"testing"

	"github.com/iho/txengine/internal/domain"
)

func collect(t *testing.T, input string) ([]domain.Record, error) {
	t.Helper()
	var recs []domain.Record
	err := NewReader(strings.NewReader(input)).Each(func(rec domain.Record) error {
		recs = append(recs, rec)
		return nil
	})
	return recs, err
}

func TestReader_ParsesRecords(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,100.1234
withdrawal, 1, 2, 50
dispute,1,1,
resolve,1,1,
chargeback,1,1,
`
	recs, err := collect(t, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("got %d records, want 5", len(recs))
	}

	if recs[0].Type != domain.RecordDeposit || recs[0].ClientID != 1 || recs[0].TxID != 1 {
		t.Errorf("record 0 = %+v", recs[0])
	}
	if recs[0].Amount == nil || recs[0].Amount.String() != "100.1234" {
		t.Errorf("record 0 amount = %v", recs[0].Amount)
	}
	if recs[1].Amount == nil || recs[1].Amount.String() != "50" {
		t.Errorf("record 1 amount = %v", recs[1].Amount)
	}
	for i := 2; i < 5; i++ {
		if recs[i].Amount != nil {
			t.Errorf("record %d has amount %v, want nil", i, recs[i].Amount)
		}
	}
}

func TestReader_MissingAmountColumn(t *testing.T) {
	input := `type,client,tx,amount
dispute,1,1
`
	recs, err := collect(t, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Amount != nil {
		t.Fatalf("got %+v", recs)
	}
}

func TestReader_CaseInsensitiveType(t *testing.T) {
	input := `type,client,tx,amount
DEPOSIT,1,1,100
Withdrawal,1,2,10
`
	recs, err := collect(t, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs[0].Type != domain.RecordDeposit || recs[1].Type != domain.RecordWithdrawal {
		t.Errorf("types = %q, %q", recs[0].Type, recs[1].Type)
	}
}

func TestReader_FatalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name: "unparsable amount",
			input: `type,client,tx,amount
deposit,1,1,abc
`,
		},
		{
			name: "unknown type",
			input: `type,client,tx,amount
transfer,1,1,100
`,
		},
		{
			name: "client id out of range",
			input: `type,client,tx,amount
deposit,70000,1,100
`,
		},
		{
			name: "non-numeric tx id",
			input: `type,client,tx,amount
deposit,1,abc,100
`,
		},
		{
			name: "too few columns",
			input: `type,client,tx,amount
deposit,1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := collect(t, tt.input); err == nil {
				t.Fatal("expected fatal parse error")
			}
		})
	}
}

func TestReader_EmptyStream(t *testing.T) {
	recs, err := collect(t, "type,client,tx,amount\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d records, want 0", len(recs))
	}

	// No rows at all, not even a header.
	recs, err = collect(t, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d records, want 0", len(recs))
	}
}
