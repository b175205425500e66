package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/txengine/internal/domain"
)

// Reader streams transaction records from CSV input with a
// `type,client,tx,amount` header. Malformed rows are fatal: a row whose
// structure, ids, type, or amount cannot be parsed aborts the stream,
// unlike business rejections which are handled downstream.
type Reader struct {
	r   *csv.Reader
	row int
}

// NewReader wraps r. Whitespace around fields is tolerated and the amount
// column may be absent or empty for dispute/resolve/chargeback rows.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return &Reader{r: cr}
}

// Each reads records until EOF, invoking fn for each. The first row is the
// header. fn returning an error stops the stream and propagates it.
func (r *Reader) Each(fn func(domain.Record) error) error {
	header := true
	for {
		fields, err := r.r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("row %d: %w", r.row+1, err)
		}
		r.row++
		if header {
			header = false
			continue
		}

		rec, err := parseRecord(fields)
		if err != nil {
			return fmt.Errorf("row %d: %w", r.row, err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

func parseRecord(fields []string) (domain.Record, error) {
	if len(fields) < 3 || len(fields) > 4 {
		return domain.Record{}, fmt.Errorf("expected 3 or 4 columns, got %d", len(fields))
	}

	recType, err := domain.ParseRecordType(fields[0])
	if err != nil {
		return domain.Record{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return domain.Record{}, fmt.Errorf("invalid client id %q", fields[1])
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return domain.Record{}, fmt.Errorf("invalid transaction id %q", fields[2])
	}

	rec := domain.Record{
		Type:     recType,
		ClientID: uint16(client),
		TxID:     uint32(tx),
	}

	if len(fields) == 4 {
		raw := strings.TrimSpace(fields[3])
		if raw != "" {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return domain.Record{}, fmt.Errorf("invalid amount %q", fields[3])
			}
			rec.Amount = &amount
		}
	}

	return rec, nil
}
