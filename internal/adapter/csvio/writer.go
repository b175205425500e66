package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/iho/txengine/internal/domain"
)

// WriteSnapshots writes the account snapshot as CSV: one row per client,
// amounts with exactly four fractional digits. Callers pass snapshots
// already sorted by ascending client id.
func WriteSnapshots(w io.Writer, snaps []domain.Snapshot) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}
	for _, snap := range snaps {
		row := []string{
			strconv.FormatUint(uint64(snap.ClientID), 10),
			snap.Available.StringFixed(4),
			snap.Held.StringFixed(4),
			snap.Total.StringFixed(4),
			strconv.FormatBool(snap.Locked),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
