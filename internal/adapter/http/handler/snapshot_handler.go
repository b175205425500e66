package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/txengine/internal/domain"
	"github.com/iho/txengine/internal/usecase"
)

// LedgerService defines the behavior needed by SnapshotHandler.
type LedgerService interface {
	Snapshots() []domain.Snapshot
	Snapshot(clientID uint16) (domain.Snapshot, error)
	CheckConsistency() usecase.ConsistencyReport
}

// AccountResponse is the JSON view of one account snapshot.
type AccountResponse struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

// ListAccountsResponse wraps the account list.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Total    int               `json:"total"`
}

func accountFromSnapshot(snap domain.Snapshot) AccountResponse {
	return AccountResponse{
		Client:    snap.ClientID,
		Available: snap.Available.StringFixed(4),
		Held:      snap.Held.StringFixed(4),
		Total:     snap.Total.StringFixed(4),
		Locked:    snap.Locked,
	}
}

// SnapshotHandler serves the read-only account snapshot.
type SnapshotHandler struct {
	ledger LedgerService
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(ledger LedgerService) *SnapshotHandler {
	return &SnapshotHandler{ledger: ledger}
}

// List returns all accounts, sorted by ascending client id.
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	snaps := h.ledger.Snapshots()
	accounts := make([]AccountResponse, 0, len(snaps))
	for _, snap := range snaps {
		accounts = append(accounts, accountFromSnapshot(snap))
	}

	writeJSON(w, http.StatusOK, ListAccountsResponse{
		Accounts: accounts,
		Total:    len(accounts),
	})
}

// Get returns one account by client id.
func (h *SnapshotHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "client")
	clientID, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid client id", raw)
		return
	}

	snap, err := h.ledger.Snapshot(uint16(clientID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, accountFromSnapshot(snap))
}

// Consistency runs the invariant check over the current state.
func (h *SnapshotHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report := h.ledger.CheckConsistency()
	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusConflict
	}
	writeJSON(w, status, report)
}
