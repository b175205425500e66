package domain

import "time"

// AuditStatus is the outcome of an audited transaction attempt.
type AuditStatus string

const (
	AuditStatusAccepted AuditStatus = "accepted"
	AuditStatusRejected AuditStatus = "rejected"
)

// AuditEvent records one accepted or rejected transaction attempt.
type AuditEvent struct {
	ID       string       `json:"id"`
	RunID    string       `json:"run_id"`
	At       time.Time    `json:"at"`
	Type     RecordType   `json:"type"`
	ClientID uint16       `json:"client"`
	TxID     uint32       `json:"tx"`
	Amount   string       `json:"amount,omitempty"`
	Status   AuditStatus  `json:"status"`
	Reason   RejectReason `json:"reason,omitempty"`
}

// AuditSink receives audit events. Sinks are best-effort: a failing sink
// must never affect record processing, so Record has no error return.
type AuditSink interface {
	Record(event AuditEvent)
	Close() error
}
