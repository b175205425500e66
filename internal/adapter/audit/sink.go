package audit

import (
	"github.com/iho/txengine/internal/domain"
)

// Compile-time interface checks for the provided sinks.
var (
	_ domain.AuditSink = (*FileSink)(nil)
	_ domain.AuditSink = (*KafkaSink)(nil)
	_ domain.AuditSink = (*MultiSink)(nil)
	_ domain.AuditSink = NopSink{}
)

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Record(domain.AuditEvent) {}

func (NopSink) Close() error { return nil }

// MultiSink fans one event out to several sinks.
type MultiSink struct {
	sinks []domain.AuditSink
}

// NewMultiSink combines sinks into one. With no sinks it behaves like
// NopSink.
func NewMultiSink(sinks ...domain.AuditSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Record(e domain.AuditEvent) {
	for _, s := range m.sinks {
		s.Record(e)
	}
}

func (m *MultiSink) Close() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
