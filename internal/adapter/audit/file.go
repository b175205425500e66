package audit

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/iho/txengine/internal/domain"
)

// FileSink appends one timestamped line per event to a log file, flushing
// after every write so a crash loses at most the line being written.
type FileSink struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
}

// NewFileSink opens (or creates) path in append mode.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &FileSink{file: f, w: bufio.NewWriter(f)}, nil
}

// Record writes the event as a single line. Write errors are swallowed:
// the sink is best-effort and must not disturb processing.
func (s *FileSink) Record(e domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := fmt.Sprintf("[%s] run=%s event=%s type=%s client=%d tx=%d",
		e.At.Format("2006-01-02 15:04:05.000"), e.RunID, e.ID, e.Type, e.ClientID, e.TxID)
	if e.Amount != "" {
		line += " amount=" + e.Amount
	}
	line += " status=" + string(e.Status)
	if e.Reason != "" {
		line += " reason=" + string(e.Reason)
	}

	_, _ = s.w.WriteString(line + "\n")
	_ = s.w.Flush()
}

// Close flushes and closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.w.Flush()
	return s.file.Close()
}
