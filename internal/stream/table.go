// Package stream implements the three channel variants of spec §4.6: a
// typed table stream, a binary stream, and a single-value rendezvous
// channel. Grounded on the teacher's v2/parallel worker-pool channel
// shape (workChan/resultChan over buffered Go channels plus a
// context.Context for fail-fast cancellation), generalized here from
// "distribute loop items to workers" to "carry one command's output rows
// to the next command's input".
package stream

import (
	"io"
	"sync"

	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/value"
)

// tableChan is the shared state between one TableSender and one
// TableReceiver endpoint (spec §4.6: "each channel has exactly one sender
// and one receiver").
type tableChan struct {
	columns      []value.ColumnType
	rows         chan value.Row
	closeRows    sync.Once
	receiverDone chan struct{}
	dropOnce     sync.Once
}

// NewTableStream creates a bounded FIFO table channel over the given
// column signature (spec §4.6: "initialize(column_types) → sender").
// The buffer depth of 1 matches the "at least one row in flight" minimum
// the spec guarantees without promising more.
func NewTableStream(columns []value.ColumnType) (*TableSender, *TableReceiver) {
	ch := &tableChan{
		columns:      columns,
		rows:         make(chan value.Row, 1),
		receiverDone: make(chan struct{}),
	}
	return &TableSender{ch: ch}, &TableReceiver{ch: ch}
}

// TableSender is the single producer endpoint of a table stream.
type TableSender struct{ ch *tableChan }

// Send enforces row.Cells types ≡ column_types and blocks until the
// receiver has room or has dropped (spec §4.6, §5).
func (s *TableSender) Send(row value.Row) error {
	if err := row.CheckTypes(s.ch.columns); err != nil {
		return crusherrors.NewTypeError("%v", err)
	}
	select {
	case <-s.ch.receiverDone:
		return crusherrors.NewIOError("pipe closed")
	default:
	}
	select {
	case s.ch.rows <- row:
		return nil
	case <-s.ch.receiverDone:
		return crusherrors.NewIOError("pipe closed")
	}
}

// Close signals EOF to the receiver's next Read (spec §4.6).
func (s *TableSender) Close() error {
	s.ch.closeRows.Do(func() { close(s.ch.rows) })
	return nil
}

func (s *TableSender) Columns() []value.ColumnType { return s.ch.columns }

// TableReceiver is the single consumer endpoint of a table stream. It
// satisfies value.TableStreamReader.
type TableReceiver struct{ ch *tableChan }

// Read blocks until a row is available or returns io.EOF once the sender
// has closed and all buffered rows are drained (spec §4.6).
func (r *TableReceiver) Read() (value.Row, error) {
	row, ok := <-r.ch.rows
	if !ok {
		return value.Row{}, io.EOF
	}
	return row, nil
}

func (r *TableReceiver) Columns() []value.ColumnType { return r.ch.columns }

// Close drops the receiver endpoint; a subsequent Send on the paired
// sender fails with "pipe closed" (spec §4.6). This is the de facto
// cancellation path of spec §5: no explicit cancel token exists, so
// downstream termination propagates by dropping the receiver.
func (r *TableReceiver) Close() error {
	r.ch.dropOnce.Do(func() { close(r.ch.receiverDone) })
	return nil
}

// Drain reads every remaining row until EOF, used by job-literal
// compilation when only the side effects (not the rows) matter.
func Drain(r *TableReceiver) ([]value.Row, error) {
	var rows []value.Row
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}
