package stream

import (
	"io"
	"sync"

	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/value"
)

// valueChan backs a single-value rendezvous, used for non-streaming
// commands and for job-literal sub-pipes (spec §4.6).
type valueChan struct {
	ch           chan value.Value
	closeOnce    sync.Once
	receiverDone chan struct{}
}

func NewValueChannel() (*ValueSender, *ValueReceiver) {
	ch := &valueChan{ch: make(chan value.Value, 1), receiverDone: make(chan struct{})}
	return &ValueSender{ch: ch}, &ValueReceiver{ch: ch}
}

type ValueSender struct{ ch *valueChan }

// Send delivers the single value and closes the channel; a second Send is
// a programmer error since the contract is exactly one value.
func (s *ValueSender) Send(v value.Value) error {
	select {
	case s.ch.ch <- v:
		s.ch.closeOnce.Do(func() { close(s.ch.ch) })
		return nil
	case <-s.ch.receiverDone:
		return crusherrors.NewIOError("pipe closed")
	}
}

// Close closes the channel without delivering a value, signalling EOF
// (used when a command produces no output value at all). Closing after
// a Send, or closing twice, is a no-op.
func (s *ValueSender) Close() error {
	s.ch.closeOnce.Do(func() { close(s.ch.ch) })
	return nil
}

type ValueReceiver struct{ ch *valueChan }

// Recv blocks for the single value or returns io.EOF if the sender closed
// without sending one.
func (r *ValueReceiver) Recv() (value.Value, error) {
	v, ok := <-r.ch.ch
	if !ok {
		return value.Value{}, io.EOF
	}
	return v, nil
}

func (r *ValueReceiver) Close() error {
	select {
	case <-r.ch.receiverDone:
	default:
		close(r.ch.receiverDone)
	}
	return nil
}

// NewBinaryStream returns an io.Pipe-backed byte-oriented channel (spec
// §4.6: "binary stream: byte-oriented, no schema"). io.Pipe already gives
// exactly the blocking-send/blocking-recv/EOF-on-close contract the core
// needs, so no bespoke type is introduced here.
func NewBinaryStream() (*io.PipeWriter, *io.PipeReader) {
	r, w := io.Pipe()
	return w, r
}
