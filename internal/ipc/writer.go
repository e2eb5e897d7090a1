package ipc

import (
	"encoding/json"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Writer serializes outbound messages. It is safe for concurrent use: the
// debounce worker, the file watcher and the request loop all write.
type Writer struct {
	mu     sync.Mutex
	out    io.Writer
	logger *zap.Logger
}

// NewWriter returns a Writer on out.
func NewWriter(out io.Writer, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{out: out, logger: logger.Named("ipc")}
}

// Emit sends an event. It matches window.Emitter.
func (w *Writer) Emit(event string, payload any) {
	w.write(Event{Event: event, Payload: payload})
}

func (w *Writer) respond(resp Response) {
	w.write(resp)
}

func (w *Writer) write(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		w.logger.Error("Failed to encode message", zap.Error(err))
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.out.Write(append(b, '\n')); err != nil {
		w.logger.Warn("Failed to write message", zap.Error(err))
	}
}
