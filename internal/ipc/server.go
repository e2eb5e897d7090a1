package ipc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Guliveer/tasklet/internal/commands"
	"github.com/Guliveer/tasklet/internal/todo"
	"github.com/Guliveer/tasklet/internal/window"
)

const maxLineSize = 16 * 1024 * 1024

// Host receives the host's window notifications.
type Host interface {
	Report(s window.State)
	ReportMoved(x, y int32)
	ReportMonitors(monitors []window.MonitorGeometry)
}

// Server answers host requests.
type Server struct {
	writer  *Writer
	svc     *commands.Service
	host    Host
	moved   func()
	restore func() window.Config
	logger  *zap.Logger
}

// Options wires the window side of the server. All fields are optional;
// without them window notifications are ignored and restoreWindow fails.
type Options struct {
	Host    Host
	OnMoved func()
	Restore func() window.Config
	Logger  *zap.Logger
}

// NewServer creates a Server that answers through w.
func NewServer(w *Writer, svc *commands.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		writer:  w,
		svc:     svc,
		host:    opts.Host,
		moved:   opts.OnMoved,
		restore: opts.Restore,
		logger:  logger.Named("ipc"),
	}
}

// Serve handles messages from in until it is exhausted or ctx is done.
// Messages are handled one at a time in arrival order. Reaching the end of
// in returns nil.
func (s *Server) Serve(ctx context.Context, in io.Reader) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			select {
			case lines <- append([]byte(nil), line...):
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("reading host messages: %w", err)
			}
			return nil
		case line := <-lines:
			s.handleLine(line)
		}
	}
}

func (s *Server) handleLine(line []byte) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil || req.Cmd == "" {
		s.logger.Warn("Skipping malformed message",
			zap.ByteString("line", truncate(line, 200)),
			zap.Error(err))
		return
	}

	if req.IsNotification() {
		s.handleNotification(req)
		return
	}

	result, err := s.dispatch(req)
	resp := Response{ID: req.ID, Result: result}
	if err != nil {
		resp = Response{ID: req.ID, Error: err.Error()}
	}
	s.writer.respond(resp)
}

func (s *Server) dispatch(req Request) (any, error) {
	switch req.Cmd {
	case CmdLoadTodos:
		return s.svc.LoadTodos(), nil

	case CmdSaveTodos:
		var args saveTodosArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return nil, err
		}
		var todos []todo.Todo
		if len(args.Todos) > 0 {
			if err := json.Unmarshal(args.Todos, &todos); err != nil {
				return nil, fmt.Errorf("invalid todos: %w", err)
			}
		}
		return nil, s.svc.SaveTodos(todos)

	case CmdSetAutostart:
		enabled, err := decodeEnabled(req.Args)
		if err != nil {
			return nil, err
		}
		return nil, s.svc.SetAutostart(enabled)

	case CmdIsAutostartEnabled:
		return s.svc.IsAutostartEnabled(), nil

	case CmdSetAlwaysOnTop:
		enabled, err := decodeEnabled(req.Args)
		if err != nil {
			return nil, err
		}
		return nil, s.svc.SetAlwaysOnTop(enabled)

	case CmdStartWindowDrag:
		return nil, s.svc.StartWindowDrag()

	case CmdRestoreWindow:
		if s.restore == nil {
			return nil, errors.New("no window is attached")
		}
		return s.restore(), nil

	default:
		return nil, fmt.Errorf("unknown command %q", req.Cmd)
	}
}

func (s *Server) handleNotification(req Request) {
	if s.host == nil {
		return
	}
	switch req.Cmd {
	case NoteWindowMoved:
		var args movedArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			s.logger.Warn("Bad windowMoved notification", zap.Error(err))
			return
		}
		s.host.ReportMoved(args.X, args.Y)
		if s.moved != nil {
			s.moved()
		}

	case NoteWindowState:
		var state window.State
		if err := decodeArgs(req.Args, &state); err != nil {
			s.logger.Warn("Bad windowState notification", zap.Error(err))
			return
		}
		s.host.Report(state)

	case NoteMonitors:
		var args []monitorArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			s.logger.Warn("Bad monitors notification", zap.Error(err))
			return
		}
		monitors := make([]window.MonitorGeometry, 0, len(args))
		for _, m := range args {
			monitors = append(monitors, window.MonitorGeometry{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height})
		}
		s.host.ReportMonitors(monitors)

	default:
		s.logger.Debug("Ignoring unknown notification", zap.String("cmd", req.Cmd))
	}
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errors.New("missing args")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid args: %w", err)
	}
	return nil
}

func decodeEnabled(raw json.RawMessage) (bool, error) {
	var args enabledArgs
	if err := decodeArgs(raw, &args); err != nil {
		return false, err
	}
	if args.Enabled == nil {
		return false, errors.New(`missing "enabled" argument`)
	}
	return *args.Enabled, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
