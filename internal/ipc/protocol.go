// Package ipc carries the command surface over line-delimited JSON, one
// message per line. The UI host writes requests and window notifications to
// the backend's stdin; the backend writes responses and events to stdout.
package ipc

import "encoding/json"

// Command names accepted from the host.
const (
	CmdLoadTodos          = "loadTodos"
	CmdSaveTodos          = "saveTodos"
	CmdSetAutostart       = "setAutostart"
	CmdIsAutostartEnabled = "isAutostartEnabled"
	CmdSetAlwaysOnTop     = "setAlwaysOnTop"
	CmdStartWindowDrag    = "startWindowDrag"
	CmdRestoreWindow      = "restoreWindow"
)

// Notifications the host sends about its window. They carry no id and get
// no response.
const (
	NoteWindowMoved = "windowMoved"
	NoteWindowState = "windowState"
	NoteMonitors    = "monitors"
)

// Events the backend sends unprompted.
const (
	EventTodosChanged = "todosChanged"
)

// Request is a host message. A request without an id is a notification.
type Request struct {
	ID   json.RawMessage `json:"id,omitempty"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

// IsNotification reports whether the host expects no response.
func (r Request) IsNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

// Response answers a request. Exactly one of Result or Error is meaningful;
// void commands omit Result.
type Response struct {
	ID     json.RawMessage `json:"id"`
	Result any             `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Event is a backend-initiated message.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

type enabledArgs struct {
	Enabled *bool `json:"enabled"`
}

type saveTodosArgs struct {
	Todos json.RawMessage `json:"todos"`
}

type movedArgs struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

type monitorArgs struct {
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}
