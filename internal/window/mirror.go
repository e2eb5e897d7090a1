package window

import (
	"errors"
	"sync"
)

// ErrGeometryUnknown is returned by Mirror before the host reported a position.
var ErrGeometryUnknown = errors.New("window geometry not reported yet")

// Emitter forwards a window request to the UI host.
type Emitter func(event string, payload any)

// State is a full geometry report from the UI host.
type State struct {
	X           int32  `json:"x"`
	Y           int32  `json:"y"`
	Width       uint32 `json:"width"`
	Height      uint32 `json:"height"`
	AlwaysOnTop bool   `json:"alwaysOnTop"`
}

// Mirror is a Handle for a window owned by another process. It holds the
// last geometry the host reported and forwards mutations as events. The
// goroutine that applies host reports is the owner; RunOnOwner serializes
// against it.
type Mirror struct {
	owner sync.Mutex

	mu          sync.Mutex
	x, y        int32
	known       bool
	width       uint32
	height      uint32
	alwaysOnTop bool
	monitors    []MonitorGeometry
	emit        Emitter
}

// NewMirror returns a Mirror that forwards requests through emit.
func NewMirror(emit Emitter) *Mirror {
	if emit == nil {
		emit = func(string, any) {}
	}
	return &Mirror{alwaysOnTop: DefaultAlwaysOnTop, emit: emit}
}

// Report applies a full geometry report.
func (m *Mirror) Report(s State) {
	m.owner.Lock()
	defer m.owner.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.x, m.y, m.known = s.X, s.Y, true
	m.width, m.height = s.Width, s.Height
	m.alwaysOnTop = s.AlwaysOnTop
}

// ReportMoved applies a position-only report.
func (m *Mirror) ReportMoved(x, y int32) {
	m.owner.Lock()
	defer m.owner.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.x, m.y, m.known = x, y, true
}

// ReportMonitors replaces the known display list.
func (m *Mirror) ReportMonitors(monitors []MonitorGeometry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.monitors = append([]MonitorGeometry(nil), monitors...)
}

func (m *Mirror) Position() (int32, int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.known {
		return 0, 0, ErrGeometryUnknown
	}
	return m.x, m.y, nil
}

func (m *Mirror) AlwaysOnTop() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alwaysOnTop, nil
}

func (m *Mirror) SetAlwaysOnTop(enabled bool) error {
	m.mu.Lock()
	m.alwaysOnTop = enabled
	m.mu.Unlock()
	m.emit("setAlwaysOnTop", map[string]bool{"enabled": enabled})
	return nil
}

func (m *Mirror) SetPosition(x, y int32) error {
	m.mu.Lock()
	m.x, m.y, m.known = x, y, true
	m.mu.Unlock()
	m.emit("setPosition", map[string]int32{"x": x, "y": y})
	return nil
}

func (m *Mirror) Size() (uint32, uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

func (m *Mirror) Monitors() ([]MonitorGeometry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.monitors) == 0 {
		return nil, nil
	}
	return append([]MonitorGeometry(nil), m.monitors...), nil
}

func (m *Mirror) StartDragging() error {
	m.emit("startDragging", nil)
	return nil
}

func (m *Mirror) RunOnOwner(fn func()) error {
	m.owner.Lock()
	defer m.owner.Unlock()
	fn()
	return nil
}
