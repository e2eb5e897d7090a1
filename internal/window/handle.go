package window

// Handle is the main window as seen by the persister. It is passed in
// explicitly so the persister can run against a fake in tests.
//
// Geometry reads are only safe on the context that owns the window;
// callers wrap them in RunOnOwner, which must block until fn returns.
type Handle interface {
	Position() (x, y int32, err error)
	AlwaysOnTop() (bool, error)
	SetAlwaysOnTop(enabled bool) error
	SetPosition(x, y int32) error
	Size() (width, height uint32)
	Monitors() ([]MonitorGeometry, error)
	StartDragging() error
	RunOnOwner(fn func()) error
}
