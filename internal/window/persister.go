package window

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/Guliveer/tasklet/internal/apperr"
)

const (
	// DefaultQuiescence is how long the window must stay still before its
	// position is written.
	DefaultQuiescence = 300 * time.Millisecond

	DefaultWidth  uint32 = 320
	DefaultHeight uint32 = 400
)

// Options configures a Persister. Zero values fall back to defaults.
type Options struct {
	Quiescence time.Duration
	Width      uint32
	Height     uint32
	Clock      clockwork.Clock
	Logger     *zap.Logger
}

// Persister restores window state at startup and writes it back after the
// window stops moving. Run is the only writer apart from SetAlwaysOnTop.
type Persister struct {
	handle Handle
	store  *Store
	opts   Options
	logger *zap.Logger

	// moves carries "the window moved" signals. Signals have no payload, so
	// a pending one stands for any number of moves.
	moves chan struct{}
}

// NewPersister binds a window handle to a Store.
func NewPersister(handle Handle, store *Store, opts Options) *Persister {
	if opts.Quiescence <= 0 {
		opts.Quiescence = DefaultQuiescence
	}
	if opts.Width == 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultHeight
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Persister{
		handle: handle,
		store:  store,
		opts:   opts,
		logger: opts.Logger.Named("window"),
		moves:  make(chan struct{}, 1),
	}
}

// Restore applies the persisted pin state and, if it is still on screen,
// the persisted position. Failures are logged and never stop startup.
func (p *Persister) Restore() Config {
	cfg := p.store.Load()

	err := p.handle.RunOnOwner(func() {
		if err := p.handle.SetAlwaysOnTop(cfg.AlwaysOnTop); err != nil {
			p.logger.Warn("Failed to restore always-on-top", zap.Error(err))
		}

		width, height := p.handle.Size()
		if width == 0 || height == 0 {
			width, height = p.opts.Width, p.opts.Height
		}

		monitors, err := p.handle.Monitors()
		if err != nil {
			p.logger.Debug("Monitor list unavailable, using coarse bounds", zap.Error(err))
			monitors = nil
		}

		if !ValidatePosition(cfg.X, cfg.Y, width, height, monitors) {
			p.logger.Info("Stored window position is off-screen, keeping default placement",
				zap.Int32("x", cfg.X),
				zap.Int32("y", cfg.Y),
				zap.Int("monitors", len(monitors)))
			return
		}
		if err := p.handle.SetPosition(cfg.X, cfg.Y); err != nil {
			p.logger.Warn("Failed to restore window position", zap.Error(err))
		}
	})
	if err != nil {
		p.logger.Warn("Failed to reach window owner during restore", zap.Error(err))
	}
	return cfg
}

// NotifyMoved records that the window moved. It never blocks.
func (p *Persister) NotifyMoved() {
	select {
	case p.moves <- struct{}{}:
	default:
	}
}

// Run is the debounce loop. It waits for a move, waits until no further move
// arrives for a full quiescence window, then writes the live state once.
// It returns when ctx is cancelled while idle; a quiescence wait already in
// progress finishes and writes first.
func (p *Persister) Run(ctx context.Context) {
	p.logger.Debug("Window state worker started", zap.Duration("quiescence", p.opts.Quiescence))
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Window state worker stopped")
			return
		case <-p.moves:
		}

		p.settle()
		p.persistLive()
	}
}

// settle sleeps until a whole quiescence window passes without a move.
func (p *Persister) settle() {
	for {
		p.opts.Clock.Sleep(p.opts.Quiescence)
		select {
		case <-p.moves:
			continue
		default:
			return
		}
	}
}

// persistLive reads the current geometry on the owner context and saves it.
func (p *Persister) persistLive() {
	var cfg Config
	if err := p.handle.RunOnOwner(func() { cfg = p.live() }); err != nil {
		p.logger.Warn("Failed to reach window owner, skipping save", zap.Error(err))
		return
	}
	if err := p.store.Save(cfg); err != nil {
		p.logger.Warn("Failed to save window config", zap.Error(err))
	}
}

// live queries the window; read failures fall back to defaults.
func (p *Persister) live() Config {
	cfg := DefaultConfig()
	if x, y, err := p.handle.Position(); err == nil {
		cfg.X, cfg.Y = x, y
	} else {
		p.logger.Debug("Reading window position failed", zap.Error(err))
	}
	if onTop, err := p.handle.AlwaysOnTop(); err == nil {
		cfg.AlwaysOnTop = onTop
	} else {
		p.logger.Debug("Reading always-on-top failed", zap.Error(err))
	}
	return cfg
}

// SetAlwaysOnTop pins or unpins the window and immediately writes the new
// flag together with the current position. This write bypasses the debounce
// loop; whichever write lands last wins.
func (p *Persister) SetAlwaysOnTop(enabled bool) error {
	var (
		setErr error
		x, y   int32
		posErr error
	)
	if err := p.handle.RunOnOwner(func() {
		if setErr = p.handle.SetAlwaysOnTop(enabled); setErr != nil {
			return
		}
		x, y, posErr = p.handle.Position()
	}); err != nil {
		return apperr.Window("set always on top", err)
	}
	if setErr != nil {
		return apperr.Window("set always on top", setErr)
	}

	if posErr != nil {
		p.logger.Debug("Reading window position failed, using stored position", zap.Error(posErr))
		stored := p.store.Load()
		x, y = stored.X, stored.Y
	}

	return p.store.Save(Config{X: x, Y: y, AlwaysOnTop: enabled})
}

// StartDragging hands the window over to the OS drag loop.
func (p *Persister) StartDragging() error {
	var dragErr error
	if err := p.handle.RunOnOwner(func() { dragErr = p.handle.StartDragging() }); err != nil {
		return apperr.Window("start dragging", err)
	}
	if dragErr != nil {
		return apperr.Window("start dragging", dragErr)
	}
	return nil
}
