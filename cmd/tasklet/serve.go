package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Guliveer/tasklet/internal/commands"
	"github.com/Guliveer/tasklet/internal/ipc"
	"github.com/Guliveer/tasklet/internal/sysinfo"
	"github.com/Guliveer/tasklet/internal/todo"
	"github.com/Guliveer/tasklet/internal/window"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the UI host over stdin/stdout (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	logger := a.logger
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle OS signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	host := sysinfo.Collect(ctx)
	logger.Info("Starting Tasklet",
		append([]zap.Field{
			zap.String("version", version),
			zap.String("data_dir", a.paths.DataDir),
		}, host.Fields()...)...)
	if others, err := sysinfo.OtherInstances(ctx); err == nil && len(others) > 0 {
		logger.Warn("Another instance is already running; data files may be overwritten",
			zap.Int("instances", len(others)),
			zap.Int32("pid", others[0].PID))
	}

	out := ipc.NewWriter(os.Stdout, logger)

	mirror := window.NewMirror(out.Emit)
	persister := window.NewPersister(mirror, window.NewStore(a.paths.WindowPath, logger), window.Options{
		Quiescence: a.cfg.Window.Quiescence.Duration,
		Width:      a.cfg.Window.Width,
		Height:     a.cfg.Window.Height,
		Logger:     logger,
	})

	todos := todo.NewStore(a.paths.TodosPath, logger)
	auto := newAutostart(a, serveAutostartTarget(ctx, a.cfg.Autostart.Target, sysinfo.ParentExecutable, logger))
	svc := commands.New(todos, auto, persister, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		persister.Run(ctx)
	}()

	if watcher, err := todos.NewWatcher(); err != nil {
		logger.Warn("External todo edits will not be picked up", zap.Error(err))
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			watcher.Run(ctx, func() { out.Emit(ipc.EventTodosChanged, nil) })
		}()
	}

	srv := ipc.NewServer(out, svc, ipc.Options{
		Host:    mirror,
		OnMoved: persister.NotifyMoved,
		Restore: persister.Restore,
		Logger:  logger,
	})
	err = srv.Serve(ctx, os.Stdin)
	if err != nil {
		logger.Error("Host connection failed", zap.Error(err))
	}

	// The host closing stdin ends the session just like a signal does.
	cancel()
	wg.Wait()
	logger.Info("Tasklet stopped")
	return err
}
