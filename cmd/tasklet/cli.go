package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/Guliveer/tasklet/internal/commands"
	"github.com/Guliveer/tasklet/internal/config"
	"github.com/Guliveer/tasklet/internal/sysinfo"
	"github.com/Guliveer/tasklet/internal/todo"
	"github.com/Guliveer/tasklet/internal/window"
)

// newService builds the command surface for CLI subcommands. There is no
// UI host here, so autostart uses only the configured target.
func newService(a *app) *commands.Service {
	auto := newAutostart(a, a.cfg.Autostart.Target)
	return commands.New(todo.NewStore(a.paths.TodosPath, a.logger), auto, nil, a.logger)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Manage launching at login",
}

var autostartEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Launch Tasklet at login",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAutostart(cmd, true)
	},
}

var autostartDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop launching Tasklet at login",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAutostart(cmd, false)
	},
}

func setAutostart(cmd *cobra.Command, enabled bool) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync()
	if err := newService(a).SetAutostart(enabled); err != nil {
		return err
	}
	if enabled {
		fmt.Println("Autostart enabled")
	} else {
		fmt.Println("Autostart disabled")
	}
	return nil
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether Tasklet launches at login",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer a.logger.Sync()
		if newService(a).IsAutostartEnabled() {
			fmt.Println("enabled")
		} else {
			fmt.Println("disabled")
		}
		return nil
	},
}

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "Inspect the to-do list",
}

var todosListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the stored to-do list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		asJSON, _ := cmd.Flags().GetBool("json")
		todos := newService(a).LoadTodos()
		if asJSON {
			return printJSON(todos)
		}
		if len(todos) == 0 {
			fmt.Println("No to-dos.")
			return nil
		}
		for _, t := range todos {
			mark := " "
			if t.Done {
				mark = "x"
			}
			fmt.Printf("[%s] %s\n", mark, t.Text)
		}
		return nil
	},
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Inspect the saved window state",
}

var windowShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved window position and pin state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer a.logger.Sync()
		return printJSON(window.NewStore(a.paths.WindowPath, a.logger).Load())
	},
}

var windowResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the saved window state to defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer a.logger.Sync()
		if err := window.NewStore(a.paths.WindowPath, a.logger).Save(window.DefaultConfig()); err != nil {
			return err
		}
		fmt.Println("Window state reset")
		return nil
	},
}

// doctorReport is what `tasklet doctor` prints.
type doctorReport struct {
	Version          string             `json:"version"`
	Host             sysinfo.Host       `json:"host"`
	ConfigFile       string             `json:"config_file,omitempty"`
	DataDir          string             `json:"data_dir"`
	TodosFile        string             `json:"todos_file"`
	WindowFile       string             `json:"window_file"`
	TodoCount        int                `json:"todo_count"`
	Window           window.Config      `json:"window"`
	AutostartTarget  string             `json:"autostart_target,omitempty"`
	AutostartEnabled bool               `json:"autostart_enabled"`
	AutostartSupport bool               `json:"autostart_supported"`
	OtherInstances   []sysinfo.Instance `json:"other_instances,omitempty"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report configuration, data files and environment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		svc := newService(a)
		report := doctorReport{
			Version:          version,
			Host:             sysinfo.Collect(ctx),
			DataDir:          a.paths.DataDir,
			TodosFile:        a.paths.TodosPath,
			WindowFile:       a.paths.WindowPath,
			TodoCount:        len(svc.LoadTodos()),
			Window:           window.NewStore(a.paths.WindowPath, a.logger).Load(),
			AutostartTarget:  a.cfg.Autostart.Target,
			AutostartEnabled: svc.IsAutostartEnabled(),
			AutostartSupport: runtime.GOOS == "windows",
		}
		if cmd.Flags().Changed("config") {
			report.ConfigFile = configPath
		} else {
			report.ConfigFile = config.Locate()
		}
		if others, err := sysinfo.OtherInstances(ctx); err == nil {
			report.OtherInstances = others
		}
		return printJSON(report)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and exit",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tasklet %s\n", version)
	},
}

func init() {
	todosListCmd.Flags().Bool("json", false, "Print the list as JSON")
}
