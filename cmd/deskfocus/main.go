package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/term"

	"github.com/1broseidon/deskfocus/internal/config"
	"github.com/1broseidon/deskfocus/internal/daemon"
	"github.com/1broseidon/deskfocus/internal/ipc"
	"github.com/1broseidon/deskfocus/internal/platform"
	"github.com/1broseidon/deskfocus/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "history":
		os.Exit(runHistory(os.Args[2:]))
	case "switch":
		os.Exit(runSwitch(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskfocus <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the deskfocus daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  history             Show remembered windows per desktop")
	fmt.Fprintln(w, "  switch <desktop>    Switch desktop and restore its last window")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config path         Print the config file path")
	fmt.Fprintln(w, "  config init         Write a default config file")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open live desktop history view")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'deskfocus <command> --help' for command-specific options.")
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/deskfocus/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskfocus daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Track the foreground window per virtual desktop and restore it on switch.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	logger := newLogger(os.Stderr, cfg.SlogLevel())
	if res.File != "" {
		logger.Info("configuration loaded", "file", res.File, "history_size", cfg.HistorySize)
	}

	backend, err := platform.NewBackend(platform.Options{Display: cfg.Display})
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("deskfocus daemon starting")
	if err := daemon.Run(ctx, cfg, backend, logger); err != nil {
		log.Fatalf("Daemon error: %v", err)
	}
	logger.Info("deskfocus daemon stopped")
	return 0
}

// newLogger writes human readable text to terminals and JSON otherwise, e.g.
// under a service manager.
func newLogger(w *os.File, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(w.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskfocus status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return writeJSON(os.Stdout, status)
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "daemon_running:      %v\n", status.DaemonRunning)
	fmt.Fprintf(w, "state:               %s\n", status.State)
	fmt.Fprintf(w, "current_desktop:     %d\n", status.CurrentDesktop)
	fmt.Fprintf(w, "history_size:        %d\n", status.HistorySize)
	fmt.Fprintf(w, "tracked_desktops:    %d\n", status.DesktopCount)
	fmt.Fprintf(w, "uptime_seconds:      %d\n", status.UptimeSeconds)
	fmt.Fprintf(w, "events_recorded:     %d\n", status.Stats.EventsRecorded)
	fmt.Fprintf(w, "events_dropped:      %d\n", status.Stats.EventsDropped)
	fmt.Fprintf(w, "switches:            %d\n", status.Stats.Switches)
	fmt.Fprintf(w, "activations:         %d\n", status.Stats.Activations)
	fmt.Fprintf(w, "activation_failures: %d\n", status.Stats.ActivationFailures)
}

func runHistory(args []string) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output history as JSON")
	desktopFlag := fs.Int("desktop", -1, "Only show this desktop")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskfocus history [--json] [--desktop N]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show remembered windows per desktop, most recent first.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "history takes no arguments")
		fs.Usage()
		return 2
	}

	var desktop *uint32
	if *desktopFlag >= 0 {
		d := uint32(*desktopFlag)
		desktop = &d
	}

	data, err := ipc.NewClient().GetHistory(desktop)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return writeJSON(os.Stdout, data)
	}
	printHistory(os.Stdout, data)
	return 0
}

func printHistory(w io.Writer, data *ipc.HistoryData) {
	if len(data.Desktops) == 0 {
		fmt.Fprintln(w, "no windows recorded")
		return
	}
	for _, d := range data.Desktops {
		marker := ""
		if d.Current {
			marker = " (current)"
		}
		fmt.Fprintf(w, "desktop %d%s:\n", d.Desktop, marker)
		if len(d.Windows) == 0 {
			fmt.Fprintln(w, "  (empty)")
			continue
		}
		for i, win := range d.Windows {
			if win.Title != "" {
				fmt.Fprintf(w, "  %d. 0x%x  %s\n", i+1, win.ID, win.Title)
			} else {
				fmt.Fprintf(w, "  %d. 0x%x\n", i+1, win.ID)
			}
		}
	}
}

func runSwitch(args []string) int {
	fs := flag.NewFlagSet("switch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	noWM := fs.Bool("no-wm", false, "Only notify the tracker; do not ask the window manager to switch")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskfocus switch [--no-wm] <desktop>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Switch to a desktop and re-activate the window last used there.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "switch requires exactly one <desktop>")
		fs.Usage()
		return 2
	}

	desktop, err := parseDesktop(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	data, err := ipc.NewClient().SwitchDesktop(desktop, !*noWM)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printSwitch(os.Stdout, data)
	if data.WMError != "" {
		fmt.Fprintf(os.Stderr, "Warning: window manager did not switch: %s\n", data.WMError)
	}
	return 0
}

func parseDesktop(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid desktop %q: must be a non-negative integer", s)
	}
	return uint32(n), nil
}

func printSwitch(w io.Writer, data *ipc.SwitchDesktopData) {
	if !data.Activated {
		fmt.Fprintf(w, "desktop %d: no window to restore\n", data.Desktop)
		return
	}
	if data.Title != "" {
		fmt.Fprintf(w, "desktop %d: activated 0x%x (%s)\n", data.Desktop, data.Window, data.Title)
		return
	}
	fmt.Fprintf(w, "desktop %d: activated 0x%x\n", data.Desktop, data.Window)
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	refresh := fs.Duration("refresh", tui.DefaultRefresh, "Refresh interval")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskfocus tui [--refresh DURATION]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Live view of remembered windows per desktop. Press enter on a desktop")
		fmt.Fprintln(os.Stderr, "to switch to it and restore its last window.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if err := tui.Run(ipc.NewClient(), *refresh); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func writeJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}
