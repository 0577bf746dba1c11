package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/deskfocus/internal/ipc"
	"github.com/1broseidon/deskfocus/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskfocus mcp <serve|tools>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Expose a running deskfocus daemon to MCP clients (editors, agents).")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  serve [--socket PATH]  speak MCP on stdin/stdout, proxying to the daemon")
	fmt.Fprintln(w, "  tools                  list the tools the server offers")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "tools":
		printMCPTools(os.Stdout)
		return 0
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func printMCPTools(w io.Writer) {
	for _, tool := range mcp.Tools() {
		fmt.Fprintf(w, "%s\n    %s\n", tool.Name, tool.Description)
	}
}

func runMCPServe(args []string) int {
	fs := flag.NewFlagSet("mcp serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "Daemon IPC socket (default: the daemon's runtime socket)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskfocus mcp serve [--socket PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Serves get_status, get_history and switch_desktop over stdio.")
		fmt.Fprintln(os.Stderr, "Each call is forwarded to the deskfocus daemon, which must be running.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	if *socket != "" {
		client = ipc.NewClientAt(*socket)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcp.NewServer(client).Run(ctx); err != nil {
		log.Fatalf("deskfocus mcp: %v", err)
	}
	return 0
}
