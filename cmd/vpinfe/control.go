package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/vpinfe/vpinfe/internal/ipc"
	"github.com/vpinfe/vpinfe/internal/platform"
)

// parseNoArgs parses a command that takes no arguments. It returns -1 when
// the caller should continue, otherwise the exit code.
func parseNoArgs(name, description string, args []string) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vpinfe %s\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, description)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}
	return -1
}

func runStatus(args []string) int {
	if code := parseNoArgs("status", "Show the running frontend's windows via IPC.", args); code >= 0 {
		return code
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "running:        %v\n", status.Running)
	fmt.Fprintf(w, "uptime_seconds: %d\n", status.UptimeSeconds)
	if status.ManagerURL != "" {
		fmt.Fprintf(w, "manager_url:    %s\n", status.ManagerURL)
	}
	fmt.Fprintf(w, "windows:        %d\n", len(status.Windows))
	for _, win := range status.Windows {
		primary := ""
		if win.Primary {
			primary = " (primary)"
		}
		fmt.Fprintf(w, "  %-6s %dx%d+%d+%d overlay=%s%s\n",
			win.Name, win.Width, win.Height, win.X, win.Y, win.Overlay, primary)
	}
}

func runReload(args []string) int {
	if code := parseNoArgs("reload", "Reload every frontend window.", args); code >= 0 {
		return code
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runOpenManager(args []string) int {
	if code := parseNoArgs("open-manager", "Open the configuration overlay on the primary window.", args); code >= 0 {
		return code
	}
	if err := ipc.NewClient().OpenManager(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runQuit(args []string) int {
	if code := parseNoArgs("quit", "Close every frontend window and exit.", args); code >= 0 {
		return code
	}
	if err := ipc.NewClient().Quit(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runDisplays(args []string) int {
	fs := flag.NewFlagSet("displays", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vpinfe displays [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List attached displays. The index is the value to use in [Displays].")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	displays, err := listDisplays()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	infos := ipc.DisplayInfos(displays)

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ipc.DisplaysData{Displays: infos}); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printDisplays(os.Stdout, infos)
	return 0
}

func printDisplays(w io.Writer, infos []ipc.DisplayInfo) {
	for _, d := range infos {
		fmt.Fprintf(w, "%d  %-10s %dx%d+%d+%d\n", d.Index, d.Name, d.Width, d.Height, d.X, d.Y)
	}
}

// listDisplays opens a short-lived window-system connection.
func listDisplays() ([]platform.Display, error) {
	backend, err := platform.New()
	if err != nil {
		return nil, err
	}
	defer backend.Disconnect()
	return backend.Displays()
}
