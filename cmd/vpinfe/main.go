package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
)

func init() {
	// The UI toolkit must run on the process main thread.
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) < 2 {
		os.Exit(runRun(nil))
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runRun(os.Args[2:]))
	case "manager":
		os.Exit(runManager(os.Args[2:]))
	case "displays":
		os.Exit(runDisplays(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "open-manager":
		os.Exit(runOpenManager(os.Args[2:]))
	case "quit":
		os.Exit(runQuit(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
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
	fmt.Fprintln(w, "Usage: vpinfe [command] [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the frontend windows (default)")
	fmt.Fprintln(w, "  manager             Serve the configuration panel only")
	fmt.Fprintln(w, "  displays            List attached displays")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  status              Show the running frontend's windows")
	fmt.Fprintln(w, "  reload              Reload every frontend window")
	fmt.Fprintln(w, "  open-manager        Open the configuration overlay")
	fmt.Fprintln(w, "  quit                Close the running frontend")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config path         Print the settings file path")
	fmt.Fprintln(w, "  config print        Print settings (ini, yaml or json)")
	fmt.Fprintln(w, "  config edit         Edit settings in the terminal")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'vpinfe <command> --help' for command-specific options.")
}
