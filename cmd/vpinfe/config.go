package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vpinfe/vpinfe/internal/ipc"
	"github.com/vpinfe/vpinfe/internal/managerui"
	"github.com/vpinfe/vpinfe/internal/settings"
	"github.com/vpinfe/vpinfe/internal/tui"
)

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  vpinfe config path [--config-dir DIR]")
	fmt.Fprintln(w, "  vpinfe config print [--config-dir DIR] [--format ini|yaml|json]")
	fmt.Fprintln(w, "  vpinfe config edit [--config-dir DIR]")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "help", "-h", "--help":
		printConfigUsage(os.Stdout)
		return 0
	case "path":
		fs := flag.NewFlagSet("path", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		configDir := fs.String("config-dir", "", "Configuration directory")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		paths, err := resolvePaths(*configDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(paths.Settings)
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		configDir := fs.String("config-dir", "", "Configuration directory")
		format := fs.String("format", "ini", "Output format: ini, yaml or json")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		_, store, err := loadSettings(*configDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := printSettings(os.Stdout, store, *format); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "edit":
		fs := flag.NewFlagSet("edit", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		configDir := fs.String("config-dir", "", "Configuration directory")
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: vpinfe config edit [--config-dir DIR]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Interactive terminal editor for the settings file.")
			fmt.Fprintln(os.Stderr, "Saving reloads the frontend windows when vpinfe is running.")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Keybindings:")
			fmt.Fprintln(os.Stderr, "  tab/shift-tab  Switch sections")
			fmt.Fprintln(os.Stderr, "  1-9            Jump to section")
			fmt.Fprintln(os.Stderr, "  e              Edit the current section")
			fmt.Fprintln(os.Stderr, "  E              Open the file in $EDITOR")
			fmt.Fprintln(os.Stderr, "  r              Refresh status and monitors")
			fmt.Fprintln(os.Stderr, "  ctrl-s         Review and save changes")
			fmt.Fprintln(os.Stderr, "  q, ctrl-c      Quit")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		paths, store, err := loadSettings(*configDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		err = tui.Run(tui.Options{
			Store:    store,
			Library:  managerui.DirLibrary{Paths: paths},
			Client:   ipc.NewClient(),
			Displays: listDisplays,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func resolvePaths(configDir string) (settings.Paths, error) {
	if configDir != "" {
		return settings.PathsIn(configDir), nil
	}
	return settings.DefaultPaths()
}

func printSettings(w io.Writer, store *settings.Store, format string) error {
	switch format {
	case "ini", "":
		_, err := store.WriteTo(w)
		return err
	case "yaml":
		data, err := yaml.Marshal(store)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(store.Snapshot())
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
