package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/1broseidon/tagtile/internal/ipc"
)

func runCommand(args []string) int {
	fs := flag.NewFlagSet("command", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagtile command <line>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Send a command to the running window manager, e.g.")
		fmt.Fprintln(os.Stderr, "  tagtile command GoToTag 2")
		fmt.Fprintln(os.Stderr, "  tagtile command SetLayout monocle")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "command requires a command line")
		fs.Usage()
		return 2
	}

	data, err := ipc.NewClient().SendCommand(strings.Join(fs.Args(), " "))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(data.Outcome)
	return 0
}

func runState(args []string) int {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON (default when stdout is not a terminal)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagtile state [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the window manager's tags, workspaces and windows.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "state takes no arguments")
		fs.Usage()
		return 2
	}

	state, err := ipc.NewClient().GetState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printState(os.Stdout, state)
	return 0
}

func printState(w io.Writer, s *ipc.StateData) {
	fmt.Fprintf(w, "mode:           %s\n", s.Mode)
	fmt.Fprintf(w, "focused_tag:    %d\n", s.FocusedTag)
	fmt.Fprintf(w, "tag_history:    %v\n", s.TagHistory)
	fmt.Fprintf(w, "uptime_seconds: %d\n", s.UptimeSeconds)
	fmt.Fprintln(w, "")

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WORKSPACE\tTAG\tLAYOUT\tGEOMETRY\t")
	for _, ws := range s.Workspaces {
		marker := " "
		if ws.ID == s.FocusedWorkspace {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s%d\t%d\t%s\t%dx%d+%d+%d\t\n", marker, ws.ID, ws.Tag, ws.Layout, ws.Width, ws.Height, ws.X, ws.Y)
	}
	tw.Flush()
	fmt.Fprintln(w, "")

	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WINDOW\tTAGS\tFLOATING\tVISIBLE\tNAME\t")
	for _, win := range s.Windows {
		marker := " "
		if win.Handle == s.FocusedWindow {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s%d\t%v\t%t\t%t\t%s\t\n", marker, win.Handle, win.Tags, win.Floating, win.Visible, win.Name)
	}
	tw.Flush()
}
