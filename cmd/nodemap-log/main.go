// Command nodemap-log is a tool for viewing and analyzing node map capture
// files.
//
// Capture files are written by a node map configured with a file event
// logger, for example nodemap-shell started with -capture.
//
// Usage:
//
//	nodemap-log <command> [flags] <file.nlog>
//
// Commands:
//
//	view     View capture file in human-readable format
//	export   Export capture file to JSON or CSV format
//	filter   Filter capture file and write to new file
//	stats    Show statistics about the capture file
//
// Examples:
//
//	# View only port writes
//	nodemap-log view -direction write camera.nlog
//
//	# Export to CSV
//	nodemap-log export -format csv -o camera.csv camera.nlog
//
//	# Keep the traffic of one register
//	nodemap-log filter -address 0x100 -o width.nlog camera.nlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nodemap-go/nodemap/cmd/nodemap-log/commands"
)

const usage = `nodemap-log - Node Map Capture Analyzer

Usage:
  nodemap-log <command> [flags] <file.nlog>

Commands:
  view     View capture file in human-readable format
  export   Export capture file to JSON or CSV format
  filter   Filter capture file and write to new file
  stats    Show statistics about the capture file

Use "nodemap-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// parseArgs parses the flags and returns the capture file argument.
func parseArgs(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func usageFor(fs *flag.FlagSet, text string) func() {
	return func() {
		fmt.Fprint(os.Stderr, text)
		fs.PrintDefaults()
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = usageFor(fs, `nodemap-log view - View capture file in human-readable format

Usage:
  nodemap-log view [flags] <file.nlog>

Flags:
`)

	layer := fs.String("layer", "", "Filter by layer (port, node, map)")
	direction := fs.String("direction", "", "Filter by direction (read, write)")
	category := fs.String("category", "", "Filter by category (io, invalidation, callback, state, error)")
	node := fs.String("node", "", "Filter by node name")
	path := parseArgs(fs, args)

	filter := commands.ViewFilter{Node: *node}
	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			fail(err)
		}
		filter.Layer = &l
	}
	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			fail(err)
		}
		filter.Direction = &d
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = usageFor(fs, `nodemap-log export - Export capture file to JSON or CSV format

Usage:
  nodemap-log export [flags] <file.nlog>

Flags:
`)

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path := parseArgs(fs, args)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = usageFor(fs, `nodemap-log filter - Filter capture file and write to new file

Usage:
  nodemap-log filter [flags] <file.nlog>

Flags:
`)

	var opts commands.FilterOptions
	fs.StringVar(&opts.Output, "o", "", "Output file (required)")
	fs.StringVar(&opts.SessionID, "session-id", "", "Filter by session ID")
	fs.StringVar(&opts.Node, "node", "", "Filter by node name")
	fs.StringVar(&opts.Address, "address", "", "Filter port events by register address")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (port, node, map)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (read, write)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (io, invalidation, callback, state, error)")
	path := parseArgs(fs, args)

	if opts.Output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	count, err := commands.RunFilter(path, opts)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", count, opts.Output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = usageFor(fs, `nodemap-log stats - Show statistics about the capture file

Usage:
  nodemap-log stats <file.nlog>

`)
	path := parseArgs(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
