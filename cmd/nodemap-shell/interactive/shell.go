// Package interactive provides the interactive command-line interface
// of nodemap-shell.
package interactive

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/nodemap-go/nodemap/pkg/inspect"
	"github.com/nodemap-go/nodemap/pkg/nodemap"
	"github.com/nodemap-go/nodemap/pkg/persistence"
)

// Shell handles the interactive mode of nodemap-shell.
type Shell struct {
	m         *nodemap.NodeMap
	inspector *inspect.Inspector
	formatter *inspect.Formatter
	store     *persistence.FileStore
	out       io.Writer

	watches map[string]nodemap.CallbackHandle
}

// New creates a shell over m writing to out. store may be nil, which
// disables the save and load commands.
func New(m *nodemap.NodeMap, store *persistence.FileStore, maxVisibility nodemap.Visibility, out io.Writer) *Shell {
	i := inspect.NewInspector(m)
	i.MaxVisibility = maxVisibility
	return &Shell{
		m:         m,
		inspector: i,
		formatter: inspect.NewFormatter(),
		store:     store,
		out:       out,
		watches:   make(map[string]nodemap.CallbackHandle),
	}
}

// Run reads commands from a readline prompt until quit or end of input.
func (s *Shell) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    &completer{s: s},
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	s.out = rl.Stdout()
	s.printHelp()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		}
		if s.Execute(line) {
			return nil
		}
	}
}

func (s *Shell) prompt() string {
	if name := s.m.ModelName(); name != "" {
		return strings.ToLower(name) + "> "
	}
	return "nodemap> "
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" || strings.HasPrefix(input, "#") {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
	case "tree", "t":
		s.cmdTree(args)
	case "inspect", "i":
		s.cmdInspect(args)
	case "get", "read", "r":
		s.cmdGet(args)
	case "set", "write", "w":
		s.cmdSet(args)
	case "exec", "x":
		s.cmdExec(args)
	case "done":
		s.cmdDone(args)
	case "find", "f":
		s.cmdFind(args)
	case "watch":
		s.cmdWatch(args)
	case "unwatch":
		s.cmdUnwatch(args)
	case "poll":
		s.cmdPoll(args)
	case "invalidate":
		s.cmdInvalidate(args)
	case "save":
		s.cmdSave()
	case "load":
		s.cmdLoad()
	case "info":
		fmt.Fprintln(s.out, s.m.Describe())
	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Node Map Commands:
  Inspection:
    tree [category]      - Show the category tree (default Root)
    inspect <path>       - Show a node with its metadata
    find <prefix>        - List node names starting with prefix
    info                 - Show the loaded description

  Values:
    get <path>           - Read a value (-f bypasses the cache)
    set <path> <value>   - Write a value
    exec <command>       - Execute a command
    done <command>       - Report whether a command has finished
    invalidate [path]    - Drop cached values (all when no path)
    poll <duration>      - Advance polling time, e.g. poll 250ms

  Callbacks:
    watch <path>         - Print a line whenever the node changes
    unwatch <path>       - Stop watching a node

  Persistence:
    save                 - Save streamable features to the state file
    load                 - Restore features from the state file

  General:
    help                 - Show this help
    quit                 - Exit the shell

  Path Format:
    Category/.../Feature, e.g. Root/ImageFormatControl/Width, or a bare
    node name. Names are matched ignoring case.`)
}

func (s *Shell) cmdTree(args []string) {
	root := "Root"
	if len(args) > 0 {
		root = args[0]
	}
	tree, err := s.inspector.Tree(root)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(s.out, s.formatter.FormatTree(tree))
}

func (s *Shell) cmdInspect(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: inspect <path>")
		return
	}
	info, err := s.inspector.InspectNode(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	f := *s.formatter
	f.ShowToolTips = true
	fmt.Fprint(s.out, f.FormatNode(0, *info))
}

func (s *Shell) cmdGet(args []string) {
	var opts []nodemap.AccessOption
	if len(args) > 0 && args[0] == "-f" {
		opts = append(opts, nodemap.WithIgnoreCache())
		args = args[1:]
	}
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: get [-f] <path>")
		return
	}
	value, err := s.inspector.Read(args[0], opts...)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	unit := ""
	if info, err := s.inspector.InspectNode(args[0]); err == nil {
		unit = info.Unit
	}
	fmt.Fprintf(s.out, "%s = %s\n", args[0], s.formatter.FormatValue(value, unit))
}

func (s *Shell) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: set <path> <value>")
		fmt.Fprintln(s.out, "  Example: set Width 800")
		return
	}
	value := strings.Trim(strings.Join(args[1:], " "), "\"'")
	if err := s.inspector.Write(args[0], value); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "OK: %s = %s\n", args[0], value)
}

func (s *Shell) cmdExec(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: exec <command>")
		return
	}
	if err := s.inspector.Execute(args[0]); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Executed %s\n", args[0])
}

func (s *Shell) cmdDone(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: done <command>")
		return
	}
	done, err := s.inspector.IsDone(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s done: %t\n", args[0], done)
}

func (s *Shell) cmdFind(args []string) {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	names := inspect.CompleteName(s.m, prefix, s.inspector.MaxVisibility)
	if len(names) == 0 {
		fmt.Fprintln(s.out, "No matching nodes")
		return
	}
	for _, name := range names {
		fmt.Fprintf(s.out, "  %s\n", name)
	}
}

func (s *Shell) cmdWatch(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: watch <path>")
		return
	}
	n, err := s.node(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if _, ok := s.watches[n.Name()]; ok {
		fmt.Fprintf(s.out, "Already watching %s\n", n.Name())
		return
	}
	h, err := s.m.Register(n, s.printChange)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.watches[n.Name()] = h
	fmt.Fprintf(s.out, "Watching %s\n", n.Name())
}

// printChange is the callback of watched nodes. It runs with the map
// locked, so reading the node again is fine.
func (s *Shell) printChange(n *nodemap.Node) {
	if !n.AccessMode().CanRead() {
		fmt.Fprintf(s.out, "[changed] %s (%s)\n", n.Name(), inspect.FormatAccess(n.AccessMode()))
		return
	}
	value, err := n.ToString()
	if err != nil {
		fmt.Fprintf(s.out, "[changed] %s <%v>\n", n.Name(), err)
		return
	}
	fmt.Fprintf(s.out, "[changed] %s = %s\n", n.Name(), value)
}

func (s *Shell) cmdUnwatch(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: unwatch <path>")
		return
	}
	n, err := s.node(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	h, ok := s.watches[n.Name()]
	if !ok {
		fmt.Fprintf(s.out, "Not watching %s\n", n.Name())
		return
	}
	if err := s.m.Deregister(h); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	delete(s.watches, n.Name())
	fmt.Fprintf(s.out, "Stopped watching %s\n", n.Name())
}

func (s *Shell) cmdPoll(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: poll <duration>")
		return
	}
	d, err := time.ParseDuration(args[0])
	if err != nil || d < 0 {
		fmt.Fprintf(s.out, "Invalid duration: %s\n", args[0])
		return
	}
	s.m.Poll(d)
}

func (s *Shell) cmdInvalidate(args []string) {
	if len(args) == 0 {
		s.m.InvalidateAll()
		fmt.Fprintln(s.out, "Invalidated all nodes")
		return
	}
	n, err := s.node(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	n.Invalidate()
	fmt.Fprintf(s.out, "Invalidated %s\n", n.Name())
}

func (s *Shell) cmdSave() {
	if s.store == nil {
		fmt.Fprintln(s.out, "No state file configured")
		return
	}
	snap, err := persistence.Capture(s.m)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if err := s.store.Save(snap); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Saved %d features to %s\n", len(snap.Features), s.store.Path())
}

func (s *Shell) cmdLoad() {
	if s.store == nil {
		fmt.Fprintln(s.out, "No state file configured")
		return
	}
	snap, err := s.store.Load()
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if snap == nil {
		fmt.Fprintf(s.out, "No saved state in %s\n", s.store.Path())
		return
	}
	if err := persistence.Restore(s.m, snap); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Restored %d features from %s\n", len(snap.Features), s.store.Path())
}

func (s *Shell) node(path string) (*nodemap.Node, error) {
	p, err := inspect.ParsePath(path)
	if err != nil {
		return nil, err
	}
	return inspect.Resolve(s.m, p)
}

// completer completes the last word of the input with node names.
type completer struct {
	s *Shell
}

// Do implements readline.AutoCompleter.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	start := strings.LastIndexAny(head, " /") + 1
	word := head[start:]
	if !strings.Contains(head[:start], " ") {
		// Still typing the command.
		return nil, 0
	}

	var out [][]rune
	for _, name := range inspect.CompleteName(c.s.m, word, c.s.inspector.MaxVisibility) {
		out = append(out, []rune(name[len(word):]))
	}
	return out, len([]rune(word))
}
