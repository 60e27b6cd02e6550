package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/QUAKTECH/sftm/internal/config"
	"github.com/QUAKTECH/sftm/internal/logging"
	"github.com/QUAKTECH/sftm/internal/model"
	"github.com/QUAKTECH/sftm/internal/prompt"
	"github.com/QUAKTECH/sftm/internal/store/textstore"
	"github.com/QUAKTECH/sftm/internal/tui"
	"github.com/QUAKTECH/sftm/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "0.1.0"

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Options carries the resolved config and the process streams.
// Nil streams default to the os ones.
type Options struct {
	Config *config.Config
	Logger *log.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type app struct {
	cfg   *config.Config
	store *textstore.Store
	p     *ui.Printer
	in    io.Reader
	log   *log.Logger
}

func newApp(opt Options) *app {
	if opt.Stdin == nil {
		opt.Stdin = os.Stdin
	}
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}
	if opt.Logger == nil {
		opt.Logger = logging.Discard()
	}
	return &app{
		cfg:   opt.Config,
		store: textstore.New(opt.Config.TodoDir, opt.Logger),
		p:     ui.NewPrinter(opt.Stdout, opt.Stderr, opt.Config.Theme, opt.Config.Color),
		in:    opt.Stdin,
		log:   opt.Logger,
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// Invalid line numbers and already-checked todos are reported but exit 0.
func Run(args []string, opt Options) int {
	a := newApp(opt)
	if len(args) == 0 {
		PrintHelp(a.p.Err())
		return exitUsage
	}
	cmd, rest := args[0], args[1:]
	a.log.Debug("dispatch", "command", cmd, "args", rest, "todo_dir", a.cfg.TodoDir)

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(a.p.Out())
		return exitOK

	case "version", "--version":
		fmt.Fprint(a.p.Out(), Banner())
		return exitOK

	case "add":
		if len(rest) != 2 {
			return a.usage("usage: sftm add <todo> <file>")
		}
		return a.doAdd(rest[0], rest[1])

	case "check":
		if len(rest) != 2 {
			return a.usage("usage: sftm check <line_number> <file>")
		}
		n, ok := a.lineNumber("check", rest[0])
		if !ok {
			return exitUsage
		}
		return a.doCheck(n, rest[1])

	case "remove":
		if len(rest) == 2 && rest[0] == "-f" {
			return a.doRemoveFile(rest[1])
		}
		if len(rest) == 1 && rest[0] == "-f" {
			return a.usage("usage: sftm remove -f <filename>")
		}
		if len(rest) != 2 {
			return a.usage("usage: sftm remove [-f] <line_number/filename> [file]")
		}
		n, ok := a.lineNumber("remove", rest[0])
		if !ok {
			return exitUsage
		}
		return a.doRemove(n, rest[1])

	case "show":
		return a.doShow(rest)

	case "list":
		if len(rest) != 0 {
			return a.usage("usage: sftm list")
		}
		return a.doList()
	}

	a.p.Fail("unknown command: " + cmd)
	fmt.Fprintln(a.p.Err())
	PrintHelp(a.p.Err())
	return exitUsage
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `sftm - Super Fast Todo Manager

Usage:
  sftm [flags] <command> [args]

Commands:
  add <todo> <file>            Add a todo (prompts for a description)
  check <line_number> <file>   Check off the todo at a 1-based line
  remove <line_number> <file>  Remove the todo at a 1-based line
  remove -f <file>             Delete a whole todo file
  show [-n] [-i] <file>        Print a todo file (-n numbers lines, -i interactive)
  list                         List todo files
  version                      Print version and license

Flags:
  -dir <path>       Todo directory (default ~/.sftm/todofiles)
  -theme <name>     classic | neon | mono
  -color <mode>     auto | always | never
  -debug            Print diagnostics to stderr

Examples:
  sftm add "Buy milk" groceries
  sftm show -n groceries
  sftm check 2 groceries
  sftm remove 1 groceries
`)
}

// -------------- subcommand impls ----------------

func (a *app) doAdd(title, file string) int {
	desc, err := prompt.Description(a.in, a.p.Out())
	if errors.Is(err, prompt.ErrCanceled) {
		a.p.Warn("add canceled")
		return exitOK
	}
	if err != nil {
		a.p.Fail("add: " + err.Error())
		return exitError
	}
	if err := a.store.Add(file, model.New(title, desc)); err != nil {
		return a.fail("add", file, err)
	}
	a.p.OK("Todo added successfully!")
	return exitOK
}

func (a *app) doCheck(n int, file string) int {
	_, err := a.store.Check(file, n)
	switch {
	case errors.Is(err, textstore.ErrInvalidLine):
		return a.invalidLine(err)
	case errors.Is(err, textstore.ErrAlreadyChecked):
		a.p.Warn("Todo is already checked off")
		return exitOK
	case err != nil:
		return a.fail("check", file, err)
	}
	a.p.OK("Todo checked off successfully!")
	return exitOK
}

func (a *app) doRemove(n int, file string) int {
	_, err := a.store.Remove(file, n)
	switch {
	case errors.Is(err, textstore.ErrInvalidLine):
		return a.invalidLine(err)
	case err != nil:
		return a.fail("remove", file, err)
	}
	a.p.OK("Todo removed successfully!")
	return exitOK
}

func (a *app) doRemoveFile(file string) int {
	if err := a.store.RemoveFile(file); err != nil {
		if errors.Is(err, textstore.ErrInvalidName) {
			return a.usage(err.Error())
		}
		a.p.Fail(fmt.Sprintf("Error removing file '%s': %s", file, rootCause(err)))
		return exitError
	}
	a.p.OK(fmt.Sprintf("File '%s' removed successfully", file))
	return exitOK
}

func (a *app) doShow(args []string) int {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	numbered := flags.Bool("n", false, "number lines")
	interactive := flags.Bool("i", false, "interactive browser")
	if err := flags.Parse(args); err != nil || flags.NArg() != 1 {
		return a.usage("usage: sftm show [-n] [-i] <file>")
	}
	file := flags.Arg(0)

	entries, err := a.store.Load(file)
	if err != nil {
		return a.fail("show", file, err)
	}

	if *interactive {
		return a.browse(file, entries)
	}

	for i, e := range entries {
		n := 0
		if *numbered {
			n = i + 1
		}
		a.p.Entry(e, n)
	}
	return exitOK
}

func (a *app) browse(file string, entries []model.Entry) int {
	if !prompt.IsTerminal(a.in) {
		return a.usage("show -i needs an interactive terminal")
	}
	out, changed, err := tui.Run(file, entries, a.p.Theme(), a.in, a.p.Out())
	if err != nil {
		a.p.Fail("tui: " + err.Error())
		return exitError
	}
	if !changed {
		return exitOK
	}
	if err := a.store.Save(file, out); err != nil {
		return a.fail("save", file, err)
	}
	a.p.OK("saved")
	return exitOK
}

func (a *app) doList() int {
	names, err := a.store.List()
	if err != nil {
		a.p.Fail("Error listing todo files: " + rootCause(err))
		return exitError
	}
	a.p.Header("Todo files:")
	for _, name := range names {
		a.p.Println("  " + name)
	}
	return exitOK
}

// -------------- error helpers --------------

func (a *app) usage(msg string) int {
	a.p.Fail(msg)
	return exitUsage
}

func (a *app) lineNumber(cmd, arg string) (int, bool) {
	n, err := strconv.Atoi(arg)
	// too large for an int is still a number; the range check rejects it
	if errors.Is(err, strconv.ErrRange) {
		return n, true
	}
	if err != nil {
		a.p.Fail(fmt.Sprintf("%s: not a line number: %s", cmd, arg))
		return 0, false
	}
	return n, true
}

func (a *app) invalidLine(err error) int {
	a.log.Debug("rejected line number", "err", err)
	a.p.Fail("Error: Invalid line number")
	a.p.Hint("Hint: run `sftm show -n <file>` to see valid line numbers")
	return exitOK
}

// fail reports a store error. Bad file names are usage errors; the rest are I/O.
func (a *app) fail(op, file string, err error) int {
	switch {
	case errors.Is(err, textstore.ErrInvalidName):
		return a.usage(op + ": " + err.Error())
	case errors.Is(err, fs.ErrNotExist):
		a.p.Fail(fmt.Sprintf("%s: todo file '%s' not found", op, file))
		a.p.Hint("Hint: run `sftm list` to see your todo files")
	default:
		a.p.Fail(op + ": " + err.Error())
	}
	return exitError
}

// rootCause strips our wrapping so the OS message is shown as-is.
func rootCause(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
