package app

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phillarmonic/crush/internal/builtins"
	"github.com/phillarmonic/crush/internal/cmdctx"
	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/engine"
	"github.com/phillarmonic/crush/internal/envloader"
	"github.com/phillarmonic/crush/internal/history"
	"github.com/phillarmonic/crush/internal/lexer"
	"github.com/phillarmonic/crush/internal/parser"
	"github.com/phillarmonic/crush/internal/registry"
	"github.com/phillarmonic/crush/internal/scope"
	"github.com/phillarmonic/crush/internal/value"
)

// App represents the CLI application (spec §6, "External Interfaces"),
// grounded on the teacher's cmd/drun/app.App: a Cobra root command plus
// one field per flag, no subcommand tree beyond cmd: built-ins.
type App struct {
	version string
	commit  string
	date    string

	rootCmd *cobra.Command

	inlineSource string
	debugTokens  bool
	debugAST     bool

	printer cmdctx.Printer
	reg     *registry.Registry
	exec    *engine.Executor
	hist    *history.History
}

// NewApp wires a fresh Executor over a Registry populated with every
// built-in command (spec §4.3, §4.5).
func NewApp(version, commit, date string) *App {
	app := &App{version: version, commit: commit, date: date}

	app.printer = &stdoutPrinter{}
	app.reg = registry.NewRegistry()
	builtins.Register(app.reg)
	app.exec = engine.NewExecutor(app.reg, app.printer)

	app.rootCmd = &cobra.Command{
		Use:   "crush [script]",
		Short: "A structured-data shell",
		Long: `crush pipes typed rows between commands instead of text between
processes: every command declares what it emits, and pipelines fail
fast on a type mismatch rather than downstream on a parse error.

Examples:
  crush script.crush             # run a script file
  crush                          # start an interactive REPL
  crush -c "ls | sort ^name"     # run a single job inline
  crush --debug-tokens script.crush
  crush --debug-ast script.crush`,
		RunE: app.run,
		Args: cobra.MaximumNArgs(1),
	}

	app.rootCmd.Flags().StringVarP(&app.inlineSource, "command", "c", "", "run a single job passed as a string")
	app.rootCmd.Flags().BoolVar(&app.debugTokens, "debug-tokens", false, "print lexer tokens instead of running")
	app.rootCmd.Flags().BoolVar(&app.debugAST, "debug-ast", false, "print the number of parsed jobs instead of running")

	return app
}

// Execute runs the CLI and returns the process exit code (spec §6:
// "exit code 0 on success, 1 on a run-time error, 2 on a parse error").
func (a *App) Execute() int {
	if err := a.rootCmd.Execute(); err != nil {
		if ce, ok := err.(*crusherrors.Error); ok && ce.Kind == crusherrors.ParseError {
			return 2
		}
		return 1
	}
	return 0
}

func (a *App) run(cmd *cobra.Command, args []string) error {
	if wd, err := os.Getwd(); err == nil {
		_ = envloader.Apply(wd)
	}

	if h, err := history.Open(historyDir()); err == nil {
		a.hist = h
		defer h.Close()
	}

	if a.inlineSource != "" {
		return a.runSource(a.inlineSource, "<command-line>")
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return crusherrors.NewIOError("reading %s: %v", args[0], err)
		}
		return a.runSource(string(data), args[0])
	}
	return a.repl()
}

func (a *App) runSource(source, filename string) error {
	jobs, err := parser.Parse(source)
	if err != nil {
		if ce, ok := err.(*crusherrors.Error); ok {
			fmt.Fprint(os.Stderr, ce.WithSource(filename, source).FormatError())
		}
		return err
	}

	if a.debugTokens {
		a.printTokens(source)
		return nil
	}
	if a.debugAST {
		fmt.Printf("%d job(s) parsed\n", len(jobs))
		return nil
	}

	sc := scope.New()
	for _, job := range jobs {
		if a.hist != nil {
			_ = a.hist.Append(source)
		}
		v, err := a.exec.RunJob(job, sc)
		if err != nil {
			if ce, ok := err.(*crusherrors.Error); ok {
				fmt.Fprint(os.Stderr, ce.WithSource(filename, source).FormatError())
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
			return err
		}
		if v.Kind != value.KindEmpty {
			fmt.Println(v.String())
		}
	}
	return nil
}

func (a *App) printTokens(source string) {
	l := lexer.New(source)
	for {
		tok := l.NextToken()
		fmt.Printf("%-14s %q\n", tok.Type, tok.Literal)
		if tok.Type == lexer.EOF {
			return
		}
	}
}

// repl runs an interactive read-eval-print loop over stdin, a single
// persistent scope shared across every line (spec §4.7: declarations
// made at the top level stay visible to later input).
func (a *App) repl() error {
	sc := scope.New()
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("crush> ")
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(line) == 0 {
			continue
		}

		jobs, perr := parser.Parse(line)
		if perr != nil {
			if ce, ok := perr.(*crusherrors.Error); ok {
				fmt.Fprint(os.Stderr, ce.WithSource("<repl>", line).FormatError())
			}
			continue
		}
		for _, job := range jobs {
			if a.hist != nil {
				_ = a.hist.Append(line)
			}
			v, err := a.exec.RunJob(job, sc)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			if v.Kind != value.KindEmpty {
				fmt.Println(v.String())
			}
		}
	}
}

func historyDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".crush"
	}
	return home + "/.crush"
}

type stdoutPrinter struct{}

func (p *stdoutPrinter) Println(args ...any)              { fmt.Println(args...) }
func (p *stdoutPrinter) Printf(format string, args ...any) { fmt.Printf(format, args...) }
func (p *stdoutPrinter) Errorln(args ...any)               { fmt.Fprintln(os.Stderr, args...) }
