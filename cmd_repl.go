package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/subcommands"

	"nilan/interpreter"
	"nilan/lexer"
	"nilan/object"
	"nilan/parser"
)

// Color palette shared by both REPLs.
var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

const nilanBanner = `
███╗   ██╗██╗██╗      █████╗ ███╗   ██╗
████╗  ██║██║██║     ██╔══██╗████╗  ██║
██╔██╗ ██║██║██║     ███████║██╔██╗ ██║
██║╚██╗██║██║██║     ██╔══██║██║╚██╗██║
██║ ╚████║██║███████╗██║  ██║██║ ╚████║
╚═╝  ╚═══╝╚═╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═══╝
`

const bannerLine = "────────────────────────────────────────"

func printBanner(w io.Writer, engine string) {
	blueColor.Fprintln(w, bannerLine)
	greenColor.Fprint(w, nilanBanner)
	blueColor.Fprintln(w, bannerLine)
	yellowColor.Fprintf(w, "Welcome to the Nilan programming language! (%s)\n", engine)
	cyanColor.Fprintln(w, "Type 'exit' to quit. Use up/down arrows for history.")
	blueColor.Fprintln(w, bannerLine)
}

// replCmd is the tree-walking REPL: every line is lexed, parsed and
// evaluated directly over the AST, with bindings kept across lines.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start a REPL session using the tree-walking evaluator" }
func (*replCmd) Usage() string {
	return `nilan repl
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	printBanner(color.Output, "interpreted")

	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(color.Error, "💥 Failed to start line editor: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	interp := interpreter.Make()

	for {
		line, err := rl.Readline()
		if err != nil {
			return subcommands.ExitSuccess
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			return subcommands.ExitSuccess
		}
		rl.SaveHistory(line)

		lex := lexer.CreateLexer(line)
		tokens, _ := lex.Scan()
		if lexErrs := lex.Errors(); len(lexErrs) > 0 {
			for _, lexErr := range lexErrs {
				redColor.Fprintln(color.Error, lexErr)
			}
			continue
		}

		p := parser.Make(tokens)
		program, parseErrs := p.Parse()
		if len(parseErrs) > 0 {
			for _, parseErr := range parseErrs {
				redColor.Fprintln(color.Error, parseErr)
			}
			continue
		}

		result := interp.Eval(program)
		if result == nil || result == object.NULL {
			continue
		}
		if result.Type() == object.ERROR_VALUE {
			redColor.Fprintln(color.Error, result.Inspect())
			continue
		}
		yellowColor.Fprintln(color.Output, result.Inspect())
	}
}
