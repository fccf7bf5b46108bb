package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nilan/interpreter"
	"nilan/lexer"
	"nilan/object"
	"nilan/parser"
)

// runCmd interprets a source file with the tree-walking evaluator and
// prints the program's final value.
type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute Nilan code from a source file" }
func (*runCmd) Usage() string {
	return `nilan run <file.mo>
`
}
func (*runCmd) SetFlags(f *flag.FlagSet) {}

func (*runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	lex := lexer.New(string(data), filename)
	tokens, _ := lex.Scan()
	if lexErrs := lex.Errors(); len(lexErrs) > 0 {
		for _, lexErr := range lexErrs {
			fmt.Fprintln(os.Stderr, lexErr)
		}
		return subcommands.ExitFailure
	}

	p := parser.Make(tokens)
	program, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		for _, parseErr := range parseErrs {
			fmt.Fprintln(os.Stderr, parseErr)
		}
		return subcommands.ExitFailure
	}

	result := interpreter.Make().Eval(program)
	if result != nil && result.Type() == object.ERROR_VALUE {
		fmt.Fprintln(os.Stderr, result.Inspect())
		return subcommands.ExitFailure
	}
	if result != nil && result != object.NULL {
		fmt.Println(result.Inspect())
	}
	return subcommands.ExitSuccess
}
