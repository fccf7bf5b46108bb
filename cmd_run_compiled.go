package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nilan/bytecode"
	"nilan/compiler"
	"nilan/object"
	"nilan/vm"
)

// runCompiledCmd loads a pre-compiled .mb file and executes it on the
// VM, skipping the lexer, parser and compiler entirely.
type runCompiledCmd struct{}

func (*runCompiledCmd) Name() string     { return "runc" }
func (*runCompiledCmd) Synopsis() string { return "Execute a pre-compiled Nilan bytecode file" }
func (*runCompiledCmd) Usage() string {
	return `nilan runc <file.mb>
`
}
func (*runCompiledCmd) SetFlags(f *flag.FlagSet) {}

func (*runCompiledCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	file, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	compiled, err := bytecode.Read(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	machine := vm.New()
	if err := machine.Run(compiler.Bytecode{
		Instructions: compiled.Instructions,
		Constants:    compiled.Constants,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if result := machine.LastPopped(); result != nil && result != object.NULL {
		fmt.Println(result.Inspect())
	}
	return subcommands.ExitSuccess
}
