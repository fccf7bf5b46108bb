package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nilan/bytecode"
	"nilan/compiler"
	"nilan/lexer"
	"nilan/parser"
)

// buildCmd compiles a source file and writes the resulting bytecode to
// a .mb file that runc can execute later.
type buildCmd struct {
	disassemble bool
}

func (*buildCmd) Name() string { return "build" }
func (*buildCmd) Synopsis() string {
	return "Compile a source file to a Nilan bytecode file"
}
func (*buildCmd) Usage() string {
	return `nilan build <in.mo> <out.mb>
`
}

func (cmd *buildCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.disassemble, "disassemble", false, "print the compiled instructions to stdout")
	f.BoolVar(&cmd.disassemble, "di", false, "Shorthand for disassemble.")
}

func (cmd *buildCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "💥 Input and output files not provided\n")
		return subcommands.ExitUsageError
	}
	inFile, outFile := args[0], args[1]

	data, err := os.ReadFile(inFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	lex := lexer.New(string(data), inFile)
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

	comp := compiler.New()
	if err := comp.Compile(program); err != nil {
		fmt.Fprintf(os.Stderr, "💥 Compilation error:\n\t%v\n", err)
		return subcommands.ExitFailure
	}
	compiled := comp.Bytecode()

	if cmd.disassemble {
		fmt.Print(compiled.Instructions.String())
	}

	out, err := os.Create(outFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to create output file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	if err := bytecode.Write(bytecode.File{
		Instructions: compiled.Instructions,
		Constants:    compiled.Constants,
	}, out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
