package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/subcommands"

	"nilan/compiler"
	"nilan/lexer"
	"nilan/object"
	"nilan/parser"
	"nilan/token"
	"nilan/vm"
)

// replCompiledCmd is the compiled REPL: every completed input is
// compiled to bytecode and run on one persistent VM, so globals defined
// on earlier lines stay visible. Incomplete input (an open brace, a
// trailing operator) switches to a continuation prompt instead of
// reporting an error.
type replCompiledCmd struct {
	disassemble bool
}

func (*replCompiledCmd) Name() string { return "cRepl" }
func (*replCompiledCmd) Synopsis() string {
	return "Start a REPL session using the bytecode compiler and VM"
}
func (*replCompiledCmd) Usage() string {
	return `nilan cRepl
`
}

func (cmd *replCompiledCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.disassemble, "disassemble", false, "print the compiled instructions before running them")
	f.BoolVar(&cmd.disassemble, "di", false, "Shorthand for disassemble.")
}

func (cmd *replCompiledCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	printBanner(color.Output, "compiled")

	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(color.Error, "💥 Failed to start line editor: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	machine := vm.New()
	symbolTable := compiler.NewSymbolTable()
	var constants []object.Value
	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err != nil {
			return subcommands.ExitSuccess
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}
		if strings.TrimSpace(line) == "" && buffer.Len() == 0 {
			continue
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		lex := lexer.CreateLexer(source)
		tokens, _ := lex.Scan()
		if !isInputReady(tokens) {
			continue
		}
		rl.SaveHistory(source)
		buffer.Reset()

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

		comp := compiler.NewWithState(symbolTable, constants)
		if err := comp.Compile(program); err != nil {
			redColor.Fprintln(color.Error, err)
			continue
		}
		bytecodeOut := comp.Bytecode()
		constants = bytecodeOut.Constants

		if cmd.disassemble {
			cyanColor.Fprint(color.Output, bytecodeOut.Instructions.String())
		}

		if err := machine.Run(bytecodeOut); err != nil {
			redColor.Fprintln(color.Error, err)
			continue
		}

		result := machine.LastPopped()
		if result == nil || result == object.NULL {
			continue
		}
		yellowColor.Fprintln(color.Output, result.Inspect())
	}
}

// isInputReady checks if the input is ready to be parsed and executed. It
// checks for balanced braces, and whether the last non-EOF token is an
// operator or keyword that expects more input.
//
// For example, if the user types `if (x > 5) {`, the REPL should wait for
// more input until the user finishes the block with a `}`.
func isInputReady(tokens []token.Token) bool {
	braceBalance := 0
	for _, tok := range tokens {
		switch tok.TokenType {
		case token.LCUR:
			braceBalance++
		case token.RCUR:
			braceBalance--
		}
	}

	if braceBalance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}

	switch last.TokenType {
	case token.ASSIGN,
		token.ADD,
		token.SUB,
		token.MULT,
		token.DIV,
		token.BANG,
		token.EQUAL_EQUAL,
		token.NOT_EQUAL,
		token.LESS,
		token.LARGER,
		token.COMMA,
		token.COLON,
		token.LPA,
		token.LCUR,
		token.LBRACKET,
		token.IF,
		token.ELSE,
		token.FUNC,
		token.LET,
		token.RETURN:
		return false
	}

	return true
}

// lastNonEOF returns the last non-EOF token from the list of tokens. If
// all tokens are EOF, it returns nil.
func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].TokenType != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}
