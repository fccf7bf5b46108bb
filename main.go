package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&replCompiledCmd{}, "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&runCompiledCmd{}, "")
	subcommands.Register(&buildCmd{}, "")

	// Bare invocations keep the driver contract: no arguments starts the
	// REPL, a bare source file is interpreted, a bare .mb file runs on
	// the VM. Everything else goes through subcommand dispatch as typed.
	if len(os.Args) < 2 {
		os.Args = append(os.Args, "cRepl")
	} else if name := implicitCommand(os.Args[1]); name != "" {
		os.Args = append([]string{os.Args[0], name}, os.Args[1:]...)
	}

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

// implicitCommand maps a bare file argument to the subcommand handling
// its extension. Unknown extensions (and subcommand names, which have
// none) return "" and dispatch normally.
func implicitCommand(arg string) string {
	switch filepath.Ext(arg) {
	case ".mo", ".monkey":
		return "run"
	case ".mb":
		return "runc"
	}
	return ""
}
