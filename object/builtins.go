package object

import "fmt"

// Builtins holds the builtin function registry: len and puts. Both the
// tree-walking evaluator's identifier fallback and the compiler's
// builtin-constant fallback resolve builtins through this slice.
var Builtins = []struct {
	Name    string
	Builtin *Builtin
}{
	{
		"len",
		&Builtin{Fn: func(args ...Value) Value {
			if len(args) != 1 {
				return newError("wrong number of arguments. got=%d, want=1", len(args))
			}
			switch arg := args[0].(type) {
			case *Array:
				return &Integer{Value: int64(len(arg.Elements))}
			case *String:
				return &Integer{Value: int64(len(arg.Value))}
			default:
				return newError("argument to `len` not supported, got %s", arg.Type())
			}
		}},
	},
	{
		"puts",
		&Builtin{Fn: func(args ...Value) Value {
			for _, arg := range args {
				fmt.Println(arg.Inspect())
			}
			return NULL
		}},
	},
}

func newError(format string, a ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

// GetBuiltinByName returns the builtin registered under name, or nil if
// there is none.
func GetBuiltinByName(name string) *Builtin {
	for _, b := range Builtins {
		if b.Name == name {
			return b.Builtin
		}
	}
	return nil
}
