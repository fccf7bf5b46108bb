// Package interpreter implements the tree-walking evaluator: it runs
// directly over the AST plus a chain of object.Environment scopes,
// without ever lowering to bytecode.
package interpreter

import (
	"nilan/ast"
	"nilan/object"
)

// TreeWalkInterpreter executes parsed statements and evaluates
// expressions by dispatching through the ast visitor interfaces.
// Evaluation errors are first-class *object.Error values that
// short-circuit the enclosing construct; no panic/recover is involved.
// maxEvalDepth bounds recursion through eval so a deeply nested
// expression or runaway recursive call produces an Error value instead
// of overflowing the Go stack.
const maxEvalDepth = 10000

type TreeWalkInterpreter struct {
	environment *object.Environment
	depth       int
}

// Make creates a tree-walking interpreter with a fresh global environment.
func Make() *TreeWalkInterpreter {
	return &TreeWalkInterpreter{
		environment: object.NewEnvironment(),
	}
}

// Eval evaluates an entire program, unwrapping any ReturnValue produced
// by a top-level "return" statement into its underlying value.
func (i *TreeWalkInterpreter) Eval(program ast.Program) object.Value {
	var result object.Value = object.NULL

	for _, stmt := range program.Statements {
		result = i.eval(stmt)

		switch res := result.(type) {
		case *object.ReturnValue:
			return res.Value
		case *object.Error:
			return res
		}
	}

	return result
}

// eval dispatches a single statement or expression node through Accept,
// then recovers the object.Value the matching Visit method produced.
func (i *TreeWalkInterpreter) eval(node ast.Node) object.Value {
	if i.depth >= maxEvalDepth {
		return newError("maximum evaluation depth exceeded")
	}
	i.depth++
	defer func() { i.depth-- }()

	switch n := node.(type) {
	case ast.Stmt:
		return n.Accept(i).(object.Value)
	case ast.Expression:
		return n.Accept(i).(object.Value)
	default:
		return object.NULL
	}
}

func (i *TreeWalkInterpreter) evalBlockStatement(block ast.BlockStatement) object.Value {
	var result object.Value = object.NULL

	for _, stmt := range block.Statements {
		result = i.eval(stmt)

		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE || rt == object.ERROR_VALUE {
				return result
			}
		}
	}

	return result
}

// VisitLetStatement evaluates the right-hand side and binds it in the
// current environment. Errors short-circuit before the binding happens.
func (i *TreeWalkInterpreter) VisitLetStatement(node ast.LetStatement) any {
	val := i.eval(node.Value)
	if isError(val) {
		return val
	}
	i.environment.Set(node.Name.Value, val)
	return val
}

// VisitReturnStatement wraps its value in a ReturnValue so enclosing
// blocks can unwind without examining the AST further.
func (i *TreeWalkInterpreter) VisitReturnStatement(node ast.ReturnStatement) any {
	if node.ReturnValue == nil {
		return &object.ReturnValue{Value: object.NULL}
	}
	val := i.eval(node.ReturnValue)
	if isError(val) {
		return val
	}
	return &object.ReturnValue{Value: val}
}

func (i *TreeWalkInterpreter) VisitExpressionStatement(node ast.ExpressionStatement) any {
	return i.eval(node.Expression)
}

func (i *TreeWalkInterpreter) VisitBlockStatement(node ast.BlockStatement) any {
	return i.evalBlockStatement(node)
}

func (i *TreeWalkInterpreter) VisitIdentifier(node ast.Identifier) any {
	if val, ok := i.environment.Get(node.Value); ok {
		return val
	}
	if builtin := object.GetBuiltinByName(node.Value); builtin != nil {
		return builtin
	}
	return newError("identifier not found: %s", node.Value)
}

func (i *TreeWalkInterpreter) VisitIntegerLiteral(node ast.IntegerLiteral) any {
	return &object.Integer{Value: node.Value}
}

func (i *TreeWalkInterpreter) VisitBoolean(node ast.Boolean) any {
	return nativeBoolToBooleanObject(node.Value)
}

func (i *TreeWalkInterpreter) VisitStringLiteral(node ast.StringLiteral) any {
	return &object.String{Value: node.Value}
}

func (i *TreeWalkInterpreter) VisitArrayLiteral(node ast.ArrayLiteral) any {
	elements := i.evalExpressions(node.Elements)
	if len(elements) == 1 && isError(elements[0]) {
		return elements[0]
	}
	return &object.Array{Elements: elements}
}

func (i *TreeWalkInterpreter) VisitHashLiteral(node ast.HashLiteral) any {
	pairs := make(map[object.HashKey]object.HashPair, len(node.Pairs))

	for _, pair := range node.Pairs {
		key := i.eval(pair.Key)
		if isError(key) {
			return key
		}

		hashable, ok := key.(object.Hashable)
		if !ok {
			return newError("unusable as hash key: %s", key.Type())
		}

		value := i.eval(pair.Value)
		if isError(value) {
			return value
		}

		pairs[hashable.HashKey()] = object.HashPair{Key: key, Value: value}
	}

	return &object.Hash{Pairs: pairs}
}

func (i *TreeWalkInterpreter) VisitPrefixExpression(node ast.PrefixExpression) any {
	right := i.eval(node.Right)
	if isError(right) {
		return right
	}
	return evalPrefixExpression(node.Operator, right)
}

func (i *TreeWalkInterpreter) VisitInfixExpression(node ast.InfixExpression) any {
	left := i.eval(node.Left)
	if isError(left) {
		return left
	}
	right := i.eval(node.Right)
	if isError(right) {
		return right
	}
	return evalInfixExpression(node.Operator, left, right)
}

func (i *TreeWalkInterpreter) VisitIfExpression(node ast.IfExpression) any {
	condition := i.eval(node.Condition)
	if isError(condition) {
		return condition
	}

	if isTruthy(condition) {
		return i.evalBlockStatement(node.Consequence)
	} else if node.Alternative != nil {
		return i.evalBlockStatement(*node.Alternative)
	}
	return object.NULL
}

func (i *TreeWalkInterpreter) VisitFunctionLiteral(node ast.FunctionLiteral) any {
	return &object.Function{
		Parameters: node.Parameters,
		Body:       node.Body,
		Env:        i.environment,
	}
}

func (i *TreeWalkInterpreter) VisitCallExpression(node ast.CallExpression) any {
	fn := i.eval(node.Function)
	if isError(fn) {
		return fn
	}

	args := i.evalExpressions(node.Arguments)
	if len(args) == 1 && isError(args[0]) {
		return args[0]
	}

	return i.applyFunction(fn, args)
}

func (i *TreeWalkInterpreter) VisitIndexExpression(node ast.IndexExpression) any {
	left := i.eval(node.Left)
	if isError(left) {
		return left
	}
	index := i.eval(node.Index)
	if isError(index) {
		return index
	}
	return evalIndexExpression(left, index)
}

// evalExpressions evaluates exps left-to-right, stopping early and
// returning a single-element slice containing just the error if any
// expression fails.
func (i *TreeWalkInterpreter) evalExpressions(exps []ast.Expression) []object.Value {
	var result []object.Value

	for _, e := range exps {
		evaluated := i.eval(e)
		if isError(evaluated) {
			return []object.Value{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

func (i *TreeWalkInterpreter) applyFunction(fn object.Value, args []object.Value) object.Value {
	switch fn := fn.(type) {
	case *object.Function:
		extendedEnv := extendFunctionEnv(fn, args)
		prev := i.environment
		i.environment = extendedEnv
		evaluated := i.evalBlockStatement(fn.Body)
		i.environment = prev

		if returnValue, ok := evaluated.(*object.ReturnValue); ok {
			return returnValue.Value
		}
		return evaluated
	case *object.Builtin:
		return fn.Fn(args...)
	default:
		return newError("not a function: %s", fn.Type())
	}
}

func extendFunctionEnv(fn *object.Function, args []object.Value) *object.Environment {
	env := object.NewEnclosedEnvironment(fn.Env)
	for paramIdx, param := range fn.Parameters {
		if paramIdx < len(args) {
			env.Set(param.Value, args[paramIdx])
		}
	}
	return env
}
