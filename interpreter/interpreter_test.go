package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nilan/lexer"
	"nilan/object"
	"nilan/parser"
)

func testEval(t *testing.T, input string) object.Value {
	t.Helper()
	l := lexer.CreateLexer(input)
	tokens, _ := l.Scan()
	p := parser.Make(tokens)
	program, errs := p.Parse()
	require.Empty(t, errs, "parser errors: %v", errs)
	return Make().Eval(program)
}

func TestEvalIntegerExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"5", 5},
		{"10", 10},
		{"-5", -5},
		{"5 + 5 + 5 + 5 - 10", 10},
		{"2 * 2 * 2 * 2 * 2", 32},
		{"(5 + 10 * 2 + 15 / 3) * 2 + -10", 50},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		intVal, ok := result.(*object.Integer)
		require.True(t, ok, "expected *object.Integer, got %T (%+v)", result, result)
		assert.Equal(t, tt.expected, intVal.Value)
	}
}

func TestEvalBooleanExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true", true},
		{"false", false},
		{"1 < 2", true},
		{"1 > 2", false},
		{"1 == 1", true},
		{"1 != 1", false},
		{"true == true", true},
		{"true != false", true},
		{"(1 < 2) == true", true},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		boolVal, ok := result.(*object.Boolean)
		require.True(t, ok)
		assert.Equal(t, tt.expected, boolVal.Value)
	}
}

func TestBangOperator(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"!true", false},
		{"!false", true},
		{"!5", false},
		{"!!true", true},
		{"!!5", true},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		boolVal := result.(*object.Boolean)
		assert.Equal(t, tt.expected, boolVal.Value)
	}
}

func TestIfElseExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"if (true) { 10 }", int64(10)},
		{"if (false) { 10 }", nil},
		{"if (1) { 10 }", int64(10)},
		{"if (1 < 2) { 10 }", int64(10)},
		{"if (1 > 2) { 10 } else { 20 }", int64(20)},
		{"if (1 < 2) { 10 } else { 20 }", int64(10)},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		if tt.expected == nil {
			assert.Equal(t, object.NULL, result)
			continue
		}
		intVal := result.(*object.Integer)
		assert.Equal(t, tt.expected, intVal.Value)
	}
}

func TestReturnStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"return 10;", 10},
		{"return 10; 9;", 10},
		{"return 2 * 5; 9;", 10},
		{"9; return 2 * 5; 9;", 10},
		{`
if (10 > 1) {
  if (10 > 1) {
    return 10;
  }
  return 1;
}
`, 10},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		intVal := result.(*object.Integer)
		assert.Equal(t, tt.expected, intVal.Value)
	}
}

func TestErrorHandling(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5 + true;", "type mismatch: INTEGER + BOOLEAN"},
		{"5 + true; 5;", "type mismatch: INTEGER + BOOLEAN"},
		{"-true", "unknown operator: -BOOLEAN"},
		{"true + false;", "unknown operator: BOOLEAN + BOOLEAN"},
		{"5; true + false; 5", "unknown operator: BOOLEAN + BOOLEAN"},
		{"if (10 > 1) { true + false; }", "unknown operator: BOOLEAN + BOOLEAN"},
		{"foobar", "identifier not found: foobar"},
		{`"Hello" - "World"`, "unknown operator: STRING - STRING"},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		errObj, ok := result.(*object.Error)
		require.True(t, ok, "expected *object.Error, got %T (%+v)", result, result)
		assert.Equal(t, tt.expected, errObj.Message)
	}
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"let a = 5; a;", 5},
		{"let a = 5 * 5; a;", 25},
		{"let a = 5; let b = a; b;", 5},
		{"let a = 5; let b = a; let c = a + b + 5; c;", 15},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		intVal := result.(*object.Integer)
		assert.Equal(t, tt.expected, intVal.Value)
	}
}

func TestFunctionApplicationAndClosures(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"let identity = fn(x) { x; }; identity(5);", 5},
		{"let identity = fn(x) { return x; }; identity(5);", 5},
		{"let double = fn(x) { x * 2; }; double(5);", 10},
		{"let add = fn(x, y) { x + y; }; add(5, 5);", 10},
		{"let add = fn(x, y) { x + y; }; add(5 + 5, add(5, 5));", 20},
		{
			`
let newAdder = fn(x) {
  fn(y) { x + y };
};
let addTwo = newAdder(2);
addTwo(3);
`, 5,
		},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		intVal, ok := result.(*object.Integer)
		require.True(t, ok, "expected *object.Integer, got %T (%+v)", result, result)
		assert.Equal(t, tt.expected, intVal.Value)
	}
}

func TestStringConcatenation(t *testing.T) {
	result := testEval(t, `"Hello" + " " + "World!"`)
	str, ok := result.(*object.String)
	require.True(t, ok)
	assert.Equal(t, "Hello World!", str.Value)
}

func TestArrayLiterals(t *testing.T) {
	result := testEval(t, "[1, 2 * 2, 3 + 3]")
	arr, ok := result.(*object.Array)
	require.True(t, ok)
	require.Len(t, arr.Elements, 3)
	assert.Equal(t, int64(1), arr.Elements[0].(*object.Integer).Value)
	assert.Equal(t, int64(4), arr.Elements[1].(*object.Integer).Value)
	assert.Equal(t, int64(6), arr.Elements[2].(*object.Integer).Value)
}

func TestArrayIndexExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"[1, 2, 3][0]", int64(1)},
		{"[1, 2, 3][1]", int64(2)},
		{"[1, 2, 3][2]", int64(3)},
		{"let i = 0; [1][i];", int64(1)},
		{"[1, 2, 3][1 + 1];", int64(3)},
		{"[1, 2, 3][3]", nil},
		{"[1, 2, 3][-1]", nil},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		if tt.expected == nil {
			assert.Equal(t, object.NULL, result)
			continue
		}
		assert.Equal(t, tt.expected, result.(*object.Integer).Value)
	}
}

func TestHashLiterals(t *testing.T) {
	result := testEval(t, `
let two = "two";
{
  "one": 10 - 9,
  two: 1 + 1,
  "thr" + "ee": 6 / 2,
  4: 4,
  true: 5,
  false: 6
}
`)

	hash, ok := result.(*object.Hash)
	require.True(t, ok)

	expected := map[object.HashKey]int64{
		(&object.String{Value: "one"}).HashKey():   1,
		(&object.String{Value: "two"}).HashKey():   2,
		(&object.String{Value: "three"}).HashKey(): 3,
		(&object.Integer{Value: 4}).HashKey():      4,
		object.TRUE.HashKey():                       5,
		object.FALSE.HashKey():                      6,
	}

	require.Len(t, hash.Pairs, len(expected))
	for expectedKey, expectedValue := range expected {
		pair, ok := hash.Pairs[expectedKey]
		require.True(t, ok)
		assert.Equal(t, expectedValue, pair.Value.(*object.Integer).Value)
	}
}

func TestBuiltinFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{`len("")`, int64(0)},
		{`len("four")`, int64(4)},
		{`len("hello world")`, int64(11)},
		{`len(1)`, "argument to `len` not supported, got INTEGER"},
		{`len("one", "two")`, "wrong number of arguments. got=2, want=1"},
		{`len([1, 2, 3])`, int64(3)},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		switch expected := tt.expected.(type) {
		case int64:
			intVal, ok := result.(*object.Integer)
			require.True(t, ok)
			assert.Equal(t, expected, intVal.Value)
		case string:
			errObj, ok := result.(*object.Error)
			require.True(t, ok)
			assert.Equal(t, expected, errObj.Message)
		}
	}
}
