package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nilan/token"
)

func TestNextTokenSymbols(t *testing.T) {
	input := `=+(){},;[]:`

	expected := []token.TokenType{
		token.ASSIGN, token.ADD, token.LPA, token.RPA, token.LCUR, token.RCUR,
		token.COMMA, token.SEMICOLON, token.LBRACKET, token.RBRACKET, token.COLON,
		token.EOF,
	}

	l := CreateLexer(input)
	for i, want := range expected {
		tok := l.NextToken()
		assert.Equalf(t, want, tok.TokenType, "token %d", i)
	}
}

func TestNextTokenProgram(t *testing.T) {
	input := `
let five = 5;
let add = fn(x, y) {
  x + y;
};
let result = add(five, ten);
!-/*5;
5 < 10 > 5;

if (5 < 10) {
	return true;
} else {
	return false;
}

10 == 10;
10 != 9;
"foobar"
"foo bar"
[1, 2];
{"one": 1};
`

	expected := []struct {
		typ     token.TokenType
		literal string
	}{
		{token.LET, "let"}, {token.IDENTIFIER, "five"}, {token.ASSIGN, "="}, {token.INT, "5"}, {token.SEMICOLON, ";"},
		{token.LET, "let"}, {token.IDENTIFIER, "add"}, {token.ASSIGN, "="}, {token.FUNC, "fn"},
		{token.LPA, "("}, {token.IDENTIFIER, "x"}, {token.COMMA, ","}, {token.IDENTIFIER, "y"}, {token.RPA, ")"},
		{token.LCUR, "{"},
		{token.IDENTIFIER, "x"}, {token.ADD, "+"}, {token.IDENTIFIER, "y"}, {token.SEMICOLON, ";"},
		{token.RCUR, "}"}, {token.SEMICOLON, ";"},
		{token.LET, "let"}, {token.IDENTIFIER, "result"}, {token.ASSIGN, "="}, {token.IDENTIFIER, "add"},
		{token.LPA, "("}, {token.IDENTIFIER, "five"}, {token.COMMA, ","}, {token.IDENTIFIER, "ten"}, {token.RPA, ")"}, {token.SEMICOLON, ";"},
		{token.BANG, "!"}, {token.SUB, "-"}, {token.DIV, "/"}, {token.MULT, "*"}, {token.INT, "5"}, {token.SEMICOLON, ";"},
		{token.INT, "5"}, {token.LESS, "<"}, {token.INT, "10"}, {token.LARGER, ">"}, {token.INT, "5"}, {token.SEMICOLON, ";"},
		{token.IF, "if"}, {token.LPA, "("}, {token.INT, "5"}, {token.LESS, "<"}, {token.INT, "10"}, {token.RPA, ")"},
		{token.LCUR, "{"}, {token.RETURN, "return"}, {token.TRUE, "true"}, {token.SEMICOLON, ";"}, {token.RCUR, "}"},
		{token.ELSE, "else"},
		{token.LCUR, "{"}, {token.RETURN, "return"}, {token.FALSE, "false"}, {token.SEMICOLON, ";"}, {token.RCUR, "}"},
		{token.INT, "10"}, {token.EQUAL_EQUAL, "=="}, {token.INT, "10"}, {token.SEMICOLON, ";"},
		{token.INT, "10"}, {token.NOT_EQUAL, "!="}, {token.INT, "9"}, {token.SEMICOLON, ";"},
		{token.STRING, "foobar"},
		{token.STRING, "foo bar"},
		{token.LBRACKET, "["}, {token.INT, "1"}, {token.COMMA, ","}, {token.INT, "2"}, {token.RBRACKET, "]"}, {token.SEMICOLON, ";"},
		{token.LCUR, "{"}, {token.STRING, "one"}, {token.COLON, ":"}, {token.INT, "1"}, {token.RCUR, "}"}, {token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := CreateLexer(input)
	for i, want := range expected {
		tok := l.NextToken()
		assert.Equalf(t, want.typ, tok.TokenType, "token %d type", i)
		assert.Equalf(t, want.literal, tok.Lexeme, "token %d literal", i)
	}
}

func TestScanIdentifiersAreAlphabeticOnly(t *testing.T) {
	// Identifiers are letters only; digits never extend one.
	l := CreateLexer("foo123")
	tokens, err := l.Scan()
	require.NoError(t, err)
	assert.Equal(t, token.IDENTIFIER, tokens[0].TokenType)
	assert.Equal(t, "foo", tokens[0].Lexeme)
	assert.Equal(t, token.INT, tokens[1].TokenType)
	assert.Equal(t, "123", tokens[1].Lexeme)
}

func TestScanUnmatchedClosingBracket(t *testing.T) {
	l := CreateLexer("(1 + 2))")
	_, err := l.Scan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmatched closing bracket")
}

func TestScanUnmatchedOpeningBracket(t *testing.T) {
	l := CreateLexer("let x = (1 + 2;")
	_, err := l.Scan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmatched opening bracket")
}

func TestScanIllegalCharacterContinuesLexing(t *testing.T) {
	l := CreateLexer("let x = 1 @ 2;")
	tokens, err := l.Scan()
	require.Error(t, err)
	var sawIllegal, sawEOF bool
	for _, tok := range tokens {
		if tok.TokenType == token.ILLEGAL {
			sawIllegal = true
		}
		if tok.TokenType == token.EOF {
			sawEOF = true
		}
	}
	assert.True(t, sawIllegal, "expected an ILLEGAL token for '@'")
	assert.True(t, sawEOF, "lexer should still reach EOF after an illegal character")
}
