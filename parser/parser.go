// Pratt parser (operator-precedence parser)
// https://en.wikipedia.org/wiki/Operator-precedence_parser
//
// Each token kind that can start an expression registers a prefix parse
// function; each token kind that can continue one as an infix operator
// registers an infix parse function along with its binding precedence.
// Parsing an expression repeatedly folds the next infix operator into
// the left-hand side for as long as its precedence outranks the
// caller's — the standard two-token-lookahead (cur/peek) Pratt design.
package parser

import (
	"fmt"

	"nilan/ast"
	"nilan/token"
)

// Precedence levels, lowest to highest binding power.
const (
	_ int = iota
	LOWEST
	EQUALS      // ==
	LESSGREATER // > or <
	SUM         // + -
	PRODUCT     // * /
	PREFIX      // -x or !x
	CALL        // fn(x)
	INDEX       // array[index]
)

var precedences = map[token.TokenType]int{
	token.EQUAL_EQUAL: EQUALS,
	token.NOT_EQUAL:    EQUALS,
	token.LESS:         LESSGREATER,
	token.LARGER:       LESSGREATER,
	token.ADD:          SUM,
	token.SUB:          SUM,
	token.DIV:          PRODUCT,
	token.MULT:         PRODUCT,
	token.LPA:          CALL,
	token.LBRACKET:     INDEX,
}

type (
	prefixParseFn func() (ast.Expression, error)
	infixParseFn  func(ast.Expression) (ast.Expression, error)
)

// Parser consumes the token stream produced by the lexer and builds an
// ast.Program via Pratt-style operator-precedence parsing.
type Parser struct {
	tokens   []token.Token
	position int // index of peekToken within tokens

	curToken  token.Token
	peekToken token.Token

	errors []error

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// Make constructs a Parser over tokens, ready to call Parse. tokens must
// be EOF-terminated, as Lexer.Scan produces.
func Make(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENTIFIER, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.SUB, p.parsePrefixExpression)
	p.registerPrefix(token.LPA, p.parseGroupedExpression)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.FUNC, p.parseFunctionLiteral)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LCUR, p.parseHashLiteral)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, tt := range []token.TokenType{
		token.ADD, token.SUB, token.DIV, token.MULT,
		token.EQUAL_EQUAL, token.NOT_EQUAL, token.LESS, token.LARGER,
	} {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	p.registerInfix(token.LPA, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)

	// Prime curToken/peekToken: two advances fill both from an empty start.
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(tt token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tt] = fn
}

func (p *Parser) registerInfix(tt token.TokenType, fn infixParseFn) {
	p.infixParseFns[tt] = fn
}

// nextToken shifts peekToken into curToken and reads the next token from
// the stream, repeating the final EOF token forever once reached.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.position < len(p.tokens) {
		p.peekToken = p.tokens[p.position]
		p.position++
	} else {
		p.peekToken = token.Token{TokenType: token.EOF, Lexeme: ""}
	}
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.TokenType]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.TokenType]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curTokenIs(tt token.TokenType) bool  { return p.curToken.TokenType == tt }
func (p *Parser) peekTokenIs(tt token.TokenType) bool { return p.peekToken.TokenType == tt }

// expectPeek advances past peekToken if it has type tt, otherwise it
// returns a syntax error without advancing (Parse records it).
func (p *Parser) expectPeek(tt token.TokenType, what string) error {
	if p.peekTokenIs(tt) {
		p.nextToken()
		return nil
	}
	return CreateSyntaxError(p.peekToken.Line, p.peekToken.Column,
		fmt.Sprintf("expected %s, got %s instead", what, p.peekToken.TokenType))
}

// Parse parses the entire token stream into an ast.Program, collecting
// every syntax error encountered. On a parse error within a statement,
// the parser skips tokens up to the next statement boundary and
// continues, so a single bad statement doesn't hide the rest.
func (p *Parser) Parse() (ast.Program, []error) {
	program := ast.Program{}

	for !p.curTokenIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			p.errors = append(p.errors, err)
			p.synchronize()
			continue
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}

	return program, p.errors
}

// synchronize advances past tokens until it reaches a plausible
// statement boundary (';' or EOF), so Parse can keep collecting errors
// after one bad statement instead of cascading.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.SEMICOLON) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
	if p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// Errors returns every syntax error accumulated during Parse.
func (p *Parser) Errors() []error {
	return p.errors
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.curToken.TokenType {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() (ast.Stmt, error) {
	letTok := p.curToken

	if err := p.expectPeek(token.IDENTIFIER, "identifier"); err != nil {
		return nil, err
	}
	name := ast.NewIdentifier(p.curToken, p.curToken.Lexeme)

	if err := p.expectPeek(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	p.nextToken()

	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if fl, ok := value.(ast.FunctionLiteral); ok {
		fl.Name = name.Value
		value = fl
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return ast.NewLetStatement(letTok, name, value), nil
}

func (p *Parser) parseReturnStatement() (ast.Stmt, error) {
	retTok := p.curToken
	p.nextToken()

	if p.curTokenIs(token.SEMICOLON) {
		return ast.NewReturnStatement(retTok, nil), nil
	}

	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return ast.NewReturnStatement(retTok, value), nil
}

func (p *Parser) parseExpressionStatement() (ast.Stmt, error) {
	startTok := p.curToken

	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return ast.NewExpressionStatement(startTok, expr), nil
}

// parseExpression is the heart of the Pratt parser: it looks up the
// prefix fn for curToken, then repeatedly folds in infix operators
// whose precedence outranks precedence.
func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	prefix, ok := p.prefixParseFns[p.curToken.TokenType]
	if !ok {
		return nil, CreateSyntaxError(p.curToken.Line, p.curToken.Column,
			fmt.Sprintf("no prefix parse function for %s found", p.curToken.TokenType))
	}

	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.TokenType]
		if !ok {
			return left, nil
		}
		p.nextToken()
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *Parser) parseIdentifier() (ast.Expression, error) {
	return ast.NewIdentifier(p.curToken, p.curToken.Lexeme), nil
}

func (p *Parser) parseIntegerLiteral() (ast.Expression, error) {
	tok := p.curToken
	var value int64
	if _, err := fmt.Sscanf(tok.Lexeme, "%d", &value); err != nil {
		return nil, CreateSyntaxError(tok.Line, tok.Column, fmt.Sprintf("could not parse %q as integer", tok.Lexeme))
	}
	return ast.NewIntegerLiteral(tok, value), nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	return ast.NewStringLiteral(p.curToken, p.curToken.Lexeme), nil
}

func (p *Parser) parseBoolean() (ast.Expression, error) {
	return ast.NewBoolean(p.curToken, p.curTokenIs(token.TRUE)), nil
}

func (p *Parser) parsePrefixExpression() (ast.Expression, error) {
	tok := p.curToken
	p.nextToken()

	right, err := p.parseExpression(PREFIX)
	if err != nil {
		return nil, err
	}

	return ast.NewPrefixExpression(tok, tok.Lexeme, right), nil
}

func (p *Parser) parseInfixExpression(left ast.Expression) (ast.Expression, error) {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()

	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}

	return ast.NewInfixExpression(tok, left, tok.Lexeme, right), nil
}

func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	p.nextToken()

	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	if err := p.expectPeek(token.RPA, "')'"); err != nil {
		return nil, err
	}

	return expr, nil
}

func (p *Parser) parseIfExpression() (ast.Expression, error) {
	ifTok := p.curToken

	if err := p.expectPeek(token.LPA, "'('"); err != nil {
		return nil, err
	}
	p.nextToken()

	condition, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	if err := p.expectPeek(token.RPA, "')'"); err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.LCUR, "'{'"); err != nil {
		return nil, err
	}

	consequence, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}

	var alternative *ast.BlockStatement
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if err := p.expectPeek(token.LCUR, "'{'"); err != nil {
			return nil, err
		}
		alt, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		alternative = &alt
	}

	return ast.NewIfExpression(ifTok, condition, consequence, alternative), nil
}

// parseBlockStatement assumes curToken is the opening '{' and consumes
// through the matching '}', leaving curToken on it.
func (p *Parser) parseBlockStatement() (ast.BlockStatement, error) {
	blockTok := p.curToken
	var statements []ast.Stmt

	p.nextToken()

	for !p.curTokenIs(token.RCUR) && !p.curTokenIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return ast.BlockStatement{}, err
		}
		statements = append(statements, stmt)
		p.nextToken()
	}

	if !p.curTokenIs(token.RCUR) {
		return ast.BlockStatement{}, CreateSyntaxError(p.curToken.Line, p.curToken.Column, "expected '}' to close block")
	}

	return ast.NewBlockStatement(blockTok, statements), nil
}

func (p *Parser) parseFunctionLiteral() (ast.Expression, error) {
	fnTok := p.curToken

	if err := p.expectPeek(token.LPA, "'('"); err != nil {
		return nil, err
	}

	params, err := p.parseFunctionParameters()
	if err != nil {
		return nil, err
	}

	if err := p.expectPeek(token.LCUR, "'{'"); err != nil {
		return nil, err
	}

	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}

	return ast.NewFunctionLiteral(fnTok, params, body), nil
}

// parseFunctionParameters assumes curToken is '(' and consumes through
// the matching ')'.
func (p *Parser) parseFunctionParameters() ([]ast.Identifier, error) {
	var params []ast.Identifier

	if p.peekTokenIs(token.RPA) {
		p.nextToken()
		return params, nil
	}

	p.nextToken()
	params = append(params, ast.NewIdentifier(p.curToken, p.curToken.Lexeme))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, ast.NewIdentifier(p.curToken, p.curToken.Lexeme))
	}

	if err := p.expectPeek(token.RPA, "')'"); err != nil {
		return nil, err
	}

	return params, nil
}

func (p *Parser) parseCallExpression(fn ast.Expression) (ast.Expression, error) {
	callTok := p.curToken

	args, err := p.parseExpressionList(token.RPA)
	if err != nil {
		return nil, err
	}

	return ast.NewCallExpression(callTok, fn, args), nil
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	tok := p.curToken

	elems, err := p.parseExpressionList(token.RBRACKET)
	if err != nil {
		return nil, err
	}

	return ast.NewArrayLiteral(tok, elems), nil
}

// parseExpressionList assumes curToken is the opening delimiter and
// consumes a comma-separated expression list through the matching end
// token, leaving curToken on it.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, error) {
	var list []ast.Expression

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, nil
	}

	p.nextToken()
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	list = append(list, expr)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
	}

	if err := p.expectPeek(end, fmt.Sprintf("%q", end)); err != nil {
		return nil, err
	}

	return list, nil
}

func (p *Parser) parseIndexExpression(left ast.Expression) (ast.Expression, error) {
	tok := p.curToken
	p.nextToken()

	index, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	if err := p.expectPeek(token.RBRACKET, "']'"); err != nil {
		return nil, err
	}

	return ast.NewIndexExpression(tok, left, index), nil
}

func (p *Parser) parseHashLiteral() (ast.Expression, error) {
	tok := p.curToken
	var pairs []ast.HashPair

	for !p.peekTokenIs(token.RCUR) {
		p.nextToken()
		keyTok := p.curToken
		key, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}

		// Reject keys that can never hash as soon as they are seen, so
		// the later pipeline stages only deal with plausible keys.
		switch key.(type) {
		case ast.ArrayLiteral, ast.HashLiteral, ast.FunctionLiteral:
			return nil, CreateSyntaxError(keyTok.Line, keyTok.Column,
				"hash key must be an integer, boolean or string")
		}

		if err := p.expectPeek(token.COLON, "':'"); err != nil {
			return nil, err
		}
		p.nextToken()

		value, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}

		pairs = append(pairs, ast.HashPair{Key: key, Value: value})

		if !p.peekTokenIs(token.RCUR) {
			if err := p.expectPeek(token.COMMA, "',' or '}'"); err != nil {
				return nil, err
			}
		}
	}

	if err := p.expectPeek(token.RCUR, "'}'"); err != nil {
		return nil, err
	}

	return ast.NewHashLiteral(tok, pairs), nil
}
