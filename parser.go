// parser.go — recursive-descent parser for izanami.
//
// The parser consumes the full token sequence and produces one result per
// top-level declaration, in order. A malformed declaration yields a
// *ParseError instead of a statement; the parser then discards tokens until a
// statement boundary (panic-mode recovery) and keeps going, so every error in
// a source unit surfaces in one pass. Callers treat any parse error as fatal
// for execution — parsing all of them is purely a diagnostics concern.
//
// Expression grammar, loosest to tightest:
//
//	expression → comma
//	comma      → assignment ( "," assignment )*
//	assignment → ternary ( "=" assignment )?
//	ternary    → logicOr ( "?" expression ":" ternary )?
//	logicOr    → logicAnd ( "or" logicAnd )*
//	logicAnd   → equality ( "and" equality )*
//	equality   → comparison ( ( "!=" | "==" ) comparison )*
//	comparison → term ( ( ">" | ">=" | "<" | "<=" ) term )*
//	term       → factor ( ( "-" | "+" ) factor )*
//	factor     → unary ( ( "/" | "*" ) unary )*
//	unary      → ( "!" | "-" ) unary | call
//	call       → primary ( "(" arguments? ")" )*
//
// Call arguments parse at assignment precedence: commas separate arguments,
// and a comma-operator argument needs explicit parentheses.
package izanami

// maxCallArgs bounds argument and parameter list lengths so call frames stay
// a fixed small size.
const maxCallArgs = 255

// Parser is a single-use consumer of one token sequence.
type Parser struct {
	tokens    []Token
	current   int
	loopDepth int // lexical loop nesting; gates 'break'
	funcDepth int // lexical function nesting; gates 'return'
}

// NewParser creates a parser over tokens, which must end with an EOF token.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes every declaration and returns the successfully parsed
// statements alongside every syntax error found.
func (p *Parser) Parse() ([]Stmt, []*ParseError) {
	var stmts []Stmt
	var errs []*ParseError
	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			errs = append(errs, err)
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts, errs
}

// ─────────────────────────── statement grammar ───────────────────────────

func (p *Parser) declaration() (Stmt, *ParseError) {
	switch {
	case p.match(Fun):
		return p.function()
	case p.match(Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) statement() (Stmt, *ParseError) {
	switch {
	case p.match(Print):
		return p.printStatement()
	case p.match(LeftBrace):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Statements: stmts}, nil
	case p.match(If):
		return p.ifStatement()
	case p.match(While):
		return p.whileStatement()
	case p.match(For):
		return p.forStatement()
	case p.match(Break):
		return p.breakStatement()
	case p.match(Return):
		return p.returnStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) varDeclaration() (Stmt, *ParseError) {
	name, err := p.consume(Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var init Expr
	if p.match(Equal) {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name, Initializer: init}, nil
}

func (p *Parser) function() (Stmt, *ParseError) {
	name, err := p.consume(Identifier, "Expect function name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(LeftParen, "Expect '(' after function name."); err != nil {
		return nil, err
	}
	var params []Token
	if !p.check(RightParen) {
		for {
			if len(params) >= maxCallArgs {
				return nil, p.errAt(p.peek(), "Can't have more than 255 parameters.")
			}
			param, err := p.consume(Identifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(Comma) {
				break
			}
		}
	}
	if _, err := p.consume(RightParen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(LeftBrace, "Expect '{' before function body."); err != nil {
		return nil, err
	}

	// A function body is a fresh break context: 'break' may not cross it
	// even when the declaration sits inside a loop.
	saved := p.loopDepth
	p.loopDepth = 0
	p.funcDepth++
	body, err := p.block()
	p.funcDepth--
	p.loopDepth = saved
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) block() ([]Stmt, *ParseError) {
	var stmts []Stmt
	for !p.check(RightBrace) && !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.consume(RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) printStatement() (Stmt, *ParseError) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(Semicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expression: value}, nil
}

func (p *Parser) expressionStatement() (Stmt, *ParseError) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ExpressionStmt{Expression: expr}, nil
}

func (p *Parser) ifStatement() (Stmt, *ParseError) {
	if _, err := p.consume(LeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(Else) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return &IfStmt{Cond: cond, Then: then, Else: elseBranch}, nil
}

func (p *Parser) whileStatement() (Stmt, *ParseError) {
	if _, err := p.consume(LeftParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RightParen, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	p.loopDepth++
	body, err := p.statement()
	p.loopDepth--
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Cond: cond, Body: body}, nil
}

// forStatement desugars at parse time: the loop becomes a Block holding the
// initializer and a While whose body is [original body, increment]. No
// runtime representation of 'for' exists.
func (p *Parser) forStatement() (Stmt, *ParseError) {
	if _, err := p.consume(LeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var init Stmt
	var err *ParseError
	switch {
	case p.match(Semicolon):
		init = nil
	case p.match(Var):
		if init, err = p.varDeclaration(); err != nil {
			return nil, err
		}
	default:
		if init, err = p.expressionStatement(); err != nil {
			return nil, err
		}
	}

	var cond Expr
	if !p.check(Semicolon) {
		if cond, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(Semicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var incr Expr
	if !p.check(RightParen) {
		if incr, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(RightParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	p.loopDepth++
	body, err := p.statement()
	p.loopDepth--
	if err != nil {
		return nil, err
	}

	if incr != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExpressionStmt{Expression: incr}}}
	}
	if cond == nil {
		cond = &LiteralExpr{Value: BoolVal(true)}
	}
	var loop Stmt = &WhileStmt{Cond: cond, Body: body}
	if init != nil {
		loop = &BlockStmt{Statements: []Stmt{init, loop}}
	}
	return loop, nil
}

func (p *Parser) breakStatement() (Stmt, *ParseError) {
	keyword := p.previous()
	if p.loopDepth == 0 {
		return nil, p.errAt(keyword, "Must be inside a loop to use 'break'.")
	}
	if _, err := p.consume(Semicolon, "Expect ';' after 'break'."); err != nil {
		return nil, err
	}
	return &BreakStmt{Keyword: keyword}, nil
}

func (p *Parser) returnStatement() (Stmt, *ParseError) {
	keyword := p.previous()
	if p.funcDepth == 0 {
		return nil, p.errAt(keyword, "Can't return from top-level code.")
	}
	var value Expr
	var err *ParseError
	if !p.check(Semicolon) {
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(Semicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: keyword, Value: value}, nil
}

// ─────────────────────────── expression grammar ──────────────────────────

func (p *Parser) expression() (Expr, *ParseError) {
	return p.comma()
}

func (p *Parser) comma() (Expr, *ParseError) {
	return p.leftAssoc(p.assignment, Comma)
}

func (p *Parser) assignment() (Expr, *ParseError) {
	expr, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if p.match(Equal) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		if v, ok := expr.(*VariableExpr); ok {
			return &AssignExpr{Name: v.Name, Value: value}, nil
		}
		// The left side already parsed, so the error points at '='.
		return nil, p.errAt(equals, "Invalid assignment target.")
	}
	return expr, nil
}

func (p *Parser) ternary() (Expr, *ParseError) {
	cond, err := p.logicOr()
	if err != nil {
		return nil, err
	}
	if p.match(Question) {
		then, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(Colon, "Expect ':' after ternary operator '?'."); err != nil {
			return nil, err
		}
		els, err := p.ternary()
		if err != nil {
			return nil, err
		}
		return &TernaryExpr{Cond: cond, Then: then, Else: els}, nil
	}
	return cond, nil
}

func (p *Parser) logicOr() (Expr, *ParseError) {
	expr, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.match(Or) {
		op := p.previous()
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) logicAnd() (Expr, *ParseError) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(And) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (Expr, *ParseError) {
	return p.leftAssoc(p.comparison, BangEqual, EqualEqual)
}

func (p *Parser) comparison() (Expr, *ParseError) {
	return p.leftAssoc(p.term, Greater, GreaterEqual, Less, LessEqual)
}

func (p *Parser) term() (Expr, *ParseError) {
	return p.leftAssoc(p.factor, Minus, Plus)
}

func (p *Parser) factor() (Expr, *ParseError) {
	return p.leftAssoc(p.unary, Slash, Star)
}

func (p *Parser) unary() (Expr, *ParseError) {
	if p.match(Bang, Minus) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Right: right}, nil
	}
	return p.call()
}

func (p *Parser) call() (Expr, *ParseError) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(LeftParen) {
		if expr, err = p.finishCall(expr); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee Expr) (Expr, *ParseError) {
	var args []Expr
	if !p.check(RightParen) {
		for {
			if len(args) >= maxCallArgs {
				return nil, p.errAt(p.peek(), "Can't have more than 255 arguments.")
			}
			arg, err := p.assignment()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(Comma) {
				break
			}
		}
	}
	paren, err := p.consume(RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &CallExpr{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *Parser) primary() (Expr, *ParseError) {
	switch {
	case p.match(False):
		return &LiteralExpr{Value: BoolVal(false)}, nil
	case p.match(True):
		return &LiteralExpr{Value: BoolVal(true)}, nil
	case p.match(Nil):
		return &LiteralExpr{Value: NilVal}, nil
	case p.match(Number):
		return &LiteralExpr{Value: NumVal(p.previous().Literal.(float64))}, nil
	case p.match(String):
		return &LiteralExpr{Value: StrVal(p.previous().Literal.(string))}, nil
	case p.match(Identifier):
		return &VariableExpr{Name: p.previous()}, nil
	case p.match(LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &GroupingExpr{Expression: expr}, nil
	}

	// Error productions: a binary operator with no left operand. The
	// right-hand side still parses so the token position stays consistent,
	// but the diagnostic names the real problem.
	switch {
	case p.match(BangEqual, EqualEqual):
		op := p.previous()
		_, _ = p.equality()
		return nil, p.errAt(op, "Missing left-hand operand.")
	case p.match(Greater, GreaterEqual, Less, LessEqual):
		op := p.previous()
		_, _ = p.comparison()
		return nil, p.errAt(op, "Missing left-hand operand.")
	case p.match(Plus):
		op := p.previous()
		_, _ = p.term()
		return nil, p.errAt(op, "Missing left-hand operand.")
	case p.match(Slash, Star):
		op := p.previous()
		_, _ = p.factor()
		return nil, p.errAt(op, "Missing left-hand operand.")
	}

	return nil, p.errAt(p.peek(), "Expect expression.")
}

// ────────────────────────── token basics & recovery ──────────────────────

func (p *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(tt TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tt
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool  { return p.peek().Type == EOF }
func (p *Parser) peek() Token    { return p.tokens[p.current] }
func (p *Parser) previous() Token { return p.tokens[p.current-1] }

func (p *Parser) consume(tt TokenType, msg string) (Token, *ParseError) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.errAt(p.peek(), msg)
}

func (p *Parser) errAt(tok Token, msg string) *ParseError {
	return &ParseError{Token: tok, Msg: msg}
}

// synchronize discards tokens until a likely statement boundary: just past a
// semicolon, or in front of a token that begins a declaration. This bounds
// error cascades to roughly one report per malformed statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == Semicolon {
			return
		}
		switch p.peek().Type {
		case Class, Fun, Var, For, If, While, Print, Return:
			return
		}
		p.advance()
	}
}

// leftAssoc parses a left-associative binary level: next (op next)*.
func (p *Parser) leftAssoc(next func() (Expr, *ParseError), types ...TokenType) (Expr, *ParseError) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(types...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}
