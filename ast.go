// ast.go — expression and statement nodes produced by the parser.
//
// Nodes are closed tagged unions: two small interfaces whose implementations
// all live in this file. Every node owns its subtrees exclusively; the
// evaluator never mutates them, so a parsed program can be executed any
// number of times.
package izanami

// Expr is the expression node union.
type Expr interface{ exprNode() }

// TernaryExpr is cond ? then : else. Exactly one branch evaluates.
type TernaryExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

// BinaryExpr covers arithmetic, comparison, equality and the comma operator.
type BinaryExpr struct {
	Left  Expr
	Op    Token
	Right Expr
}

// LogicalExpr is "and"/"or". Kept separate from BinaryExpr because it
// short-circuits: the right operand may never evaluate.
type LogicalExpr struct {
	Left  Expr
	Op    Token
	Right Expr
}

// CallExpr invokes a callee. Paren is the closing ')' token, retained so
// runtime errors at the call site report an accurate line.
type CallExpr struct {
	Callee Expr
	Paren  Token
	Args   []Expr
}

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	Expression Expr
}

// LiteralExpr holds an already-materialized runtime value.
type LiteralExpr struct {
	Value Value
}

// UnaryExpr is "!" or prefix "-".
type UnaryExpr struct {
	Op    Token
	Right Expr
}

// VariableExpr reads a variable.
type VariableExpr struct {
	Name Token
}

// AssignExpr writes a variable and yields the assigned value.
type AssignExpr struct {
	Name  Token
	Value Expr
}

func (*TernaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode()   {}
func (*LogicalExpr) exprNode()  {}
func (*CallExpr) exprNode()     {}
func (*GroupingExpr) exprNode() {}
func (*LiteralExpr) exprNode()  {}
func (*UnaryExpr) exprNode()    {}
func (*VariableExpr) exprNode() {}
func (*AssignExpr) exprNode()   {}

// Stmt is the statement node union.
type Stmt interface{ stmtNode() }

type BlockStmt struct {
	Statements []Stmt
}

type ExpressionStmt struct {
	Expression Expr
}

type PrintStmt struct {
	Expression Expr
}

// VarStmt declares a variable. A nil Initializer means "declared but
// uninitialized", which the evaluator reports distinctly from "undefined".
type VarStmt struct {
	Name        Token
	Initializer Expr
}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // may be nil
}

type WhileStmt struct {
	Cond Expr
	Body Stmt
}

// FunctionStmt declares a named function. Executing it does not run Body;
// the statements are captured into a closure value.
type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

// ReturnStmt carries the "return" keyword token for error reporting.
type ReturnStmt struct {
	Keyword Token
	Value   Expr // may be nil, meaning return nil
}

type BreakStmt struct {
	Keyword Token
}

func (*BlockStmt) stmtNode()      {}
func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*FunctionStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()     {}
func (*BreakStmt) stmtNode()      {}
