// printer.go — rendering values and syntax trees as text.
package izanami

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatValue renders v the way the print statement does. Numbers always show
// two decimals; use stringify for the minimal form.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTNum:
		return fmt.Sprintf("%.2f", v.Data.(float64))
	case VTStr:
		return v.Data.(string)
	case VTCallable:
		return fmt.Sprintf("<fn %s>", v.Data.(Callable).Name())
	default:
		return "<unknown>"
	}
}

// stringify renders v in its minimal form: numbers drop trailing zeros, so
// string concatenation produces "1a" rather than "1.00a". All other kinds
// render as FormatValue does.
func stringify(v Value) string {
	if v.Tag == VTNum {
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	}
	return FormatValue(v)
}

// FormatExpr renders an expression tree in fully parenthesized prefix form,
// e.g. "(* (- 123) (group 45.67))". Useful for inspecting what the parser
// actually built.
func FormatExpr(expr Expr) string {
	switch e := expr.(type) {
	case *TernaryExpr:
		return parenthesize("?:", e.Cond, e.Then, e.Else)
	case *BinaryExpr:
		return parenthesize(e.Op.Lexeme, e.Left, e.Right)
	case *LogicalExpr:
		return parenthesize(e.Op.Lexeme, e.Left, e.Right)
	case *CallExpr:
		parts := append([]Expr{e.Callee}, e.Args...)
		return parenthesize("call", parts...)
	case *GroupingExpr:
		return parenthesize("group", e.Expression)
	case *LiteralExpr:
		if e.Value.Tag == VTStr {
			return strconv.Quote(e.Value.Data.(string))
		}
		return stringify(e.Value)
	case *UnaryExpr:
		return parenthesize(e.Op.Lexeme, e.Right)
	case *VariableExpr:
		return e.Name.Lexeme
	case *AssignExpr:
		return fmt.Sprintf("(= %s %s)", e.Name.Lexeme, FormatExpr(e.Value))
	default:
		return "<unknown expr>"
	}
}

// FormatStmt renders one statement in the same prefix form.
func FormatStmt(stmt Stmt) string {
	switch s := stmt.(type) {
	case *BlockStmt:
		var sb strings.Builder
		sb.WriteString("(block")
		for _, inner := range s.Statements {
			sb.WriteString(" ")
			sb.WriteString(FormatStmt(inner))
		}
		sb.WriteString(")")
		return sb.String()
	case *ExpressionStmt:
		return fmt.Sprintf("(expr %s)", FormatExpr(s.Expression))
	case *PrintStmt:
		return fmt.Sprintf("(print %s)", FormatExpr(s.Expression))
	case *VarStmt:
		if s.Initializer == nil {
			return fmt.Sprintf("(var %s)", s.Name.Lexeme)
		}
		return fmt.Sprintf("(var %s %s)", s.Name.Lexeme, FormatExpr(s.Initializer))
	case *IfStmt:
		if s.Else == nil {
			return fmt.Sprintf("(if %s %s)", FormatExpr(s.Cond), FormatStmt(s.Then))
		}
		return fmt.Sprintf("(if %s %s %s)", FormatExpr(s.Cond), FormatStmt(s.Then), FormatStmt(s.Else))
	case *WhileStmt:
		return fmt.Sprintf("(while %s %s)", FormatExpr(s.Cond), FormatStmt(s.Body))
	case *FunctionStmt:
		params := make([]string, len(s.Params))
		for i, p := range s.Params {
			params[i] = p.Lexeme
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "(fun %s (%s)", s.Name.Lexeme, strings.Join(params, " "))
		for _, inner := range s.Body {
			sb.WriteString(" ")
			sb.WriteString(FormatStmt(inner))
		}
		sb.WriteString(")")
		return sb.String()
	case *ReturnStmt:
		if s.Value == nil {
			return "(return)"
		}
		return fmt.Sprintf("(return %s)", FormatExpr(s.Value))
	case *BreakStmt:
		return "(break)"
	default:
		return "<unknown stmt>"
	}
}

// FormatProgram renders each statement on its own line.
func FormatProgram(stmts []Stmt) string {
	lines := make([]string, len(stmts))
	for i, s := range stmts {
		lines[i] = FormatStmt(s)
	}
	return strings.Join(lines, "\n")
}

func parenthesize(name string, exprs ...Expr) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(name)
	for _, e := range exprs {
		sb.WriteString(" ")
		sb.WriteString(FormatExpr(e))
	}
	sb.WriteString(")")
	return sb.String()
}
