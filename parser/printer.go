package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Sprint renders an expression in fully parenthesised prefix notation,
// e.g. "(+ 1 (* 2 3))". It is a debugging aid and is not meant to be
// parsed back.
func Sprint(expr Expr) string {
	var sb strings.Builder
	writeExpr(&sb, expr)
	return sb.String()
}

func writeExpr(sb *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case nil:
		sb.WriteString("nil")
	case *LiteralExpr:
		sb.WriteString(literalString(e.Value))
	case *GroupingExpr:
		parenthesize(sb, "group", e.Expr)
	case *UnaryExpr:
		parenthesize(sb, e.Op.Lexeme, e.Right)
	case *BinaryExpr:
		parenthesize(sb, e.Op.Lexeme, e.Left, e.Right)
	case *LogicalExpr:
		parenthesize(sb, e.Op.Lexeme, e.Left, e.Right)
	case *VariableExpr:
		sb.WriteString(e.Name.Lexeme)
	case *AssignExpr:
		sb.WriteString("(= ")
		sb.WriteString(e.Name.Lexeme)
		sb.WriteByte(' ')
		writeExpr(sb, e.Value)
		sb.WriteByte(')')
	case *CallExpr:
		parenthesize(sb, "call", append([]Expr{e.Callee}, e.Args...)...)
	case *GetExpr:
		sb.WriteString("(. ")
		writeExpr(sb, e.Object)
		sb.WriteByte(' ')
		sb.WriteString(e.Name.Lexeme)
		sb.WriteByte(')')
	case *SetExpr:
		sb.WriteString("(= (. ")
		writeExpr(sb, e.Object)
		sb.WriteByte(' ')
		sb.WriteString(e.Name.Lexeme)
		sb.WriteString(") ")
		writeExpr(sb, e.Value)
		sb.WriteByte(')')
	case *ThisExpr:
		sb.WriteString("this")
	case *SuperExpr:
		sb.WriteString("(super ")
		sb.WriteString(e.Method.Lexeme)
		sb.WriteByte(')')
	default:
		fmt.Fprintf(sb, "<%T>", expr)
	}
}

func parenthesize(sb *strings.Builder, name string, exprs ...Expr) {
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, e := range exprs {
		sb.WriteByte(' ')
		writeExpr(sb, e)
	}
	sb.WriteByte(')')
}

func literalString(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
