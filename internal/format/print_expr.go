package format

import (
	"math"
	"strconv"
	"strings"

	"kdart/internal/dart"
)

// Precedence levels, lowest first.
const (
	precLowest = iota
	precAssign
	precConditional
	precIfNull
	precOr
	precAnd
	precEquality
	precRelational
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdditive
	precMultiplicative
	precPrefix
	precPostfix
	precPrimary
)

var binaryPrec = map[dart.BinaryOp]int{
	dart.OpIfNull:    precIfNull,
	dart.OpOr:        precOr,
	dart.OpAnd:       precAnd,
	dart.OpEq:        precEquality,
	dart.OpNotEq:     precEquality,
	dart.OpLess:      precRelational,
	dart.OpLessEq:    precRelational,
	dart.OpGreater:   precRelational,
	dart.OpGreaterEq: precRelational,
	dart.OpBitOr:     precBitOr,
	dart.OpBitXor:    precBitXor,
	dart.OpBitAnd:    precBitAnd,
	dart.OpShl:       precShift,
	dart.OpShr:       precShift,
	dart.OpAdd:       precAdditive,
	dart.OpSub:       precAdditive,
	dart.OpMul:       precMultiplicative,
	dart.OpDiv:       precMultiplicative,
	dart.OpIntDiv:    precMultiplicative,
	dart.OpRem:       precMultiplicative,
}

// precedence is the binding strength of e as printed.
func precedence(e *dart.Expr) int {
	switch x := e.Data.(type) {
	case dart.LiteralData:
		if (x.Kind == dart.LitInt && x.Int < 0) || (x.Kind == dart.LitDouble && math.Signbit(x.Double) && !math.IsInf(x.Double, 0)) {
			return precPrefix
		}
		return precPrimary
	case dart.BinaryData:
		if prec, ok := binaryPrec[x.Op]; ok {
			return prec
		}
		return precAdditive
	case dart.PrefixData:
		return precPrefix
	case dart.PostfixData, dart.PropertyAccessData, dart.MethodInvocationData,
		dart.FunctionInvocationData, dart.IndexData:
		return precPostfix
	case dart.AssignmentData, dart.ThrowData, dart.FunctionData:
		return precAssign
	case dart.ConditionalData:
		return precConditional
	case dart.IsData, dart.AsData:
		return precRelational
	}
	return precPrimary
}

// printExpr renders e, parenthesized when it binds looser than min.
func (p *printer) printExpr(e *dart.Expr, min int) {
	if e == nil {
		p.w.WriteString("null")
		return
	}
	if precedence(e) < min {
		p.w.WriteString("(")
		p.printExpr(e, precLowest)
		p.w.WriteString(")")
		return
	}
	switch x := e.Data.(type) {
	case dart.LiteralData:
		p.printLiteral(x)
	case dart.IdentifierData:
		p.w.WriteString(x.Name)
	case dart.PropertyAccessData:
		p.printExpr(x.Target, precPostfix)
		p.w.WriteString(selector(x.NullAware))
		p.w.WriteString(x.Name)
	case dart.MethodInvocationData:
		if x.Target != nil {
			p.printExpr(x.Target, precPostfix)
			p.w.WriteString(selector(x.NullAware))
		}
		p.w.WriteString(x.Name)
		p.printTypeArgs(x.TypeArgs)
		p.printArgs(x.Args)
	case dart.FunctionInvocationData:
		p.printExpr(x.Func, precPostfix)
		p.printTypeArgs(x.TypeArgs)
		p.printArgs(x.Args)
	case dart.InstanceCreationData:
		if x.Const {
			p.w.WriteString("const ")
		}
		p.printType(x.Type)
		if x.Ctor != "" {
			p.w.WriteString(".")
			p.w.WriteString(x.Ctor)
		}
		p.printArgs(x.Args)
	case dart.BinaryData:
		prec := precedence(e)
		left, right := prec, prec+1
		if prec == precEquality || prec == precRelational {
			left = prec + 1
		}
		p.printExpr(x.Left, left)
		p.w.WriteString(" " + string(x.Op) + " ")
		p.printExpr(x.Right, right)
	case dart.PrefixData:
		p.w.WriteString(x.Op)
		if x.Op == "-" && startsWithMinus(x.Operand) {
			p.w.WriteString("(")
			p.printExpr(x.Operand, precLowest)
			p.w.WriteString(")")
			return
		}
		p.printExpr(x.Operand, precPrefix)
	case dart.PostfixData:
		p.printExpr(x.Operand, precPostfix)
		p.w.WriteString(x.Op)
	case dart.AssignmentData:
		p.printExpr(x.Target, precPostfix)
		op := x.Op
		if op == "" {
			op = "="
		}
		p.w.WriteString(" " + op + " ")
		p.printExpr(x.Value, precAssign)
	case dart.ConditionalData:
		p.printExpr(x.Cond, precIfNull)
		p.w.WriteString(" ? ")
		p.printExpr(x.Then, precAssign)
		p.w.WriteString(" : ")
		p.printExpr(x.Else, precAssign)
	case dart.IsData:
		p.printExpr(x.Value, precBitOr)
		if x.Not {
			p.w.WriteString(" is! ")
		} else {
			p.w.WriteString(" is ")
		}
		p.printType(x.Type)
	case dart.AsData:
		p.printExpr(x.Value, precBitOr)
		p.w.WriteString(" as ")
		p.printType(x.Type)
	case dart.ThrowData:
		p.w.WriteString("throw ")
		p.printExpr(x.Value, precAssign)
	case dart.FunctionData:
		p.printTypeParams(x.TypeParams)
		p.printParams(x.Params)
		if x.Body.Kind == dart.BodyExpr {
			p.w.WriteString(" => ")
			p.printExpr(x.Body.Expr, precAssign)
		} else {
			p.w.WriteString(" ")
			p.printBlock(x.Body.Block)
		}
	case dart.ListLiteralData:
		if x.Const {
			p.w.WriteString("const ")
		}
		if x.Elem != nil {
			p.printTypeArgs([]dart.Type{*x.Elem})
		}
		p.w.WriteString("[")
		p.commaList(len(x.Elems), func(i int) { p.printExpr(x.Elems[i], precAssign) })
		p.w.WriteString("]")
	case dart.StringInterpolationData:
		p.printInterpolation(x.Parts)
	case dart.IndexData:
		p.printExpr(x.Target, precPostfix)
		if x.NullAware {
			p.w.WriteString("?")
		}
		p.w.WriteString("[")
		p.printExpr(x.Index, precLowest)
		p.w.WriteString("]")
	case dart.ThisData:
		p.w.WriteString("this")
	case dart.SuperData:
		p.w.WriteString("super")
	case dart.ParenthesizedData:
		p.w.WriteString("(")
		p.printExpr(x.Inner, precLowest)
		p.w.WriteString(")")
	}
}

func selector(nullAware bool) string {
	if nullAware {
		return "?."
	}
	return "."
}

// startsWithMinus reports whether e prints with a leading '-', which would
// fuse with a preceding unary minus.
func startsWithMinus(e *dart.Expr) bool {
	switch x := e.Data.(type) {
	case dart.PrefixData:
		return strings.HasPrefix(x.Op, "-")
	case dart.LiteralData:
		return precedence(e) == precPrefix
	}
	return false
}

func (p *printer) printArgs(args []dart.Arg) {
	p.w.WriteString("(")
	p.commaList(len(args), func(i int) {
		if args[i].Name != "" {
			p.w.WriteString(args[i].Name + ": ")
		}
		p.printExpr(args[i].Value, precAssign)
	})
	p.w.WriteString(")")
}

func (p *printer) printLiteral(lit dart.LiteralData) {
	switch lit.Kind {
	case dart.LitInt:
		p.w.WriteString(strconv.FormatInt(lit.Int, 10))
	case dart.LitDouble:
		p.w.WriteString(formatDouble(lit.Double))
	case dart.LitString:
		p.w.WriteString(quote(lit.Str))
	case dart.LitBool:
		p.w.WriteString(strconv.FormatBool(lit.Bool))
	case dart.LitNull:
		p.w.WriteString("null")
	}
}

func formatDouble(v float64) string {
	switch {
	case math.IsNaN(v):
		return "double.nan"
	case math.IsInf(v, 1):
		return "double.infinity"
	case math.IsInf(v, -1):
		return "double.negativeInfinity"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
