package names

// Operator returns the Dart operator token a source operator function is
// exposed as, if any.
func Operator(name string, arity int) (string, bool) {
	switch name {
	case "plus":
		return "+", arity == 1
	case "minus":
		return "-", arity == 1
	case "times":
		return "*", arity == 1
	case "div":
		return "/", arity == 1
	case "rem":
		return "%", arity == 1
	case "unaryMinus":
		return "-", arity == 0
	case "get":
		return "[]", arity == 1
	case "set":
		return "[]=", arity == 2
	case "equals":
		return "==", arity == 1
	}
	return "", false
}

// ComparisonOperators are generated from a compareTo operator.
var ComparisonOperators = []string{"<", ">", "<=", ">="}
