// Package format renders a Dart syntax tree as source text.
//
// There is one print method per node kind. Parentheses are derived from
// operator precedence and the position an expression is printed in; the
// tree never carries them. The printer does not validate its input: a
// malformed tree is a bug in the stage that built it.
package format
