// Package dart defines the Dart syntax tree kdart generates.
//
// Nodes are plain data: the lowering stage builds them once and the printer
// in internal/format renders them. Every family (declarations, expressions,
// statements) is a Kind enum plus a Data payload; parentheses never appear
// in the tree, the printer derives them from operator precedence.
package dart
