package template

import "github.com/tombee/stencil/pkg/value"

// Expr is one node of a parsed expression tree. The set of
// implementations is closed: Literal, DataAccess, FunctionCall,
// Pipeline, BinaryOp, UnaryOp, Ternary, and IfFunc. The tree has no
// back-references and no cycles, so it is safe to share read-only
// across concurrent renders.
type Expr interface {
	exprNode()
}

// Literal is a constant value: null, true, 42, 3.5, 'text'.
type Literal struct {
	Value value.Value
}

// DataAccess reads from a data source: $input.name, $node('id').status.
type DataAccess struct {
	Source DataSource
	Path   string
}

// FunctionCall invokes a registry function: uppercase($input.name).
type FunctionCall struct {
	Name string
	Args []Expr
}

// PipelineStage is one stage in a pipeline. At evaluation the stage
// function receives the running value followed by its own arguments.
type PipelineStage struct {
	Name string
	Args []Expr
}

// Pipeline threads a value through function stages left to right:
// $input.name | trim | default('Anonymous').
type Pipeline struct {
	Input  Expr
	Stages []PipelineStage
}

// BinaryOperator enumerates the binary operators the grammar accepts.
// Not every declared operator is implemented by the evaluator;
// unimplemented ones parse but fail at render time with an
// EvaluationError naming the operator.
type BinaryOperator int

const (
	OpAdd BinaryOperator = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpEqual
	OpNotEqual
	OpLessThan
	OpLessEqual
	OpGreaterThan
	OpGreaterEqual
	OpAnd
	OpOr
	OpContains
	OpStartsWith
	OpEndsWith
)

// String returns the source spelling of the operator.
func (op BinaryOperator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpModulo:
		return "%"
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLessThan:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreaterThan:
		return ">"
	case OpGreaterEqual:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpContains:
		return "contains"
	case OpStartsWith:
		return "startsWith"
	case OpEndsWith:
		return "endsWith"
	default:
		return "?"
	}
}

// BinaryOp applies a binary operator to two sub-expressions.
type BinaryOp struct {
	Left  Expr
	Op    BinaryOperator
	Right Expr
}

// UnaryOperator enumerates the unary operators.
type UnaryOperator int

const (
	// OpNot is boolean negation of truthiness: !value
	OpNot UnaryOperator = iota
	// OpMinus is numeric negation: -value
	OpMinus
)

// String returns the source spelling of the operator.
func (op UnaryOperator) String() string {
	if op == OpNot {
		return "!"
	}
	return "-"
}

// UnaryOp applies a unary operator to one sub-expression.
type UnaryOp struct {
	Op      UnaryOperator
	Operand Expr
}

// Ternary is the conditional operator: cond ? then : else.
type Ternary struct {
	Cond Expr
	Then Expr
	Else Expr
}

// IfFunc is the if(cond, then[, else]) form. Else is nil when the
// two-argument form was used; the false branch then yields null.
type IfFunc struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (*Literal) exprNode()      {}
func (*DataAccess) exprNode()   {}
func (*FunctionCall) exprNode() {}
func (*Pipeline) exprNode()     {}
func (*BinaryOp) exprNode()     {}
func (*UnaryOp) exprNode()      {}
func (*Ternary) exprNode()      {}
func (*IfFunc) exprNode()       {}

// Expression is one {{ ... }} segment: the original source substring
// and its parsed tree.
type Expression struct {
	source string
	ast    Expr
}

// NewExpression wraps an already-built tree with its source form. Most
// callers obtain Expressions from Parse; building trees directly is
// useful for programmatic evaluation and tests.
func NewExpression(source string, ast Expr) *Expression {
	return &Expression{source: source, ast: ast}
}

// Source returns the original expression text.
func (e *Expression) Source() string {
	return e.source
}

// AST returns the root of the parsed tree.
func (e *Expression) AST() Expr {
	return e.ast
}

// IsDataAccess reports whether the expression is a bare data reference.
func (e *Expression) IsDataAccess() bool {
	_, ok := e.ast.(*DataAccess)
	return ok
}

// IsLiteral reports whether the expression is a constant.
func (e *Expression) IsLiteral() bool {
	_, ok := e.ast.(*Literal)
	return ok
}

// Element is one piece of a parsed template: either literal text or an
// expression.
type Element struct {
	// Text is the literal content; empty for expression elements.
	Text string

	// Expr is the expression; nil for text elements.
	Expr *Expression
}
