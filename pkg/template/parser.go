package template

import (
	"strconv"
	"strings"

	"github.com/tombee/stencil/pkg/errors"
	"github.com/tombee/stencil/pkg/value"
)

// parseElements splits a template source into literal text and
// expression elements. Expression delimiters inside string literals do
// not terminate the expression, so "{{ '}}' }}" parses as a single
// expression whose value is "}}".
func parseElements(source string) ([]Element, error) {
	var elements []Element
	pos := 0
	for pos < len(source) {
		rel := strings.Index(source[pos:], "{{")
		if rel < 0 {
			elements = append(elements, Element{Text: source[pos:]})
			break
		}
		open := pos + rel
		if open > pos {
			elements = append(elements, Element{Text: source[pos:open]})
		}
		end, ok := findExprEnd(source, open+2)
		if !ok {
			return nil, &errors.ParseError{
				Message:  "unclosed expression",
				Position: open,
				Template: source,
			}
		}
		raw := source[open+2 : end]
		trimmed := strings.TrimSpace(raw)
		base := open + 2 + (len(raw) - len(strings.TrimLeft(raw, " \t\n\r")))
		expr, err := parseExpression(trimmed, base, source)
		if err != nil {
			return nil, err
		}
		elements = append(elements, Element{Expr: expr})
		pos = end + 2
	}
	return elements, nil
}

// findExprEnd locates the closing "}}" for an expression that starts at
// offset start, skipping over delimiters that appear inside quoted
// string literals.
func findExprEnd(source string, start int) (int, bool) {
	var quote byte
	for i := start; i < len(source); i++ {
		c := source[i]
		if quote != 0 {
			if c == '\\' && i+1 < len(source) {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '}':
			if i+1 < len(source) && source[i+1] == '}' {
				return i, true
			}
		}
	}
	return 0, false
}

// parseExpression parses a single trimmed expression segment into an
// Expression. base is the byte offset of content within the template
// source.
func parseExpression(content string, base int, template string) (*Expression, error) {
	tokens, err := newLexer(content, base, template).lex()
	if err != nil {
		return nil, err
	}
	p := &exprParser{tokens: tokens, base: base, template: template}
	ast, err := p.parsePipeline()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorAt(tok, "unexpected token after expression")
	}
	return NewExpression(content, ast), nil
}

// exprParser is a recursive descent parser over a lexed token stream.
// Binding, loosest to tightest: pipeline, ternary, ||, &&, equality,
// comparison, additive, multiplicative, unary, primary.
type exprParser struct {
	tokens   []token
	idx      int
	base     int
	template string
}

func (p *exprParser) peek() token {
	return p.tokens[p.idx]
}

func (p *exprParser) advance() token {
	tok := p.tokens[p.idx]
	if tok.kind != tokEOF {
		p.idx++
	}
	return tok
}

func (p *exprParser) errorAt(tok token, msg string) error {
	return &errors.ParseError{
		Message:  msg,
		Position: p.base + tok.pos,
		Template: p.template,
	}
}

func (p *exprParser) expect(kind tokenKind, msg string) (token, error) {
	tok := p.peek()
	if tok.kind != kind {
		return token{}, p.errorAt(tok, msg)
	}
	return p.advance(), nil
}

func (p *exprParser) parsePipeline() (Expr, error) {
	input, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokPipe {
		return input, nil
	}
	var stages []PipelineStage
	for p.peek().kind == tokPipe {
		p.advance()
		nameTok, err := p.expect(tokIdent, "expected function name in pipeline")
		if err != nil {
			return nil, err
		}
		stage := PipelineStage{Name: nameTok.text}
		if p.peek().kind == tokLParen {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			stage.Args = args
		}
		stages = append(stages, stage)
	}
	return &Pipeline{Input: input, Stages: stages}, nil
}

func (p *exprParser) parseTernary() (Expr, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokQuestion {
		return cond, nil
	}
	p.advance()
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, "expected ':' in conditional expression"); err != nil {
		return nil, err
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &Ternary{Cond: cond, Then: then, Else: els}, nil
}

func (p *exprParser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: OpOr, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: OpAnd, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseEquality() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOperator
		switch p.peek().kind {
		case tokEq:
			op = OpEqual
		case tokNeq:
			op = OpNotEqual
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: op, Right: right}
	}
}

func (p *exprParser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOperator
		switch p.peek().kind {
		case tokLt:
			op = OpLessThan
		case tokLte:
			op = OpLessEqual
		case tokGt:
			op = OpGreaterThan
		case tokGte:
			op = OpGreaterEqual
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: op, Right: right}
	}
}

func (p *exprParser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOperator
		switch p.peek().kind {
		case tokPlus:
			op = OpAdd
		case tokMinus:
			op = OpSubtract
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: op, Right: right}
	}
}

func (p *exprParser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOperator
		switch p.peek().kind {
		case tokStar:
			op = OpMultiply
		case tokSlash:
			op = OpDivide
		case tokPercent:
			op = OpModulo
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: op, Right: right}
	}
}

func (p *exprParser) parseUnary() (Expr, error) {
	switch p.peek().kind {
	case tokBang:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: OpNot, Operand: operand}, nil
	case tokMinus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: OpMinus, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.kind {
	case tokEOF:
		return nil, p.errorAt(tok, "unexpected end of expression")

	case tokNumber:
		p.advance()
		if tok.isFloat {
			f, err := strconv.ParseFloat(tok.text, 64)
			if err != nil {
				return nil, p.errorAt(tok, "invalid number literal")
			}
			return &Literal{Value: value.Float(f)}, nil
		}
		i, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(tok.text, 64)
			if ferr != nil {
				return nil, p.errorAt(tok, "invalid number literal")
			}
			return &Literal{Value: value.Float(f)}, nil
		}
		return &Literal{Value: value.Integer(i)}, nil

	case tokString:
		p.advance()
		return &Literal{Value: value.String(tok.text)}, nil

	case tokDataRef:
		p.advance()
		return &DataAccess{Source: tok.source, Path: tok.path}, nil

	case tokLParen:
		p.advance()
		inner, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "expected ')'"); err != nil {
			return nil, err
		}
		return inner, nil

	case tokIdent:
		switch tok.text {
		case "null":
			p.advance()
			return &Literal{Value: value.Null()}, nil
		case "true":
			p.advance()
			return &Literal{Value: value.Bool(true)}, nil
		case "false":
			p.advance()
			return &Literal{Value: value.Bool(false)}, nil
		case "if":
			if p.tokens[p.idx+1].kind == tokLParen {
				return p.parseIf()
			}
		}
		if p.tokens[p.idx+1].kind == tokLParen {
			p.advance()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &FunctionCall{Name: tok.text, Args: args}, nil
		}
		p.advance()
		return nil, p.errorAt(tok, "unknown literal type")
	}
	return nil, p.errorAt(tok, "unexpected token")
}

func (p *exprParser) parseIf() (Expr, error) {
	tok := p.advance() // "if"
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	if len(args) < 2 || len(args) > 3 {
		return nil, p.errorAt(tok, "if requires 2 or 3 arguments")
	}
	node := &IfFunc{Cond: args[0], Then: args[1]}
	if len(args) == 3 {
		node.Else = args[2]
	}
	return node, nil
}

// parseArgs parses a parenthesized, comma-separated argument list. The
// opening paren is the current token.
func (p *exprParser) parseArgs() ([]Expr, error) {
	if _, err := p.expect(tokLParen, "expected '('"); err != nil {
		return nil, err
	}
	var args []Expr
	if p.peek().kind == tokRParen {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch p.peek().kind {
		case tokComma:
			p.advance()
		case tokRParen:
			p.advance()
			return args, nil
		default:
			return nil, p.errorAt(p.peek(), "expected ',' or ')' in argument list")
		}
	}
}
