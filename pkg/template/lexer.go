package template

import (
	"fmt"
	"strings"

	"github.com/tombee/stencil/pkg/errors"
)

// tokenKind enumerates the lexical tokens of the expression grammar.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokDataRef
	tokPipe
	tokQuestion
	tokColon
	tokComma
	tokLParen
	tokRParen
	tokOr
	tokAnd
	tokEq
	tokNeq
	tokLt
	tokLte
	tokGt
	tokGte
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokBang
)

// token is one lexed token. pos is the absolute byte offset in the
// whole template source, so parse errors point at the real location.
type token struct {
	kind    tokenKind
	text    string // number text, decoded string content, or identifier
	isFloat bool
	source  DataSource // for tokDataRef
	path    string     // for tokDataRef
	pos     int
}

// lexer tokenizes a single trimmed expression segment.
type lexer struct {
	input    string // the expression segment
	base     int    // offset of input within template
	template string // the whole template source, for error reporting
	pos      int    // current offset within input
}

func newLexer(input string, base int, template string) *lexer {
	return &lexer{input: input, base: base, template: template}
}

func (l *lexer) errorf(pos int, format string, args ...interface{}) error {
	return &errors.ParseError{
		Message:  fmt.Sprintf(format, args...),
		Position: l.base + pos,
		Template: l.template,
	}
}

// lex tokenizes the whole segment up front. The token slice always
// ends with tokEOF.
func (l *lexer) lex() ([]token, error) {
	var tokens []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.kind == tokEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: start}, nil
	}

	c := l.input[l.pos]
	switch {
	case c == '$':
		return l.lexDataRef()
	case c == '\'' || c == '"':
		return l.lexString()
	case c >= '0' && c <= '9':
		return l.lexNumber()
	case isIdentStart(c):
		return l.lexIdent()
	}

	two := ""
	if l.pos+1 < len(l.input) {
		two = l.input[l.pos : l.pos+2]
	}
	switch two {
	case "||":
		l.pos += 2
		return token{kind: tokOr, pos: start}, nil
	case "&&":
		l.pos += 2
		return token{kind: tokAnd, pos: start}, nil
	case "==":
		l.pos += 2
		return token{kind: tokEq, pos: start}, nil
	case "!=":
		l.pos += 2
		return token{kind: tokNeq, pos: start}, nil
	case "<=":
		l.pos += 2
		return token{kind: tokLte, pos: start}, nil
	case ">=":
		l.pos += 2
		return token{kind: tokGte, pos: start}, nil
	}

	l.pos++
	switch c {
	case '|':
		return token{kind: tokPipe, pos: start}, nil
	case '?':
		return token{kind: tokQuestion, pos: start}, nil
	case ':':
		return token{kind: tokColon, pos: start}, nil
	case ',':
		return token{kind: tokComma, pos: start}, nil
	case '(':
		return token{kind: tokLParen, pos: start}, nil
	case ')':
		return token{kind: tokRParen, pos: start}, nil
	case '<':
		return token{kind: tokLt, pos: start}, nil
	case '>':
		return token{kind: tokGt, pos: start}, nil
	case '+':
		return token{kind: tokPlus, pos: start}, nil
	case '-':
		return token{kind: tokMinus, pos: start}, nil
	case '*':
		return token{kind: tokStar, pos: start}, nil
	case '/':
		return token{kind: tokSlash, pos: start}, nil
	case '%':
		return token{kind: tokPercent, pos: start}, nil
	case '!':
		return token{kind: tokBang, pos: start}, nil
	}
	return token{}, l.errorf(start, "unexpected character %q", string(c))
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isPathChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func (l *lexer) lexIdent() (token, error) {
	start := l.pos
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	return token{kind: tokIdent, text: l.input[start:l.pos], pos: start}, nil
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	isFloat := false
	for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
		l.pos++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' &&
		l.pos+1 < len(l.input) && l.input[l.pos+1] >= '0' && l.input[l.pos+1] <= '9' {
		isFloat = true
		l.pos++
		for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
			l.pos++
		}
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		mark := l.pos
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
			isFloat = true
			for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
				l.pos++
			}
		} else {
			// not an exponent after all (e.g. "2e" at end); back off
			l.pos = mark
		}
	}
	return token{kind: tokNumber, text: l.input[start:l.pos], isFloat: isFloat, pos: start}, nil
}

func (l *lexer) lexString() (token, error) {
	start := l.pos
	quote := l.input[l.pos]
	l.pos++
	var sb strings.Builder
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\\' && l.pos+1 < len(l.input) {
			next := l.input[l.pos+1]
			switch next {
			case '\\', '\'', '"':
				sb.WriteByte(next)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte('\\')
				sb.WriteByte(next)
			}
			l.pos += 2
			continue
		}
		if c == quote {
			l.pos++
			return token{kind: tokString, text: sb.String(), pos: start}, nil
		}
		sb.WriteByte(c)
		l.pos++
	}
	return token{}, l.errorf(start, "unterminated string literal")
}

// lexDataRef scans a complete data reference: the $source name, an
// optional ('id') for node sources, and an optional dotted path.
func (l *lexer) lexDataRef() (token, error) {
	start := l.pos
	l.pos++ // consume '$'
	nameStart := l.pos
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	name := l.input[nameStart:l.pos]

	switch name {
	case "input":
		return token{kind: tokDataRef, source: InputSource(), path: l.lexPath(), pos: start}, nil

	case "node":
		id, err := l.lexNodeID(start)
		if err != nil {
			return token{}, err
		}
		path := l.lexPath()
		// $node('id').json.field is an alias for $node('id').field
		if path == "json" {
			path = ""
		} else {
			path = strings.TrimPrefix(path, "json.")
		}
		return token{kind: tokDataRef, source: NodeSource(id), path: path, pos: start}, nil

	case "env", "system", "execution", "workflow":
		if l.pos >= len(l.input) || l.input[l.pos] != '.' {
			return token{}, l.errorf(start, "unknown data source %q", "$"+name)
		}
		path := l.lexPath()
		var source DataSource
		switch name {
		case "env":
			source = EnvironmentSource()
		case "system":
			source = SystemSource()
		case "execution":
			source = ExecutionSource()
		case "workflow":
			source = WorkflowSource()
		}
		return token{kind: tokDataRef, source: source, path: path, pos: start}, nil

	default:
		return token{}, l.errorf(start, "unknown data source %q", "$"+name)
	}
}

// lexNodeID parses the ('id') or ("id") part of a node reference.
func (l *lexer) lexNodeID(start int) (string, error) {
	if l.pos >= len(l.input) || l.input[l.pos] != '(' {
		return "", l.errorf(start, "invalid node reference: expected ('id')")
	}
	l.pos++
	if l.pos >= len(l.input) || (l.input[l.pos] != '\'' && l.input[l.pos] != '"') {
		return "", l.errorf(start, "invalid node reference: node id must be quoted")
	}
	quote := l.input[l.pos]
	l.pos++
	idStart := l.pos
	for l.pos < len(l.input) && l.input[l.pos] != quote {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return "", l.errorf(start, "invalid node reference: unterminated node id")
	}
	id := l.input[idStart:l.pos]
	l.pos++
	if l.pos >= len(l.input) || l.input[l.pos] != ')' {
		return "", l.errorf(start, "invalid node reference: expected ')'")
	}
	l.pos++
	return id, nil
}

// lexPath consumes a dotted path (".a.b.0") following a data source
// reference and returns it without the leading dot. Returns "" when no
// path follows.
func (l *lexer) lexPath() string {
	var segments []string
	for l.pos < len(l.input) && l.input[l.pos] == '.' {
		segStart := l.pos + 1
		segEnd := segStart
		for segEnd < len(l.input) && isPathChar(l.input[segEnd]) {
			segEnd++
		}
		if segEnd == segStart {
			break
		}
		segments = append(segments, l.input[segStart:segEnd])
		l.pos = segEnd
	}
	return strings.Join(segments, ".")
}
