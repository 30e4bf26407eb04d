// Package lang implements the filter expression language's lexer and
// recursive-descent parser: source text in, an internal/filter tree out.
package lang

import (
	"fmt"
	"strconv"

	"github.com/wegman-software/osmfilter-go/internal/filter"
)

// Parser walks a token stream one token of lookahead at a time. Go errors
// returned from any parse* method are always *ParseError; the interface
// is plain error only so callers can use errors.As uniformly.
type Parser struct {
	lex *lexer
	src string
	cur Token
}

func newParser(src string) (*Parser, error) {
	p := &Parser{lex: newLexer(src), src: src}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse compiles source text into an internal/filter expression tree
// rooted at the object context. The entire input must be consumed; any
// trailing token is a parse error (spec.md §4.1).
func Parse(src string) (filter.Node, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	tree, err := p.parseExpression(filter.CtxObject)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != TokEOF {
		return nil, unexpectedToken(p.src, p.cur, "end of input")
	}
	return tree, nil
}

func (p *Parser) advance() error {
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

// expectString returns the current token's text and advances, failing if
// the current token is not a string: a quoted literal of either kind, or
// a bare identifier (TokIdent), which the grammar treats as an unquoted
// string literal.
func (p *Parser) expectString(expected string) (string, error) {
	if p.cur.Kind != TokSingleQuoted && p.cur.Kind != TokDoubleQuoted && p.cur.Kind != TokIdent {
		return "", unexpectedToken(p.src, p.cur, expected)
	}
	s := p.cur.Text
	return s, p.advance()
}

// ---- expression = term { "or" term } ----

func (p *Parser) parseExpression(ctx filter.Context) (filter.Node, error) {
	first, err := p.parseTerm(ctx)
	if err != nil {
		return nil, err
	}
	children := []filter.Node{first}
	for p.cur.Kind == TokOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseTerm(ctx)
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &filter.Or{Children: children}, nil
}

// ---- term = factor { "and" factor } ----

func (p *Parser) parseTerm(ctx filter.Context) (filter.Node, error) {
	first, err := p.parseFactor(ctx)
	if err != nil {
		return nil, err
	}
	children := []filter.Node{first}
	for p.cur.Kind == TokAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseFactor(ctx)
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &filter.And{Children: children}, nil
}

// ---- factor = "not" factor | "(" expression ")" | primitive ----

func (p *Parser) parseFactor(ctx filter.Context) (filter.Node, error) {
	switch p.cur.Kind {
	case TokNot:
		if err := p.advance(); err != nil {
			return nil, err
		}
		child, err := p.parseFactor(ctx)
		if err != nil {
			return nil, err
		}
		return &filter.Not{Child: child}, nil
	case TokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression(ctx)
		if err != nil {
			return nil, err
		}
		if p.cur.Kind != TokRParen {
			return nil, unexpectedToken(p.src, p.cur, "')'")
		}
		return inner, p.advance()
	default:
		return p.parsePrimitive(ctx)
	}
}

// parsePrimitive dispatches on the current token to one of the grammar's
// primitive alternatives (spec.md §4.1). ctx is the context the produced
// node will be evaluated against; attribute lookups validate themselves
// against it here, at construction time, per spec.md §3 invariant 2.
func (p *Parser) parsePrimitive(ctx filter.Context) (filter.Node, error) {
	tok := p.cur
	switch tok.Kind {
	case TokTrue:
		return &filter.BoolValue{Value: true}, p.advance()
	case TokFalse:
		return &filter.BoolValue{Value: false}, p.advance()

	case TokNode, TokWay, TokRelation:
		kind := kindFromBareToken(tok.Kind)
		return &filter.CheckObjectType{Kind: kind}, p.advance()

	case TokClosedWay, TokOpenWay:
		attr := filter.AttrClosedWay
		if tok.Kind == TokOpenWay {
			attr = filter.AttrOpenWay
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !attr.ValidIn(ctx) {
			return nil, invalidAttrContext(p.src, tok, ctx)
		}
		return &filter.BoolAttr{Attr: attr}, nil

	case TokAttrNode, TokAttrWay, TokAttrRelation, TokAttrVisible, TokAttrClosedWay, TokAttrOpenWay:
		attr := boolAttrFromToken(tok.Kind)
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !attr.ValidIn(ctx) {
			return nil, invalidAttrContext(p.src, tok, ctx)
		}
		return &filter.BoolAttr{Attr: attr}, nil

	case TokAttrUser, TokAttrKey, TokAttrValue, TokAttrRole, TokAttrType:
		return p.parseStrAttrLed(ctx)

	case TokAttrID, TokAttrVersion, TokAttrUID, TokAttrChangeset, TokAttrRef,
		TokInt, TokAttrTags, TokAttrNodes, TokAttrMembers:
		return p.parseIntLed(ctx)

	case TokSingleQuoted, TokDoubleQuoted, TokIdent:
		return p.parseTagCmpOrKey(ctx)

	default:
		return nil, unexpectedToken(p.src, tok, "expression")
	}
}

// ---- binary_str = str_attr ( str_op str_val | regex_op regex_val ["i"] ) ----

func (p *Parser) parseStrAttrLed(ctx filter.Context) (filter.Node, error) {
	tok := p.cur
	attr := strAttrFromToken(tok.Kind)
	if err := p.advance(); err != nil {
		return nil, err
	}
	if !attr.ValidIn(ctx) {
		return nil, invalidAttrContext(p.src, tok, ctx)
	}
	lhs := &filter.StrAttr{Attr: attr}

	switch p.cur.Kind {
	case TokIntEq, TokIntNe, TokStrPrefixEq, TokStrPrefixNe:
		op := strOpFromToken(p.cur.Kind)
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := p.expectString("string literal")
		if err != nil {
			return nil, err
		}
		return &filter.BinaryStr{LHS: lhs, RHS: &filter.StrValue{Value: val}, Op: op}, nil
	case TokRegexMatch, TokRegexNotMatch:
		op := strOpFromToken(p.cur.Kind)
		if err := p.advance(); err != nil {
			return nil, err
		}
		rv, err := p.parseRegexValue()
		if err != nil {
			return nil, err
		}
		return &filter.BinaryStr{LHS: lhs, RHS: rv, Op: op}, nil
	default:
		return nil, unexpectedToken(p.src, p.cur, "string or regex comparison operator")
	}
}

// parseRegexValue expects the current token to be a quoted pattern,
// checks the immediately-following (no intervening trivia) 'i' flag at
// the lexer level, then compiles the pattern.
func (p *Parser) parseRegexValue() (*filter.RegexValue, error) {
	if p.cur.Kind != TokSingleQuoted && p.cur.Kind != TokDoubleQuoted && p.cur.Kind != TokIdent {
		return nil, unexpectedToken(p.src, p.cur, "regex pattern string literal")
	}
	patTok := p.cur
	pattern := p.cur.Text
	ci := p.lex.PeekCaseFlag()
	if err := p.advance(); err != nil {
		return nil, err
	}
	rv, err := filter.NewRegexValue(pattern, ci)
	if err != nil {
		return nil, &ParseError{Source: p.src, Offset: patTok.Offset, Expected: fmt.Sprintf("valid regex pattern (%v)", err)}
	}
	return rv, nil
}

// ---- tag_cmp = string ( str_op string | regex_op string ["i"] ) | key = string ----

func (p *Parser) parseTagCmpOrKey(ctx filter.Context) (filter.Node, error) {
	keyTok := p.cur
	key := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}

	switch p.cur.Kind {
	case TokIntEq, TokIntNe, TokStrPrefixEq, TokStrPrefixNe:
		op := strOpFromToken(p.cur.Kind)
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := p.expectString("string literal")
		if err != nil {
			return nil, err
		}
		return &filter.CheckTagStr{Key: key, Op: op, Value: val}, nil
	case TokRegexMatch, TokRegexNotMatch:
		op := strOpFromToken(p.cur.Kind)
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind != TokSingleQuoted && p.cur.Kind != TokDoubleQuoted && p.cur.Kind != TokIdent {
			return nil, unexpectedToken(p.src, p.cur, "regex pattern string literal")
		}
		pattern := p.cur.Text
		ci := p.lex.PeekCaseFlag()
		if err := p.advance(); err != nil {
			return nil, err
		}
		node, err := filter.NewCheckTagRegex(key, op, pattern, ci)
		if err != nil {
			return nil, &ParseError{Source: p.src, Offset: keyTok.Offset, Expected: fmt.Sprintf("valid regex pattern (%v)", err)}
		}
		return node, nil
	default:
		return &filter.HasKey{Key: key}, nil
	}
}

// ---- binary_int = int_side int_op int_side | in_int_list ----

// parseIntLed parses a primitive starting with an int_side production
// (int_attr, int_literal, or a @tags/@nodes/@members subexpression), then
// decides among a full binary_int, an in_int_list (int_attr only), or a
// bare int_side used standalone via the int→bool coercion.
func (p *Parser) parseIntLed(ctx filter.Context) (filter.Node, error) {
	lhs, isAttr, err := p.parseIntSide(ctx)
	if err != nil {
		return nil, err
	}

	if isAttr {
		switch p.cur.Kind {
		case TokIn:
			if err := p.advance(); err != nil {
				return nil, err
			}
			return p.parseIntListBody(lhs, filter.ListIn)
		case TokNot:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Kind != TokIn {
				return nil, unexpectedToken(p.src, p.cur, "'in' after 'not'")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			return p.parseIntListBody(lhs, filter.ListNotIn)
		}
	}

	if op, ok := intOpFromToken(p.cur.Kind); ok {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, _, err := p.parseIntSide(ctx)
		if err != nil {
			return nil, err
		}
		return &filter.BinaryInt{LHS: lhs, RHS: rhs, Op: op}, nil
	}

	return lhs, nil
}

// parseIntSide parses exactly one int_side production. The bool return
// reports whether the node is specifically an int_attr, since only those
// may lead an in_int_list.
func (p *Parser) parseIntSide(ctx filter.Context) (filter.Node, bool, error) {
	tok := p.cur
	switch tok.Kind {
	case TokAttrID, TokAttrVersion, TokAttrUID, TokAttrChangeset, TokAttrRef:
		attr := intAttrFromToken(tok.Kind)
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		if !attr.ValidIn(ctx) {
			return nil, false, invalidAttrContext(p.src, tok, ctx)
		}
		return &filter.IntAttr{Attr: attr}, true, nil
	case TokInt:
		v, perr := strconv.ParseInt(tok.Text, 10, 64)
		if perr != nil {
			return nil, false, unexpectedToken(p.src, tok, "valid 64-bit integer literal")
		}
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		return &filter.IntValue{Value: v}, false, nil
	case TokAttrTags, TokAttrNodes, TokAttrMembers:
		node, err := p.parseCountSubexpr(ctx)
		return node, false, err
	default:
		return nil, false, unexpectedToken(p.src, tok, "integer attribute, integer literal, or @tags/@nodes/@members[...]")
	}
}

// parseCountSubexpr parses "@tags[" expression "]" and its @nodes/@members
// siblings, switching the sub-expression's context per spec.md §3.
func (p *Parser) parseCountSubexpr(ctx filter.Context) (filter.Node, error) {
	kind := p.cur.Kind
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind != TokLBracket {
		return nil, unexpectedToken(p.src, p.cur, "'['")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var subCtx filter.Context
	switch kind {
	case TokAttrTags:
		subCtx = filter.CtxTag
	case TokAttrNodes:
		subCtx = filter.CtxNodeRef
	default:
		subCtx = filter.CtxMember
	}

	sub, err := p.parseExpression(subCtx)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != TokRBracket {
		return nil, unexpectedToken(p.src, p.cur, "']'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	switch kind {
	case TokAttrTags:
		return &filter.CountTags{Sub: sub}, nil
	case TokAttrNodes:
		return &filter.CountNodes{Sub: sub}, nil
	default:
		return &filter.CountMembers{Sub: sub}, nil
	}
}

// parseIntListBody parses the tail of an in_int_list production after
// "in"/"not in" has already been consumed: "(" "<" string ")" for a
// file-sourced set (spec.md §4.1's in_int_list production), or an inline
// parenthesized list of integers otherwise. The "<" is unambiguous here:
// having committed to in_int_list's body grammar, the parser never
// reaches binary_int's "<" operator at this position.
func (p *Parser) parseIntListBody(expr filter.Node, op filter.ListOp) (filter.Node, error) {
	if p.cur.Kind != TokLParen {
		return nil, unexpectedToken(p.src, p.cur, "'('")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.cur.Kind == TokIntLt {
		if err := p.advance(); err != nil {
			return nil, err
		}
		path, err := p.expectString("file path string literal")
		if err != nil {
			return nil, err
		}
		if p.cur.Kind != TokRParen {
			return nil, unexpectedToken(p.src, p.cur, "')'")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return filter.NewFileIntegerList(expr, op, path), nil
	}

	var values []int64
	for {
		if p.cur.Kind != TokInt {
			return nil, unexpectedToken(p.src, p.cur, "integer literal")
		}
		v, perr := strconv.ParseInt(p.cur.Text, 10, 64)
		if perr != nil {
			return nil, unexpectedToken(p.src, p.cur, "valid 64-bit integer literal")
		}
		values = append(values, v)
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if p.cur.Kind != TokRParen {
		return nil, unexpectedToken(p.src, p.cur, "')' or ','")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return filter.NewInlineIntegerList(expr, op, values), nil
}

// ---- token → enum mappings ----

func kindFromBareToken(k TokenKind) filter.Kind {
	switch k {
	case TokNode:
		return filter.KindNode
	case TokWay:
		return filter.KindWay
	default:
		return filter.KindRelation
	}
}

func boolAttrFromToken(k TokenKind) filter.BooleanAttribute {
	switch k {
	case TokAttrNode:
		return filter.AttrIsNode
	case TokAttrWay:
		return filter.AttrIsWay
	case TokAttrRelation:
		return filter.AttrIsRelation
	case TokAttrVisible:
		return filter.AttrVisible
	case TokAttrClosedWay:
		return filter.AttrClosedWay
	default:
		return filter.AttrOpenWay
	}
}

func intAttrFromToken(k TokenKind) filter.IntegerAttribute {
	switch k {
	case TokAttrID:
		return filter.AttrID
	case TokAttrVersion:
		return filter.AttrVersion
	case TokAttrUID:
		return filter.AttrUID
	case TokAttrChangeset:
		return filter.AttrChangeset
	default:
		return filter.AttrRef
	}
}

func strAttrFromToken(k TokenKind) filter.StringAttribute {
	switch k {
	case TokAttrUser:
		return filter.AttrUser
	case TokAttrKey:
		return filter.AttrKey
	case TokAttrValue:
		return filter.AttrValue
	case TokAttrRole:
		return filter.AttrRole
	default:
		return filter.AttrType
	}
}

func intOpFromToken(k TokenKind) (filter.IntOp, bool) {
	switch k {
	case TokIntEq:
		return filter.IntEq, true
	case TokIntNe:
		return filter.IntNe, true
	case TokIntLt:
		return filter.IntLt, true
	case TokIntLe:
		return filter.IntLe, true
	case TokIntGt:
		return filter.IntGt, true
	case TokIntGe:
		return filter.IntGe, true
	default:
		return 0, false
	}
}

func strOpFromToken(k TokenKind) filter.StrOp {
	switch k {
	case TokIntEq:
		return filter.StrEq
	case TokIntNe:
		return filter.StrNe
	case TokStrPrefixEq:
		return filter.StrPrefixEq
	case TokStrPrefixNe:
		return filter.StrPrefixNe
	case TokRegexMatch:
		return filter.StrRegexMatch
	default:
		return filter.StrRegexNotMatch
	}
}

func invalidAttrContext(src string, tok Token, ctx filter.Context) *ParseError {
	return &ParseError{
		Source:   src,
		Offset:   tok.Offset,
		Expected: fmt.Sprintf("an attribute valid in %s context", ctx),
	}
}
