package lang

// TokenKind enumerates the lexical categories of the filter expression
// language (spec.md §4.1).
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokSingleQuoted
	TokDoubleQuoted
	TokInt

	TokLParen
	TokRParen
	TokLBracket
	TokRBracket
	TokComma

	// Reserved words.
	TokAnd
	TokOr
	TokNot
	TokIn
	TokTrue
	TokFalse
	TokNode
	TokWay
	TokRelation
	TokClosedWay
	TokOpenWay

	// Attribute names (the "@..." tokens).
	TokAttrID
	TokAttrVersion
	TokAttrUID
	TokAttrChangeset
	TokAttrRef
	TokAttrUser
	TokAttrKey
	TokAttrValue
	TokAttrRole
	TokAttrNode
	TokAttrWay
	TokAttrRelation
	TokAttrVisible
	TokAttrClosedWay
	TokAttrOpenWay
	TokAttrType
	TokAttrTags
	TokAttrNodes
	TokAttrMembers

	// Integer comparison operators.
	TokIntEq
	TokIntNe
	TokIntLt
	TokIntLe
	TokIntGt
	TokIntGe

	// String comparison operators (disjoint spellings from the integer
	// set except == and !=, which are shared tokens reinterpreted by the
	// parser according to the static type of their left operand).
	TokStrPrefixEq
	TokStrPrefixNe
	TokRegexMatch
	TokRegexNotMatch

	// Case-insensitivity suffix, valid only directly after a regex op's
	// pattern literal.
	TokCaseInsensitive
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of input"
	case TokIdent:
		return "identifier"
	case TokSingleQuoted, TokDoubleQuoted:
		return "string"
	case TokInt:
		return "integer"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokLBracket:
		return "'['"
	case TokRBracket:
		return "']'"
	case TokComma:
		return "','"
	case TokAnd:
		return "'and'"
	case TokOr:
		return "'or'"
	case TokNot:
		return "'not'"
	case TokIn:
		return "'in'"
	case TokTrue:
		return "'true'"
	case TokFalse:
		return "'false'"
	case TokNode:
		return "'node'"
	case TokWay:
		return "'way'"
	case TokRelation:
		return "'relation'"
	case TokClosedWay:
		return "'closed_way'"
	case TokOpenWay:
		return "'open_way'"
	case TokIntEq, TokStrPrefixEq:
		return "comparison operator"
	case TokIntNe:
		return "'!='"
	case TokIntLt:
		return "'<'"
	case TokIntLe:
		return "'<='"
	case TokIntGt:
		return "'>'"
	case TokIntGe:
		return "'>='"
	case TokStrPrefixNe:
		return "'!^'"
	case TokRegexMatch:
		return "'=~'"
	case TokRegexNotMatch:
		return "'!~'"
	case TokCaseInsensitive:
		return "'i'"
	default:
		return "attribute name"
	}
}

// attributeWords maps the @-prefixed identifier spelling (without the @)
// to its token kind.
var attributeWords = map[string]TokenKind{
	"id":         TokAttrID,
	"version":    TokAttrVersion,
	"uid":        TokAttrUID,
	"changeset":  TokAttrChangeset,
	"ref":        TokAttrRef,
	"user":       TokAttrUser,
	"key":        TokAttrKey,
	"value":      TokAttrValue,
	"role":       TokAttrRole,
	"node":       TokAttrNode,
	"way":        TokAttrWay,
	"relation":   TokAttrRelation,
	"visible":    TokAttrVisible,
	"closed_way": TokAttrClosedWay,
	"open_way":   TokAttrOpenWay,
	"type":       TokAttrType,
	"tags":       TokAttrTags,
	"nodes":      TokAttrNodes,
	"members":    TokAttrMembers,
}

// reservedWords maps a bare (non-@) identifier spelling to its token kind.
var reservedWords = map[string]TokenKind{
	"and":        TokAnd,
	"or":         TokOr,
	"not":        TokNot,
	"in":         TokIn,
	"true":       TokTrue,
	"false":      TokFalse,
	"node":       TokNode,
	"way":        TokWay,
	"relation":   TokRelation,
	"closed_way": TokClosedWay,
	"open_way":   TokOpenWay,
}

// Token is one lexical unit together with its byte offset in the source,
// used both for parsing and for caret-pointing parse errors.
type Token struct {
	Kind   TokenKind
	Text   string // identifier spelling, or decoded string/int literal text
	Offset int
}
