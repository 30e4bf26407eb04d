// Package filter implements the typed expression tree that the osmfilter
// language compiles to, and the evaluator that walks that tree against a
// stream of OSM objects.
package filter

import "fmt"

// ResultType is the static result type of an expression node.
type ResultType int

const (
	TypeBool ResultType = iota
	TypeInt
	TypeStr
	TypeRegex
)

func (t ResultType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeStr:
		return "str"
	case TypeRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// Context identifies which of the four host values a node is evaluated
// against: the object itself, one of its tags, one of a way's node
// references, or one of a relation's members.
type Context int

const (
	CtxObject Context = iota
	CtxTag
	CtxNodeRef
	CtxMember
)

func (c Context) String() string {
	switch c {
	case CtxObject:
		return "object"
	case CtxTag:
		return "tag"
	case CtxNodeRef:
		return "node-ref"
	case CtxMember:
		return "member"
	default:
		return "unknown"
	}
}

// IntegerAttribute enumerates the integer-valued attribute lookups.
type IntegerAttribute int

const (
	AttrID IntegerAttribute = iota
	AttrVersion
	AttrChangeset
	AttrUID
	AttrRef
)

func (a IntegerAttribute) String() string {
	switch a {
	case AttrID:
		return "id"
	case AttrVersion:
		return "version"
	case AttrChangeset:
		return "changeset"
	case AttrUID:
		return "uid"
	case AttrRef:
		return "ref"
	default:
		return "unknown"
	}
}

// ValidIn reports whether this attribute may be evaluated in ctx.
func (a IntegerAttribute) ValidIn(ctx Context) bool {
	if a == AttrRef {
		return ctx == CtxNodeRef || ctx == CtxMember
	}
	return ctx == CtxObject
}

// StringAttribute enumerates the string-valued attribute lookups.
//
// AttrType is a supplement to spec.md's enumeration (see SPEC_FULL.md §4):
// it resolves the `@type` token, valid on the object context (the object's
// own kind) and the member context (the member's referenced kind).
type StringAttribute int

const (
	AttrUser StringAttribute = iota
	AttrKey
	AttrValue
	AttrRole
	AttrType
)

func (a StringAttribute) String() string {
	switch a {
	case AttrUser:
		return "user"
	case AttrKey:
		return "key"
	case AttrValue:
		return "value"
	case AttrRole:
		return "role"
	case AttrType:
		return "type"
	default:
		return "unknown"
	}
}

// ValidIn reports whether this attribute may be evaluated in ctx.
func (a StringAttribute) ValidIn(ctx Context) bool {
	switch a {
	case AttrUser:
		return ctx == CtxObject
	case AttrKey, AttrValue:
		return ctx == CtxTag
	case AttrRole:
		return ctx == CtxMember
	case AttrType:
		return ctx == CtxObject || ctx == CtxMember
	default:
		return false
	}
}

// BooleanAttribute enumerates the boolean-valued attribute lookups.
type BooleanAttribute int

const (
	AttrIsNode BooleanAttribute = iota
	AttrIsWay
	AttrIsRelation
	AttrVisible
	AttrClosedWay
	AttrOpenWay
)

func (a BooleanAttribute) String() string {
	switch a {
	case AttrIsNode:
		return "node"
	case AttrIsWay:
		return "way"
	case AttrIsRelation:
		return "relation"
	case AttrVisible:
		return "visible"
	case AttrClosedWay:
		return "closed_way"
	case AttrOpenWay:
		return "open_way"
	default:
		return "unknown"
	}
}

// ValidIn reports whether this attribute may be evaluated in ctx.
func (a BooleanAttribute) ValidIn(ctx Context) bool {
	return ctx == CtxObject
}

// IntOp enumerates integer comparison operators.
type IntOp int

const (
	IntEq IntOp = iota
	IntNe
	IntLt
	IntLe
	IntGt
	IntGe
)

func (o IntOp) String() string {
	switch o {
	case IntEq:
		return "equal"
	case IntNe:
		return "not_equal"
	case IntLt:
		return "less_than"
	case IntLe:
		return "less_or_equal"
	case IntGt:
		return "greater_than"
	case IntGe:
		return "greater_or_equal"
	default:
		return "unknown"
	}
}

func (o IntOp) apply(lhs, rhs int64) bool {
	switch o {
	case IntEq:
		return lhs == rhs
	case IntNe:
		return lhs != rhs
	case IntLt:
		return lhs < rhs
	case IntLe:
		return lhs <= rhs
	case IntGt:
		return lhs > rhs
	case IntGe:
		return lhs >= rhs
	default:
		panic(fmt.Sprintf("filter: unknown IntOp %d", o))
	}
}

// StrOp enumerates string comparison operators. The four non-regex
// operators compare against a Str-typed rhs; the two regex operators
// compare against a Regex-typed rhs.
type StrOp int

const (
	StrEq StrOp = iota
	StrNe
	StrPrefixEq
	StrPrefixNe
	StrRegexMatch
	StrRegexNotMatch
)

func (o StrOp) String() string {
	switch o {
	case StrEq:
		return "equal"
	case StrNe:
		return "not_equal"
	case StrPrefixEq:
		return "prefix_equal"
	case StrPrefixNe:
		return "prefix_not_equal"
	case StrRegexMatch:
		return "match"
	case StrRegexNotMatch:
		return "not_match"
	default:
		return "unknown"
	}
}

// IsRegex reports whether this operator's rhs must be Regex-typed.
func (o StrOp) IsRegex() bool {
	return o == StrRegexMatch || o == StrRegexNotMatch
}

// ListOp enumerates the two membership-test polarities.
type ListOp int

const (
	ListIn ListOp = iota
	ListNotIn
)

func (o ListOp) String() string {
	switch o {
	case ListIn:
		return "in"
	case ListNotIn:
		return "not_in"
	default:
		return "unknown"
	}
}
