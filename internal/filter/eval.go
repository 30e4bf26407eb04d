package filter

// EvalContext carries whichever host value a node is currently being
// evaluated against. Obj is always set; for CtxTag/CtxNodeRef/CtxMember it
// is the owning object, so nodes that read the object itself (HasKey,
// CheckTagStr, CheckObjectType, ...) and that the parser accepts inside a
// sub-expression evaluate against that owning object.
//
// String payloads in Tag/NodeRef/Member point into the Object that was
// passed to the top-level eval call; callers of EvalStr must not retain
// the returned string past the current object per spec.md §5.
type EvalContext struct {
	Kind   Context
	Obj    *Object
	Tag    Tag
	NodeRf NodeRef
	Member Member
}

// ObjectContext builds the object-level evaluation context.
func ObjectContext(o *Object) *EvalContext {
	return &EvalContext{Kind: CtxObject, Obj: o}
}

// Node is the tagged-union interface every expression tree node
// implements. Exactly one of EvalBool/EvalInt/EvalStr reflects the node's
// natural ResultType; the others apply the closed coercions of
// spec.md §4.2 so that any node can be evaluated in any mode.
type Node interface {
	ResultType() ResultType
	EvalBool(ctx *EvalContext) bool
	EvalInt(ctx *EvalContext) int64
	EvalStr(ctx *EvalContext) string
}

// ---- constants ----

type BoolValue struct{ Value bool }

func (n *BoolValue) ResultType() ResultType            { return TypeBool }
func (n *BoolValue) EvalBool(ctx *EvalContext) bool    { return n.Value }
func (n *BoolValue) EvalInt(ctx *EvalContext) int64    { return boolToInt(n.Value) }
func (n *BoolValue) EvalStr(ctx *EvalContext) string {
	if n.Value {
		return "true"
	}
	return "false"
}

type IntValue struct{ Value int64 }

func (n *IntValue) ResultType() ResultType         { return TypeInt }
func (n *IntValue) EvalBool(ctx *EvalContext) bool { return intToBool(n.Value) }
func (n *IntValue) EvalInt(ctx *EvalContext) int64 { return n.Value }
func (n *IntValue) EvalStr(ctx *EvalContext) string {
	return intToStr(n.Value)
}

type StrValue struct{ Value string }

func (n *StrValue) ResultType() ResultType          { return TypeStr }
func (n *StrValue) EvalBool(ctx *EvalContext) bool  { return strToBool(n.Value) }
func (n *StrValue) EvalInt(ctx *EvalContext) int64  { return strToInt(n.Value) }
func (n *StrValue) EvalStr(ctx *EvalContext) string { return n.Value }

// RegexValue holds a precompiled pattern. Compilation happens once, at
// tree-construction time, in internal/lang's parser (spec.md §4.1,
// §7 item 3): a compile failure is a parse-time error, never surfaced
// here.
type RegexValue struct {
	Pattern         string
	CaseInsensitive bool
	re              regexEngine
}

func (n *RegexValue) ResultType() ResultType          { return TypeRegex }
func (n *RegexValue) EvalBool(ctx *EvalContext) bool  { return strToBool(n.Pattern) }
func (n *RegexValue) EvalInt(ctx *EvalContext) int64  { return strToInt(n.Pattern) }
func (n *RegexValue) EvalStr(ctx *EvalContext) string { return n.Pattern }

// Search reports whether the pattern matches anywhere in s (unanchored
// search, not a full match), per spec.md §4.2's BinaryStr semantics.
func (n *RegexValue) Search(s string) bool {
	return n.re.MatchString(s)
}
