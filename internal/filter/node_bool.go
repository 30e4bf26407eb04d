package filter

// And evaluates children in source order and short-circuits on the first
// false, per spec.md §4.2. The parser collapses a single-child And/Or to
// the child itself (spec.md §4.1), so a constructed And always has ≥2
// children; that invariant is enforced at construction, not here.
type And struct{ Children []Node }

func (n *And) ResultType() ResultType { return TypeBool }

func (n *And) EvalBool(ctx *EvalContext) bool {
	for _, c := range n.Children {
		if !c.EvalBool(ctx) {
			return false
		}
	}
	return true
}

func (n *And) EvalInt(ctx *EvalContext) int64  { return boolToInt(n.EvalBool(ctx)) }
func (n *And) EvalStr(ctx *EvalContext) string {
	if n.EvalBool(ctx) {
		return "true"
	}
	return "false"
}

// Or evaluates children in source order and short-circuits on the first
// true.
type Or struct{ Children []Node }

func (n *Or) ResultType() ResultType { return TypeBool }

func (n *Or) EvalBool(ctx *EvalContext) bool {
	for _, c := range n.Children {
		if c.EvalBool(ctx) {
			return true
		}
	}
	return false
}

func (n *Or) EvalInt(ctx *EvalContext) int64 { return boolToInt(n.EvalBool(ctx)) }
func (n *Or) EvalStr(ctx *EvalContext) string {
	if n.EvalBool(ctx) {
		return "true"
	}
	return "false"
}

// Not negates its single child's boolean evaluation.
type Not struct{ Child Node }

func (n *Not) ResultType() ResultType { return TypeBool }

func (n *Not) EvalBool(ctx *EvalContext) bool { return !n.Child.EvalBool(ctx) }
func (n *Not) EvalInt(ctx *EvalContext) int64 { return boolToInt(n.EvalBool(ctx)) }
func (n *Not) EvalStr(ctx *EvalContext) string {
	if n.EvalBool(ctx) {
		return "true"
	}
	return "false"
}

// BinaryInt compares two Int-typed children in the same context.
type BinaryInt struct {
	LHS, RHS Node
	Op       IntOp
}

func (n *BinaryInt) ResultType() ResultType { return TypeBool }

func (n *BinaryInt) EvalBool(ctx *EvalContext) bool {
	return n.Op.apply(n.LHS.EvalInt(ctx), n.RHS.EvalInt(ctx))
}

func (n *BinaryInt) EvalInt(ctx *EvalContext) int64 { return boolToInt(n.EvalBool(ctx)) }
func (n *BinaryInt) EvalStr(ctx *EvalContext) string {
	if n.EvalBool(ctx) {
		return "true"
	}
	return "false"
}

// BinaryStr compares a Str-typed LHS against either a Str-typed RHS
// (=, !=, ^=, !^=) or a Regex-typed RHS (=~, !~), per spec.md §4.2.
type BinaryStr struct {
	LHS, RHS Node
	Op       StrOp
}

func (n *BinaryStr) ResultType() ResultType { return TypeBool }

func (n *BinaryStr) EvalBool(ctx *EvalContext) bool {
	lhs := n.LHS.EvalStr(ctx)
	switch n.Op {
	case StrEq:
		return lhs == n.RHS.EvalStr(ctx)
	case StrNe:
		return lhs != n.RHS.EvalStr(ctx)
	case StrPrefixEq:
		return hasPrefix(lhs, n.RHS.EvalStr(ctx))
	case StrPrefixNe:
		return !hasPrefix(lhs, n.RHS.EvalStr(ctx))
	case StrRegexMatch, StrRegexNotMatch:
		re, ok := n.RHS.(*RegexValue)
		var matched bool
		if ok {
			matched = re.Search(lhs)
		} else {
			// Constructed only through internal/lang, which always binds a
			// *RegexValue to a regex op's rhs; this branch exists so the
			// zero value of the interface never panics.
			matched = false
		}
		if n.Op == StrRegexNotMatch {
			return !matched
		}
		return matched
	}
	return false
}

func (n *BinaryStr) EvalInt(ctx *EvalContext) int64 { return boolToInt(n.EvalBool(ctx)) }
func (n *BinaryStr) EvalStr(ctx *EvalContext) string {
	if n.EvalBool(ctx) {
		return "true"
	}
	return "false"
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
