package filter

// HasKey is true iff the object has at least one tag with the given key.
type HasKey struct{ Key string }

func (n *HasKey) ResultType() ResultType { return TypeBool }

func (n *HasKey) EvalBool(ctx *EvalContext) bool {
	_, ok := ctx.Obj.Tag(n.Key)
	return ok
}

func (n *HasKey) EvalInt(ctx *EvalContext) int64 { return boolToInt(n.EvalBool(ctx)) }
func (n *HasKey) EvalStr(ctx *EvalContext) string {
	if n.EvalBool(ctx) {
		return "true"
	}
	return "false"
}

// CheckTagStr looks up Key on the object's tags; if absent the result is
// false regardless of operator polarity (spec.md §4.2, §8 property 6).
type CheckTagStr struct {
	Key   string
	Op    StrOp
	Value string
}

func (n *CheckTagStr) ResultType() ResultType { return TypeBool }

func (n *CheckTagStr) EvalBool(ctx *EvalContext) bool {
	v, ok := ctx.Obj.Tag(n.Key)
	if !ok {
		return false
	}
	switch n.Op {
	case StrEq:
		return v == n.Value
	case StrNe:
		return v != n.Value
	case StrPrefixEq:
		return hasPrefix(v, n.Value)
	case StrPrefixNe:
		return !hasPrefix(v, n.Value)
	}
	return false
}

func (n *CheckTagStr) EvalInt(ctx *EvalContext) int64 { return boolToInt(n.EvalBool(ctx)) }
func (n *CheckTagStr) EvalStr(ctx *EvalContext) string {
	if n.EvalBool(ctx) {
		return "true"
	}
	return "false"
}

// CheckTagRegex is CheckTagStr's regex-operator counterpart.
type CheckTagRegex struct {
	Key             string
	Op              StrOp // StrRegexMatch or StrRegexNotMatch
	Pattern         string
	CaseInsensitive bool
	re              regexEngine
}

// NewCheckTagRegex compiles Pattern once at construction time.
func NewCheckTagRegex(key string, op StrOp, pattern string, caseInsensitive bool) (*CheckTagRegex, error) {
	re, err := compileRegex(pattern, caseInsensitive)
	if err != nil {
		return nil, err
	}
	return &CheckTagRegex{Key: key, Op: op, Pattern: pattern, CaseInsensitive: caseInsensitive, re: re}, nil
}

func (n *CheckTagRegex) ResultType() ResultType { return TypeBool }

func (n *CheckTagRegex) EvalBool(ctx *EvalContext) bool {
	v, ok := ctx.Obj.Tag(n.Key)
	if !ok {
		return false
	}
	matched := n.re.MatchString(v)
	if n.Op == StrRegexNotMatch {
		return !matched
	}
	return matched
}

func (n *CheckTagRegex) EvalInt(ctx *EvalContext) int64 { return boolToInt(n.EvalBool(ctx)) }
func (n *CheckTagRegex) EvalStr(ctx *EvalContext) string {
	if n.EvalBool(ctx) {
		return "true"
	}
	return "false"
}

// CheckObjectType tests object-kind equality against Kind.
type CheckObjectType struct{ Kind Kind }

func (n *CheckObjectType) ResultType() ResultType { return TypeBool }

func (n *CheckObjectType) EvalBool(ctx *EvalContext) bool {
	return ctx.Obj.Kind == n.Kind
}

func (n *CheckObjectType) EvalInt(ctx *EvalContext) int64 { return boolToInt(n.EvalBool(ctx)) }
func (n *CheckObjectType) EvalStr(ctx *EvalContext) string {
	if n.EvalBool(ctx) {
		return "true"
	}
	return "false"
}
