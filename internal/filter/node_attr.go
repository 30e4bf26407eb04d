package filter

// IntAttr looks up an integer attribute on the current context. Which
// attributes are legal in which context is enforced by internal/lang at
// parse time (spec.md §3 invariant 1); a node the parser accepted is
// assumed well-formed here.
type IntAttr struct{ Attr IntegerAttribute }

func (n *IntAttr) ResultType() ResultType { return TypeInt }

func (n *IntAttr) EvalInt(ctx *EvalContext) int64 {
	switch n.Attr {
	case AttrID:
		return ctx.Obj.ID
	case AttrVersion:
		return ctx.Obj.Version
	case AttrChangeset:
		return ctx.Obj.Changeset
	case AttrUID:
		return ctx.Obj.UID
	case AttrRef:
		switch ctx.Kind {
		case CtxNodeRef:
			return ctx.NodeRf.Ref
		case CtxMember:
			return ctx.Member.Ref
		}
	}
	return 0
}

func (n *IntAttr) EvalBool(ctx *EvalContext) bool  { return intToBool(n.EvalInt(ctx)) }
func (n *IntAttr) EvalStr(ctx *EvalContext) string { return intToStr(n.EvalInt(ctx)) }

// StrAttr looks up a string attribute on the current context.
type StrAttr struct{ Attr StringAttribute }

func (n *StrAttr) ResultType() ResultType { return TypeStr }

func (n *StrAttr) EvalStr(ctx *EvalContext) string {
	switch n.Attr {
	case AttrUser:
		return ctx.Obj.User
	case AttrKey:
		return ctx.Tag.Key
	case AttrValue:
		return ctx.Tag.Value
	case AttrRole:
		return ctx.Member.Role
	case AttrType:
		switch ctx.Kind {
		case CtxObject:
			return ctx.Obj.Kind.String()
		case CtxMember:
			return ctx.Member.Type.String()
		}
	}
	return ""
}

func (n *StrAttr) EvalBool(ctx *EvalContext) bool { return strToBool(n.EvalStr(ctx)) }
func (n *StrAttr) EvalInt(ctx *EvalContext) int64 { return strToInt(n.EvalStr(ctx)) }

// BoolAttr looks up a boolean attribute, always on the object context.
type BoolAttr struct{ Attr BooleanAttribute }

func (n *BoolAttr) ResultType() ResultType { return TypeBool }

func (n *BoolAttr) EvalBool(ctx *EvalContext) bool {
	switch n.Attr {
	case AttrIsNode:
		return ctx.Obj.Kind == KindNode
	case AttrIsWay:
		return ctx.Obj.Kind == KindWay
	case AttrIsRelation:
		return ctx.Obj.Kind == KindRelation
	case AttrVisible:
		return ctx.Obj.Visible
	case AttrClosedWay:
		return ctx.Obj.IsClosedWay()
	case AttrOpenWay:
		return ctx.Obj.Kind == KindWay && !ctx.Obj.IsClosedWay()
	}
	return false
}

func (n *BoolAttr) EvalInt(ctx *EvalContext) int64 { return boolToInt(n.EvalBool(ctx)) }
func (n *BoolAttr) EvalStr(ctx *EvalContext) string {
	if n.EvalBool(ctx) {
		return "true"
	}
	return "false"
}
