package filter

// Children returns n's direct subexpressions, in source order, or nil for
// a leaf. Used by the preparation walk and the verbose-tree renderer so
// neither needs its own per-node-kind child traversal.
func Children(n Node) []Node {
	switch t := n.(type) {
	case *And:
		return t.Children
	case *Or:
		return t.Children
	case *Not:
		return []Node{t.Child}
	case *BinaryInt:
		return []Node{t.LHS, t.RHS}
	case *BinaryStr:
		return []Node{t.LHS, t.RHS}
	case *CountTags:
		return []Node{t.Sub}
	case *CountNodes:
		return []Node{t.Sub}
	case *CountMembers:
		return []Node{t.Sub}
	case *InIntegerList:
		return []Node{t.Expr}
	default:
		return nil
	}
}

// preparable is implemented by nodes that need a one-time pass before
// evaluation (spec.md §4.3: loading an external id-list file).
type preparable interface {
	Prepare() error
}

// Prepare walks the whole tree once, calling Prepare on every node that
// needs it (today, only a file-sourced InIntegerList). Called once by the
// driver before the streaming loop starts.
func Prepare(n Node) error {
	if p, ok := n.(preparable); ok {
		if err := p.Prepare(); err != nil {
			return err
		}
	}
	for _, c := range Children(n) {
		if err := Prepare(c); err != nil {
			return err
		}
	}
	return nil
}
