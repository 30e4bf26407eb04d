package filter

// Mask is the over-approximated set of OSM kinds a predicate could
// conceivably match (spec.md §4.2).
type Mask uint8

const (
	MaskNode Mask = 1 << iota
	MaskWay
	MaskRelation

	MaskNone Mask = 0
	MaskAll  Mask = MaskNode | MaskWay | MaskRelation
)

func maskOf(k Kind) Mask {
	switch k {
	case KindNode:
		return MaskNode
	case KindWay:
		return MaskWay
	case KindRelation:
		return MaskRelation
	default:
		return MaskNone
	}
}

func (m Mask) Complement() Mask { return MaskAll &^ m }
func (m Mask) Union(o Mask) Mask     { return m | o }
func (m Mask) Intersect(o Mask) Mask { return m & o }
func (m Mask) Has(k Kind) bool       { return m&maskOf(k) != 0 }
func (m Mask) Empty() bool           { return m == MaskNone }

func (m Mask) String() string {
	if m == MaskNone {
		return "{}"
	}
	s := "{"
	first := true
	for k, name := range map[Kind]string{KindNode: "node", KindWay: "way", KindRelation: "relation"} {
		if m.Has(k) {
			if !first {
				s += ", "
			}
			s += name
			first = false
		}
	}
	return s + "}"
}

// satForced is the (sat, forced) pair spec.md §4.2 defines: sat is the set
// of kinds for which the node could return true; forced is the set of
// kinds for which its negation could return true.
type satForced struct {
	sat, forced Mask
}

// Analyze computes the top-level entity mask for n: the over-approximated
// set of kinds the compiled expression could match (spec.md §4.2's `sat`).
// It is run once, after parsing and before preparation (spec.md §4.4
// step 2).
func Analyze(n Node) Mask {
	return analyze(n).sat
}

func analyze(n Node) satForced {
	switch t := n.(type) {
	case *And:
		r := satForced{sat: MaskAll, forced: MaskAll}
		for _, c := range t.Children {
			cr := analyze(c)
			r.sat = r.sat.Intersect(cr.sat)
			r.forced = r.forced.Intersect(cr.forced)
		}
		return r
	case *Or:
		r := satForced{sat: MaskNone, forced: MaskNone}
		for _, c := range t.Children {
			cr := analyze(c)
			r.sat = r.sat.Union(cr.sat)
			r.forced = r.forced.Union(cr.forced)
		}
		return r
	case *Not:
		cr := analyze(t.Child)
		return satForced{sat: cr.forced, forced: cr.sat}
	case *BoolAttr:
		switch t.Attr {
		case AttrIsNode:
			return satForced{sat: MaskNode, forced: MaskNode.Complement()}
		case AttrIsWay:
			return satForced{sat: MaskWay, forced: MaskWay.Complement()}
		case AttrIsRelation:
			return satForced{sat: MaskRelation, forced: MaskRelation.Complement()}
		case AttrClosedWay, AttrOpenWay:
			return satForced{sat: MaskWay, forced: MaskWay.Complement()}
		}
		return satForced{sat: MaskAll, forced: MaskAll}
	case *CountNodes:
		return satForced{sat: MaskWay, forced: MaskWay.Complement()}
	case *CountMembers:
		return satForced{sat: MaskRelation, forced: MaskRelation.Complement()}
	case *CheckObjectType:
		m := maskOf(t.Kind)
		return satForced{sat: m, forced: m.Complement()}
	default:
		return satForced{sat: MaskAll, forced: MaskAll}
	}
}
