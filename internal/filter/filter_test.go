package filter

import "testing"

func node(id int64, tags ...Tag) *Object {
	return &Object{Kind: KindNode, ID: id, Visible: true, Tags: tags}
}

func way(id int64, nodes []int64, tags ...Tag) *Object {
	var refs []NodeRef
	for _, n := range nodes {
		refs = append(refs, NodeRef{Ref: n})
	}
	return &Object{Kind: KindWay, ID: id, Visible: true, Nodes: refs, Tags: tags}
}

func TestHasKey(t *testing.T) {
	n := &HasKey{Key: "highway"}
	obj := node(1, Tag{Key: "highway", Value: "primary"})
	if !n.EvalBool(ObjectContext(obj)) {
		t.Error("expected HasKey(highway) to match")
	}
	if n.EvalBool(ObjectContext(node(2))) {
		t.Error("expected HasKey(highway) to miss on a tagless node")
	}
}

func TestCheckTagStrMissingKeyIsAlwaysFalse(t *testing.T) {
	// spec.md §4.2 / §8 property 6: a missing tag is false regardless of
	// operator polarity, including !=.
	n := &CheckTagStr{Key: "highway", Op: StrNe, Value: "primary"}
	if n.EvalBool(ObjectContext(node(1))) {
		t.Error("expected CheckTagStr on a missing key to be false even for !=")
	}
}

func TestCheckTagStrOperators(t *testing.T) {
	obj := node(1, Tag{Key: "highway", Value: "primary"})
	cases := []struct {
		op   StrOp
		val  string
		want bool
	}{
		{StrEq, "primary", true},
		{StrEq, "secondary", false},
		{StrNe, "secondary", true},
		{StrPrefixEq, "prim", true},
		{StrPrefixEq, "sec", false},
		{StrPrefixNe, "sec", true},
	}
	for _, c := range cases {
		n := &CheckTagStr{Key: "highway", Op: c.op, Value: c.val}
		if got := n.EvalBool(ObjectContext(obj)); got != c.want {
			t.Errorf("CheckTagStr(highway, %s, %q) = %v, want %v", c.op, c.val, got, c.want)
		}
	}
}

func TestCheckTagRegexCaseInsensitive(t *testing.T) {
	obj := node(1, Tag{Key: "name", Value: "Main Street"})
	n, err := NewCheckTagRegex("name", StrRegexMatch, "^main", true)
	if err != nil {
		t.Fatalf("NewCheckTagRegex: %v", err)
	}
	if !n.EvalBool(ObjectContext(obj)) {
		t.Error("expected case-insensitive regex to match 'Main Street'")
	}
	if n.EvalBool(ObjectContext(node(2, Tag{Key: "name", Value: "Side Main"}))) {
		t.Error("expected anchored pattern not to match 'Side Main'")
	}
}

func TestBinaryIntOperators(t *testing.T) {
	obj := &Object{Kind: KindNode, ID: 42, Version: 3}
	cases := []struct {
		op   IntOp
		rhs  int64
		want bool
	}{
		{IntEq, 42, true},
		{IntNe, 42, false},
		{IntLt, 100, true},
		{IntLe, 42, true},
		{IntGt, 1, true},
		{IntGe, 42, true},
	}
	for _, c := range cases {
		n := &BinaryInt{LHS: &IntAttr{Attr: AttrID}, RHS: &IntValue{Value: c.rhs}, Op: c.op}
		if got := n.EvalBool(ObjectContext(obj)); got != c.want {
			t.Errorf("@id %s %d = %v, want %v", c.op, c.rhs, got, c.want)
		}
	}
}

func TestAndOrShortCircuit(t *testing.T) {
	obj := node(1)
	and := &And{Children: []Node{&BoolValue{Value: false}, &panicNode{t: t}}}
	if and.EvalBool(ObjectContext(obj)) {
		t.Error("And should be false")
	}
	or := &Or{Children: []Node{&BoolValue{Value: true}, &panicNode{t: t}}}
	if !or.EvalBool(ObjectContext(obj)) {
		t.Error("Or should be true")
	}
}

// panicNode fails the test if evaluated; used to prove And/Or short-circuit
// rather than evaluating every child.
type panicNode struct{ t *testing.T }

func (n *panicNode) ResultType() ResultType { return TypeBool }
func (n *panicNode) EvalBool(ctx *EvalContext) bool {
	n.t.Fatal("short-circuited child was evaluated anyway")
	return false
}
func (n *panicNode) EvalInt(ctx *EvalContext) int64  { return 0 }
func (n *panicNode) EvalStr(ctx *EvalContext) string { return "" }

func TestCheckObjectType(t *testing.T) {
	n := &CheckObjectType{Kind: KindWay}
	if n.EvalBool(ObjectContext(way(1, nil))) != true {
		t.Error("expected way to match KindWay")
	}
	if n.EvalBool(ObjectContext(node(1))) {
		t.Error("expected node not to match KindWay")
	}
}

func TestIsClosedWay(t *testing.T) {
	cases := []struct {
		name  string
		nodes []int64
		want  bool
	}{
		{"empty", nil, true},
		{"single", []int64{1}, true},
		{"open", []int64{1, 2, 3}, false},
		{"closed", []int64{1, 2, 3, 1}, true},
	}
	for _, c := range cases {
		obj := way(1, c.nodes)
		if got := obj.IsClosedWay(); got != c.want {
			t.Errorf("%s: IsClosedWay() = %v, want %v", c.name, got, c.want)
		}
	}
	attr := &BoolAttr{Attr: AttrClosedWay}
	if attr.EvalBool(ObjectContext(way(1, []int64{1, 2, 1}))) != true {
		t.Error("expected @closed_way true for a closed way")
	}
	openAttr := &BoolAttr{Attr: AttrOpenWay}
	if !openAttr.EvalBool(ObjectContext(way(1, []int64{1, 2, 3}))) {
		t.Error("expected @open_way true for an open way")
	}
	if openAttr.EvalBool(ObjectContext(node(1))) {
		t.Error("expected @open_way false on a node")
	}
}

func TestCountTagsAndCountNodes(t *testing.T) {
	obj := node(1, Tag{Key: "highway", Value: "primary"}, Tag{Key: "lanes", Value: "2"}, Tag{Key: "name", Value: "Main St"})

	keyCount := &CountTags{Sub: &BinaryStr{LHS: &StrAttr{Attr: AttrKey}, RHS: &StrValue{Value: "lanes"}, Op: StrEq}}
	if got := keyCount.EvalInt(ObjectContext(obj)); got != 1 {
		t.Errorf("expected exactly 1 tag with key 'lanes', got %d", got)
	}

	w := way(1, []int64{10, 20, 30})
	nodeCount := &CountNodes{Sub: &BinaryInt{LHS: &IntAttr{Attr: AttrRef}, RHS: &IntValue{Value: 20}, Op: IntGe}}
	if got := nodeCount.EvalInt(ObjectContext(w)); got != 2 {
		t.Errorf("expected 2 node refs >= 20, got %d", got)
	}
	if got := nodeCount.EvalInt(ObjectContext(node(1))); got != 0 {
		t.Errorf("expected CountNodes on a node to be 0, got %d", got)
	}
}

func TestCountMembers(t *testing.T) {
	rel := &Object{Kind: KindRelation, ID: 1, Members: []Member{
		{Type: MemberWay, Ref: 1, Role: "outer"},
		{Type: MemberWay, Ref: 2, Role: "inner"},
		{Type: MemberNode, Ref: 3, Role: ""},
	}}
	outer := &CountMembers{Sub: &BinaryStr{LHS: &StrAttr{Attr: AttrRole}, RHS: &StrValue{Value: "outer"}, Op: StrEq}}
	if got := outer.EvalInt(ObjectContext(rel)); got != 1 {
		t.Errorf("expected 1 outer member, got %d", got)
	}
}

func TestStrAttrType(t *testing.T) {
	attr := &StrAttr{Attr: AttrType}
	if got := attr.EvalStr(ObjectContext(way(1, nil))); got != "way" {
		t.Errorf("@type on a way object = %q, want %q", got, "way")
	}
	memberCtx := &EvalContext{Kind: CtxMember, Member: Member{Type: MemberRelation}}
	if got := attr.EvalStr(memberCtx); got != "relation" {
		t.Errorf("@type on a relation member = %q, want %q", got, "relation")
	}
}

func TestInIntegerListInline(t *testing.T) {
	n := NewInlineIntegerList(&IntAttr{Attr: AttrID}, ListIn, []int64{10, 20, 30})
	if !n.EvalBool(ObjectContext(node(20))) {
		t.Error("expected id 20 to be in the list")
	}
	if n.EvalBool(ObjectContext(node(99))) {
		t.Error("expected id 99 not to be in the list")
	}
	notIn := NewInlineIntegerList(&IntAttr{Attr: AttrID}, ListNotIn, []int64{10, 20, 30})
	if notIn.EvalBool(ObjectContext(node(20))) {
		t.Error("expected id 20 to fail 'not in' membership")
	}
}

func TestCoercions(t *testing.T) {
	if got := strToInt("  -42abc"); got != -42 {
		t.Errorf("strToInt(\"  -42abc\") = %d, want -42", got)
	}
	if got := strToInt("abc"); got != 0 {
		t.Errorf("strToInt(\"abc\") = %d, want 0", got)
	}
	if !strToBool("x") || strToBool("") {
		t.Error("strToBool should be true for non-empty, false for empty")
	}
	if intToBool(0) || !intToBool(1) {
		t.Error("intToBool should be false for 0, true for positive values")
	}
}

func TestAnalyzeMask(t *testing.T) {
	cases := []struct {
		name string
		tree Node
		want Mask
	}{
		{"bare way word", &CheckObjectType{Kind: KindWay}, MaskWay},
		{"count nodes implies way", &CountNodes{Sub: &BoolValue{Value: true}}, MaskWay},
		{"count members implies relation", &CountMembers{Sub: &BoolValue{Value: true}}, MaskRelation},
		{"or widens", &Or{Children: []Node{&CheckObjectType{Kind: KindNode}, &CheckObjectType{Kind: KindWay}}}, MaskNode | MaskWay},
		{"and narrows to empty", &And{Children: []Node{&CheckObjectType{Kind: KindNode}, &CheckObjectType{Kind: KindWay}}}, MaskNone},
		{"not flips to complement", &Not{Child: &CheckObjectType{Kind: KindNode}}, MaskWay | MaskRelation},
		{"unconstrained predicate", &HasKey{Key: "highway"}, MaskAll},
	}
	for _, c := range cases {
		if got := Analyze(c.tree); got != c.want {
			t.Errorf("%s: Analyze() = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestRenderGoldenShape(t *testing.T) {
	tree := &And{Children: []Node{
		&CheckObjectType{Kind: KindWay},
		&CheckTagStr{Key: "highway", Op: StrEq, Value: "primary"},
	}}
	got := Render(tree)
	want := "BOOL_AND\n CHECK_OBJECT_TYPE[way]\n CHECK_TAG[highway][equal][primary]\n"
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderInlineListEllipsis(t *testing.T) {
	n := NewInlineIntegerList(&IntAttr{Attr: AttrID}, ListIn, []int64{1, 2, 3, 4, 5, 6, 7})
	got := Render(n)
	want := "IN_INT_LIST[in]\n INT_ATTR[id]\n VALUES[1, 2, 3, 4, 5, ...]\n"
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestPrepareWithoutFileSourcedListIsNoOp(t *testing.T) {
	// Prepare on a tree with no file-sourced list is a no-op.
	tree := &And{Children: []Node{&BoolValue{Value: true}, &CheckObjectType{Kind: KindNode}}}
	if err := Prepare(tree); err != nil {
		t.Fatalf("Prepare on a tree with no file sources: %v", err)
	}
}
