package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wegman-software/osmfilter-go/internal/filter"
)

func writeScript(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "accept.lua")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestHookAcceptReadsObjectFields(t *testing.T) {
	path := writeScript(t, `
function accept(obj)
  return obj.kind == "way" and obj.tags["highway"] == "primary"
end
`)
	hook, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer hook.Close()

	match := &filter.Object{
		Kind: filter.KindWay,
		Tags: []filter.Tag{{Key: "highway", Value: "primary"}},
	}
	if !hook.Accept(match) {
		t.Error("expected accept() to return true for a matching way")
	}

	miss := &filter.Object{Kind: filter.KindNode}
	if hook.Accept(miss) {
		t.Error("expected accept() to return false for a node")
	}
}

func TestHookAcceptTreatsLuaErrorAsFalse(t *testing.T) {
	path := writeScript(t, `
function accept(obj)
  error("boom")
end
`)
	hook, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer hook.Close()

	if hook.Accept(&filter.Object{Kind: filter.KindNode}) {
		t.Error("expected a Lua-side error to be treated as a rejection")
	}
}

func TestHookAcceptTreatsNonBooleanReturnAsFalse(t *testing.T) {
	path := writeScript(t, `
function accept(obj)
  return "yes"
end
`)
	hook, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer hook.Close()

	if hook.Accept(&filter.Object{Kind: filter.KindNode}) {
		t.Error("expected a non-boolean return to be treated as a rejection")
	}
}

func TestLoadRejectsScriptWithoutAccept(t *testing.T) {
	path := writeScript(t, `function other() return true end`)
	if _, err := Load(path); err == nil {
		t.Error("expected an error for a script with no accept() function")
	}
}

func TestHookAcceptSeesWayNodesAndRelationMembers(t *testing.T) {
	path := writeScript(t, `
function accept(obj)
  if obj.kind == "way" then
    return #obj.nodes == 3
  end
  if obj.kind == "relation" then
    return obj.members[1].role == "outer"
  end
  return false
end
`)
	hook, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer hook.Close()

	way := &filter.Object{Kind: filter.KindWay, Nodes: []filter.NodeRef{{Ref: 1}, {Ref: 2}, {Ref: 3}}}
	if !hook.Accept(way) {
		t.Error("expected accept() to see all 3 node refs")
	}

	rel := &filter.Object{Kind: filter.KindRelation, Members: []filter.Member{{Type: filter.MemberWay, Ref: 1, Role: "outer"}}}
	if !hook.Accept(rel) {
		t.Error("expected accept() to see the relation's first member role")
	}
}
