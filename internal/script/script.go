// Package script implements the optional Lua predicate hook
// (SPEC_FULL.md §4's "script hook"): a generalization of the teacher's
// flex Lua runtime (internal/flex/runtime.go) from table-definition
// scripting to a single boolean predicate over a filter.Object, ANDed
// with the compiled expression tree's result at the driver level.
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/wegman-software/osmfilter-go/internal/filter"
)

// Hook wraps a Lua state holding a user-defined accept(object) function.
type Hook struct {
	L      *lua.LState
	accept lua.LValue
}

// Load reads and executes a Lua file, expecting it to define a global
// function named "accept" taking one table argument and returning a
// boolean.
func Load(path string) (*Hook, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	fn := L.GetGlobal("accept")
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("script: %s does not define function 'accept'", path)
	}
	return &Hook{L: L, accept: fn}, nil
}

// Close releases the Lua state.
func (h *Hook) Close() {
	h.L.Close()
}

// Accept calls the user's accept(object) function against obj, marshaled
// to a Lua table. A Lua-side error or a non-boolean return is treated as
// false — the predicate is a filter, not a recoverable-error surface
// (mirrors spec.md §7's "no per-object recoverable errors").
func (h *Hook) Accept(obj *filter.Object) bool {
	h.L.Push(h.accept)
	h.L.Push(objectToLua(h.L, obj))
	if err := h.L.PCall(1, 1, nil); err != nil {
		return false
	}
	ret := h.L.Get(-1)
	h.L.Pop(1)
	b, ok := ret.(lua.LBool)
	return ok && bool(b)
}

// objectToLua marshals a filter.Object into the Lua table shape a script
// author sees: numeric/string fields plus tags/nodes/members sub-tables.
func objectToLua(L *lua.LState, obj *filter.Object) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "kind", lua.LString(obj.Kind.String()))
	L.SetField(t, "id", lua.LNumber(obj.ID))
	L.SetField(t, "version", lua.LNumber(obj.Version))
	L.SetField(t, "changeset", lua.LNumber(obj.Changeset))
	L.SetField(t, "uid", lua.LNumber(obj.UID))
	L.SetField(t, "visible", lua.LBool(obj.Visible))
	L.SetField(t, "user", lua.LString(obj.User))

	tags := L.NewTable()
	for _, tag := range obj.Tags {
		L.SetField(tags, tag.Key, lua.LString(tag.Value))
	}
	L.SetField(t, "tags", tags)

	if obj.Kind == filter.KindWay {
		nodes := L.NewTable()
		for _, nr := range obj.Nodes {
			nodes.Append(lua.LNumber(nr.Ref))
		}
		L.SetField(t, "nodes", nodes)
	}

	if obj.Kind == filter.KindRelation {
		members := L.NewTable()
		for _, m := range obj.Members {
			mt := L.NewTable()
			L.SetField(mt, "type", lua.LString(m.Type.String()))
			L.SetField(mt, "ref", lua.LNumber(m.Ref))
			L.SetField(mt, "role", lua.LString(m.Role))
			members.Append(mt)
		}
		L.SetField(t, "members", members)
	}

	return t
}
