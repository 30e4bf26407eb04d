package osmio

import (
	"context"
	"fmt"
	"io"

	"github.com/wegman-software/osmfilter-go/internal/filter"
	"github.com/wegman-software/osmfilter-go/internal/osc"
)

// OSCReader adapts the teacher's internal/osc change parser into a
// driver.ObjectReader: each create/modify/delete entry becomes a single
// filter.Object, with Visible set to false for deletions so a filter's
// `not @visible` clause can select them (spec.md §3's visible flag).
type OSCReader struct {
	changes <-chan osc.Change
	errs    <-chan error
	cancel  context.CancelFunc
}

// OpenOSC starts streaming path (plain or .gz) through the osc parser.
func OpenOSC(path string) (*OSCReader, error) {
	ctx, cancel := context.WithCancel(context.Background())
	p := osc.NewParser()
	changes, errs := p.ParseFile(ctx, path)
	return &OSCReader{changes: changes, errs: errs, cancel: cancel}, nil
}

// Next returns the next change converted to a filter.Object, or io.EOF
// once the channel is drained.
func (r *OSCReader) Next() (*filter.Object, error) {
	change, ok := <-r.changes
	if !ok {
		if err := <-r.errs; err != nil {
			return nil, fmt.Errorf("osmio: osc parse: %w", err)
		}
		return nil, io.EOF
	}
	return changeToObject(change), nil
}

// Close cancels the background parse goroutine.
func (r *OSCReader) Close() error {
	r.cancel()
	return nil
}

func changeToObject(c osc.Change) *filter.Object {
	visible := c.Action != osc.ActionDelete
	switch c.Type {
	case "node":
		n := c.Node
		return &filter.Object{
			Kind: filter.KindNode, ID: n.ID, Version: int64(n.Version),
			Changeset: n.Changeset, UID: int64(n.UID), User: n.User,
			Visible: visible, Tags: tagsFromMap(n.Tags),
		}
	case "way":
		w := c.Way
		nodes := make([]filter.NodeRef, len(w.Nodes))
		for i, ref := range w.Nodes {
			nodes[i] = filter.NodeRef{Ref: ref}
		}
		return &filter.Object{
			Kind: filter.KindWay, ID: w.ID, Version: int64(w.Version),
			Changeset: w.Changeset, UID: int64(w.UID), User: w.User,
			Visible: visible, Tags: tagsFromMap(w.Tags), Nodes: nodes,
		}
	default:
		rel := c.Relation
		members := make([]filter.Member, len(rel.Members))
		for i, m := range rel.Members {
			members[i] = filter.Member{Type: memberKindFromOSC(m.Type), Ref: m.Ref, Role: m.Role}
		}
		return &filter.Object{
			Kind: filter.KindRelation, ID: rel.ID, Version: int64(rel.Version),
			Changeset: rel.Changeset, UID: int64(rel.UID), User: rel.User,
			Visible: visible, Tags: tagsFromMap(rel.Tags), Members: members,
		}
	}
}

func tagsFromMap(m map[string]string) []filter.Tag {
	if len(m) == 0 {
		return nil
	}
	out := make([]filter.Tag, 0, len(m))
	for k, v := range m {
		out = append(out, filter.Tag{Key: k, Value: v})
	}
	return out
}

func memberKindFromOSC(t string) filter.MemberKind {
	switch t {
	case "w":
		return filter.MemberWay
	case "r":
		return filter.MemberRelation
	default:
		return filter.MemberNode
	}
}
