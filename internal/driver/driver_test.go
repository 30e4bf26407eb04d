package driver

import (
	"context"
	"io"
	"testing"

	"github.com/wegman-software/osmfilter-go/internal/filter"
)

// fakeReader replays a fixed slice of objects, closeable exactly once.
type fakeReader struct {
	objs   []*filter.Object
	pos    int
	closed bool
}

func (r *fakeReader) Next() (*filter.Object, error) {
	if r.pos >= len(r.objs) {
		return nil, io.EOF
	}
	obj := r.objs[r.pos]
	r.pos++
	return obj, nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

// fakeWriter records every object it receives, in order.
type fakeWriter struct {
	written []*filter.Object
	closed  bool
}

func (w *fakeWriter) Write(obj *filter.Object) error {
	w.written = append(w.written, obj)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func fixtureObjects() []*filter.Object {
	return []*filter.Object{
		{Kind: filter.KindNode, ID: 1},
		{Kind: filter.KindWay, ID: 10, Nodes: []filter.NodeRef{{Ref: 1}, {Ref: 2}}},
		{Kind: filter.KindWay, ID: 11, Nodes: []filter.NodeRef{{Ref: 3}, {Ref: 4}}},
		{Kind: filter.KindRelation, ID: 100},
	}
}

func TestRunFiltersByTreeAndMask(t *testing.T) {
	tree := &filter.CheckObjectType{Kind: filter.KindWay}
	mask := filter.Analyze(tree)

	reader := &fakeReader{objs: fixtureObjects()}
	writer := &fakeWriter{}

	stats, err := Run(context.Background(), func() (ObjectReader, error) { return reader, nil }, writer, Options{
		Tree: tree,
		Mask: mask,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Scanned != 4 {
		t.Errorf("Scanned = %d, want 4", stats.Scanned)
	}
	if stats.Matched != 2 {
		t.Errorf("Matched = %d, want 2", stats.Matched)
	}
	if len(writer.written) != 2 || writer.written[0].ID != 10 || writer.written[1].ID != 11 {
		t.Errorf("unexpected written objects: %+v", writer.written)
	}
	if !reader.closed {
		t.Error("expected the reader to be closed after Run")
	}
	if !writer.closed {
		t.Error("expected the writer to be closed after Run")
	}
}

func TestRunReturnsErrEmptyMask(t *testing.T) {
	_, err := Run(context.Background(), nil, &fakeWriter{}, Options{
		Tree: &filter.BoolValue{Value: true},
		Mask: filter.MaskNone,
	})
	if err != ErrEmptyMask {
		t.Errorf("Run() error = %v, want ErrEmptyMask", err)
	}
}

func TestRunCompleteWaysIncludesReferencedNodes(t *testing.T) {
	// Matching way 10 references nodes 1 and 2; complete-ways must emit
	// node 1, the one of them present in the stream, even though it does
	// not satisfy the predicate itself.
	tree := &filter.CheckObjectType{Kind: filter.KindWay}
	mask := filter.Analyze(tree)

	objs := fixtureObjects()
	writer := &fakeWriter{}

	opens := 0
	open := func() (ObjectReader, error) {
		opens++
		return &fakeReader{objs: objs}, nil
	}

	stats, err := Run(context.Background(), open, writer, Options{
		Tree:         tree,
		Mask:         mask,
		CompleteWays: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if opens != 2 {
		t.Errorf("expected the input to be opened twice for complete-ways, got %d", opens)
	}
	if stats.Matched != 2 {
		t.Errorf("pass-1 Matched = %d, want 2", stats.Matched)
	}

	// Nodes 2, 3 and 4 (referenced by ways 10 and 11) never appear in the
	// object stream as standalone node objects in this fixture, so complete-ways
	// cannot emit them; only objects that are both in-stream and in a
	// matched id set are written.
	var gotIDs []int64
	for _, obj := range writer.written {
		gotIDs = append(gotIDs, obj.ID)
	}
	want := map[int64]bool{1: true, 10: true, 11: true}
	for _, id := range gotIDs {
		if !want[id] {
			t.Errorf("unexpected object %d written by complete-ways pass", id)
		}
	}
	if len(gotIDs) != len(want) {
		t.Errorf("wrote %d objects, want %d: got %v", len(gotIDs), len(want), gotIDs)
	}
}
