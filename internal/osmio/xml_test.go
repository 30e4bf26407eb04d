package osmio

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/wegman-software/osmfilter-go/internal/filter"
)

func TestXMLWriterThenReaderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.osm")

	w, err := NewXMLWriter(path)
	if err != nil {
		t.Fatalf("NewXMLWriter: %v", err)
	}
	want := []*filter.Object{
		{Kind: filter.KindNode, ID: 1, Version: 2, Changeset: 3, UID: 4, User: "alice", Visible: true,
			Tags: []filter.Tag{{Key: "amenity", Value: "cafe"}}},
		{Kind: filter.KindWay, ID: 10, Version: 1, Visible: true,
			Nodes: []filter.NodeRef{{Ref: 1}, {Ref: 2}},
			Tags:  []filter.Tag{{Key: "highway", Value: "primary"}}},
		{Kind: filter.KindRelation, ID: 100, Visible: true,
			Members: []filter.Member{{Type: filter.MemberWay, Ref: 10, Role: "outer"}}},
	}
	for _, obj := range want {
		if err := w.Write(obj); err != nil {
			t.Fatalf("Write(%d): %v", obj.ID, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := OpenXML(path, false)
	if err != nil {
		t.Fatalf("OpenXML: %v", err)
	}
	defer r.Close()

	var got []*filter.Object
	for {
		obj, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, obj)
	}

	if len(got) != len(want) {
		t.Fatalf("read %d objects, want %d", len(got), len(want))
	}
	for i, obj := range got {
		w := want[i]
		if obj.Kind != w.Kind || obj.ID != w.ID || obj.Visible != w.Visible {
			t.Errorf("object %d: got %+v, want %+v", i, obj, w)
		}
		if len(obj.Tags) != len(w.Tags) {
			t.Errorf("object %d: got %d tags, want %d", i, len(obj.Tags), len(w.Tags))
		}
		if len(obj.Nodes) != len(w.Nodes) {
			t.Errorf("object %d: got %d node refs, want %d", i, len(obj.Nodes), len(w.Nodes))
		}
		if len(obj.Members) != len(w.Members) {
			t.Errorf("object %d: got %d members, want %d", i, len(obj.Members), len(w.Members))
		}
	}
}

func TestXMLReaderSkipsUnknownTopLevelElements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.osm")
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <bounds minlat="1" minlon="2" maxlat="3" maxlon="4"/>
  <node id="5" version="1" visible="true"/>
</osm>
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	r, err := OpenXML(path, false)
	if err != nil {
		t.Fatalf("OpenXML: %v", err)
	}
	defer r.Close()

	obj, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if obj.Kind != filter.KindNode || obj.ID != 5 {
		t.Errorf("expected the bounds element to be skipped and node 5 returned, got %+v", obj)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after the only node, got %v", err)
	}
}
