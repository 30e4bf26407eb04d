package osmio

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/wegman-software/osmfilter-go/internal/filter"
)

func TestJSONWriterWritesOneLinePerObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("NewJSONWriter: %v", err)
	}
	objs := []*filter.Object{
		{Kind: filter.KindNode, ID: 1, Tags: []filter.Tag{{Key: "amenity", Value: "cafe"}}},
		{Kind: filter.KindWay, ID: 10, Nodes: []filter.NodeRef{{Ref: 1}, {Ref: 2}}},
	}
	for _, obj := range objs {
		if err := w.Write(obj); err != nil {
			t.Fatalf("Write(%d): %v", obj.ID, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	var lines []jsonObject
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var jo jsonObject
		if err := json.Unmarshal(sc.Bytes(), &jo); err != nil {
			t.Fatalf("unmarshal line %q: %v", sc.Text(), err)
		}
		lines = append(lines, jo)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Kind != "node" || lines[0].ID != 1 || lines[0].Tags["amenity"] != "cafe" {
		t.Errorf("line 0 = %+v", lines[0])
	}
	if lines[1].Kind != "way" || lines[1].ID != 10 || len(lines[1].Nodes) != 2 {
		t.Errorf("line 1 = %+v", lines[1])
	}
}
