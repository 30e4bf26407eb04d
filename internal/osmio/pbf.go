// Package osmio implements the concrete ObjectReader/ObjectWriter pairs
// internal/driver consumes through its narrow interfaces: PBF/XML/OSC
// input, and XML/JSON/PostgreSQL-COPY/Parquet output (the --output-format
// values of SPEC_FULL.md §4, plus an .osc change-file input adapter).
package osmio

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/wegman-software/osmfilter-go/internal/filter"
)

// PBFReader adapts an osmpbf.Scanner to driver.ObjectReader, converting
// each paulmach/osm object into a filter.Object. Grounded on the
// teacher's internal/pbf/extractor.go scan loop, trimmed from its
// two-pass geometry build down to a single straight-through scan since
// this module never reconstructs geometry.
type PBFReader struct {
	rc      io.ReadCloser
	scanner *osmpbf.Scanner
	cancel  context.CancelFunc
}

// OpenPBF opens path and returns a reader positioned at its first
// object. The returned closer must be called once reading completes.
// When verbose is set, reads drive a stderr progress bar keyed off the
// file's size (SPEC_FULL.md §3, grounded on the pack's
// cmd/pbf/cli.progressBar helper).
func OpenPBF(path string, verbose bool) (*PBFReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("osmio: open %s: %w", path, err)
	}
	rc := wrapProgress(f, verbose)
	ctx, cancel := context.WithCancel(context.Background())
	scanner := osmpbf.New(ctx, rc, runtime.NumCPU())
	return &PBFReader{rc: rc, scanner: scanner, cancel: cancel}, nil
}

// Next returns the next object, converted from the underlying PBF
// record, or io.EOF once the file is exhausted.
func (r *PBFReader) Next() (*filter.Object, error) {
	for r.scanner.Scan() {
		switch o := r.scanner.Object().(type) {
		case *osm.Node:
			return nodeToObject(o), nil
		case *osm.Way:
			return wayToObject(o), nil
		case *osm.Relation:
			return relationToObject(o), nil
		}
	}
	if err := r.scanner.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("osmio: scan pbf: %w", err)
	}
	return nil, io.EOF
}

// Close releases the scanner and underlying file.
func (r *PBFReader) Close() error {
	r.cancel()
	r.scanner.Close()
	return r.rc.Close()
}

func tagsOf(t osm.Tags) []filter.Tag {
	if len(t) == 0 {
		return nil
	}
	out := make([]filter.Tag, len(t))
	for i, tag := range t {
		out[i] = filter.Tag{Key: tag.Key, Value: tag.Value}
	}
	return out
}

func nodeToObject(n *osm.Node) *filter.Object {
	return &filter.Object{
		Kind:      filter.KindNode,
		ID:        int64(n.ID),
		Version:   int64(n.Version),
		Changeset: int64(n.ChangesetID),
		UID:       int64(n.UserID),
		Visible:   n.Visible,
		User:      n.User,
		Tags:      tagsOf(n.Tags),
	}
}

func wayToObject(w *osm.Way) *filter.Object {
	nodes := make([]filter.NodeRef, len(w.Nodes))
	for i, nd := range w.Nodes {
		nodes[i] = filter.NodeRef{Ref: int64(nd.ID)}
	}
	return &filter.Object{
		Kind:      filter.KindWay,
		ID:        int64(w.ID),
		Version:   int64(w.Version),
		Changeset: int64(w.ChangesetID),
		UID:       int64(w.UserID),
		Visible:   w.Visible,
		User:      w.User,
		Tags:      tagsOf(w.Tags),
		Nodes:     nodes,
	}
}

func relationToObject(rel *osm.Relation) *filter.Object {
	members := make([]filter.Member, len(rel.Members))
	for i, m := range rel.Members {
		members[i] = filter.Member{
			Type: memberKindOf(m.Type),
			Ref:  m.Ref,
			Role: m.Role,
		}
	}
	return &filter.Object{
		Kind:      filter.KindRelation,
		ID:        int64(rel.ID),
		Version:   int64(rel.Version),
		Changeset: int64(rel.ChangesetID),
		UID:       int64(rel.UserID),
		Visible:   rel.Visible,
		User:      rel.User,
		Tags:      tagsOf(rel.Tags),
		Members:   members,
	}
}

func memberKindOf(t osm.Type) filter.MemberKind {
	switch t {
	case osm.TypeNode:
		return filter.MemberNode
	case osm.TypeWay:
		return filter.MemberWay
	default:
		return filter.MemberRelation
	}
}
