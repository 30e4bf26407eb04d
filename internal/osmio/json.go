package osmio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wegman-software/osmfilter-go/internal/filter"
)

// JSONWriter writes one JSON object per matched object, newline
// delimited, in the style of the teacher's tagsToJSON helpers
// (internal/pbf/extractor.go, internal/parquet/writer.go) generalized
// from a tags-only payload to the full object shape.
type JSONWriter struct {
	w   io.WriteCloser
	enc *json.Encoder
}

// NewJSONWriter opens (or creates) path for newline-delimited JSON
// output.
func NewJSONWriter(path string) (*JSONWriter, error) {
	w, err := openOutput(path)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{w: w, enc: json.NewEncoder(w)}, nil
}

type jsonObject struct {
	Kind      string            `json:"kind"`
	ID        int64             `json:"id"`
	Version   int64             `json:"version"`
	Changeset int64             `json:"changeset"`
	UID       int64             `json:"uid"`
	User      string            `json:"user"`
	Visible   bool              `json:"visible"`
	Tags      map[string]string `json:"tags,omitempty"`
	Nodes     []int64           `json:"nodes,omitempty"`
	Members   []jsonMember      `json:"members,omitempty"`
}

type jsonMember struct {
	Type string `json:"type"`
	Ref  int64  `json:"ref"`
	Role string `json:"role"`
}

// Write appends one JSON-encoded object followed by a newline.
func (w *JSONWriter) Write(obj *filter.Object) error {
	jo := jsonObject{
		Kind: obj.Kind.String(), ID: obj.ID, Version: obj.Version,
		Changeset: obj.Changeset, UID: obj.UID, User: obj.User, Visible: obj.Visible,
	}
	if len(obj.Tags) > 0 {
		jo.Tags = make(map[string]string, len(obj.Tags))
		for _, t := range obj.Tags {
			jo.Tags[t.Key] = t.Value
		}
	}
	if len(obj.Nodes) > 0 {
		jo.Nodes = make([]int64, len(obj.Nodes))
		for i, n := range obj.Nodes {
			jo.Nodes[i] = n.Ref
		}
	}
	if len(obj.Members) > 0 {
		jo.Members = make([]jsonMember, len(obj.Members))
		for i, m := range obj.Members {
			jo.Members[i] = jsonMember{Type: m.Type.String(), Ref: m.Ref, Role: m.Role}
		}
	}
	if err := w.enc.Encode(jo); err != nil {
		return fmt.Errorf("osmio: encode json object: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (w *JSONWriter) Close() error { return w.w.Close() }
