package osmio

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/wegman-software/osmfilter-go/internal/filter"
)

// XMLReader streams a .osm XML document one top-level element at a
// time, in the manual xml.Decoder.Token style of the teacher's
// internal/osc/parser.go rather than a full Unmarshal, since the input
// can be arbitrarily large.
type XMLReader struct {
	rc      io.ReadCloser
	decoder *xml.Decoder
}

// OpenXML opens an .osm XML file for streaming reads, optionally driving
// a progress bar on stderr (see osmio.OpenPBF).
func OpenXML(path string, verbose bool) (*XMLReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("osmio: open %s: %w", path, err)
	}
	rc := wrapProgress(f, verbose)
	return &XMLReader{rc: rc, decoder: xml.NewDecoder(rc)}, nil
}

// Next returns the next node/way/relation element, or io.EOF.
func (r *XMLReader) Next() (*filter.Object, error) {
	for {
		tok, err := r.decoder.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("osmio: xml token: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "node":
			return r.readNode(se)
		case "way":
			return r.readWay(se)
		case "relation":
			return r.readRelation(se)
		}
	}
}

// Close releases the underlying file.
func (r *XMLReader) Close() error { return r.rc.Close() }

func attrInt64(attrs []xml.Attr, name string) int64 {
	for _, a := range attrs {
		if a.Name.Local == name {
			v, _ := strconv.ParseInt(a.Value, 10, 64)
			return v
		}
	}
	return 0
}

func attrStr(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func attrBool(attrs []xml.Attr, name string, def bool) bool {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value == "true"
		}
	}
	return def
}

func (r *XMLReader) readNode(start xml.StartElement) (*filter.Object, error) {
	obj := &filter.Object{
		Kind:      filter.KindNode,
		ID:        attrInt64(start.Attr, "id"),
		Version:   attrInt64(start.Attr, "version"),
		Changeset: attrInt64(start.Attr, "changeset"),
		UID:       attrInt64(start.Attr, "uid"),
		Visible:   attrBool(start.Attr, "visible", true),
		User:      attrStr(start.Attr, "user"),
	}
	for {
		tok, err := r.decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("osmio: xml token: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tag" {
				obj.Tags = append(obj.Tags, filter.Tag{Key: attrStr(t.Attr, "k"), Value: attrStr(t.Attr, "v")})
			}
		case xml.EndElement:
			if t.Name.Local == "node" {
				return obj, nil
			}
		}
	}
}

func (r *XMLReader) readWay(start xml.StartElement) (*filter.Object, error) {
	obj := &filter.Object{
		Kind:      filter.KindWay,
		ID:        attrInt64(start.Attr, "id"),
		Version:   attrInt64(start.Attr, "version"),
		Changeset: attrInt64(start.Attr, "changeset"),
		UID:       attrInt64(start.Attr, "uid"),
		Visible:   attrBool(start.Attr, "visible", true),
		User:      attrStr(start.Attr, "user"),
	}
	for {
		tok, err := r.decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("osmio: xml token: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "nd":
				obj.Nodes = append(obj.Nodes, filter.NodeRef{Ref: attrInt64(t.Attr, "ref")})
			case "tag":
				obj.Tags = append(obj.Tags, filter.Tag{Key: attrStr(t.Attr, "k"), Value: attrStr(t.Attr, "v")})
			}
		case xml.EndElement:
			if t.Name.Local == "way" {
				return obj, nil
			}
		}
	}
}

func (r *XMLReader) readRelation(start xml.StartElement) (*filter.Object, error) {
	obj := &filter.Object{
		Kind:      filter.KindRelation,
		ID:        attrInt64(start.Attr, "id"),
		Version:   attrInt64(start.Attr, "version"),
		Changeset: attrInt64(start.Attr, "changeset"),
		UID:       attrInt64(start.Attr, "uid"),
		Visible:   attrBool(start.Attr, "visible", true),
		User:      attrStr(start.Attr, "user"),
	}
	for {
		tok, err := r.decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("osmio: xml token: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "member":
				obj.Members = append(obj.Members, filter.Member{
					Type: memberKindFromXML(attrStr(t.Attr, "type")),
					Ref:  attrInt64(t.Attr, "ref"),
					Role: attrStr(t.Attr, "role"),
				})
			case "tag":
				obj.Tags = append(obj.Tags, filter.Tag{Key: attrStr(t.Attr, "k"), Value: attrStr(t.Attr, "v")})
			}
		case xml.EndElement:
			if t.Name.Local == "relation" {
				return obj, nil
			}
		}
	}
}

func memberKindFromXML(s string) filter.MemberKind {
	switch s {
	case "way":
		return filter.MemberWay
	case "relation":
		return filter.MemberRelation
	default:
		return filter.MemberNode
	}
}

// XMLWriter writes matched objects as a well-formed .osm XML document.
type XMLWriter struct {
	w       io.WriteCloser
	encoder *xml.Encoder
	opened  bool
}

// NewXMLWriter opens (or creates) path and writes the document's opening
// <osm> tag.
func NewXMLWriter(path string) (*XMLWriter, error) {
	w, err := openOutput(path)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		w.Close()
		return nil, fmt.Errorf("osmio: write xml header: %w", err)
	}
	if _, err := io.WriteString(w, "<osm version=\"0.6\" generator=\"osmfilter\">\n"); err != nil {
		w.Close()
		return nil, fmt.Errorf("osmio: write osm element: %w", err)
	}
	return &XMLWriter{w: w, encoder: xml.NewEncoder(w), opened: true}, nil
}

// Write appends a single node/way/relation element.
func (w *XMLWriter) Write(obj *filter.Object) error {
	el := toXMLElement(obj)
	if err := w.encoder.Encode(el); err != nil {
		return fmt.Errorf("osmio: encode xml element: %w", err)
	}
	return nil
}

// Close writes the closing </osm> tag and closes the underlying writer.
func (w *XMLWriter) Close() error {
	if w.opened {
		if _, err := io.WriteString(w.w, "</osm>\n"); err != nil {
			w.w.Close()
			return fmt.Errorf("osmio: write closing osm element: %w", err)
		}
	}
	return w.w.Close()
}

type xmlTag struct {
	K string `xml:"k,attr"`
	V string `xml:"v,attr"`
}

type xmlNd struct {
	Ref int64 `xml:"ref,attr"`
}

type xmlMember struct {
	Type string `xml:"type,attr"`
	Ref  int64  `xml:"ref,attr"`
	Role string `xml:"role,attr"`
}

type xmlNode struct {
	XMLName   xml.Name `xml:"node"`
	ID        int64    `xml:"id,attr"`
	Version   int64    `xml:"version,attr"`
	Changeset int64    `xml:"changeset,attr"`
	UID       int64    `xml:"uid,attr"`
	User      string   `xml:"user,attr"`
	Visible   bool     `xml:"visible,attr"`
	Tags      []xmlTag `xml:"tag"`
}

type xmlWay struct {
	XMLName   xml.Name `xml:"way"`
	ID        int64    `xml:"id,attr"`
	Version   int64    `xml:"version,attr"`
	Changeset int64    `xml:"changeset,attr"`
	UID       int64    `xml:"uid,attr"`
	User      string   `xml:"user,attr"`
	Visible   bool     `xml:"visible,attr"`
	Nodes     []xmlNd  `xml:"nd"`
	Tags      []xmlTag `xml:"tag"`
}

type xmlRelation struct {
	XMLName   xml.Name    `xml:"relation"`
	ID        int64       `xml:"id,attr"`
	Version   int64       `xml:"version,attr"`
	Changeset int64       `xml:"changeset,attr"`
	UID       int64       `xml:"uid,attr"`
	User      string      `xml:"user,attr"`
	Visible   bool        `xml:"visible,attr"`
	Members   []xmlMember `xml:"member"`
	Tags      []xmlTag    `xml:"tag"`
}

func tagsToXML(tags []filter.Tag) []xmlTag {
	if len(tags) == 0 {
		return nil
	}
	out := make([]xmlTag, len(tags))
	for i, t := range tags {
		out[i] = xmlTag{K: t.Key, V: t.Value}
	}
	return out
}

func toXMLElement(obj *filter.Object) any {
	switch obj.Kind {
	case filter.KindNode:
		return xmlNode{
			ID: obj.ID, Version: obj.Version, Changeset: obj.Changeset,
			UID: obj.UID, User: obj.User, Visible: obj.Visible,
			Tags: tagsToXML(obj.Tags),
		}
	case filter.KindWay:
		nodes := make([]xmlNd, len(obj.Nodes))
		for i, n := range obj.Nodes {
			nodes[i] = xmlNd{Ref: n.Ref}
		}
		return xmlWay{
			ID: obj.ID, Version: obj.Version, Changeset: obj.Changeset,
			UID: obj.UID, User: obj.User, Visible: obj.Visible,
			Nodes: nodes, Tags: tagsToXML(obj.Tags),
		}
	default:
		members := make([]xmlMember, len(obj.Members))
		for i, m := range obj.Members {
			members[i] = xmlMember{Type: m.Type.String(), Ref: m.Ref, Role: m.Role}
		}
		return xmlRelation{
			ID: obj.ID, Version: obj.Version, Changeset: obj.Changeset,
			UID: obj.UID, User: obj.User, Visible: obj.Visible,
			Members: members, Tags: tagsToXML(obj.Tags),
		}
	}
}
