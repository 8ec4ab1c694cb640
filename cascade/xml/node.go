// Package xml concretizes the "decoded node tree" oracle from the
// detector spec as an OpenCV-style cascade XML file, parsed with the
// standard library encoding/xml decoder, then walked field by field into
// a *cascade.Cascade.
package xml

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// node is a generic XML element: its own text content plus any child
// elements, keyed by tag name. OpenCV cascade files repeat the tag "_"
// for every sequence entry, so children are looked up as an ordered list
// rather than a map.
type node struct {
	Name     string
	Content  string
	Children []node
}

// parse decodes r into a tree of node values rooted at the first
// top-level element.
func parse(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	root, err := parseElement(dec, xml.StartElement{Name: xml.Name{Local: "root"}})
	if err != nil {
		return nil, errors.Wrap(err, "decoding cascade xml")
	}
	return root, nil
}

func parseElement(dec *xml.Decoder, start xml.StartElement) (*node, error) {
	n := &node{Name: start.Name.Local}
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, *child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			n.Content = text.String()
			return n, nil
		}
	}
	n.Content = text.String()
	return n, nil
}

// findNamed does a depth-first search for the first descendant (or n
// itself) named name. Cascade XML files wrap the <cascade> element in an
// <opencv_storage> root of unpredictable depth across exporters.
func (n *node) findNamed(name string) *node {
	if n.Name == name {
		return n
	}
	for i := range n.Children {
		if found := n.Children[i].findNamed(name); found != nil {
			return found
		}
	}
	return nil
}

// child returns the first child named name, or nil.
func (n *node) child(name string) *node {
	for i := range n.Children {
		if n.Children[i].Name == name {
			return &n.Children[i]
		}
	}
	return nil
}

// children returns every child named name, in document order.
func (n *node) children(name string) []node {
	var out []node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// text returns the trimmed text content of n.
func (n *node) text() string {
	return strings.TrimSpace(n.Content)
}

// int64 parses n's text as a base-10 integer.
func (n *node) int64() (int64, error) {
	return strconv.ParseInt(n.text(), 10, 64)
}

// float64 parses n's text as a float.
func (n *node) float64() (float64, error) {
	return strconv.ParseFloat(n.text(), 64)
}

// numbers splits whitespace-separated numeric content into float64
// values. OpenCV cascade XML stores internalNodes/leafValues/rects as
// one flat whitespace-separated sequence rather than nested elements.
func numbers(s string) ([]float64, error) {
	fields := strings.Fields(s)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing numeric field %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}
