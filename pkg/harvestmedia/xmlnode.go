package harvestmedia

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Attr is a single XML attribute. Name keeps its namespace prefix, e.g.
// "xsi:nil".
type Attr struct {
	Name  string
	Value string
}

// Node is a parsed XML element.
//
// Attributes and children keep document order. Namespace declarations are
// dropped and element names are matched case-insensitively, since the
// service mixes ResponseLibraries with responsetracks.
type Node struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// ParseXML parses data into a tree rooted at its single top-level element.
//
// Any decoder error, an empty document or trailing elements after the root
// yield a *ResponseError.
func ParseXML(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		root   *Node
		stack  []*Node
		text   []*strings.Builder
		scopes []map[string]string // namespace URL to prefix, per open element
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ResponseError{Reason: "malformed XML", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, &ResponseError{Reason: "multiple root elements"}
			}
			n := &Node{Name: t.Name.Local}
			var scope map[string]string
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					if scope == nil {
						scope = make(map[string]string)
					}
					scope[a.Value] = a.Name.Local
				}
			}
			scopes = append(scopes, scope)
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				n.Attrs = append(n.Attrs, Attr{Name: attrName(a.Name, scopes), Value: a.Value})
			}
			if len(stack) == 0 {
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
			text = append(text, &strings.Builder{})
		case xml.EndElement:
			n := stack[len(stack)-1]
			n.Text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
			scopes = scopes[:len(scopes)-1]
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}

	if root == nil {
		return nil, &ResponseError{Reason: "empty document"}
	}
	return root, nil
}

// attrName restores the prefix of a namespaced attribute. The decoder
// replaces declared prefixes with their namespace URL and leaves undeclared
// ones as written.
func attrName(name xml.Name, scopes []map[string]string) string {
	if name.Space == "" {
		return name.Local
	}
	prefix := name.Space
	if name.Space == xmlNamespaceURL {
		prefix = "xml"
	}
	for i := len(scopes) - 1; i >= 0; i-- {
		if p, ok := scopes[i][name.Space]; ok {
			prefix = p
			break
		}
	}
	return prefix + ":" + name.Local
}

const xmlNamespaceURL = "http://www.w3.org/XML/1998/namespace"

// parseDocument parses data and checks that the root element is one of roots.
func parseDocument(data []byte, roots ...string) (*Node, error) {
	root, err := ParseXML(data)
	if err != nil {
		if re, ok := err.(*ResponseError); ok && len(roots) > 0 {
			re.Document = roots[0]
		}
		return nil, err
	}
	if err := expectRoot(root, roots...); err != nil {
		return nil, err
	}
	return root, nil
}

// expectRoot fails with a *ResponseError unless root is named one of roots.
func expectRoot(root *Node, roots ...string) error {
	for _, name := range roots {
		if root.Is(name) {
			return nil
		}
	}
	return &ResponseError{
		Document: strings.Join(roots, "|"),
		Reason:   "unexpected root element <" + root.Name + ">",
	}
}

// Is reports whether the element is named name.
func (n *Node) Is(name string) bool {
	return n != nil && strings.EqualFold(n.Name, name)
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the named attribute or "" when absent.
func (n *Node) AttrValue(name string) string {
	v, _ := n.Attr(name)
	return v
}

// AttrMap returns the attributes as a map.
func (n *Node) AttrMap() map[string]string {
	m := make(map[string]string, len(n.Attrs))
	for _, a := range n.Attrs {
		m[a.Name] = a.Value
	}
	return m
}

// Child returns the first child element named name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Is(name) {
			return c
		}
	}
	return nil
}

// ChildText returns the text of the first child named name.
func (n *Node) ChildText(name string) string {
	if c := n.Child(name); c != nil {
		return c.Text
	}
	return ""
}

// All returns the children named name in document order.
func (n *Node) All(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Is(name) {
			out = append(out, c)
		}
	}
	return out
}

// Path follows container names and returns every element matching the
// last segment. Path("playlists", "playlist") collects all <playlist>
// elements of every <playlists> child.
func (n *Node) Path(names ...string) []*Node {
	nodes := []*Node{n}
	for _, name := range names {
		var next []*Node
		for _, node := range nodes {
			next = append(next, node.All(name)...)
		}
		nodes = next
	}
	return nodes
}
