// Package markup holds the DOM plumbing shared by all block decorators:
// parsing the row/cell structure the content pipeline hands us, building
// replacement elements, and the small node-level helpers the stateful
// engines use for class and attribute toggles.
package markup

import (
	"errors"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/szymonsznajder/marquee/internal/system"
)

// ErrStructure reports block markup that violates the inbound row/cell
// contract (missing rows, missing cells).
var ErrStructure = errors.New("invalid block structure")

// ParseDocument parses a full HTML document for decoration.
func ParseDocument(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// Rows returns the direct child elements of a block root. The content
// pipeline guarantees children are rows and grandchildren are cells; the
// decorators never see raw authoring syntax.
func Rows(block *goquery.Selection) []*goquery.Selection {
	return childElems(block)
}

// Cells returns the direct child elements of a row.
func Cells(row *goquery.Selection) []*goquery.Selection {
	return childElems(row)
}

func childElems(s *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	s.Children().Each(func(_ int, c *goquery.Selection) {
		out = append(out, c)
	})
	return out
}

// FirstLink returns the href of the first anchor inside s, if any.
func FirstLink(s *goquery.Selection) (string, bool) {
	a := s.Find("a[href]").First()
	if a.Length() == 0 {
		return "", false
	}
	href := strings.TrimSpace(a.AttrOr("href", ""))
	if href == "" {
		// Authors sometimes paste the URL as the link text only.
		href = strings.TrimSpace(a.Text())
	}
	return href, href != ""
}

// FirstImage returns src and alt of the first img inside s, if any.
func FirstImage(s *goquery.Selection) (src, alt string, ok bool) {
	img := s.Find("img").First()
	if img.Length() == 0 {
		return "", "", false
	}
	return img.AttrOr("src", ""), img.AttrOr("alt", ""), true
}

// Element builds a detached element node. Attributes are given as ordered
// key/value pairs so rendered output stays deterministic.
func Element(tag string, kv ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

// Text builds a text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Append attaches children to parent in order.
func Append(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// ChildElements returns the element children of n.
func ChildElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns a detached deep copy of n.
func Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:     n.Type,
		DataAtom: n.DataAtom,
		Data:     n.Data,
		Attr:     append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(Clone(child))
	}
	return c
}

// Render serializes a node using a pooled buffer.
func Render(n *html.Node) (string, error) {
	buf := system.GetBuffer()
	defer system.PutBuffer(buf)
	if err := html.Render(buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
