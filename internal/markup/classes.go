package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Class helpers operate on raw nodes so the engines can toggle state markers
// without re-querying the document on every transition.

// HasClass reports whether n carries the class.
func HasClass(n *html.Node, class string) bool {
	for _, c := range classList(n) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds class to n unless already present.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	list := append(classList(n), class)
	SetAttr(n, "class", strings.Join(list, " "))
}

// RemoveClass removes class from n. Removing an absent class is a no-op.
func RemoveClass(n *html.Node, class string) {
	list := classList(n)
	out := list[:0]
	for _, c := range list {
		if c != class {
			out = append(out, c)
		}
	}
	SetAttr(n, "class", strings.Join(out, " "))
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// SetAttr sets or replaces the named attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func classList(n *html.Node) []string {
	return strings.Fields(Attr(n, "class"))
}
