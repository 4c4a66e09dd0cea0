package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsAndCells(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`
<div class="block">
  <div><div>a1</div><div>a2</div></div>
  <div><div>b1</div></div>
</div>`))
	require.NoError(t, err)

	rows := Rows(doc.Find("div.block"))
	require.Len(t, rows, 2)
	assert.Len(t, Cells(rows[0]), 2)
	assert.Len(t, Cells(rows[1]), 1)
}

func TestFirstLinkFallsBackToText(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(
		`<div id="a"><a href="https://example.com/v.mp4">label</a></div>` +
			`<div id="b"><a href="  ">https://example.com/from-text.mp4</a></div>` +
			`<div id="c"><p>nothing</p></div>`))
	require.NoError(t, err)

	href, ok := FirstLink(doc.Find("#a"))
	require.True(t, ok)
	assert.Equal(t, "https://example.com/v.mp4", href)

	href, ok = FirstLink(doc.Find("#b"))
	require.True(t, ok)
	assert.Equal(t, "https://example.com/from-text.mp4", href)

	_, ok = FirstLink(doc.Find("#c"))
	assert.False(t, ok)
}

func TestElementRendersDeterministically(t *testing.T) {
	n := Element("img", "src", "/a.jpg", "alt", "A", "loading", "lazy")
	out, err := Render(n)
	require.NoError(t, err)
	assert.Equal(t, `<img src="/a.jpg" alt="A" loading="lazy"/>`, out)
}

func TestClassToggles(t *testing.T) {
	n := Element("div", "class", "slide")

	AddClass(n, "active")
	assert.True(t, HasClass(n, "active"))
	AddClass(n, "active") // no duplicate
	assert.Equal(t, "slide active", Attr(n, "class"))

	RemoveClass(n, "active")
	assert.False(t, HasClass(n, "active"))
	RemoveClass(n, "active") // absent is a no-op
	assert.Equal(t, "slide", Attr(n, "class"))
}

func TestCloneIsDeepAndDetached(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`<div id="x"><p>hi <b>there</b></p></div>`))
	require.NoError(t, err)
	orig := doc.Find("#x").Nodes[0]

	c := Clone(orig)
	assert.Nil(t, c.Parent)

	SetAttr(c, "id", "y")
	assert.Equal(t, "x", Attr(orig, "id"))

	out, err := Render(c)
	require.NoError(t, err)
	assert.Contains(t, out, "<b>there</b>")
}

func TestRemoveChildren(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`<div id="x"><p>a</p><p>b</p></div>`))
	require.NoError(t, err)
	n := doc.Find("#x").Nodes[0]

	RemoveChildren(n)
	assert.Nil(t, n.FirstChild)
}
