package teaser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szymonsznajder/marquee/internal/config"
	"github.com/szymonsznajder/marquee/internal/markup"
	"github.com/szymonsznajder/marquee/internal/observe"
)

func TestDecorate(t *testing.T) {
	blockHTML := `
<div class="teaser">
  <div>
    <div><img src="/media/card.jpg" alt="Card"></div>
    <div><h3>Title</h3><p>Copy with a <a href="/more">link</a>.</p></div>
  </div>
</div>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(blockHTML))
	require.NoError(t, err)
	block := doc.Find("div.teaser")

	require.NoError(t, Decorate(block, observe.NewSim().Env(), config.Default()))

	out, err := markup.Render(block.Nodes[0])
	require.NoError(t, err)
	assert.Contains(t, out, `<article class="teaser-card">`)
	assert.Contains(t, out, `class="teaser-image"`)
	assert.Contains(t, out, "<picture>")
	assert.Contains(t, out, "<h3>Title</h3>")
	assert.Contains(t, out, `href="/more"`)
}

func TestDecorateRequiresTwoCells(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div class="teaser"><div><div><img src="/a.jpg" alt=""></div></div></div>`))
	require.NoError(t, err)

	err = Decorate(doc.Find("div.teaser"), observe.NewSim().Env(), config.Default())
	assert.ErrorIs(t, err, markup.ErrStructure)
}
