package carousel

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/szymonsznajder/marquee/internal/config"
	"github.com/szymonsznajder/marquee/internal/markup"
	"github.com/szymonsznajder/marquee/internal/observe"
)

const threeSlideBlock = `
<div class="carousel">
  <div>
    <div><img src="/media/a.jpg" alt="Image A"></div>
    <div><p>First caption</p></div>
  </div>
  <div>
    <div><a href="https://www.youtube.com/watch?v=XYZ12345678">Watch</a></div>
  </div>
  <div>
    <div><img src="/media/b.jpg" alt="Image B"></div>
  </div>
</div>`

const singleSlideBlock = `
<div class="carousel">
  <div>
    <div><img src="/media/only.jpg" alt="Only"></div>
  </div>
</div>`

func decorate(t *testing.T, blockHTML string, sim *observe.Sim) *Carousel {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(blockHTML))
	require.NoError(t, err)
	block := doc.Find("div.carousel").First()
	require.Equal(t, 1, block.Length())

	c, err := Decorate(block, sim.Env(), config.Default())
	require.NoError(t, err)
	return c
}

// activeChildIndex returns the index of the single active element child, or
// -1 when none is marked.
func activeChildIndex(t *testing.T, container *html.Node) int {
	t.Helper()
	idx, found := -1, 0
	i := 0
	for child := container.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		if markup.HasClass(child, "active") {
			idx = i
			found++
		}
		i++
	}
	require.LessOrEqual(t, found, 1, "more than one active marker")
	return idx
}

func TestGoToSlideNormalization(t *testing.T) {
	cases := []struct {
		target int
		want   int
	}{
		{0, 0}, {1, 1}, {2, 2},
		{3, 0}, {4, 1}, {-1, 2}, {-3, 0}, {-5, 1}, {7, 1},
	}
	for _, tc := range cases {
		c := decorate(t, threeSlideBlock, observe.NewSim())
		c.GoToSlide(tc.target)
		assert.Equal(t, tc.want, c.Current(), "GoToSlide(%d)", tc.target)
		assert.Equal(t, tc.want, activeChildIndex(t, c.track), "active marker for GoToSlide(%d)", tc.target)
	}
}

func TestIndicatorAndThumbnailStayInSync(t *testing.T) {
	c := decorate(t, threeSlideBlock, observe.NewSim())

	for _, target := range []int{2, 0, -1, 5, 1, 1, -4} {
		c.GoToSlide(target)
		want := activeChildIndex(t, c.track)
		assert.Equal(t, want, activeChildIndex(t, c.indicators))
		assert.Equal(t, want, activeChildIndex(t, c.thumbnails))
	}
}

func TestGoToSlideIdempotent(t *testing.T) {
	c := decorate(t, threeSlideBlock, observe.NewSim())

	c.GoToSlide(1)
	first, err := markup.Render(c.root)
	require.NoError(t, err)

	c.GoToSlide(1)
	second, err := markup.Render(c.root)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Current())
}

func TestSingleSlideBuildsNoControls(t *testing.T) {
	sim := observe.NewSim()
	c := decorate(t, singleSlideBlock, sim)

	out, err := markup.Render(c.root)
	require.NoError(t, err)

	assert.NotContains(t, out, "carousel-nav")
	assert.NotContains(t, out, "carousel-indicators")
	assert.NotContains(t, out, "carousel-thumbnails")
	assert.Empty(t, sim.Observers(), "single-slide carousel must not observe")
	assert.Equal(t, 0, activeChildIndex(t, c.track))
}

func TestWraparoundScenario(t *testing.T) {
	// Three slides [Image A, Video XYZ12345678, Image B].
	c := decorate(t, threeSlideBlock, observe.NewSim())
	require.Equal(t, 3, c.Len())
	require.Equal(t, Video, c.Slides()[1].Kind)

	c.GoToSlide(-1)
	assert.Equal(t, 2, c.Current(), "goToSlide(-1) from 0 lands on Image B")

	c.GoToSlide(4)
	assert.Equal(t, 1, c.Current(), "goToSlide(4) from 2 lands on the video")

	iframe := firstDescendantElement(c.Slides()[1].node, "iframe")
	require.NotNil(t, iframe)
	assert.Contains(t, markup.Attr(iframe, "src"), "autoplay=1")
	assert.Contains(t, markup.Attr(iframe, "src"), "XYZ12345678")

	assert.Nil(t, firstDescendantElement(c.Slides()[0].node, "iframe"))
	assert.Nil(t, firstDescendantElement(c.Slides()[2].node, "iframe"))
}

func TestTransitionPausesAndRebuildsEmbeds(t *testing.T) {
	sim := observe.NewSim()
	c := decorate(t, threeSlideBlock, sim)

	// The idle embed built at decoration time gets paused before rebuild.
	c.GoToSlide(1)
	require.Len(t, sim.Paused, 1)
	active := firstDescendantElement(c.Slides()[1].node, "iframe")
	assert.Contains(t, markup.Attr(active, "src"), "autoplay=1")

	// Leaving the video slide pauses the autoplaying embed and rebuilds idle.
	c.GoToSlide(2)
	require.Len(t, sim.Paused, 2)
	idle := firstDescendantElement(c.Slides()[1].node, "iframe")
	assert.Contains(t, markup.Attr(idle, "src"), "autoplay=0")
	assert.Contains(t, markup.Attr(idle, "src"), "mute=1")
}

func TestPassiveVisibilitySync(t *testing.T) {
	sim := observe.NewSim()
	c := decorate(t, threeSlideBlock, sim)
	require.Len(t, sim.Observers(), 1)
	obs := sim.Observers()[0]
	require.Len(t, obs.Targets(), 3)

	// A slide crossing the 50% threshold becomes current.
	sim.Intersect(c.Slides()[2].node, 0.8)
	assert.Equal(t, 2, c.Current())
	assert.Equal(t, 2, activeChildIndex(t, c.indicators))

	// Below-threshold visibility is ignored.
	sim.Intersect(c.Slides()[0].node, 0.2)
	assert.Equal(t, 2, c.Current())

	// Re-observing the already-current slide is a no-op.
	before, err := markup.Render(c.root)
	require.NoError(t, err)
	sim.Intersect(c.Slides()[2].node, 0.9)
	after, err := markup.Render(c.root)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUnparseableVideoDegradesSingleSlide(t *testing.T) {
	blockHTML := `
<div class="carousel">
  <div><div><img src="/media/a.jpg" alt="A"></div></div>
  <div><div><a href="https://vimeo.com/76979871">Not supported here</a></div></div>
  <div><div><a href="https://www.youtube.com/watch?v=bad">Broken</a></div></div>
</div>`
	c := decorate(t, blockHTML, observe.NewSim())

	require.Equal(t, 3, c.Len())
	assert.Equal(t, Video, c.Slides()[1].Kind)
	assert.Empty(t, c.Slides()[1].VideoID)
	assert.Nil(t, firstDescendantElement(c.Slides()[1].node, "iframe"))
	assert.Empty(t, c.Slides()[2].VideoID)

	// Degraded slides still occupy index slots: counts stay equal.
	assert.Equal(t, 3, countElementChildren(c.indicators))
	assert.Equal(t, 3, countElementChildren(c.thumbnails))

	// Navigation across degraded slides keeps the invariant.
	c.GoToSlide(1)
	assert.Equal(t, 1, activeChildIndex(t, c.track))
}

func TestEmptyBlockIsStructuralError(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div class="carousel"></div>`))
	require.NoError(t, err)
	_, err = Decorate(doc.Find("div.carousel"), observe.NewSim().Env(), config.Default())
	assert.ErrorIs(t, err, markup.ErrStructure)
}

func countElementChildren(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count++
		}
	}
	return count
}
