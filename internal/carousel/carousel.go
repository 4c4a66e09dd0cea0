// Package carousel implements the image-carousel slide engine: an ordered,
// immutable sequence of image and video slides, a current-index cursor, and
// the sync that keeps the slide track, indicator dots, thumbnail strip and
// at most one playing video in agreement with that cursor.
package carousel

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/szymonsznajder/marquee/internal/config"
	"github.com/szymonsznajder/marquee/internal/embed"
	"github.com/szymonsznajder/marquee/internal/markup"
	"github.com/szymonsznajder/marquee/internal/media"
	"github.com/szymonsznajder/marquee/internal/observe"
	"github.com/szymonsznajder/marquee/internal/picture"
)

// Kind distinguishes the two slide variants.
type Kind int

const (
	Image Kind = iota
	Video
)

// Slide is one carousel entry. Slides are constructed once at decoration
// time and never reordered or mutated afterwards; a video slide whose
// reference could not be parsed keeps its index slot with an empty body.
type Slide struct {
	Kind    Kind
	VideoID string // empty for images and for degraded video slides

	node      *html.Node // the .carousel-slide element
	embedHost *html.Node // embed container, video slides only
}

// Carousel owns the slide state for one component instance. All mutation
// goes through GoToSlide on the owning event loop; the type is not safe for
// concurrent use and does not need to be.
type Carousel struct {
	env observe.Env

	slides  []Slide
	current int

	root       *html.Node
	track      *html.Node
	nav        *html.Node // nil when a single slide
	indicators *html.Node // nil when a single slide
	thumbnails *html.Node // nil when a single slide

	observer observe.Observer
}

// Decorate rebuilds a carousel block's row/cell markup into the enhanced
// structure and returns the live engine. Navigation controls, indicators,
// thumbnails and the visibility observer exist only when there is more than
// one slide, so single-slide carousels cannot navigate by construction.
func Decorate(block *goquery.Selection, env observe.Env, cfg *config.Config) (*Carousel, error) {
	rows := markup.Rows(block)
	if len(rows) == 0 {
		return nil, fmt.Errorf("carousel: no slides: %w", markup.ErrStructure)
	}

	c := &Carousel{env: env, root: block.Nodes[0]}

	for i, row := range rows {
		slide, err := c.buildSlide(i, row, cfg)
		if err != nil {
			return nil, err
		}
		c.slides = append(c.slides, slide)
	}

	markup.RemoveChildren(c.root)
	markup.AddClass(c.root, "carousel-decorated")

	c.track = markup.Element("div", "class", "carousel-slides")
	for i := range c.slides {
		c.track.AppendChild(c.slides[i].node)
	}
	c.root.AppendChild(c.track)

	if len(c.slides) > 1 {
		c.buildControls(cfg)
		c.observer = env.NewObserver(cfg.Carousel.VisibilityThreshold, c.onIntersect)
		for i := range c.slides {
			c.observer.Observe(c.slides[i].node)
		}
	}

	// Initial state: index 0 active everywhere, video embeds idle.
	markup.AddClass(c.slides[0].node, "active")
	c.markActive(c.indicators, 0)
	c.markActive(c.thumbnails, 0)
	c.current = 0

	return c, nil
}

// Len returns the fixed slide count.
func (c *Carousel) Len() int { return len(c.slides) }

// Current returns the index of the active slide.
func (c *Carousel) Current() int { return c.current }

// Slides returns the slide records in order.
func (c *Carousel) Slides() []Slide { return c.slides }

// Next advances to the following slide, wrapping at the end.
func (c *Carousel) Next() { c.GoToSlide(c.current + 1) }

// Prev steps back to the preceding slide, wrapping at the start.
func (c *Carousel) Prev() { c.GoToSlide(c.current - 1) }

// GoToSlide moves the active cursor to target, normalized into range by
// Euclidean modulo so any integer wraps onto a valid index. The transition
// is synchronous: deactivate everything, activate the normalized index, sync
// video playback, then sync indicators and thumbnails. Calling it again with
// the same normalized index is observably idempotent.
func (c *Carousel) GoToSlide(target int) {
	n := len(c.slides)
	idx := ((target % n) + n) % n

	for i := range c.slides {
		markup.RemoveClass(c.slides[i].node, "active")
	}
	markup.AddClass(c.slides[idx].node, "active")

	c.syncVideo(idx)
	c.markActive(c.indicators, idx)
	c.markActive(c.thumbnails, idx)

	c.current = idx
}

// syncVideo pauses and rebuilds every live embed muted and non-autoplaying,
// then gives the active video slide an autoplaying instance. Background
// iframes cannot be silenced by attribute alone, so the pause command is
// followed by a full rebuild.
func (c *Carousel) syncVideo(active int) {
	for i := range c.slides {
		s := &c.slides[i]
		if s.Kind != Video || s.VideoID == "" {
			continue
		}
		if old := firstChildElement(s.embedHost, "iframe"); old != nil {
			c.env.Player.Pause(old)
		}
		markup.RemoveChildren(s.embedHost)
		s.embedHost.AppendChild(embed.YouTube(s.VideoID, i == active))
	}
}

// onIntersect adopts a slide made visible by outside forces (scroll-jacking,
// swipe libraries) as the current slide, keeping indicator and thumbnail
// state consistent with whatever made it visible.
func (c *Carousel) onIntersect(e observe.Entry) {
	if !e.Intersecting {
		return
	}
	for i := range c.slides {
		if c.slides[i].node == e.Target {
			if i != c.current {
				c.GoToSlide(i)
			}
			return
		}
	}
}

func (c *Carousel) buildSlide(index int, row *goquery.Selection, cfg *config.Config) (Slide, error) {
	cells := markup.Cells(row)
	if len(cells) == 0 {
		return Slide{}, fmt.Errorf("carousel: slide %d has no cells: %w", index, markup.ErrStructure)
	}

	node := markup.Element("div",
		"class", "carousel-slide",
		"data-slide-index", strconv.Itoa(index),
	)

	if src, alt, ok := markup.FirstImage(row); ok {
		imageWrap := markup.Element("div", "class", "carousel-slide-image")
		imageWrap.AppendChild(picture.Build(src, alt, index == 0, cfg.PictureWidths))
		node.AppendChild(imageWrap)
		appendCaption(node, row)
		return Slide{Kind: Image, node: node}, nil
	}

	href, ok := markup.FirstLink(row)
	if !ok {
		return Slide{}, fmt.Errorf("carousel: slide %d has neither image nor video link: %w", index, markup.ErrStructure)
	}

	host := markup.Element("div", "class", "carousel-slide-video")
	node.AppendChild(host)
	slide := Slide{Kind: Video, node: node, embedHost: host}

	// YouTube-only in the carousel. Anything else degrades this slide to an
	// empty placeholder that still occupies its index slot.
	ref, err := media.Parse(href)
	if err != nil || ref.Kind != media.KindYouTube {
		c.logDegraded(index, href)
		return slide, nil
	}
	slide.VideoID = ref.ID
	host.AppendChild(embed.YouTube(ref.ID, false))
	return slide, nil
}

func (c *Carousel) logDegraded(index int, href string) {
	if c.env.Logger != nil {
		c.env.Logger.Warn("carousel slide degraded to empty placeholder",
			"slide", index, "source", href)
	}
}

// appendCaption copies non-image cell content into a content wrapper.
func appendCaption(slide *html.Node, row *goquery.Selection) {
	for _, cell := range markup.Cells(row) {
		if cell.Find("img").Length() > 0 {
			continue
		}
		if len(cell.Nodes) == 0 || cell.Nodes[0].FirstChild == nil {
			continue
		}
		content := markup.Element("div", "class", "carousel-slide-content")
		for child := cell.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
			content.AppendChild(markup.Clone(child))
		}
		slide.AppendChild(content)
	}
}

func (c *Carousel) buildControls(cfg *config.Config) {
	n := len(c.slides)

	c.nav = markup.Element("div", "class", "carousel-nav")
	markup.Append(c.nav,
		markup.Element("button",
			"type", "button",
			"class", "carousel-nav-button carousel-nav-prev",
			"aria-label", "Previous slide",
		),
		markup.Element("button",
			"type", "button",
			"class", "carousel-nav-button carousel-nav-next",
			"aria-label", "Next slide",
		),
	)
	c.root.AppendChild(c.nav)

	c.indicators = markup.Element("div", "class", "carousel-indicators")
	for i := 0; i < n; i++ {
		c.indicators.AppendChild(markup.Element("button",
			"type", "button",
			"class", "carousel-indicator",
			"aria-label", fmt.Sprintf("Show slide %d of %d", i+1, n),
		))
	}
	c.root.AppendChild(c.indicators)

	c.thumbnails = markup.Element("div", "class", "carousel-thumbnails")
	for i := range c.slides {
		btn := markup.Element("button",
			"type", "button",
			"class", "carousel-thumbnail",
			"aria-label", fmt.Sprintf("Show slide %d of %d", i+1, n),
		)
		if thumb := c.thumbnailImage(&c.slides[i], cfg); thumb != nil {
			btn.AppendChild(thumb)
		}
		c.thumbnails.AppendChild(btn)
	}
	c.root.AppendChild(c.thumbnails)
}

func (c *Carousel) thumbnailImage(s *Slide, cfg *config.Config) *html.Node {
	switch {
	case s.Kind == Video && s.VideoID != "":
		return markup.Element("img",
			"src", fmt.Sprintf("https://i.ytimg.com/vi/%s/mqdefault.jpg", s.VideoID),
			"alt", "",
			"loading", "lazy",
		)
	case s.Kind == Image:
		if img := firstDescendantElement(s.node, "img"); img != nil {
			return markup.Element("img",
				"src", thumbURL(markup.Attr(img, "src"), cfg.Carousel.ThumbnailWidth),
				"alt", "",
				"loading", "lazy",
			)
		}
	}
	return nil
}

// markActive keeps exactly one child of container marked active. A nil
// container (single-slide carousel) is a no-op.
func (c *Carousel) markActive(container *html.Node, index int) {
	if container == nil {
		return
	}
	i := 0
	for child := container.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		if i == index {
			markup.AddClass(child, "active")
		} else {
			markup.RemoveClass(child, "active")
		}
		i++
	}
}

func thumbURL(src string, width int) string {
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	q := u.Query()
	q.Set("width", strconv.Itoa(width))
	u.RawQuery = q.Encode()
	return u.String()
}

func firstChildElement(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

func firstDescendantElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := firstDescendantElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
