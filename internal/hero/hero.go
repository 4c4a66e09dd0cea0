// Package hero implements the video-hero deferred embed loader. The
// expensive autoplaying background embed is not constructed until the block
// is actually visible, and never more than once.
package hero

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/net/html"

	"github.com/szymonsznajder/marquee/internal/config"
	"github.com/szymonsznajder/marquee/internal/embed"
	"github.com/szymonsznajder/marquee/internal/markup"
	"github.com/szymonsznajder/marquee/internal/media"
	"github.com/szymonsznajder/marquee/internal/observe"
	"github.com/szymonsznajder/marquee/internal/picture"
)

// ErrNoSource reports a video-hero block with no video URL. Terminal: the
// engine renders the localized message and nothing is retried.
var ErrNoSource = errors.New("video-hero: no video URL")

// Hero owns the embed lifecycle for one component instance: two states,
// Unloaded → Loaded, one irreversible transition. Not safe for concurrent
// use; entries and readiness callbacks arrive on the owning event loop.
type Hero struct {
	env observe.Env
	cfg *config.Config

	sourceURL string
	root      *html.Node
	wrapper   *html.Node

	observer  observe.Observer
	requested bool // construction requested (trigger accepted)
	loaded    bool // content actually ready, monotonic false→true
}

// Decorate prepares a video-hero block: poster stays, the embed waits for
// the first intersection. A block without a video URL fails with ErrNoSource
// before any observer is constructed.
func Decorate(block *goquery.Selection, env observe.Env, cfg *config.Config) (*Hero, error) {
	sourceURL, ok := markup.FirstLink(block)
	if !ok {
		return nil, ErrNoSource
	}

	h := &Hero{
		env:       env,
		cfg:       cfg,
		sourceURL: sourceURL,
		root:      block.Nodes[0],
	}

	posterSrc, posterAlt, hasPoster := markup.FirstImage(block)

	markup.RemoveChildren(h.root)
	markup.AddClass(h.root, "video-hero-decorated")

	if hasPoster {
		poster := markup.Element("div", "class", "video-hero-poster")
		poster.AppendChild(picture.Build(posterSrc, posterAlt, true, cfg.PictureWidths))
		h.root.AppendChild(poster)
	}

	h.wrapper = markup.Element("div", "class", "video-hero-embed")
	h.root.AppendChild(h.wrapper)

	// One-shot: the observer disconnects itself on the first intersecting
	// entry, so the trigger is evaluated at most once.
	h.observer = env.NewObserver(0, h.onIntersect)
	h.observer.Observe(h.root)

	return h, nil
}

// Loaded reports whether the embed content is actually ready, set from the
// media load signal rather than element insertion.
func (h *Hero) Loaded() bool { return h.loaded }

// SourceURL returns the configured video source.
func (h *Hero) SourceURL() string { return h.sourceURL }

func (h *Hero) onIntersect(e observe.Entry) {
	if !e.Intersecting {
		return
	}
	h.observer.Disconnect()

	// An entry queued before Disconnect can still arrive; the load must run
	// at most once.
	if h.loaded || h.requested {
		return
	}
	h.requested = true

	// The preference is sampled once, now. Later preference changes do not
	// reach an already-triggered hero.
	if h.env.PrefersReducedMotion() {
		h.applyStaticFallback()
		return
	}

	ref, err := media.Parse(h.sourceURL)
	if err != nil {
		// Best effort: treat a malformed reference as a direct file source
		// instead of erroring out.
		if h.env.Logger != nil {
			h.env.Logger.Warn("video-hero source unrecognized, falling back to direct file",
				"source", h.sourceURL)
		}
		ref = media.Ref{Kind: media.KindFile, URL: h.sourceURL}
	}

	node := embed.FromRef(ref, true)
	h.wrapper.AppendChild(node)
	h.env.OnMediaReady(node, func() {
		h.loaded = true
		if ref.Kind == media.KindFile {
			// Re-issue play once the element can actually play; autoplay
			// attributes are ignored under some browser policies.
			h.env.Player.Play(node)
		}
	})
}

// applyStaticFallback presents the no-video variant for reduced-motion
// viewers. With QR fallback enabled the video stays reachable through a
// scannable badge instead of autoplaying.
func (h *Hero) applyStaticFallback() {
	markup.AddClass(h.root, "video-hero-static")
	if !h.cfg.Hero.QRFallback {
		return
	}
	png, err := qrcode.Encode(h.sourceURL, qrcode.Medium, h.cfg.Hero.QRSize)
	if err != nil {
		if h.env.Logger != nil {
			h.env.Logger.Warn("video-hero QR badge skipped", "error", err)
		}
		return
	}
	h.wrapper.AppendChild(markup.Element("img",
		"class", "video-hero-qr",
		"src", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(png),
		"alt", fmt.Sprintf("QR code linking to %s", h.sourceURL),
		"width", fmt.Sprintf("%d", h.cfg.Hero.QRSize),
		"height", fmt.Sprintf("%d", h.cfg.Hero.QRSize),
	))
}
