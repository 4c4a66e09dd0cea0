// Package observe models the browser-side primitives the block engines
// depend on (viewport intersection observation, the reduced-motion media
// preference, embed load signals and playback control) as injected
// capabilities. Components receive them through an Env instead of reading
// module-global state, so every engine can run against a simulated
// environment.
//
// Delivery is single-threaded by contract: entries and readiness callbacks
// run on the event loop that owns the component. None of the engines are
// safe for concurrent mutation and none need to be.
package observe

import (
	"log/slog"

	"golang.org/x/net/html"
)

// Entry describes one visibility transition of an observed element.
type Entry struct {
	Target       *html.Node
	Intersecting bool
	Ratio        float64
}

// Observer watches elements for viewport visibility changes.
type Observer interface {
	Observe(target *html.Node)
	// Disconnect stops all delivery. Safe to call more than once.
	Disconnect()
}

// Factory builds an Observer that delivers entries crossing threshold to fn.
type Factory func(threshold float64, fn func(Entry)) Observer

// Player issues playback commands to live embeds. In a browser runtime these
// map to provider postMessage calls and HTMLMediaElement play/pause.
type Player interface {
	Play(target *html.Node)
	Pause(target *html.Node)
}

// MediaReady registers fn to run once target has actually loaded (iframe
// load, video canplay), as opposed to merely being inserted.
type MediaReady func(target *html.Node, fn func())

// Env bundles the capabilities a block receives at decoration time.
type Env struct {
	NewObserver          Factory
	PrefersReducedMotion func() bool
	Player               Player
	OnMediaReady         MediaReady
	Logger               *slog.Logger
}

// Static returns an inert environment for offline decoration: observers
// never fire, media never reports ready, playback commands go nowhere.
func Static(logger *slog.Logger) Env {
	return Env{
		NewObserver:          func(float64, func(Entry)) Observer { return inertObserver{} },
		PrefersReducedMotion: func() bool { return false },
		Player:               NopPlayer{},
		OnMediaReady:         func(*html.Node, func()) {},
		Logger:               logger,
	}
}

// Eager returns an environment where every observed element intersects
// immediately and every embed loads instantly. The CLI uses it to materialize
// deferred work in generated output.
func Eager(logger *slog.Logger) Env {
	return Env{
		NewObserver: func(_ float64, fn func(Entry)) Observer {
			return &immediateObserver{fn: fn}
		},
		PrefersReducedMotion: func() bool { return false },
		Player:               NopPlayer{},
		OnMediaReady:         func(_ *html.Node, fn func()) { fn() },
		Logger:               logger,
	}
}

// NopPlayer discards playback commands.
type NopPlayer struct{}

func (NopPlayer) Play(*html.Node)  {}
func (NopPlayer) Pause(*html.Node) {}

type inertObserver struct{}

func (inertObserver) Observe(*html.Node) {}
func (inertObserver) Disconnect()        {}

type immediateObserver struct {
	fn           func(Entry)
	disconnected bool
}

func (o *immediateObserver) Observe(target *html.Node) {
	if o.disconnected {
		return
	}
	o.fn(Entry{Target: target, Intersecting: true, Ratio: 1})
}

func (o *immediateObserver) Disconnect() { o.disconnected = true }
