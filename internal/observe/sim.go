package observe

import (
	"io"
	"log/slog"

	"golang.org/x/net/html"
)

// Sim is a scriptable environment. Tests (and anything else that wants to
// drive the engines by hand) deliver intersection entries and media-ready
// signals explicitly and inspect the playback commands that were issued.
type Sim struct {
	ReducedMotion bool

	observers []*SimObserver
	ready     map[*html.Node][]func()

	Played []*html.Node
	Paused []*html.Node
}

// NewSim returns an empty simulated environment.
func NewSim() *Sim {
	return &Sim{ready: make(map[*html.Node][]func())}
}

// Env exposes the simulation as an Env for decoration.
func (s *Sim) Env() Env {
	return Env{
		NewObserver: func(threshold float64, fn func(Entry)) Observer {
			o := &SimObserver{sim: s, threshold: threshold, fn: fn}
			s.observers = append(s.observers, o)
			return o
		},
		PrefersReducedMotion: func() bool { return s.ReducedMotion },
		Player:               simPlayer{s},
		OnMediaReady: func(target *html.Node, fn func()) {
			s.ready[target] = append(s.ready[target], fn)
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Observers returns every observer constructed so far, disconnected or not.
func (s *Sim) Observers() []*SimObserver {
	return s.observers
}

// Intersect delivers a visibility change for target to every live observer
// watching it. Observers whose threshold exceeds ratio see a non-intersecting
// entry, mirroring a threshold crossing in the other direction.
func (s *Sim) Intersect(target *html.Node, ratio float64) {
	for _, o := range s.observers {
		o.deliver(target, ratio)
	}
}

// FireReady runs the media-ready callbacks registered for target.
func (s *Sim) FireReady(target *html.Node) {
	for _, fn := range s.ready[target] {
		fn()
	}
	delete(s.ready, target)
}

// PendingReady reports whether any media-ready registration exists for target.
func (s *Sim) PendingReady(target *html.Node) bool {
	return len(s.ready[target]) > 0
}

type simPlayer struct{ s *Sim }

func (p simPlayer) Play(n *html.Node)  { p.s.Played = append(p.s.Played, n) }
func (p simPlayer) Pause(n *html.Node) { p.s.Paused = append(p.s.Paused, n) }

// SimObserver is the Observer implementation handed out by Sim.
type SimObserver struct {
	sim          *Sim
	threshold    float64
	fn           func(Entry)
	targets      []*html.Node
	disconnected bool
}

func (o *SimObserver) Observe(target *html.Node) {
	if o.disconnected {
		return
	}
	o.targets = append(o.targets, target)
}

func (o *SimObserver) Disconnect() { o.disconnected = true }

// Disconnected reports whether the observer has been shut down.
func (o *SimObserver) Disconnected() bool { return o.disconnected }

// Targets returns the elements registered with the observer.
func (o *SimObserver) Targets() []*html.Node { return o.targets }

func (o *SimObserver) deliver(target *html.Node, ratio float64) {
	if o.disconnected {
		return
	}
	watched := false
	for _, t := range o.targets {
		if t == target {
			watched = true
			break
		}
	}
	if !watched {
		return
	}
	o.fn(Entry{
		Target:       target,
		Intersecting: ratio >= o.threshold && ratio > 0,
		Ratio:        ratio,
	})
}
