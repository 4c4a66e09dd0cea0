// Package media classifies video references by URL shape. Provider URLs are
// opaque strings matched against fixed patterns: YouTube and Vimeo host
// markers, and a file-extension allowlist for direct sources.
package media

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Kind identifies the provider family of a video reference.
type Kind int

const (
	KindUnknown Kind = iota
	KindYouTube
	KindVimeo
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindYouTube:
		return "youtube"
	case KindVimeo:
		return "vimeo"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Ref is a classified video reference.
type Ref struct {
	Kind Kind
	ID   string // provider video id; empty for direct files
	URL  string // original source string
}

// ErrUnrecognized reports a reference that matches no provider pattern.
var ErrUnrecognized = errors.New("unrecognized video reference")

var (
	youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	vimeoIDPattern   = regexp.MustCompile(`^[0-9]+$`)
)

// fileExts is the allowlist for direct media sources.
var fileExts = map[string]bool{
	".mp4":  true,
	".webm": true,
	".ogg":  true,
	".mov":  true,
}

// matcher recognizes one provider family.
type matcher interface {
	match(u *url.URL) (Ref, bool)
}

// Matchers run in order; first match wins.
var matchers = []matcher{
	youtubeMatcher{},
	vimeoMatcher{},
	fileMatcher{},
}

// Parse classifies a raw video reference. The raw string is preserved in the
// returned Ref so embed construction can reuse it verbatim.
func Parse(raw string) (Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ref{}, fmt.Errorf("%w: empty source", ErrUnrecognized)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %s", ErrUnrecognized, raw)
	}
	for _, m := range matchers {
		if ref, ok := m.match(u); ok {
			ref.URL = raw
			return ref, nil
		}
	}
	return Ref{}, fmt.Errorf("%w: %s", ErrUnrecognized, raw)
}

type youtubeMatcher struct{}

func (youtubeMatcher) match(u *url.URL) (Ref, bool) {
	host := strings.ToLower(u.Hostname())
	if !strings.Contains(host, "youtube") && !strings.Contains(host, "youtu.be") {
		return Ref{}, false
	}

	var id string
	segs := pathSegments(u)
	switch {
	case strings.Contains(host, "youtu.be"):
		if len(segs) > 0 {
			id = segs[0]
		}
	case u.Query().Get("v") != "":
		id = u.Query().Get("v")
	case len(segs) >= 2 && (segs[0] == "embed" || segs[0] == "shorts" || segs[0] == "v" || segs[0] == "live"):
		id = segs[1]
	}

	if !youtubeIDPattern.MatchString(id) {
		return Ref{}, false
	}
	return Ref{Kind: KindYouTube, ID: id}, true
}

type vimeoMatcher struct{}

func (vimeoMatcher) match(u *url.URL) (Ref, bool) {
	host := strings.ToLower(u.Hostname())
	if !strings.Contains(host, "vimeo") {
		return Ref{}, false
	}
	segs := pathSegments(u)
	// The numeric id is the last path segment on both vimeo.com/<id> and
	// player.vimeo.com/video/<id> shapes.
	for i := len(segs) - 1; i >= 0; i-- {
		if vimeoIDPattern.MatchString(segs[i]) {
			return Ref{Kind: KindVimeo, ID: segs[i]}, true
		}
	}
	return Ref{}, false
}

type fileMatcher struct{}

func (fileMatcher) match(u *url.URL) (Ref, bool) {
	ext := strings.ToLower(path.Ext(u.Path))
	if !fileExts[ext] {
		return Ref{}, false
	}
	return Ref{Kind: KindFile}, true
}

func pathSegments(u *url.URL) []string {
	var segs []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
