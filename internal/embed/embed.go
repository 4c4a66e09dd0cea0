// Package embed constructs the provider-specific video elements the blocks
// insert into the page. Construction is element assembly only; load signals
// and playback control flow through the observe capabilities.
package embed

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/szymonsznajder/marquee/internal/markup"
	"github.com/szymonsznajder/marquee/internal/media"
)

// FromRef builds the embed element for a classified reference.
func FromRef(ref media.Ref, autoplay bool) *html.Node {
	switch ref.Kind {
	case media.KindYouTube:
		return YouTube(ref.ID, autoplay)
	case media.KindVimeo:
		return Vimeo(ref.ID, autoplay)
	default:
		return File(ref.URL, autoplay)
	}
}

// YouTube builds a muted, looping, keyboard-disabled, control-less iframe.
// Looping only works when the playlist parameter repeats the video id; that
// is a provider quirk, not a typo.
func YouTube(id string, autoplay bool) *html.Node {
	src := fmt.Sprintf(
		"https://www.youtube.com/embed/%s?rel=0&controls=0&disablekb=1&mute=1&loop=1&playlist=%s&autoplay=%s",
		id, id, flag(autoplay),
	)
	return markup.Element("iframe",
		"class", "video-embed video-embed-youtube",
		"src", src,
		"title", "Video player",
		"allow", "autoplay; fullscreen; picture-in-picture; encrypted-media",
		"allowfullscreen", "",
		"loading", "lazy",
	)
}

// Vimeo builds a muted, looping, background-mode iframe.
func Vimeo(id string, autoplay bool) *html.Node {
	src := fmt.Sprintf(
		"https://player.vimeo.com/video/%s?background=1&muted=1&loop=1&autoplay=%s",
		id, flag(autoplay),
	)
	return markup.Element("iframe",
		"class", "video-embed video-embed-vimeo",
		"src", src,
		"title", "Video player",
		"allow", "autoplay; fullscreen; picture-in-picture",
		"allowfullscreen", "",
		"loading", "lazy",
	)
}

// File builds a native video element for a direct media source. The caller is
// expected to issue a Play command again once the element reports canplay;
// some browsers ignore the autoplay attribute under their media policies.
func File(src string, autoplay bool) *html.Node {
	v := markup.Element("video",
		"class", "video-embed video-embed-file",
		"loop", "",
		"muted", "",
		"playsinline", "",
	)
	if autoplay {
		markup.SetAttr(v, "autoplay", "")
	}
	markup.Append(v, markup.Element("source",
		"src", src,
		"type", mimeType(src),
	))
	return v
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

var mimeByExt = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".ogg":  "video/ogg",
	".mov":  "video/quicktime",
}

func mimeType(src string) string {
	ext := strings.ToLower(path.Ext(src))
	if u, err := url.Parse(src); err == nil {
		ext = strings.ToLower(path.Ext(u.Path))
	}
	if mt, ok := mimeByExt[ext]; ok {
		return mt
	}
	return "video/mp4"
}
