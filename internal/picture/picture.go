// Package picture realizes the platform's optimized-picture contract: a pure
// function from source URL, alt text and target widths to a responsive
// picture element. It carries no state and no failure mode beyond returning
// an element.
package picture

import (
	"fmt"
	"net/url"
	"sort"

	"golang.org/x/net/html"

	"github.com/szymonsznajder/marquee/internal/markup"
)

// Build assembles a <picture> with webp sources per width breakpoint and a
// fallback img. Widths are treated largest-first; the smallest width serves
// viewports below every breakpoint and feeds the fallback img. eager controls
// the img loading attribute.
func Build(src, alt string, eager bool, widths []int) *html.Node {
	ws := make([]int, len(widths))
	copy(ws, widths)
	sort.Sort(sort.Reverse(sort.IntSlice(ws)))
	if len(ws) == 0 {
		ws = []int{750}
	}

	pic := markup.Element("picture")
	smallest := ws[len(ws)-1]

	for _, w := range ws[:len(ws)-1] {
		markup.Append(pic, markup.Element("source",
			"type", "image/webp",
			"media", fmt.Sprintf("(min-width: %dpx)", w),
			"srcset", optimized(src, w, "webply"),
		))
	}
	markup.Append(pic, markup.Element("source",
		"type", "image/webp",
		"srcset", optimized(src, smallest, "webply"),
	))

	loading := "lazy"
	if eager {
		loading = "eager"
	}
	markup.Append(pic, markup.Element("img",
		"src", optimized(src, smallest, ""),
		"alt", alt,
		"loading", loading,
	))
	return pic
}

// optimized appends the delivery parameters the image service understands.
// Sources that are not URL-shaped are passed through untouched.
func optimized(src string, width int, format string) string {
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	q := u.Query()
	q.Set("width", fmt.Sprintf("%d", width))
	if format != "" {
		q.Set("format", format)
	}
	q.Set("optimize", "medium")
	u.RawQuery = q.Encode()
	return u.String()
}
