// Package teaser turns a teaser block's rows into article cards. Pure markup
// transformation, no runtime state.
package teaser

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/szymonsznajder/marquee/internal/config"
	"github.com/szymonsznajder/marquee/internal/markup"
	"github.com/szymonsznajder/marquee/internal/observe"
	"github.com/szymonsznajder/marquee/internal/picture"
)

// Decorate rebuilds each [image cell, content cell] row into an article
// card. Rows with fewer than two cells violate the inbound contract.
func Decorate(block *goquery.Selection, env observe.Env, cfg *config.Config) error {
	rows := markup.Rows(block)
	if len(rows) == 0 {
		return fmt.Errorf("teaser: no rows: %w", markup.ErrStructure)
	}

	root := block.Nodes[0]
	markup.RemoveChildren(root)
	markup.AddClass(root, "teaser-decorated")

	for i, row := range rows {
		cells := markup.Cells(row)
		if len(cells) < 2 {
			return fmt.Errorf("teaser: row %d has %d cells, need 2: %w", i, len(cells), markup.ErrStructure)
		}

		card := markup.Element("article", "class", "teaser-card")

		imageWrap := markup.Element("div", "class", "teaser-image")
		if src, alt, ok := markup.FirstImage(cells[0]); ok {
			imageWrap.AppendChild(picture.Build(src, alt, false, cfg.PictureWidths))
		}
		card.AppendChild(imageWrap)

		body := markup.Element("div", "class", "teaser-body")
		for child := cells[1].Nodes[0].FirstChild; child != nil; child = child.NextSibling {
			body.AppendChild(markup.Clone(child))
		}
		card.AppendChild(body)

		root.AppendChild(card)
	}
	return nil
}
