// Package engine walks a document, hands each recognized block to its
// decorator, and converts every decoration failure into a visible localized
// fallback. Nothing a block does is allowed to break the surrounding page.
package engine

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/PuerkitoBio/goquery"

	"github.com/szymonsznajder/marquee/internal/carousel"
	"github.com/szymonsznajder/marquee/internal/config"
	"github.com/szymonsznajder/marquee/internal/hero"
	"github.com/szymonsznajder/marquee/internal/markup"
	"github.com/szymonsznajder/marquee/internal/observe"
	"github.com/szymonsznajder/marquee/internal/teaser"
)

// Decorator enhances one block root in place.
type Decorator func(block *goquery.Selection, env observe.Env, cfg *config.Config) error

// decorators maps block class names to their decorators.
func decorators() map[string]Decorator {
	return map[string]Decorator{
		"carousel": func(b *goquery.Selection, env observe.Env, cfg *config.Config) error {
			_, err := carousel.Decorate(b, env, cfg)
			return err
		},
		"video-hero": func(b *goquery.Selection, env observe.Env, cfg *config.Config) error {
			_, err := hero.Decorate(b, env, cfg)
			return err
		},
		"teaser": teaser.Decorate,
	}
}

// BlockResult records the outcome for a single block instance.
type BlockResult struct {
	Name string
	Err  error
}

// Report summarizes one document decoration pass.
type Report struct {
	Decorated int
	Failed    int
	Results   []BlockResult
}

type Engine struct {
	cfg *config.Config
	env observe.Env
}

func New(cfg *config.Config, env observe.Env) *Engine {
	return &Engine{cfg: cfg, env: env}
}

// Decorate enhances every recognized block in the document. Failures are
// caught per block: the block's output is replaced by a localized message,
// the error is logged, and the rest of the document proceeds.
func (e *Engine) Decorate(doc *goquery.Document) *Report {
	report := &Report{}

	all := decorators()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fn := all[name]
		doc.Find("div." + name).Each(func(_ int, block *goquery.Selection) {
			err := fn(block, e.env, e.cfg)
			if err != nil {
				e.fallback(name, block, err)
				report.Failed++
			} else {
				report.Decorated++
			}
			report.Results = append(report.Results, BlockResult{Name: name, Err: err})
		})
	}
	return report
}

// fallback replaces a failed block's output with the fixed localized message
// for its error class. No retry, no backoff; these are presentational
// components, not resilient services.
func (e *Engine) fallback(name string, block *goquery.Selection, err error) {
	msg := e.cfg.Messages.BlockUnavailable
	if errors.Is(err, hero.ErrNoSource) {
		msg = e.cfg.Messages.VideoRequired
	}

	root := block.Nodes[0]
	markup.RemoveChildren(root)
	p := markup.Element("p", "class", "block-message")
	p.AppendChild(markup.Text(msg))
	root.AppendChild(p)

	logger := e.env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("block decoration failed", "block", name, "error", err)
}
