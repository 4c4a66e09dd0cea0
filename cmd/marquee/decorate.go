package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/szymonsznajder/marquee/internal/config"
	"github.com/szymonsznajder/marquee/internal/engine"
	"github.com/szymonsznajder/marquee/internal/markup"
	"github.com/szymonsznajder/marquee/internal/observe"
	"github.com/szymonsznajder/marquee/internal/system"
)

type decorateOptions struct {
	outDir     string
	configPath string
	workers    int
	eager      bool
	stats      bool
	verbose    bool
}

type fileResult struct {
	path      string
	decorated int
	failed    int
	duration  time.Duration
	err       error
}

func newDecorateCommand() *cobra.Command {
	opts := &decorateOptions{}

	cmd := &cobra.Command{
		Use:   "decorate [paths...]",
		Short: "Decorate the blocks in the given HTML files or directories",
		Long: "Decorate reads HTML documents produced by the content pipeline, enhances\n" +
			"every recognized block (carousel, video-hero, teaser), and writes the\n" +
			"result to the output directory. With no paths it picks the newest HTML\n" +
			"file in ./input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecorate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "output", "output directory")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "parallel workers (default: config / CPU count)")
	cmd.Flags().BoolVar(&opts.eager, "eager", false, "materialize deferred embeds as if every block were visible")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print a host resource snapshot after the run")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func runDecorate(cmd *cobra.Command, args []string, opts *decorateOptions) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}

	files, err := collectInputs(args)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	env := observe.Static(logger)
	if opts.eager {
		env = observe.Eager(logger)
	}

	start := time.Now()
	results := make([]fileResult, len(files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := decorateFile(path, opts.outDir, cfg, env)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printSummary(cmd, results, time.Since(start))
	if opts.stats {
		printStats(cmd)
	}

	for _, r := range results {
		if r.err != nil {
			return fmt.Errorf("%d of %d documents failed", countErrors(results), len(results))
		}
	}
	return nil
}

func collectInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		latest, err := system.FindLatestHTML("input")
		if err != nil {
			return nil, fmt.Errorf("no inputs given and %w", err)
		}
		return []string{latest}, nil
	}

	var files []string
	for _, arg := range args {
		expanded, err := system.ListHTML(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, expanded...)
	}
	return files, nil
}

// decorateFile runs one document through the engine. Per-file errors land in
// the result; one broken document never stops the batch.
func decorateFile(path, outDir string, cfg *config.Config, env observe.Env) fileResult {
	start := time.Now()
	res := fileResult{path: path}

	f, err := os.Open(path)
	if err != nil {
		res.err = err
		return res
	}
	doc, err := markup.ParseDocument(f)
	f.Close()
	if err != nil {
		res.err = fmt.Errorf("parse %s: %w", path, err)
		return res
	}

	report := engine.New(cfg, env).Decorate(doc)
	res.decorated = report.Decorated
	res.failed = report.Failed

	out, err := markup.Render(doc.Nodes[0])
	if err != nil {
		res.err = fmt.Errorf("render %s: %w", path, err)
		return res
	}
	target := filepath.Join(outDir, filepath.Base(path))
	if err := os.WriteFile(target, []byte(out), 0o644); err != nil {
		res.err = err
		return res
	}

	res.duration = time.Since(start)
	return res
}

func printSummary(cmd *cobra.Command, results []fileResult, total time.Duration) {
	w := table.NewWriter()
	w.SetOutputMirror(cmd.OutOrStdout())
	w.AppendHeader(table.Row{"Document", "Blocks", "Fallbacks", "Duration", "Status"})
	for _, r := range results {
		status := "ok"
		if r.err != nil {
			status = r.err.Error()
		}
		w.AppendRow(table.Row{filepath.Base(r.path), r.decorated, r.failed, r.duration.Round(time.Millisecond), status})
	}
	w.AppendFooter(table.Row{fmt.Sprintf("%d documents", len(results)), "", "", total.Round(time.Millisecond), ""})
	w.Render()
}

func printStats(cmd *cobra.Command) {
	s := system.Snapshot()
	w := table.NewWriter()
	w.SetOutputMirror(cmd.OutOrStdout())
	w.AppendHeader(table.Row{"CPU cores", "Goroutines", "Host mem (MB)", "Host mem used", "Process RSS (MB)"})
	w.AppendRow(table.Row{s.CPUCores, s.GoRoutines, s.HostMemTotalMB, fmt.Sprintf("%.1f%%", s.HostMemUsedPct), s.ProcRSSMB})
	w.Render()
}

func countErrors(results []fileResult) int {
	n := 0
	for _, r := range results {
		if r.err != nil {
			n++
		}
	}
	return n
}
