package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/hints"
	"github.com/alnah/go-md2site/internal/logger"
	"github.com/alnah/go-md2site/internal/precompress"
)

// Pool abstracts generator pool operations for testability.
type Pool interface {
	Generate(ctx context.Context, input md2site.Input) (*md2site.Page, error)
	Size() int
}

// Compile-time interface implementation check.
var _ Pool = (*md2site.GeneratorPool)(nil)

// PageToBuild maps one markdown source to its output page.
type PageToBuild struct {
	SourcePath string
	TargetPath string
}

// PageResult holds the outcome of a single page.
type PageResult struct {
	SourcePath string
	TargetPath string
	Title      string
	Size       int
	GzipSize   int
	Err        error
	Duration   time.Duration
}

// BuildReport summarizes a site build.
type BuildReport struct {
	StaticFiles int
	Pages       []PageResult
	Duration    time.Duration
}

// Failed counts pages that could not be built.
func (r *BuildReport) Failed() int {
	n := 0
	for _, p := range r.Pages {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// runBuildCmd handles the build command.
func runBuildCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseBuildFlags(args, env)
	if err != nil {
		return err
	}

	cfg, source, err := loadSiteConfig(flags.common, &flags.site, env)
	if err != nil {
		return err
	}
	configureLogging(flags.common, cfg, env.Logger)
	env.Logger.Debug("configuration loaded", "source", source)

	report, err := buildSite(ctx, cfg, env.Logger)
	if err != nil {
		return err
	}

	printBuildReport(env, report, flags.common.quiet, flags.common.verbose)
	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%w: %d page(s) failed", ErrPagesFailed, n)
	}
	return nil
}

// buildSite recreates the output directory from the static tree, then
// generates one page per markdown file. Page failures are recorded in the
// report; only setup failures are returned as errors.
func buildSite(ctx context.Context, cfg *config.Config, log *logger.Logger) (*BuildReport, error) {
	start := time.Now()

	if !fileutil.DirExists(cfg.Content.Dir) {
		return nil, fmt.Errorf("%w: %s%s", ErrContentDir, cfg.Content.Dir, hints.ForContentDirectory(cfg.Content.Dir))
	}

	pool, err := md2site.NewGeneratorPool(md2site.ResolvePoolSize(cfg.Build.Workers), generatorOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("preparing generator: %w%s", err, assetHint(err))
	}
	defer pool.Close()

	var compressor *precompress.Compressor
	if cfg.Output.Gzip {
		compressor, err = precompress.New()
		if err != nil {
			return nil, err
		}
	}

	for _, src := range []string{cfg.Content.Dir, cfg.Static.Dir} {
		overlap, err := fileutil.Overlaps(cfg.Output.Dir, src)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOutputDir, err)
		}
		if overlap {
			return nil, fmt.Errorf("%w: %s overlaps source directory %s%s", ErrOutputDir, cfg.Output.Dir, src, hints.ForOutputOverlap())
		}
	}

	if err := fileutil.ResetDir(cfg.Output.Dir); err != nil {
		return nil, fmt.Errorf("%w: %w%s", ErrOutputDir, err, hints.ForOutputDirectory())
	}

	report := &BuildReport{}
	if fileutil.DirExists(cfg.Static.Dir) {
		report.StaticFiles, err = fileutil.CopyTree(cfg.Static.Dir, cfg.Output.Dir, func(src, dst string, isDir bool) {
			if isDir {
				log.Debug("created directory", "path", dst)
				return
			}
			log.Debug("copied static file", "from", src, "to", dst)
		})
		if err != nil {
			return nil, fmt.Errorf("copying static files: %w", err)
		}
	} else {
		log.Debug("no static directory", "path", cfg.Static.Dir)
	}

	pages, err := discoverPages(cfg.Content.Dir, cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	log.Debug("generating pages", "count", len(pages), "workers", pool.Size(), "engine", cfg.Render.Engine)

	report.Pages = generateBatch(ctx, pool, pages, compressor)
	report.Duration = time.Since(start)

	for _, r := range report.Pages {
		if r.Err != nil {
			log.Error("page failed", "source", r.SourcePath, "error", r.Err)
			continue
		}
		log.Debug("page written", "source", r.SourcePath, "target", r.TargetPath, "duration", r.Duration)
	}
	return report, nil
}

// discoverPages maps every markdown file under contentDir to its page
// under outputDir, in lexical order.
func discoverPages(contentDir, outputDir string) ([]PageToBuild, error) {
	sources, err := fileutil.FindMarkdown(contentDir)
	if err != nil {
		return nil, err
	}
	pages := make([]PageToBuild, 0, len(sources))
	for _, src := range sources {
		dst, err := fileutil.PagePath(contentDir, outputDir, src)
		if err != nil {
			return nil, err
		}
		pages = append(pages, PageToBuild{SourcePath: src, TargetPath: dst})
	}
	return pages, nil
}

// generateBatch processes pages concurrently, at most pool.Size() at a time.
func generateBatch(ctx context.Context, pool Pool, pages []PageToBuild, compressor *precompress.Compressor) []PageResult {
	if len(pages) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(pages))
	results := make([]PageResult, len(pages))
	var wg sync.WaitGroup
	jobs := make(chan int, len(pages))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = PageResult{
						SourcePath: pages[idx].SourcePath,
						TargetPath: pages[idx].TargetPath,
						Err:        ctx.Err(),
					}
					continue
				}
				results[idx] = generatePage(ctx, pool, pages[idx], compressor)
			}
		}()
	}

	for i := range pages {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// generatePage reads, renders and writes a single page.
func generatePage(ctx context.Context, pool Pool, p PageToBuild, compressor *precompress.Compressor) PageResult {
	start := time.Now()
	result := PageResult{
		SourcePath: p.SourcePath,
		TargetPath: p.TargetPath,
	}
	fail := func(err error) PageResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(p.SourcePath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("reading markdown: %w", err))
	}

	page, err := pool.Generate(ctx, md2site.Input{Markdown: string(content)})
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(p.TargetPath), fileutil.DirPerm); err != nil {
		return fail(fmt.Errorf("creating output directory: %w", err))
	}
	if err := fileutil.WriteFileAtomic(p.TargetPath, page.HTML); err != nil {
		return fail(fmt.Errorf("writing page: %w", err))
	}
	result.Title = page.Title
	result.Size = len(page.HTML)

	if compressor != nil {
		result.GzipSize, err = compressor.WriteSibling(p.TargetPath, page.HTML)
		if err != nil {
			return fail(fmt.Errorf("writing gzip page: %w", err))
		}
	}

	result.Duration = time.Since(start)
	return result
}

// printBuildReport writes one aligned line per page, failures with hints to
// stderr, and a summary line.
func printBuildReport(env *Environment, r *BuildReport, quiet, verbose bool) {
	width := 0
	for _, p := range r.Pages {
		width = max(width, runewidth.StringWidth(p.SourcePath))
	}

	var total uint64
	for _, p := range r.Pages {
		if p.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", p.SourcePath, p.Err, pageHint(p.Err))
			continue
		}
		total += uint64(p.Size)
		if !quiet {
			printPageLine(env.Stdout, p, width, verbose)
		}
	}

	if quiet {
		return
	}
	failed := r.Failed()
	fmt.Fprintf(env.Stdout, "\n%d page(s) built, %d failed, %d static file(s) copied, %s in %v\n",
		len(r.Pages)-failed, failed, r.StaticFiles, humanize.Bytes(total), r.Duration.Round(time.Millisecond))
}

func printPageLine(w io.Writer, p PageResult, width int, verbose bool) {
	line := fmt.Sprintf("  %s -> %s  %s", runewidth.FillRight(p.SourcePath, width), p.TargetPath, humanize.Bytes(uint64(p.Size)))
	if p.GzipSize > 0 {
		line += fmt.Sprintf(" (gzip %s)", humanize.Bytes(uint64(p.GzipSize)))
	}
	if verbose {
		line += fmt.Sprintf(" %v", p.Duration.Round(time.Microsecond))
	}
	fmt.Fprintln(w, line)
}
