package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/precompress"
)

// ---------------------------------------------------------------------------
// TestBuildSite - End to end build of a small site
// ---------------------------------------------------------------------------

func TestBuildSite(t *testing.T) {
	t.Parallel()

	cfg := testSite(t)
	cfg.Render.RewriteLinks = true

	// Stale output is removed.
	writeFile(t, filepath.Join(cfg.Output.Dir, "stale.html"), "old")

	report, err := buildSite(t.Context(), cfg, newTestEnv().Logger)
	if err != nil {
		t.Fatalf("buildSite() unexpected error: %v", err)
	}

	if report.Failed() != 0 {
		t.Fatalf("Failed() = %d, want 0: %+v", report.Failed(), report.Pages)
	}
	if report.StaticFiles != 2 {
		t.Errorf("StaticFiles = %d, want 2", report.StaticFiles)
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, "stale.html")); !os.IsNotExist(err) {
		t.Error("stale.html should have been removed")
	}
	for _, rel := range []string{"css/site.css", "robots.txt", "index.html", "blog/post.html"} {
		if _, err := os.Stat(filepath.Join(cfg.Output.Dir, rel)); err != nil {
			t.Errorf("missing output %s: %v", rel, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "blog", "post.html"))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Find("title").Text(); got != "First post" {
		t.Errorf("title = %q, want %q", got, "First post")
	}
	if got, _ := doc.Find("article a").Attr("href"); got != "../index.html" {
		t.Errorf("link href = %q, want %q", got, "../index.html")
	}
	if doc.Find("head style").Length() != 1 {
		t.Error("default style should be inlined in <head>")
	}
}

func TestBuildSite_Gzip(t *testing.T) {
	t.Parallel()

	cfg := testSite(t)
	cfg.Output.Gzip = true

	report, err := buildSite(t.Context(), cfg, newTestEnv().Logger)
	if err != nil {
		t.Fatalf("buildSite() unexpected error: %v", err)
	}

	for _, p := range report.Pages {
		if p.GzipSize == 0 {
			t.Errorf("%s: GzipSize = 0, want compressed sibling", p.SourcePath)
			continue
		}
		if _, err := os.Stat(p.TargetPath + precompress.Suffix); err != nil {
			t.Errorf("missing %s%s: %v", p.TargetPath, precompress.Suffix, err)
		}
	}
}

func TestBuildSite_PageFailuresAreReported(t *testing.T) {
	t.Parallel()

	cfg := testSite(t)
	writeFile(t, filepath.Join(cfg.Content.Dir, "broken.md"), "# Broken\n\nsome **bold text")
	writeFile(t, filepath.Join(cfg.Content.Dir, "untitled.md"), "no heading here")

	report, err := buildSite(t.Context(), cfg, newTestEnv().Logger)
	if err != nil {
		t.Fatalf("buildSite() unexpected error: %v", err)
	}
	if report.Failed() != 2 {
		t.Fatalf("Failed() = %d, want 2", report.Failed())
	}

	byName := map[string]error{}
	for _, p := range report.Pages {
		byName[filepath.Base(p.SourcePath)] = p.Err
	}
	if !errors.Is(byName["broken.md"], md2site.ErrUnbalancedDelimiter) {
		t.Errorf("broken.md error = %v, want %v", byName["broken.md"], md2site.ErrUnbalancedDelimiter)
	}
	if !errors.Is(byName["untitled.md"], md2site.ErrNoTitle) {
		t.Errorf("untitled.md error = %v, want %v", byName["untitled.md"], md2site.ErrNoTitle)
	}
	if byName["index.md"] != nil {
		t.Errorf("index.md error = %v, want nil", byName["index.md"])
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, "broken.html")); !os.IsNotExist(err) {
		t.Error("failed page should not be written")
	}
}

func TestBuildSite_SetupErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(dir string, cfgContent, cfgStyle, cfgOutput *string)
		wantErr error
	}{
		{
			name: "missing content",
			mutate: func(dir string, content, _, _ *string) {
				*content = filepath.Join(dir, "nowhere")
			},
			wantErr: ErrContentDir,
		},
		{
			name: "unknown style",
			mutate: func(_ string, _, style, _ *string) {
				*style = "neon"
			},
			wantErr: md2site.ErrStyleNotFound,
		},
		{
			name: "unsafe output",
			mutate: func(_ string, _, _, output *string) {
				*output = "."
			},
			wantErr: ErrOutputDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testSite(t)
			tt.mutate(filepath.Dir(cfg.Content.Dir), &cfg.Content.Dir, &cfg.Style.Name, &cfg.Output.Dir)

			_, err := buildSite(t.Context(), cfg, newTestEnv().Logger)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("buildSite() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildSite_OutputOverlapsSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output func(root string) string
	}{
		{"content with trailing slash", func(root string) string { return filepath.Join(root, "content") + string(filepath.Separator) }},
		{"content via parent segment", func(root string) string {
			sep := string(filepath.Separator)
			return root + sep + "content" + sep + "blog" + sep + ".."
		}},
		{"parent of content", func(root string) string { return root }},
		{"inside content", func(root string) string { return filepath.Join(root, "content", "public") }},
		{"static", func(root string) string { return filepath.Join(root, "static") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testSite(t)
			root := filepath.Dir(cfg.Content.Dir)
			cfg.Output.Dir = tt.output(root)

			_, err := buildSite(t.Context(), cfg, newTestEnv().Logger)
			if !errors.Is(err, ErrOutputDir) {
				t.Fatalf("buildSite() error = %v, want %v", err, ErrOutputDir)
			}
			for _, src := range []string{
				filepath.Join(root, "content", "index.md"),
				filepath.Join(root, "content", "blog", "post.md"),
				filepath.Join(root, "static", "robots.txt"),
			} {
				if _, err := os.Stat(src); err != nil {
					t.Errorf("source %s removed: %v", src, err)
				}
			}
		})
	}
}

func TestBuildSite_NoStaticDir(t *testing.T) {
	t.Parallel()

	cfg := testSite(t)
	cfg.Static.Dir = filepath.Join(t.TempDir(), "absent")

	report, err := buildSite(t.Context(), cfg, newTestEnv().Logger)
	if err != nil {
		t.Fatalf("buildSite() unexpected error: %v", err)
	}
	if report.StaticFiles != 0 || len(report.Pages) != 2 {
		t.Errorf("StaticFiles = %d, pages = %d, want 0 and 2", report.StaticFiles, len(report.Pages))
	}
}

// ---------------------------------------------------------------------------
// TestDiscoverPages - Source to target mapping
// ---------------------------------------------------------------------------

func TestDiscoverPages(t *testing.T) {
	t.Parallel()

	cfg := testSite(t)
	writeFile(t, filepath.Join(cfg.Content.Dir, ".drafts", "wip.md"), "# WIP")
	writeFile(t, filepath.Join(cfg.Content.Dir, "notes.txt"), "not a page")

	got, err := discoverPages(cfg.Content.Dir, cfg.Output.Dir)
	if err != nil {
		t.Fatalf("discoverPages() unexpected error: %v", err)
	}

	want := []PageToBuild{
		{
			SourcePath: filepath.Join(cfg.Content.Dir, "blog", "post.md"),
			TargetPath: filepath.Join(cfg.Output.Dir, "blog", "post.html"),
		},
		{
			SourcePath: filepath.Join(cfg.Content.Dir, "index.md"),
			TargetPath: filepath.Join(cfg.Output.Dir, "index.html"),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("discoverPages() mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestGenerateBatch - Concurrent generation with a mock pool
// ---------------------------------------------------------------------------

func TestGenerateBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var pages []PageToBuild
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		src := filepath.Join(dir, "src", name+".md")
		writeFile(t, src, name)
		pages = append(pages, PageToBuild{SourcePath: src, TargetPath: filepath.Join(dir, "out", name+".html")})
	}

	pool := &mockPool{size: 2, failOn: map[string]error{"c": md2site.ErrNoTitle}}
	results := generateBatch(t.Context(), pool, pages, nil)

	if pool.calls != len(pages) {
		t.Errorf("pool calls = %d, want %d", pool.calls, len(pages))
	}
	want := []PageResult{
		{SourcePath: pages[0].SourcePath, TargetPath: pages[0].TargetPath, Title: "Mock"},
		{SourcePath: pages[1].SourcePath, TargetPath: pages[1].TargetPath, Title: "Mock"},
		{SourcePath: pages[2].SourcePath, TargetPath: pages[2].TargetPath},
		{SourcePath: pages[3].SourcePath, TargetPath: pages[3].TargetPath, Title: "Mock"},
		{SourcePath: pages[4].SourcePath, TargetPath: pages[4].TargetPath, Title: "Mock"},
	}
	opts := cmp.Options{
		cmpopts.IgnoreFields(PageResult{}, "Size", "Duration", "Err"),
	}
	if diff := cmp.Diff(want, results, opts); diff != "" {
		t.Errorf("generateBatch() mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(results[2].Err, md2site.ErrNoTitle) {
		t.Errorf("results[2].Err = %v, want %v", results[2].Err, md2site.ErrNoTitle)
	}

	html, err := os.ReadFile(pages[0].TargetPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(html) != "<html><body>a</body></html>" {
		t.Errorf("a.html = %q", html)
	}
}

func TestGenerateBatch_CanceledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.md")
	writeFile(t, src, "a")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	pool := &mockPool{size: 1}
	results := generateBatch(ctx, pool, []PageToBuild{{SourcePath: src, TargetPath: filepath.Join(dir, "a.html")}}, nil)
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("Err = %v, want %v", results[0].Err, context.Canceled)
	}
	if pool.calls != 0 {
		t.Errorf("pool calls = %d, want 0", pool.calls)
	}
}

func TestGenerateBatch_Empty(t *testing.T) {
	t.Parallel()

	if got := generateBatch(t.Context(), &mockPool{size: 4}, nil, nil); got != nil {
		t.Errorf("generateBatch(nil) = %v, want nil", got)
	}
}

// ---------------------------------------------------------------------------
// TestPrintBuildReport - Output formatting
// ---------------------------------------------------------------------------

func TestPrintBuildReport(t *testing.T) {
	t.Parallel()

	report := &BuildReport{
		StaticFiles: 3,
		Duration:    1500 * time.Millisecond,
		Pages: []PageResult{
			{SourcePath: "content/index.md", TargetPath: "public/index.html", Size: 2048, GzipSize: 900},
			{SourcePath: "content/blog/long-post.md", TargetPath: "public/blog/long-post.html", Size: 100},
			{SourcePath: "content/bad.md", TargetPath: "public/bad.html", Err: md2site.ErrNoTitle},
		},
	}

	t.Run("normal", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv()
		printBuildReport(env.Environment, report, false, false)

		out := env.stdout.String()
		for _, want := range []string{
			"content/index.md          -> public/index.html  2.0 kB (gzip 900 B)",
			"content/blog/long-post.md -> public/blog/long-post.html  100 B",
			"2 page(s) built, 1 failed, 3 static file(s) copied, 2.1 kB in 1.5s",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("stdout missing %q:\n%s", want, out)
			}
		}
		if !strings.Contains(env.stderr.String(), "FAILED content/bad.md") {
			t.Errorf("stderr = %q, want failure line", env.stderr.String())
		}
		if !strings.Contains(env.stderr.String(), "hint:") {
			t.Errorf("stderr = %q, want hint", env.stderr.String())
		}
	})

	t.Run("quiet", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv()
		printBuildReport(env.Environment, report, true, false)

		if env.stdout.String() != "" {
			t.Errorf("quiet stdout = %q, want empty", env.stdout.String())
		}
		if !strings.Contains(env.stderr.String(), "FAILED") {
			t.Error("quiet mode must still report failures")
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunBuildCmd - Command entry point
// ---------------------------------------------------------------------------

func TestRunBuildCmd_OutputIsContent(t *testing.T) {
	t.Parallel()

	cfg := testSite(t)
	path := writeSiteConfig(t, cfg, "")

	err := runBuildCmd(t.Context(), []string{"-c", path, "-o", cfg.Content.Dir + "/"}, newTestEnv().Environment)
	if !errors.Is(err, config.ErrInvalidValue) {
		t.Fatalf("runBuildCmd() error = %v, want %v", err, config.ErrInvalidValue)
	}
	if _, err := os.Stat(filepath.Join(cfg.Content.Dir, "index.md")); err != nil {
		t.Errorf("content/index.md removed: %v", err)
	}
}

func TestRunBuildCmd(t *testing.T) {
	t.Parallel()

	cfg := testSite(t)
	path := writeSiteConfig(t, cfg, "")

	env := newTestEnv()
	if err := runBuildCmd(t.Context(), []string{"--config", path, "--style", "none"}, env.Environment); err != nil {
		t.Fatalf("runBuildCmd() unexpected error: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "2 page(s) built, 0 failed") {
		t.Errorf("stdout = %q", env.stdout.String())
	}

	data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "<style>") {
		t.Error("--style none should produce pages without CSS")
	}
}

func TestRunBuildCmd_FailedPages(t *testing.T) {
	t.Parallel()

	cfg := testSite(t)
	writeFile(t, filepath.Join(cfg.Content.Dir, "bad.md"), "# Bad\n\n`unclosed")
	path := writeSiteConfig(t, cfg, "")

	err := runBuildCmd(t.Context(), []string{"-c", path, "-q"}, newTestEnv().Environment)
	if !errors.Is(err, ErrPagesFailed) {
		t.Fatalf("runBuildCmd() error = %v, want %v", err, ErrPagesFailed)
	}
	if exitCodeFor(err) != ExitRender {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitRender)
	}
}
