package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/logger"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment, files and mock pool
// ---------------------------------------------------------------------------

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testEnv is an Environment writing to buffers.
type testEnv struct {
	*Environment
	stdout *syncBuffer
	stderr *syncBuffer
	logs   *syncBuffer
}

func newTestEnv() *testEnv {
	te := &testEnv{
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
		logs:   &syncBuffer{},
	}
	te.Environment = &Environment{
		Stdout: te.stdout,
		Stderr: te.stderr,
		Logger: logger.NewWithWriter(te.logs, logger.LevelInfo),
	}
	return te
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// testSite lays out a small site under a temp dir and returns a config
// pointing at it.
func testSite(t *testing.T) *config.Config {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "content", "index.md"), "# Home\n\nWelcome to **md2site**.")
	writeFile(t, filepath.Join(root, "content", "blog", "post.md"), "# First post\n\nBack to [home](../index.md).")
	writeFile(t, filepath.Join(root, "static", "css", "site.css"), "body { margin: 0; }")
	writeFile(t, filepath.Join(root, "static", "robots.txt"), "User-agent: *")

	cfg := config.DefaultConfig()
	cfg.Content.Dir = filepath.Join(root, "content")
	cfg.Static.Dir = filepath.Join(root, "static")
	cfg.Output.Dir = filepath.Join(root, "public")
	cfg.Build.Workers = 2
	return cfg
}

// writeSiteConfig writes cfg's directories plus extra to a YAML file and
// returns its path. A content section in extra replaces cfg's.
func writeSiteConfig(t *testing.T, cfg *config.Config, extra string) string {
	t.Helper()

	var b strings.Builder
	if !strings.Contains(extra, "content:") {
		fmt.Fprintf(&b, "content:\n  dir: %s\n", cfg.Content.Dir)
	}
	fmt.Fprintf(&b, "static:\n  dir: %s\noutput:\n  dir: %s\n", cfg.Static.Dir, cfg.Output.Dir)
	b.WriteString(extra)

	path := filepath.Join(filepath.Dir(cfg.Content.Dir), "md2site.yaml")
	writeFile(t, path, b.String())
	return path
}

// mockPool is a Pool that fails for sources listed in failOn.
type mockPool struct {
	size   int
	failOn map[string]error
	calls  int
	mu     sync.Mutex
}

var _ Pool = (*mockPool)(nil)

func (m *mockPool) Generate(_ context.Context, input md2site.Input) (*md2site.Page, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if err, ok := m.failOn[input.Markdown]; ok {
		return nil, err
	}
	return &md2site.Page{
		Title: "Mock",
		HTML:  []byte("<html><body>" + input.Markdown + "</body></html>"),
	}, nil
}

func (m *mockPool) Size() int {
	return m.size
}
