package md2site

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire(context.Context) (*Generator, error)
	Release(*Generator)
	Size() int
	Close() error
} = (*GeneratorPool)(nil)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit takes priority", 4, 4},
		{"explicit=1 for sequential", 1, 1},
		{"explicit can exceed max", 20, 20},
		{"zero uses auto calculation", 0, min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
		{"negative uses auto calculation", -1, min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestNewGeneratorPool(t *testing.T) {
	t.Parallel()

	t.Run("size below one is clamped", func(t *testing.T) {
		t.Parallel()

		p, err := NewGeneratorPool(0)
		if err != nil {
			t.Fatalf("NewGeneratorPool() error: %v", err)
		}
		defer p.Close()
		if p.Size() != 1 {
			t.Errorf("Size() = %d, want 1", p.Size())
		}
	})

	t.Run("invalid options fail up front", func(t *testing.T) {
		t.Parallel()

		_, err := NewGeneratorPool(2, WithEngine("nope"))
		if !errors.Is(err, ErrUnknownEngine) {
			t.Errorf("NewGeneratorPool() error = %v, want %v", err, ErrUnknownEngine)
		}
	})
}

func TestGeneratorPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	p, err := NewGeneratorPool(2)
	if err != nil {
		t.Fatalf("NewGeneratorPool() error: %v", err)
	}
	defer p.Close()

	ctx := context.Background()
	g1, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	g2, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	if g1 == g2 {
		t.Error("Acquire() returned the same generator twice")
	}

	// Pool exhausted: a bounded wait must time out.
	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := p.Acquire(waitCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() on exhausted pool error = %v, want %v", err, context.DeadlineExceeded)
	}

	p.Release(g1)
	g3, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() after Release error: %v", err)
	}
	if g3 != g1 {
		t.Error("Acquire() did not reuse the released generator")
	}
}

func TestGeneratorPool_Close(t *testing.T) {
	t.Parallel()

	p, err := NewGeneratorPool(1)
	if err != nil {
		t.Fatalf("NewGeneratorPool() error: %v", err)
	}
	g, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}

	p.Release(g) // must not panic
	if _, err := p.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want %v", err, ErrPoolClosed)
	}
}

func TestGeneratorPool_ConcurrentGenerate(t *testing.T) {
	t.Parallel()

	p, err := NewGeneratorPool(3, WithTemplate("{{ Title }}:{{ Content }}"), WithStyle(NoStyle))
	if err != nil {
		t.Fatalf("NewGeneratorPool() error: %v", err)
	}
	defer p.Close()

	const pages = 20
	var wg sync.WaitGroup
	errs := make(chan error, pages)
	for i := range pages {
		wg.Add(1)
		go func() {
			defer wg.Done()

			title := fmt.Sprintf("Page %d", i)
			page, err := p.Generate(context.Background(), Input{Markdown: "# " + title})
			if err != nil {
				errs <- err
				return
			}
			want := title + ":<div><h1>" + title + "</h1></div>"
			if string(page.HTML) != want {
				errs <- fmt.Errorf("page %d: got %q, want %q", i, page.HTML, want)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
