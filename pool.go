package md2site

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent page generation.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for file writes and the dev server.
	cpuDivisor = 2
)

// GeneratorPool bounds concurrent page generation. Generators share the
// pool's options and are created lazily on first acquire, except the first
// one, which is built up front so bad options fail at construction.
type GeneratorPool struct {
	size    int
	opts    []Option
	sem     chan *Generator
	mu      sync.Mutex
	created int
	closed  bool
}

// NewGeneratorPool creates a pool with capacity for n generators.
func NewGeneratorPool(n int, opts ...Option) (*GeneratorPool, error) {
	if n < 1 {
		n = 1
	}

	first, err := NewGenerator(opts...)
	if err != nil {
		return nil, err
	}

	p := &GeneratorPool{
		size:    n,
		opts:    opts,
		sem:     make(chan *Generator, n),
		created: 1,
	}
	p.sem <- first
	return p, nil
}

// Acquire gets a generator from the pool, creating one if needed.
// Blocks until one is released or ctx is done.
func (p *GeneratorPool) Acquire(ctx context.Context) (*Generator, error) {
	// Try to get an existing generator (non-blocking)
	select {
	case g, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return g, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		g, err := NewGenerator(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}
		return g, nil
	}
	p.mu.Unlock()

	// All generators created, wait for one to be released
	select {
	case g, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return g, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a generator to the pool. The send never blocks since at
// most size generators exist, so it happens under the lock to keep it
// ordered with Close.
func (p *GeneratorPool) Release(g *Generator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || g == nil {
		return
	}
	p.sem <- g
}

// Generate acquires a generator, runs it and releases it.
func (p *GeneratorPool) Generate(ctx context.Context, input Input) (*Page, error) {
	g, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(g)
	return g.Generate(ctx, input)
}

// Close stops the pool. Waiting and later Acquire calls fail with
// ErrPoolClosed.
func (p *GeneratorPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.sem)
	return nil
}

// Size returns the pool capacity.
func (p *GeneratorPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
