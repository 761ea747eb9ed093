package gfx

import (
	"fmt"
	"image"
)

// Pool decorates a Loader and keeps count of every texture it hands out.
// It is used at shutdown to report leaks and by tests to verify that each
// texture is released exactly once.
type Pool struct {
	loader   Loader
	live     map[*pooled]struct{}
	loaded   int
	released int
}

// pooled is a texture handed out by a Pool.
type pooled struct {
	Texture
	pool     *Pool
	released bool
}

// NewPool wraps loader with release tracking.
func NewPool(loader Loader) *Pool {
	return &Pool{
		loader: loader,
		live:   make(map[*pooled]struct{}),
	}
}

// Load loads img through the wrapped loader and tracks the result.
func (p *Pool) Load(img image.Image) (Texture, error) {
	tex, err := p.loader.Load(img)
	if err != nil {
		return nil, err
	}
	t := &pooled{Texture: tex, pool: p}
	p.live[t] = struct{}{}
	p.loaded++
	return t, nil
}

// Release frees the underlying texture once; later calls return ErrReleased.
func (t *pooled) Release() error {
	if t.released {
		return ErrReleased
	}
	t.released = true
	delete(t.pool.live, t)
	t.pool.released++
	if err := t.Texture.Release(); err != nil {
		return fmt.Errorf("gfx: release: %w", err)
	}
	return nil
}

// Unwrap returns the backend texture.
func (t *pooled) Unwrap() Texture {
	return t.Texture
}

// Live returns the number of textures loaded but not yet released.
func (p *Pool) Live() int {
	return len(p.live)
}

// Loaded returns the total number of textures ever loaded.
func (p *Pool) Loaded() int {
	return p.loaded
}

// Released returns the total number of successful releases.
func (p *Pool) Released() int {
	return p.released
}
