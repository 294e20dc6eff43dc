// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"sync"
)

// textureRetainFrames is the number of frames an unused texture survives
// before it is destroyed.
const textureRetainFrames = 3

// CachedTexture is a texture handed out by a TextureCache together with a
// default view over it. The view identity is stable for the lifetime of
// the texture.
type CachedTexture struct {
	Texture     Texture
	DefaultView TextureView
}

// IsZero reports whether ct holds no texture.
func (ct CachedTexture) IsZero() bool { return ct.Texture == nil }

// textureEntry is one pooled texture.
type textureEntry struct {
	texture CachedTexture
	taken   bool
	idle    int // frames since last use
}

// TextureCache hands out textures by descriptor and reuses them across
// frames. A texture is handed out at most once per frame; a second request
// for the same descriptor in the same frame allocates another texture.
// Textures unused for textureRetainFrames frames are destroyed by Update.
//
// TextureCache is safe for concurrent use.
type TextureCache struct {
	device Device

	mu       sync.Mutex
	textures map[TextureDescriptor][]*textureEntry
}

// NewTextureCache creates an empty texture cache.
func NewTextureCache(device Device) *TextureCache {
	return &TextureCache{
		device:   device,
		textures: make(map[TextureDescriptor][]*textureEntry),
	}
}

// Get returns a texture matching desc that has not been handed out this
// frame, creating one if none is free.
func (c *TextureCache) Get(desc TextureDescriptor) (CachedTexture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.textures[desc] {
		if !e.taken {
			e.taken = true
			e.idle = 0
			return e.texture, nil
		}
	}

	tex, err := c.device.CreateTexture(&desc)
	if err != nil {
		return CachedTexture{}, fmt.Errorf("render: create texture %q: %w", desc.Label, err)
	}
	view, err := tex.CreateView()
	if err != nil {
		tex.Destroy()
		return CachedTexture{}, fmt.Errorf("render: create view %q: %w", desc.Label, err)
	}

	ct := CachedTexture{Texture: tex, DefaultView: view}
	c.textures[desc] = append(c.textures[desc], &textureEntry{texture: ct, taken: true})
	slogger().Debug("render: texture allocated",
		"label", desc.Label, "width", desc.Width, "height", desc.Height, "id", tex.ID())
	return ct, nil
}

// Update ends a frame: every texture becomes free again and textures idle
// for more than textureRetainFrames frames are destroyed.
func (c *TextureCache) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for desc, entries := range c.textures {
		kept := entries[:0]
		for _, e := range entries {
			if !e.taken {
				e.idle++
			}
			e.taken = false
			if e.idle > textureRetainFrames {
				e.texture.DefaultView.Destroy()
				e.texture.Texture.Destroy()
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(c.textures, desc)
		} else {
			c.textures[desc] = kept
		}
	}
}

// Len returns the number of pooled textures.
func (c *TextureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, entries := range c.textures {
		n += len(entries)
	}
	return n
}

// DestroyAll destroys every pooled texture.
func (c *TextureCache) DestroyAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entries := range c.textures {
		for _, e := range entries {
			e.texture.DefaultView.Destroy()
			e.texture.Texture.Destroy()
		}
	}
	c.textures = make(map[TextureDescriptor][]*textureEntry)
}
