package container

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// SpriteConfig is the subset of sprite.ini this codec consumes on
// encode: the target bit depth and the list of frames that carry no
// pixel data (§6 "Sprite INI (consumed on encode)"). It is modeled as a
// typed struct tree decoded with toml.Decode, the pack's idiom for
// hand-authored config (grounded on the sibling sprite codec's
// config.go), rather than a classic-INI reader.
type SpriteConfig struct {
	BitDepth struct {
		Depth int `toml:"Depth"`
	} `toml:"BitDepth"`

	Frames struct {
		PaddingFrames []int `toml:"PaddingFrames"`
	} `toml:"Frames"`
}

// LoadSpriteConfig decodes a sprite.ini-shaped TOML file at path.
func LoadSpriteConfig(path string) (SpriteConfig, error) {
	var cfg SpriteConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return SpriteConfig{}, fmt.Errorf("container: decoding sprite config %q: %w", path, err)
	}
	if cfg.BitDepth.Depth != 0 && cfg.BitDepth.Depth != 16 {
		return SpriteConfig{}, fmt.Errorf("container: encode only supports 16bpp output, got BitDepth.Depth=%d", cfg.BitDepth.Depth)
	}
	return cfg, nil
}

// IsPaddingFrame reports whether frame index i is listed as a padding
// frame in the config.
func (c SpriteConfig) IsPaddingFrame(i int) bool {
	for _, p := range c.Frames.PaddingFrames {
		if p == i {
			return true
		}
	}
	return false
}
