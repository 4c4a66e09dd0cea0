// Package config holds decorator settings loaded from YAML with defaults
// applied for anything the file leaves out.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// PictureWidths are the responsive widths handed to the optimized
	// picture builder, largest first.
	PictureWidths []int `yaml:"pictureWidths"`

	// Workers bounds the CLI fan-out over input documents.
	Workers int `yaml:"workers"`

	Carousel Carousel `yaml:"carousel"`
	Hero     Hero     `yaml:"hero"`
	Messages Messages `yaml:"messages"`
}

type Carousel struct {
	// VisibilityThreshold is the intersection ratio at which a slide made
	// visible by outside forces is adopted as the current slide.
	VisibilityThreshold float64 `yaml:"visibilityThreshold"`

	// ThumbnailWidth sizes the thumbnail strip images.
	ThumbnailWidth int `yaml:"thumbnailWidth"`
}

type Hero struct {
	// QRFallback adds a QR badge linking to the source video on the static
	// reduced-motion presentation. Meant for kiosk/signage deployments.
	QRFallback bool `yaml:"qrFallback"`

	// QRSize is the badge edge length in pixels.
	QRSize int `yaml:"qrSize"`
}

// Messages are the localized user-facing strings shown in place of a block
// when decoration cannot proceed.
type Messages struct {
	VideoRequired    string `yaml:"videoRequired"`
	BlockUnavailable string `yaml:"blockUnavailable"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		PictureWidths: []int{1200, 750},
		Workers:       runtime.NumCPU(),
		Carousel: Carousel{
			VisibilityThreshold: 0.5,
			ThumbnailWidth:      150,
		},
		Hero: Hero{
			QRFallback: false,
			QRSize:     256,
		},
		Messages: Messages{
			VideoRequired:    "A video URL is required for this block.",
			BlockUnavailable: "This content is currently unavailable.",
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize clamps values a hand-edited file may leave out of range.
func (c *Config) normalize() {
	if len(c.PictureWidths) == 0 {
		c.PictureWidths = Default().PictureWidths
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Carousel.VisibilityThreshold <= 0 || c.Carousel.VisibilityThreshold > 1 {
		c.Carousel.VisibilityThreshold = 0.5
	}
	if c.Carousel.ThumbnailWidth < 1 {
		c.Carousel.ThumbnailWidth = 150
	}
	if c.Hero.QRSize < 64 {
		c.Hero.QRSize = 256
	}
	if c.Messages.VideoRequired == "" {
		c.Messages.VideoRequired = Default().Messages.VideoRequired
	}
	if c.Messages.BlockUnavailable == "" {
		c.Messages.BlockUnavailable = Default().Messages.BlockUnavailable
	}
}
