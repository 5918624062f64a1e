package config

import (
	"github.com/cwbudde/fiducialfit/internal/fit"
	"github.com/cwbudde/fiducialfit/internal/prep"
)

// Config is the top-level configuration file
type Config struct {
	LogLevel string      `yaml:"log_level"`
	Fit      fit.Config  `yaml:"fit"`
	Image    ImageConfig `yaml:"image"`
	Overlay  Overlay     `yaml:"overlay"`
	Store    Store       `yaml:"store"`
}

// ImageConfig describes how a photograph becomes a grid
type ImageConfig struct {
	Crop      string  `yaml:"crop"` // "x0,y0,x1,y1", empty keeps the whole image
	Soften    float64 `yaml:"soften"`
	Threshold float64 `yaml:"threshold"`
	Invert    bool    `yaml:"invert"`
}

// Overlay configures the optional overlay image
type Overlay struct {
	Path      string  `yaml:"path"`
	Color     string  `yaml:"color"`
	Opacity   float64 `yaml:"opacity"`
	Thickness float64 `yaml:"thickness"`

	// Points also marks every extracted boundary pixel in PointColor
	Points     bool   `yaml:"points"`
	PointColor string `yaml:"point_color"`
}

// Store configures run persistence
type Store struct {
	DataDir string `yaml:"data_dir"`
	Save    bool   `yaml:"save"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Fit:      fit.DefaultConfig(),
		Image: ImageConfig{
			Threshold: prep.DefaultOptions().Threshold,
		},
		Overlay: Overlay{
			Color:      "#ff0000",
			Opacity:    0.9,
			Thickness:  2,
			PointColor: "#00ff00",
		},
		Store: Store{
			DataDir: "./data",
		},
	}
}

// PrepOptions converts the image section into preparation options
func (c *Config) PrepOptions() (prep.Options, error) {
	opts := prep.Options{
		Soften:    c.Image.Soften,
		Threshold: c.Image.Threshold,
		Invert:    c.Image.Invert,
	}
	if c.Image.Crop != "" {
		r, err := prep.ParseRect(c.Image.Crop)
		if err != nil {
			return opts, err
		}
		opts.Crop = r
	}
	return opts, nil
}
