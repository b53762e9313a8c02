package config

import (
	"github.com/ItsNotGoodName/x-wmshell/internal/decoration"
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/output"
	"github.com/ItsNotGoodName/x-wmshell/internal/rules"
	"github.com/ItsNotGoodName/x-wmshell/internal/shell"
)

var defaultConfig = Config{
	Options: shell.Options{
		Placement: shell.PlacementCentered,
	},
	Outputs: []output.Output{
		{Name: "default", Geometry: geom.Rect{Width: 1280, Height: 1024}},
	},
	Decoration: Decoration{
		Normal:    geom.Insets{Left: 4, Top: 24, Right: 4, Bottom: 4},
		Maximized: geom.Insets{Top: 24},
	},
	Rules: []rules.Rule{},
}

// Default returns the config written on first run.
func Default() Config {
	cfg := defaultConfig
	cfg.Outputs = append([]output.Output(nil), defaultConfig.Outputs...)
	cfg.Rules = []rules.Rule{}
	return cfg
}

type Config struct {
	Options shell.Options `json:"options" yaml:"options"`
	// Outputs is the static screen layout, ignored when outputs come from
	// X11.
	Outputs    []output.Output `json:"outputs" yaml:"outputs"`
	Decoration Decoration      `json:"decoration" yaml:"decoration"`
	Rules      []rules.Rule    `json:"rules" yaml:"rules"`
}

// Decoration holds the border insets of decorated windows.
type Decoration struct {
	Normal    geom.Insets `json:"normal" yaml:"normal"`
	Maximized geom.Insets `json:"maximized" yaml:"maximized"`
}

func (d Decoration) Bridge() decoration.Static {
	return decoration.Static{Normal: d.Normal, Maximized: d.Maximized}
}

// Normalize fills in what a hand edited config left out.
func Normalize(cfg Config) Config {
	if !cfg.Options.Placement.IsValid() {
		cfg.Options.Placement = defaultConfig.Options.Placement
	}

	outputs := make([]output.Output, 0, len(cfg.Outputs))
	for _, o := range cfg.Outputs {
		if o.Geometry.IsValid() {
			outputs = append(outputs, o)
		}
	}
	if len(outputs) == 0 {
		outputs = append(outputs, defaultConfig.Outputs...)
	}
	cfg.Outputs = outputs

	if cfg.Rules == nil {
		cfg.Rules = []rules.Rule{}
	}
	return cfg
}

// Book compiles the window rules.
func (c Config) Book() (*rules.Book, error) {
	return rules.NewBook(c.Rules)
}
