// Package config handles roomfolio configuration loading and saving.
package config

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/roomfolio/pkg/interact"
	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/render"
	"github.com/taigrr/roomfolio/pkg/zoom"
)

// AboutMeKey names the texture shown on the about-me screen rather than
// baked into the atlas.
const AboutMeKey = "AboutMe"

// Config holds all settings.
type Config struct {
	Display DisplayConfig  `yaml:"display"`
	Scene   SceneConfig    `yaml:"scene"`
	Links   []LinkConfig   `yaml:"links"`
	Zoom    []PresetConfig `yaml:"zoom"`
	Logging LoggingConfig  `yaml:"logging"`
}

// DisplayConfig holds terminal rendering settings.
type DisplayConfig struct {
	FPS        int     `yaml:"fps"`
	FOV        float64 `yaml:"fov"`
	Background string  `yaml:"background"`
}

// SceneConfig lists the room's assets. Relative paths resolve against
// the working directory.
type SceneConfig struct {
	Model string `yaml:"model"`
	// Textures are baked atlases matched against node names in order.
	Textures []TextureConfig `yaml:"textures"`
	Video    string          `yaml:"video"`
	Audio    string          `yaml:"audio"`
	Volume   float64         `yaml:"volume"`
	Mute     bool            `yaml:"mute"`
}

// TextureConfig binds a name key to an image file.
type TextureConfig struct {
	Key  string `yaml:"key"`
	Path string `yaml:"path"`
}

// LinkConfig is an external link opened by clicking a named node.
type LinkConfig struct {
	Key string `yaml:"key"`
	URL string `yaml:"url"`
}

// PresetConfig is a camera zoom preset.
type PresetConfig struct {
	Name   string     `yaml:"name"`
	Camera [3]float64 `yaml:"camera,flow"`
	Target [3]float64 `yaml:"target,flow"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a Config with the room's stock assets, links and
// presets.
func Default() *Config {
	cfg := &Config{
		Display: DisplayConfig{
			FPS:        30,
			FOV:        35,
			Background: "#0a0a0a",
		},
		Scene: SceneConfig{
			Model: "assets/room.glb",
			Textures: []TextureConfig{
				{"First", "assets/textures/Final_FirstTexture.webp"},
				{"Second", "assets/textures/Final_Second_Texture.webp"},
				{"Third", "assets/textures/ThirdTexture.webp"},
				{"Fourth", "assets/textures/Fourth_Texture.webp"},
				{"Outside", "assets/textures/Outside.webp"},
				{"Sixth", "assets/textures/SixthTexture_Final.webp"},
				{"Seven", "assets/textures/Seventh.webp"},
				{"Eighth", "assets/textures/Eighth.webp"},
				{AboutMeKey, "assets/textures/about_me3.png"},
			},
			Video:  "assets/video/monitor.gif",
			Audio:  "assets/audio/background.wav",
			Volume: 0.1,
		},
		Logging: LoggingConfig{Level: "info"},
	}
	for _, l := range interact.DefaultLinks {
		cfg.Links = append(cfg.Links, LinkConfig{Key: l.Key, URL: l.URL})
	}
	for _, p := range zoom.DefaultPresets {
		cfg.Zoom = append(cfg.Zoom, PresetConfig{
			Name:   p.Name,
			Camera: [3]float64{p.Camera.X, p.Camera.Y, p.Camera.Z},
			Target: [3]float64{p.Target.X, p.Target.Y, p.Target.Z},
		})
	}
	return cfg
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Display.FPS <= 0 || c.Display.FPS > 240 {
		return fmt.Errorf("display.fps %d out of range 1..240", c.Display.FPS)
	}
	if c.Display.FOV <= 0 || c.Display.FOV >= 180 {
		return fmt.Errorf("display.fov %v out of range", c.Display.FOV)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	if c.Scene.Volume < 0 || c.Scene.Volume > 1 {
		return fmt.Errorf("scene.volume %v out of range 0..1", c.Scene.Volume)
	}
	seen := make(map[string]bool)
	for _, p := range c.Zoom {
		if p.Name == "" {
			return fmt.Errorf("zoom preset without a name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate zoom preset %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// BackgroundColor parses the display background.
func (c *Config) BackgroundColor() (render.Color, error) {
	col, err := colorful.Hex(c.Display.Background)
	if err != nil {
		return render.Color{}, fmt.Errorf("display.background: %w", err)
	}
	r, g, b := col.RGB255()
	return render.RGB(r, g, b), nil
}

// Presets converts the zoom section.
func (c *Config) Presets() []zoom.Preset {
	out := make([]zoom.Preset, 0, len(c.Zoom))
	for _, p := range c.Zoom {
		out = append(out, zoom.Preset{
			Name:   p.Name,
			Camera: math3d.V3(p.Camera[0], p.Camera[1], p.Camera[2]),
			Target: math3d.V3(p.Target[0], p.Target[1], p.Target[2]),
		})
	}
	return out
}

// LinkTable converts the links section, keeping its order.
func (c *Config) LinkTable() []interact.Link {
	out := make([]interact.Link, 0, len(c.Links))
	for _, l := range c.Links {
		out = append(out, interact.Link{Key: l.Key, URL: l.URL})
	}
	return out
}

// Atlas returns the baked textures, leaving out the about-me image.
func (c *Config) Atlas() []TextureConfig {
	var out []TextureConfig
	for _, t := range c.Scene.Textures {
		if t.Key != AboutMeKey {
			out = append(out, t)
		}
	}
	return out
}

// AboutMe returns the about-me image path, if configured.
func (c *Config) AboutMe() (string, bool) {
	for _, t := range c.Scene.Textures {
		if t.Key == AboutMeKey {
			return t.Path, true
		}
	}
	return "", false
}
