package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

type Config struct {
	SaveDirectory string   `toml:"save_directory" yaml:"save_directory"`
	StartMenu     bool     `toml:"start_menu" yaml:"start_menu"`
	Confirmations bool     `toml:"confirmations" yaml:"confirmations"`
	MaxViews      int      `toml:"max_views" yaml:"max_views"`
	FrameWidth    int      `toml:"frame_width" yaml:"frame_width"`
	FrameHeight   int      `toml:"frame_height" yaml:"frame_height"`
	FPS           int      `toml:"fps" yaml:"fps"`
	Palette       []string `toml:"palette" yaml:"palette"`
	LogLevel      string   `toml:"log_level" yaml:"log_level"`
	LogFile       string   `toml:"log_file" yaml:"log_file"`
}

var defaultPalette = []string{
	"#000000", "#ffffff", "#be2633", "#e06f8b", "#493c2b", "#a46422",
	"#eb8931", "#f7e26b", "#2f484e", "#44891a", "#a3ce27", "#1b2632",
	"#005784", "#31a2f2", "#b2dcef", "#9d9d9d",
}

func defaultConfig() *Config {
	return &Config{
		StartMenu:     true,
		Confirmations: true,
		MaxViews:      defaultMaxViews,
		FrameWidth:    defaultFrameWidth,
		FrameHeight:   defaultFrameHeight,
		FPS:           defaultFPS,
		Palette:       defaultPalette,
		LogLevel:      "info",
	}
}

func configPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".spritelyrc")
}

// loadConfig reads ~/.spritelyrc, falling back to defaults when it is missing
// or unreadable.
func loadConfig() *Config {
	path := configPath()
	if path == "" {
		return defaultConfig()
	}
	config, err := loadConfigFrom(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("config ignored", "path", path, "err", err)
		}
		return defaultConfig()
	}
	return config
}

// loadConfigFrom decodes YAML for .yaml/.yml files and TOML otherwise.
func loadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config := defaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	}
	config.normalize()
	return config, nil
}

func (c *Config) normalize() {
	if c.SaveDirectory != "" {
		value := c.SaveDirectory
		if strings.HasPrefix(value, "~") {
			if homeDir, err := os.UserHomeDir(); err == nil {
				value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
			}
		}
		if !filepath.IsAbs(value) {
			if absPath, err := filepath.Abs(value); err == nil {
				value = absPath
			}
		}
		c.SaveDirectory = value
	}
	if c.MaxViews < 1 {
		c.MaxViews = defaultMaxViews
	}
	if c.FrameWidth < 1 {
		c.FrameWidth = defaultFrameWidth
	}
	if c.FrameHeight < 1 {
		c.FrameHeight = defaultFrameHeight
	}
	if c.FPS < 1 {
		c.FPS = defaultFPS
	}
	if len(c.Palette) == 0 {
		c.Palette = defaultPalette
	}
}

// Colors returns the palette, skipping entries that do not parse.
func (c *Config) Colors() []color.RGBA {
	var colors []color.RGBA
	for _, s := range c.Palette {
		if col, err := parseHexColor(s); err == nil {
			colors = append(colors, col)
		}
	}
	if len(colors) == 0 {
		colors = append(colors, color.RGBA{A: 0xff})
	}
	return colors
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

type configReloadedMsg struct {
	config *Config
}

type configErrorMsg struct {
	err error
}

// watchConfig reloads the config file when it changes and hands the result to
// send, so reloads go through the same update loop as key presses.
func watchConfig(path string, send func(tea.Msg)) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}

	go func() {
		var debounce *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filepath.Base(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(100*time.Millisecond, func() {
					config, err := loadConfigFrom(path)
					if err != nil {
						send(configErrorMsg{err: err})
						return
					}
					send(configReloadedMsg{config: config})
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				send(configErrorMsg{err: err})
			}
		}
	}()
	return watcher.Close, nil
}
