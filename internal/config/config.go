// Package config loads the grove TOML config, writing the defaults on
// first run so users have a file to edit.
package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	ConfigFileName = "config.toml"
	DefaultDBName  = "grove.db"
	DefaultLogName = "grove.log"
)

type Keymap struct {
	Quit      string `toml:"quit"`
	Add       string `toml:"add"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Toggle    string `toml:"toggle"`
	Delete    string `toml:"delete"`
	Detail    string `toml:"detail"`
	Confirm   string `toml:"confirm"`
	Cancel    string `toml:"cancel"`
	Edit      string `toml:"edit"`
	DayBack   string `toml:"day_back"`
	DayAhead  string `toml:"day_ahead"`
	Today     string `toml:"today"`
	Calendar  string `toml:"calendar"`
	GoalList  string `toml:"goal_list"`
	Palette   string `toml:"palette"`
	Help      string `toml:"help"`
	Increment string `toml:"increment"`
	Decrement string `toml:"decrement"`
}

type Config struct {
	DBPath      string `toml:"db_path"`
	LogPath     string `toml:"log_path"`
	LogLevel    string `toml:"log_level"`
	DefaultView string `toml:"default_view"`
	Keys        Keymap `toml:"keys"`
}

// Dir returns the grove config directory, created if missing.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "grove")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.DefaultView == "" {
		cfg.DefaultView = "today"
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:      filepath.Join(dir, DefaultDBName),
		LogPath:     filepath.Join(dir, DefaultLogName),
		LogLevel:    "info",
		DefaultView: "today",
		Keys: Keymap{
			Quit:      "q",
			Add:       "a",
			Up:        "k",
			Down:      "j",
			Toggle:    " ",
			Delete:    "d",
			Detail:    "enter",
			Confirm:   "enter",
			Cancel:    "esc",
			Edit:      "e",
			DayBack:   "[",
			DayAhead:  "]",
			Today:     "t",
			Calendar:  "c",
			GoalList:  "g",
			Palette:   ":",
			Help:      "?",
			Increment: "+",
			Decrement: "-",
		},
	}
}
