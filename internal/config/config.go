package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Cache       CacheConfig       `yaml:"cache"`
	Season      SeasonConfig      `yaml:"season"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Actions     map[string]int    `yaml:"actions"`
}

type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
	FeedURL string `yaml:"feed_url"`
	Token   string `yaml:"token"`
}

type CacheConfig struct {
	Dir string `yaml:"dir"`
}

type SeasonConfig struct {
	Name   string    `yaml:"name"`
	EndsAt time.Time `yaml:"ends_at"`
}

type LeaderboardConfig struct {
	Limit int `yaml:"limit"`
}

// Load reads the config file and overlays it on the compiled-in defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			BaseURL: "http://127.0.0.1:8080",
			FeedURL: "ws://127.0.0.1:8080/ws/feed",
		},
		Leaderboard: LeaderboardConfig{
			Limit: 25,
		},
		Actions: map[string]int{
			"door_knocked":    10,
			"appointment_set": 25,
			"inspection_done": 40,
			"claim_closed":    100,
			"default":         10,
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// XPForAction returns the XP granted for an action type, falling back to the
// "default" entry for unlisted actions.
func (c *Config) XPForAction(action string) int {
	if n, ok := c.Actions[action]; ok {
		return n
	}
	if n, ok := c.Actions["default"]; ok {
		return n
	}
	return 10
}
