package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"StaminaSentinel/internal/model"
)

// GameConfig holds one game account plus its notification policies, keyed by
// resource-type tag.
type GameConfig struct {
	Enabled bool   `yaml:"enabled"`
	UID     string `yaml:"uid"`
	Region  string `yaml:"region"`
	Cookie  string `yaml:"cookie"`
	Token   string `yaml:"token"`

	Notifications map[string]model.ResourceNotificationConfig `yaml:"notifications"`
}

// Config holds all application configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	Locale     string `yaml:"locale"`
	Timezone   string `yaml:"timezone"`
	Proxy      string `yaml:"proxy"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`

	Schedule struct {
		PollCron    string `yaml:"poll_cron"`
		TickSeconds int    `yaml:"tick_seconds"`
	} `yaml:"schedule"`

	API struct {
		HoyolabBaseURL string `yaml:"hoyolab_base_url"`
		KuroBaseURL    string `yaml:"kuro_base_url"`
	} `yaml:"api"`

	UseMockData bool `yaml:"use_mock_data"`

	Games map[string]*GameConfig `yaml:"games"`

	mu   sync.RWMutex
	path string
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.path = path

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("POLL_CRON"); v != "" {
		cfg.Schedule.PollCron = v
	}
	if v := os.Getenv("MOCK_DATA"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseMockData = b
		}
	}

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:8632"
	}
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}
	if cfg.Schedule.PollCron == "" {
		cfg.Schedule.PollCron = "0 */5 * * * *"
	}
	if cfg.Schedule.TickSeconds == 0 {
		cfg.Schedule.TickSeconds = 60
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stamina_sentinel.db"
	}
	if cfg.Games == nil {
		cfg.Games = make(map[string]*GameConfig)
	}

	// Normalize any stored policies so the trigger-field XOR holds even for
	// hand-edited config files.
	for _, gc := range cfg.Games {
		for resourceType, policy := range gc.Notifications {
			policy.Normalize()
			gc.Notifications[resourceType] = policy
		}
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Schedule.TickSeconds < 0 {
		return fmt.Errorf("schedule.tick_seconds must not be negative")
	}
	if c.UseMockData {
		return nil
	}
	for gameID, gc := range c.Games {
		if !gc.Enabled {
			continue
		}
		if _, ok := model.GameByID(gameID); !ok {
			return fmt.Errorf("games.%s: unknown game", gameID)
		}
		if gc.UID == "" {
			return fmt.Errorf("games.%s.uid is required", gameID)
		}
		if gameID == "wuwa" {
			if gc.Token == "" {
				return fmt.Errorf("games.%s.token is required", gameID)
			}
		} else {
			if gc.Cookie == "" {
				return fmt.Errorf("games.%s.cookie is required", gameID)
			}
			if gc.Region == "" {
				return fmt.Errorf("games.%s.region is required", gameID)
			}
		}
	}
	return nil
}

// EnabledGames returns the enabled games in registry order.
func (c *Config) EnabledGames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, g := range model.Games {
		if gc, ok := c.Games[g.ID]; ok && gc.Enabled {
			out = append(out, g.ID)
		}
	}
	return out
}

// PolicyFor returns the notification policy for one resource. Missing
// entries come back as a disabled policy.
func (c *Config) PolicyFor(gameID, resourceType string) model.ResourceNotificationConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if gc, ok := c.Games[gameID]; ok {
		if policy, ok := gc.Notifications[resourceType]; ok {
			return policy
		}
	}
	return model.ResourceNotificationConfig{}
}

// Policies returns a copy of every game's notification policy map.
func (c *Config) Policies() map[string]map[string]model.ResourceNotificationConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]map[string]model.ResourceNotificationConfig, len(c.Games))
	for gameID, gc := range c.Games {
		if len(gc.Notifications) == 0 {
			continue
		}
		cp := make(map[string]model.ResourceNotificationConfig, len(gc.Notifications))
		for resourceType, policy := range gc.Notifications {
			cp[resourceType] = policy
		}
		out[gameID] = cp
	}
	return out
}

// SetPolicy normalizes and stores one resource's notification policy. The
// caller persists separately via Save so a failed write leaves the edited
// in-memory state intact for retry.
func (c *Config) SetPolicy(gameID, resourceType string, policy model.ResourceNotificationConfig) error {
	if _, ok := model.ResourceByType(gameID, resourceType); !ok {
		return fmt.Errorf("unknown resource %s/%s", gameID, resourceType)
	}
	policy.Normalize()

	c.mu.Lock()
	defer c.mu.Unlock()
	gc, ok := c.Games[gameID]
	if !ok {
		gc = &GameConfig{}
		c.Games[gameID] = gc
	}
	if gc.Notifications == nil {
		gc.Notifications = make(map[string]model.ResourceNotificationConfig)
	}
	gc.Notifications[resourceType] = policy
	return nil
}

// Save writes the config back to its YAML file.
func (c *Config) Save() error {
	c.mu.RLock()
	data, err := yaml.Marshal(c)
	path := c.path
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
