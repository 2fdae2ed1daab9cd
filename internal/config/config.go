// Package config loads the game settings from ember_range.cfg.json.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Garsondee/Ember-Range/internal/game"
)

// FileName is the config file looked up in the config directory.
const FileName = "ember_range.cfg.json"

// AudioConfig holds sound playback settings.
type AudioConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	AssetsDir string `json:"assetsDir" mapstructure:"assetsDir"`
	Gunshot   string `json:"gunshot" mapstructure:"gunshot"`
}

// HistoryConfig holds the engagement history database settings.
type HistoryConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// WindowConfig holds the host window size.
type WindowConfig struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

// SceneConfig holds the scene file location.
type SceneConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// SimConfig holds the seed and the tunable gameplay values.
type SimConfig struct {
	Seed int64 `json:"seed" mapstructure:"seed"`

	EnemyCount         int     `json:"enemyCount" mapstructure:"enemyCount"`
	EnemyHealth        int     `json:"enemyHealth" mapstructure:"enemyHealth"`
	EnemySpeed         float64 `json:"enemySpeed" mapstructure:"enemySpeed"`
	EnemyShootInterval float64 `json:"enemyShootInterval" mapstructure:"enemyShootInterval"`
	MinDistance        float64 `json:"minDistance" mapstructure:"minDistance"`
	SpawnRadius        float64 `json:"spawnRadius" mapstructure:"spawnRadius"`
	GroundHeight       float64 `json:"groundHeight" mapstructure:"groundHeight"`
	MaxSpawnAttempts   int     `json:"maxSpawnAttempts" mapstructure:"maxSpawnAttempts"`
	PlayerMaxHealth    int     `json:"playerMaxHealth" mapstructure:"playerMaxHealth"`
	PlayerSpeed        float64 `json:"playerSpeed" mapstructure:"playerSpeed"`
	SpeedMultiplier    float64 `json:"speedMultiplier" mapstructure:"speedMultiplier"`
	ShootDelay         float64 `json:"shootDelay" mapstructure:"shootDelay"`
	BulletSpeed        float64 `json:"bulletSpeed" mapstructure:"bulletSpeed"`
	EnemyBulletSpeed   float64 `json:"enemyBulletSpeed" mapstructure:"enemyBulletSpeed"`
	BulletRange        float64 `json:"bulletRange" mapstructure:"bulletRange"`
}

// Config is the full settings tree.
type Config struct {
	LogLevel string        `json:"logLevel" mapstructure:"logLevel"`
	LogFile  string        `json:"logFile" mapstructure:"logFile"`
	Scene    SceneConfig   `json:"scene" mapstructure:"scene"`
	Audio    AudioConfig   `json:"audio" mapstructure:"audio"`
	History  HistoryConfig `json:"history" mapstructure:"history"`
	Window   WindowConfig  `json:"window" mapstructure:"window"`
	Sim      SimConfig     `json:"sim" mapstructure:"sim"`
}

func setDefaults() {
	d := game.DefaultTuning()

	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "")

	viper.SetDefault("scene.path", "map.dbo")

	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("audio.assetsDir", "./assets/sounds")
	viper.SetDefault("audio.gunshot", game.GunshotSound)

	viper.SetDefault("history.enabled", false)
	viper.SetDefault("history.path", "ember_history.db")

	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 800)

	viper.SetDefault("sim.seed", 1)
	viper.SetDefault("sim.enemyCount", d.EnemyCount)
	viper.SetDefault("sim.enemyHealth", d.EnemyHealth)
	viper.SetDefault("sim.enemySpeed", d.EnemySpeed)
	viper.SetDefault("sim.enemyShootInterval", d.EnemyShootInterval)
	viper.SetDefault("sim.minDistance", d.MinDistance)
	viper.SetDefault("sim.spawnRadius", d.SpawnRadius)
	viper.SetDefault("sim.groundHeight", d.GroundHeight)
	viper.SetDefault("sim.maxSpawnAttempts", d.MaxSpawnAttempts)
	viper.SetDefault("sim.playerMaxHealth", d.PlayerMaxHealth)
	viper.SetDefault("sim.playerSpeed", d.PlayerSpeed)
	viper.SetDefault("sim.speedMultiplier", d.SpeedMultiplier)
	viper.SetDefault("sim.shootDelay", d.ShootDelay)
	viper.SetDefault("sim.bulletSpeed", d.BulletSpeed)
	viper.SetDefault("sim.enemyBulletSpeed", d.EnemyBulletSpeed)
	viper.SetDefault("sim.bulletRange", d.BulletRange)
}

// Load reads configuration from the JSON file in configDir and fills in
// defaults. A missing file is not an error; a malformed one is. Environment
// variables prefixed EMBER_ override file values (EMBER_SIM_SEED=7).
func Load(configDir string) (*Config, error) {
	setDefaults()

	viper.SetEnvPrefix("EMBER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	path := filepath.Join(configDir, FileName)
	if _, err := os.Stat(path); err == nil {
		viper.SetConfigFile(path)
		viper.SetConfigType("json")
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	// Enemies stand on the fixed ground slab; a lower lock height buries them.
	d := game.DefaultTuning()
	minGround := d.GroundCenter.Y + d.GroundHalfExtents.Y + d.EnemyHalfExtents.Y

	switch {
	case c.Sim.EnemyCount < 0:
		return fmt.Errorf("sim.enemyCount must not be negative, got %d", c.Sim.EnemyCount)
	case c.Sim.MaxSpawnAttempts < 1:
		return fmt.Errorf("sim.maxSpawnAttempts must be at least 1, got %d", c.Sim.MaxSpawnAttempts)
	case c.Sim.PlayerMaxHealth < 1:
		return fmt.Errorf("sim.playerMaxHealth must be at least 1, got %d", c.Sim.PlayerMaxHealth)
	case c.Sim.EnemyHealth < 1:
		return fmt.Errorf("sim.enemyHealth must be at least 1, got %d", c.Sim.EnemyHealth)
	case c.Sim.BulletSpeed <= 0 || c.Sim.EnemyBulletSpeed <= 0:
		return fmt.Errorf("sim.bulletSpeed and sim.enemyBulletSpeed must be positive, got %g/%g",
			c.Sim.BulletSpeed, c.Sim.EnemyBulletSpeed)
	case c.Sim.BulletRange <= 0:
		return fmt.Errorf("sim.bulletRange must be positive, got %g", c.Sim.BulletRange)
	case c.Sim.ShootDelay < 0 || c.Sim.EnemyShootInterval < 0:
		return fmt.Errorf("sim.shootDelay and sim.enemyShootInterval must not be negative, got %g/%g",
			c.Sim.ShootDelay, c.Sim.EnemyShootInterval)
	case c.Sim.GroundHeight < minGround:
		return fmt.Errorf("sim.groundHeight must be at least %g to keep enemies above the ground, got %g",
			minGround, c.Sim.GroundHeight)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// Tuning maps the sim section onto game tuning. Geometry that is not
// configurable keeps its default.
func (c *Config) Tuning() game.Tuning {
	t := game.DefaultTuning()
	s := c.Sim
	t.EnemyCount = s.EnemyCount
	t.EnemyHealth = s.EnemyHealth
	t.EnemySpeed = s.EnemySpeed
	t.EnemyShootInterval = s.EnemyShootInterval
	t.MinDistance = s.MinDistance
	t.SpawnRadius = s.SpawnRadius
	t.GroundHeight = s.GroundHeight
	t.MaxSpawnAttempts = s.MaxSpawnAttempts
	t.PlayerMaxHealth = s.PlayerMaxHealth
	t.PlayerSpeed = s.PlayerSpeed
	t.SpeedMultiplier = s.SpeedMultiplier
	t.ShootDelay = s.ShootDelay
	t.BulletSpeed = s.BulletSpeed
	t.EnemyBulletSpeed = s.EnemyBulletSpeed
	t.BulletRange = s.BulletRange
	return t
}

