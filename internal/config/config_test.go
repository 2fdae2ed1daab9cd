package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Ember-Range/internal/game"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"scene": { "path": "arena.dbo" },
		"history": { "enabled": true, "path": "runs.db" },
		"sim": { "seed": 99, "enemyCount": 8, "bulletSpeed": 35.5 }
	}`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "arena.dbo", cfg.Scene.Path)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "runs.db", cfg.History.Path)
	assert.Equal(t, int64(99), cfg.Sim.Seed)
	assert.Equal(t, 8, cfg.Sim.EnemyCount)
	assert.InDelta(t, 35.5, cfg.Sim.BulletSpeed, 1e-9)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	d := game.DefaultTuning()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.LogFile)
	assert.Equal(t, "map.dbo", cfg.Scene.Path)
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, game.GunshotSound, cfg.Audio.Gunshot)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)
	assert.Equal(t, int64(1), cfg.Sim.Seed)
	assert.Equal(t, d.EnemyCount, cfg.Sim.EnemyCount)
	assert.Equal(t, d.MaxSpawnAttempts, cfg.Sim.MaxSpawnAttempts)
	assert.Equal(t, d.ShootDelay, cfg.Sim.ShootDelay)
	assert.Equal(t, d.GroundHeight, cfg.Sim.GroundHeight)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, game.DefaultTuning(), cfg.Tuning())
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := Load(writeConfig(t, `{"logLevel": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	cases := []struct {
		body string
		key  string
	}{
		{`{"sim": {"maxSpawnAttempts": 0}}`, "maxSpawnAttempts"},
		{`{"sim": {"enemyHealth": 0}}`, "enemyHealth"},
		{`{"sim": {"bulletSpeed": 0}}`, "bulletSpeed"},
		{`{"sim": {"enemyBulletSpeed": -1}}`, "enemyBulletSpeed"},
		{`{"sim": {"bulletRange": 0}}`, "bulletRange"},
		{`{"sim": {"shootDelay": -0.1}}`, "shootDelay"},
		{`{"sim": {"groundHeight": 3}}`, "groundHeight"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			t.Cleanup(viper.Reset)
			_, err := Load(writeConfig(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("EMBER_SIM_SEED", "4242")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, int64(4242), cfg.Sim.Seed)
}

func TestConfig_Tuning(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load(writeConfig(t, `{"sim": {"enemyCount": 2, "spawnRadius": 40, "shootDelay": 0.5}}`))
	require.NoError(t, err)

	tn := cfg.Tuning()
	assert.Equal(t, 2, tn.EnemyCount)
	assert.Equal(t, 40.0, tn.SpawnRadius)
	assert.Equal(t, 0.5, tn.ShootDelay)
	// Geometry is not configurable.
	assert.Equal(t, game.DefaultTuning().EnemyHalfExtents, tn.EnemyHalfExtents)
	assert.Equal(t, game.DefaultTuning().PlayerStart, tn.PlayerStart)
}
