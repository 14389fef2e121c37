package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 20*time.Second, cfg.Game.HintInterval)
	assert.Equal(t, 3*time.Second, cfg.Game.RevealPause)
	assert.Equal(t, 5*time.Second, cfg.Game.AnswerPause)
	assert.Equal(t, 3*time.Second, cfg.Game.StartDelay)
	assert.Equal(t, 10, cfg.Game.DefaultRounds)
	assert.Equal(t, 10, cfg.Game.ExtendRounds)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("HINT_INTERVAL", "2s")
	t.Setenv("DEFAULT_ROUNDS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 2*time.Second, cfg.Game.HintInterval)
	assert.Equal(t, 5, cfg.Game.DefaultRounds)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingToken)
}
