package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filemanager/pkg/config"
)

type defaultsConfig struct {
	Root  string `env:"CFG_TEST_ROOT" envDefault:"/tmp/files_manager"`
	Limit int    `env:"CFG_TEST_LIMIT" envDefault:"20"`
}

type envConfig struct {
	Name string `env:"CFG_TEST_NAME"`
}

type cachedConfig struct {
	Value string `env:"CFG_TEST_CACHED" envDefault:"first"`
}

type requiredConfig struct {
	Value string `env:"CFG_TEST_REQUIRED_MISSING,required"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg defaultsConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "/tmp/files_manager", cfg.Root)
		assert.Equal(t, 20, cfg.Limit)
	})

	t.Run("reads environment", func(t *testing.T) {
		t.Setenv("CFG_TEST_NAME", "files")
		var cfg envConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "files", cfg.Name)
	})

	t.Run("caches per type", func(t *testing.T) {
		var first cachedConfig
		require.NoError(t, config.Load(&first))

		t.Setenv("CFG_TEST_CACHED", "second")
		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "first", second.Value)
	})

	t.Run("missing required value", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
		assert.Panics(t, func() { config.MustLoad(&requiredConfig{}) })
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *defaultsConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})
}
