package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "*", cfg.HTTP.AllowOrigins)
	assert.Equal(t, "memory", cfg.Jobs.Queue)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.True(t, cfg.DB.Migrate)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JOB_WORKERS", "4")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("DB_DRIVER", "memory")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 4, cfg.Jobs.Workers)
	assert.False(t, cfg.DB.Migrate)
	assert.Equal(t, "memory", cfg.DB.Driver)
}

func TestValidate_SecretObligatorioFueraDeDevelopment(t *testing.T) {
	cfg := &Config{
		App:  AppConfig{Env: "production"},
		DB:   DBConfig{Driver: "postgres"},
		Jobs: JobsConfig{Queue: "memory", Workers: 1, MaxAttempts: 1},
	}
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "s3cr3t"
	assert.NoError(t, cfg.Validate())
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "logistics", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/logistics?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
