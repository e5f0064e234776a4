package config

import (
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_MODE", "PORT", "DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_PATH", "DB_POOL_SIZE", "OVERDUE_SCAN_CRON", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppMode)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DatabaseConfig{
		Driver:   DriverMySQL,
		Host:     "localhost",
		Port:     "3307",
		User:     "root",
		DBName:   "bibliotheque",
		Path:     "bibliotheque.db",
		PoolSize: 10,
	}, cfg.Database)
	assert.Equal(t, "30 8 * * *", cfg.Scheduler.OverdueScanSpec)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"APP_MODE", "staging"},
		{"DB_DRIVER", "postgres"},
		{"DB_POOL_SIZE", "0"},
		{"DB_POOL_SIZE", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(DatabaseConfig{Host: "db", Port: "3307", User: "root", Password: "s3cret", DBName: "bibliotheque"})

	parsed, err := gomysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db:3307", parsed.Addr)
	assert.Equal(t, "root", parsed.User)
	assert.Equal(t, "s3cret", parsed.Passwd)
	assert.Equal(t, "bibliotheque", parsed.DBName)
	assert.True(t, parsed.ClientFoundRows)
	assert.Equal(t, "utf8mb4", parsed.Params["charset"])
}

func TestBuildServerDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "3307", User: "root", Password: "s3cret", DBName: "bibliotheque"}

	parsed, err := gomysql.ParseDSN(buildServerDSN(d))
	require.NoError(t, err)
	assert.Empty(t, parsed.DBName)
	assert.Equal(t, "db:3307", parsed.Addr)
	assert.Equal(t, "root", parsed.User)
	assert.True(t, parsed.ClientFoundRows)

	full, err := gomysql.ParseDSN(buildDSN(d))
	require.NoError(t, err)
	assert.Equal(t, "bibliotheque", full.DBName)
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`bibliotheque`", quoteIdentifier("bibliotheque"))
	assert.Equal(t, "`bib``x`", quoteIdentifier("bib`x"))
}
