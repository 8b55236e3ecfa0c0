package database

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fleet-scheduling/internal/config"
)

func TestOptionsDSN(t *testing.T) {
	c := Options(config.Config{DBUser: "fleet", DBPass: "s3cret", DBHost: "db", DBPort: "3306", DBName: "fleet"})
	dsn := c.FormatDSN()
	assert.NotContains(t, dsn, "multiStatements")

	back, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "fleet", back.User)
	assert.Equal(t, "s3cret", back.Passwd)
	assert.Equal(t, "db:3306", back.Addr)
	assert.Equal(t, "fleet", back.DBName)
	assert.True(t, back.ParseTime)
	assert.Equal(t, time.UTC, back.Loc)
	assert.Equal(t, "utf8mb4_unicode_ci", back.Collation)
}

func TestOptionsWithoutPassword(t *testing.T) {
	c := Options(config.Config{DBUser: "fleet", DBHost: "::1", DBPort: "3307", DBName: "fleet"})
	assert.Empty(t, c.Passwd)
	assert.Equal(t, "[::1]:3307", c.Addr)
}
