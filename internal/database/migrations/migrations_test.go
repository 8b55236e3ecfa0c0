package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fleet-scheduling/internal/config"
	"github.com/iliyamo/fleet-scheduling/internal/database"
)

func TestLatestVersion(t *testing.T) {
	v, err := LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)
}

func TestEveryUpHasADown(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "files")
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	for name := range names {
		if strings.HasSuffix(name, ".up.sql") {
			down := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
			assert.True(t, names[down], "missing %s", down)
		}
	}
}

func TestSchemaSeedsEveryAircraftType(t *testing.T) {
	b, err := fs.ReadFile(migrationFiles, "files/000001_reference_data.up.sql")
	require.NoError(t, err)
	for _, typ := range []string{"'A320', 450, 3300", "'A340', 490, 7400", "'B737', 453, 3000"} {
		assert.Contains(t, string(b), typ)
	}
}

func TestMigrationConnectionAllowsMultipleStatements(t *testing.T) {
	base := database.Options(config.Config{DBUser: "fleet", DBHost: "db", DBPort: "3306", DBName: "fleet"})

	mc := options(base)
	assert.True(t, mc.MultiStatements)
	assert.Contains(t, mc.FormatDSN(), "multiStatements=true")
	assert.False(t, base.MultiStatements, "the server pool keeps single statements")
	assert.Equal(t, base.Addr, mc.Addr)
}
