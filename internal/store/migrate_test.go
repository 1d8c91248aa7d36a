package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationVersions_Ordered(t *testing.T) {
	t.Parallel()

	versions, err := migrationVersions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)

	assert.Equal(t, "001_create_products.sql", versions[0])
	assert.IsIncreasing(t, versions)

	for _, v := range versions {
		data, err := migrationsFS.ReadFile("migrations/" + v)
		require.NoError(t, err)
		assert.NotEmpty(t, data, "migration %s is empty", v)
	}
}
