package bmc

import (
	"testing"

	"github.com/bmc/pkg/database"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// testConfig loads the default settings on a memory filesystem.
func testConfig(t *testing.T) *Configuration {
	t.Helper()
	conf, err := LoadSettingsFs(afero.NewMemMapFs(), "-", &StandardPaths{"bmc", "/config", "/state", "/data"})
	require.NoError(t, err)
	return conf
}

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(database.InMemory)
}
