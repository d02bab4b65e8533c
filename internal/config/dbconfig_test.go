package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDBConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db_config.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o660))
	return path
}

func TestLoadDBConfig_Complete(t *testing.T) {
	path := writeDBConfig(t, `host=localhost
port=5432
dbname=supplytrack
user=supply
password=hunter2
`)

	c, err := LoadDBConfig(path)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "localhost", c.Host)
	assert.Equal(t, "5432", c.Port)
	assert.Equal(t, "supplytrack", c.DBName)
	assert.Equal(t, "supply", c.User)
	assert.Equal(t, "hunter2", c.Password)
}

func TestLoadDBConfig_MissingFile(t *testing.T) {
	c, err := LoadDBConfig(filepath.Join(t.TempDir(), "nope.conf"))
	assert.Nil(t, c, "missing file means offline mode")
	assert.Error(t, err)
}

func TestLoadDBConfig_MissingKey(t *testing.T) {
	path := writeDBConfig(t, `host=localhost
port=5432
dbname=supplytrack
user=supply
`)

	c, err := LoadDBConfig(path)
	assert.Nil(t, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing key "password"`)
}

func TestDBConfig_DSN(t *testing.T) {
	c := &DBConfig{Host: "db", Port: "5433", DBName: "inv", User: "u", Password: "p"}
	assert.Equal(t, "host=db port=5433 dbname=inv user=u password=p", c.DSN())
}
