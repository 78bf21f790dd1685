package procdef_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procdef"
)

func TestLoadConfig(t *testing.T) {
	config, err := procdef.LoadConfig(context.Background(), testdataURL(t, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 2, config.Verification.MaxEndpoints)
	assert.True(t, config.Dependency.AddWorkflowURN)
	assert.False(t, config.Dependency.AddStateMachineURN)
	assert.Equal(t, procdef.StoreFS, config.Store.Type)
	assert.Equal(t, "/tmp/procdef/records", config.Store.BaseURL)
	assert.Equal(t, "procdef", config.Tracing.ServiceName, "defaults are kept")

	_, err = procdef.LoadConfig(context.Background(), testdataURL(t, "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	var testCases = []struct {
		description string
		mutate      func(c *procdef.Config)
		expectErr   bool
	}{
		{description: "default", mutate: func(c *procdef.Config) {}},
		{description: "negative endpoints", mutate: func(c *procdef.Config) { c.Verification.MaxEndpoints = -1 }, expectErr: true},
		{description: "fs without base", mutate: func(c *procdef.Config) { c.Store.Type = procdef.StoreFS }, expectErr: true},
		{description: "fs", mutate: func(c *procdef.Config) {
			c.Store.Type = procdef.StoreFS
			c.Store.BaseURL = "mem://localhost/records"
		}},
		{description: "postgres without dsn", mutate: func(c *procdef.Config) { c.Store.Type = procdef.StorePostgres }, expectErr: true},
		{description: "unknown store", mutate: func(c *procdef.Config) { c.Store.Type = "redis" }, expectErr: true},
	}
	for _, testCase := range testCases {
		config := procdef.DefaultConfig()
		testCase.mutate(config)
		err := config.Validate()
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}
}

func TestNew_FileStore(t *testing.T) {
	ctx := context.Background()
	config := procdef.DefaultConfig()
	config.Store = procdef.StoreConfig{Type: procdef.StoreFS, BaseURL: t.TempDir()}
	srv, err := procdef.New(ctx, procdef.WithConfig(config))
	require.NoError(t, err)
	defer srv.Close()

	ship, err := srv.LoadDefinition(ctx, testdataURL(t, "ship.yaml"))
	require.NoError(t, err)
	_, err = srv.SaveDefinition(ctx, ship)
	require.NoError(t, err)

	reopened, err := procdef.New(ctx, procdef.WithConfig(config))
	require.NoError(t, err)
	stored, err := reopened.Definition(ctx, "Ship", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Carrier"}, stored.Abstract())
	assert.Equal(t, 2, stored.Properties.Value("Weight"))

	_, err = procdef.New(ctx, procdef.WithConfig(&procdef.Config{Store: procdef.StoreConfig{Type: "redis"}}))
	assert.Error(t, err)
}
