package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectsphere/connect-cli/internal/config"
)

func baseTestConfig() *config.Config {
	c := &config.Config{}
	c.Search.Key = "test-key"
	c.Search.EngineID = "test-engine"
	c.LLM.Provider = "none"
	c.Verifier.BaseURL = "http://localhost:1"
	c.Pipeline.MaxQueries = 24
	c.Pipeline.MaxContacts = 15
	c.Pipeline.EmailContacts = 8
	c.Server.Port = 8080
	return c
}

func TestDiscoverCmd_FailsOnConfigValidation(t *testing.T) {
	cfg = baseTestConfig()
	cfg.Search.Key = ""

	discoverCmd.SetContext(context.Background())
	defer discoverCmd.SetContext(context.TODO())

	err := discoverCmd.RunE(discoverCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.key is required")
}

func TestDiscoverCmd_Flags_Exist(t *testing.T) {
	for _, name := range []string{"name", "target", "previous", "school", "json", "xlsx", "verbose"} {
		assert.NotNil(t, discoverCmd.Flags().Lookup(name), name)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"discover", "serve", "verify", "cache"} {
		assert.True(t, names[want], want)
	}
}
