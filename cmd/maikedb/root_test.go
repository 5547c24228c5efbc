package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd)

	want := []string{
		"resolve", "snapshot", "heal", "backfill", "classify",
		"create", "migrate",
	}
	found := make(map[string]bool)
	for _, c := range cmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, found[name], "%s subcommand should exist", name)
	}
}

func TestRootCommandConfigFlag(t *testing.T) {
	cmd := getRootCmd()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag, "--config flag should exist")
	assert.Equal(t, "string", configFlag.Value.Type())
}

func TestRootCommandHelp(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})
	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "maikedb")
	assert.Contains(t, helpText, "Available Commands")
	assert.Contains(t, helpText, "resolve")
}

func TestResolveCommandFlags(t *testing.T) {
	cmd := getResolveCmd()
	assert.NotNil(t, cmd.Flags().Lookup("no-heal"))
}

func TestBackfillCommandFlags(t *testing.T) {
	cmd := getBackfillCmd()
	for _, name := range []string{"category", "year", "jobs"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
