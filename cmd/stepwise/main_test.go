package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = `
model: Model-1
steps:
  - {name: Step-1, procedure: STATIC_GENERAL}
  - {name: Step-2, procedure: STATIC_GENERAL}
operations:
  - {op: create, kind: DisplacementBC, key: BC-1, step: Step-1, fields: {region: {set: Edge}, u1: 0.5}}
  - {op: deactivate, key: BC-1, step: Step-2}
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))
	store := []string{"--store", "file", "--dir", filepath.Join(dir, "models")}

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "stepwise version "))

	out, err = run(t, append(store, "validate", path)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Script is valid!")

	out, err = run(t, append(store, "apply", path, "--save", "-o", "markdown")...)
	require.NoError(t, err)
	assert.Contains(t, out, "| BC-1 | DisplacementBC | NOT_YET_ACTIVE | CREATED | DEACTIVATED |")

	out, err = run(t, append(store, "models", "ls")...)
	require.NoError(t, err)
	assert.Equal(t, "Model-1\n", out)

	out, err = run(t, append(store, "inspect", "Model-1", "boundaryConditions/BC-1", "-o", "json")...)
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "DisplacementBC"`)

	out, err = run(t, append(store, "graph", "Model-1", "boundaryConditions/BC-1")...)
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR")

	_, err = run(t, append(store, "inspect", "Nope")...)
	assert.Error(t, err)

	out, err = run(t, append(store, "models", "rm", "Model-1")...)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("STEPWISE_STORE", "redis")
	_, err := run(t, "--store", "memory", "models", "ls")
	require.NoError(t, err)
	assert.Equal(t, "memory", env.Config.Store)

	_, err = run(t, "--store", "tape", "models", "ls")
	assert.ErrorContains(t, err, "unknown store")
}
