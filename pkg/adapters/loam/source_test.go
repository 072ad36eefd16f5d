package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/stepwise/internal/testutils"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/model"
	"github.com/aretw0/stepwise/pkg/script"
)

func newSource(t *testing.T, files map[string]string) *Source {
	t.Helper()
	tmpDir, repo := testutils.SetupTestRepo(t)
	for filename, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, filename), []byte(content), 0o644))
	}
	return New(loam.NewTypedRepository[ScriptDocument](repo))
}

func TestSource_ScriptResolvesImports(t *testing.T) {
	src := newSource(t, map[string]string{
		"base.json": `{"steps": [{"name": "Geo", "procedure": "GEOSTATIC"}]}`,
		"consolidation.yaml": `model: Consolidation
imports: [base.json]
steps:
  - {name: Load, procedure: SOILS}
operations:
  - {op: create, kind: PorePressureBC, key: Drain, step: Geo, fields: {region: {set: Top}, magnitude: 5}}
  - {op: amend, key: Drain, step: Load, fields: {magnitude: 10}}
`,
	})
	ctx := context.Background()

	s, err := src.Script(ctx, "consolidation")
	require.NoError(t, err)
	assert.Equal(t, "Consolidation", s.Model)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, "Geo", s.Steps[0].Name)

	m := model.New(s.Model)
	require.NoError(t, script.Apply(m, s))
	drain, err := m.Entity("boundaryConditions", "Drain")
	require.NoError(t, err)
	assert.Equal(t, 10.0, drain.Value("Load", "magnitude"))
	assert.Equal(t, domain.StatusModified, drain.Status("Load"))
}

func TestSource_ScriptsNormalizesNames(t *testing.T) {
	src := newSource(t, map[string]string{
		"a.yaml": "model: A\n",
		"b.json": `{"model": "B"}`,
		"notes.md": `---
model: C
---
Scripts may carry prose.`,
	})

	names, err := src.Scripts(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "notes"}, names)
}

func TestSource_ScriptsDetectsCollisions(t *testing.T) {
	src := newSource(t, map[string]string{
		"foo.yaml": "model: A\n",
		"foo.json": `{"model": "B"}`,
	})

	_, err := src.Scripts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestSource_ImportCycle(t *testing.T) {
	src := newSource(t, map[string]string{
		"a.yaml": "imports: [b]\n",
		"b.yaml": "imports: [a]\n",
	})

	_, err := src.Script(context.Background(), "a")
	assert.ErrorContains(t, err, "cycle detected")
}

func TestSource_InvalidOperation(t *testing.T) {
	src := newSource(t, map[string]string{
		"bad.yaml": "operations:\n  - {op: create, kind: Pressure}\n",
	})

	_, err := src.Script(context.Background(), "bad")
	assert.ErrorContains(t, err, "missing key")
}
