package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/stepwise/internal/config"
	"github.com/aretw0/stepwise/internal/dto"
	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/adapters/redis"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/persistence/middleware"
)

const baseScript = `
steps:
  - {name: Step-1, procedure: SOILS}
  - {name: Step-2, procedure: SOILS}
amplitudes:
  - {name: Ramp, data: [[0, 0], [1, 1]]}
`

const mainScript = `
model: Model-1
imports: [base]
operations:
  - {op: create, kind: PorePressureBC, key: BC-1, step: Step-1, fields: {region: {set: Soil}, magnitude: 10, amplitude: Ramp}}
  - {op: amend, key: BC-1, step: Step-2, fields: {magnitude: 20}, free: [amplitude]}
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{Store: config.StoreMemory, LogLevel: "info"}
}

func newTestEnv(t *testing.T, cfg config.Config) *Env {
	t.Helper()
	env, err := Setup(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })
	return env
}

func writeScripts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(baseScript), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.yaml"), []byte(mainScript), 0o644))
	return filepath.Join(dir, "main.yaml")
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testConfig(t))
	path := writeScripts(t)

	t.Run("Dry Run Stores Nothing", func(t *testing.T) {
		var out bytes.Buffer
		m, err := Apply(ctx, env, ApplyOptions{Script: path, Format: FormatMarkdown}, &out)
		require.NoError(t, err)
		assert.Equal(t, "Model-1", m.Name())
		assert.Contains(t, out.String(), "| BC-1 | PorePressureBC |")

		names, err := env.Manager.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("Save With Override", func(t *testing.T) {
		var out bytes.Buffer
		_, err := Apply(ctx, env, ApplyOptions{Script: path, Model: "Saved", Save: true, Format: FormatJSON}, &out)
		require.NoError(t, err)
		var view dto.ModelView
		require.NoError(t, json.Unmarshal(out.Bytes(), &view))
		assert.Equal(t, "Saved", view.Name)

		out.Reset()
		require.NoError(t, ListModels(ctx, env, &out))
		assert.Equal(t, "Saved\n", out.String())
	})

	t.Run("Unknown Format", func(t *testing.T) {
		_, err := Apply(ctx, env, ApplyOptions{Script: path, Format: "xml"}, &bytes.Buffer{})
		assert.ErrorContains(t, err, "unknown format")
	})
}

func TestApply_ExampleScripts(t *testing.T) {
	env := newTestEnv(t, testConfig(t))
	path := filepath.Join("..", "..", "examples", "scripts", "consolidation.yaml")

	m, err := Apply(context.Background(), env, ApplyOptions{Script: path, Format: FormatMarkdown}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "Consolidation", m.Name())

	top, err := m.Entity("boundaryConditions", "Top")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeactivated, top.Status("Drain"))

	base, err := m.Entity("boundaryConditions", "Base")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusModified, base.Status("Consolidate"))
	assert.Equal(t, 20.0, base.Value("Drain", "magnitude"))
	assert.Nil(t, base.Value("Drain", "amplitude"))
}

func TestInspectDiffGraph(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testConfig(t))
	_, err := Apply(ctx, env, ApplyOptions{Script: writeScripts(t), Save: true, Format: FormatMarkdown}, &bytes.Buffer{})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Inspect(ctx, env, "Model-1", "", FormatMarkdown, &out))
	assert.Contains(t, out.String(), "# Model-1")

	out.Reset()
	require.NoError(t, Inspect(ctx, env, "Model-1", "boundaryConditions/BC-1", FormatMarkdown, &out))
	assert.Contains(t, out.String(), "| Step-2 | MODIFIED |")

	out.Reset()
	require.NoError(t, Diff(ctx, env, "Model-1", "boundaryConditions/BC-1", FormatMarkdown, &out))
	assert.Contains(t, out.String(), "amplitude: Ramp (SET) → FREED")

	out.Reset()
	require.NoError(t, Graph(ctx, env, "Model-1", "", "Step-2", &out))
	assert.True(t, strings.HasPrefix(out.String(), "graph LR"))
	assert.Contains(t, out.String(), "current")

	out.Reset()
	require.NoError(t, Status(ctx, env, "Model-1", &out))
	assert.Equal(t, "boundaryConditions/BC-1  Initial=NOT_YET_ACTIVE  Step-1=CREATED  Step-2=MODIFIED\n", out.String())

	assert.ErrorIs(t, Inspect(ctx, env, "Model-1", "loads/L-1", FormatMarkdown, &out), domain.ErrKeyNotFound)
	assert.ErrorIs(t, Inspect(ctx, env, "Nope", "", FormatMarkdown, &out), domain.ErrModelNotFound)
	assert.ErrorContains(t, Diff(ctx, env, "Model-1", "BC-1", FormatMarkdown, &out), "want repository/key")
	assert.ErrorContains(t, Graph(ctx, env, "Model-1", "", "Step-9", &out), "step not found")

	out.Reset()
	require.NoError(t, RemoveModels(ctx, env, []string{"Model-1"}, &out))
	assert.Contains(t, out.String(), "Model 'Model-1' deleted.")
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testConfig(t))
	require.NoError(t, Validate(ctx, env, writeScripts(t), ""))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("operations:\n  - {op: amend, key: BC-9, step: Initial, fields: {magnitude: 1}}\n"), 0o644))
	assert.ErrorIs(t, Validate(ctx, env, bad, ""), domain.ErrKeyNotFound)

	missing := filepath.Join(t.TempDir(), "lonely.yaml")
	require.NoError(t, os.WriteFile(missing, []byte("imports: [nowhere]\n"), 0o644))
	assert.ErrorContains(t, Validate(ctx, env, missing, ""), "script not found: nowhere")
}

func TestKinds(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Kinds(FormatMarkdown, &out))
	assert.Contains(t, out.String(), "## boundaryConditions")
	assert.Contains(t, out.String(), "PorePressureBC")
}

func TestModelName(t *testing.T) {
	assert.Equal(t, "X", ModelName("X", nil, "a/b.yaml"))
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	key := strings.Repeat("ab", 32)

	t.Run("File Encrypted And Compact", func(t *testing.T) {
		dir := t.TempDir()
		cfg := config.Config{Store: config.StoreFile, Dir: dir, Compact: true, EncryptionKey: key}
		store, locker, closer, err := OpenStore(cfg)
		require.NoError(t, err)
		assert.Nil(t, locker)
		assert.Nil(t, closer)

		snap := &domain.ModelSnapshot{Name: "M", Steps: []domain.Step{{Name: domain.InitialStep, Procedure: domain.ProcedureInitial}}}
		require.NoError(t, store.Save(ctx, "M", snap))

		raw, err := os.ReadFile(filepath.Join(dir, "M.json"))
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"sealed"`)
		assert.NotContains(t, string(raw), "INITIAL")

		plain, _, _, err := OpenStore(config.Config{Store: config.StoreFile, Dir: dir})
		require.NoError(t, err)
		_, err = plain.Load(ctx, "M")
		require.NoError(t, err)

		loaded, err := store.Load(ctx, "M")
		require.NoError(t, err)
		assert.Equal(t, "M", loaded.Name)
		assert.Len(t, loaded.Steps, 1)

		otherKey, _, _, err := OpenStore(config.Config{Store: config.StoreFile, Dir: dir, EncryptionKey: strings.Repeat("cd", 32)})
		require.NoError(t, err)
		_, err = otherKey.Load(ctx, "M")
		assert.Error(t, err)

		require.NoError(t, plain.Save(ctx, "P", &domain.ModelSnapshot{Name: "P"}))
		_, err = store.Load(ctx, "P")
		assert.ErrorIs(t, err, middleware.ErrNotSealed)
	})

	t.Run("Redis With Locker", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, locker, closer, err := OpenStore(config.Config{Store: config.StoreRedis, RedisAddr: mr.Addr()})
		require.NoError(t, err)
		require.NotNil(t, closer)
		defer closer()
		assert.IsType(t, &redis.Locker{}, locker)

		require.NoError(t, store.Save(ctx, "M", &domain.ModelSnapshot{Name: "M"}))
		assert.True(t, mr.Exists(redis.DefaultPrefix+"M"))
	})

	t.Run("Unknown Store", func(t *testing.T) {
		_, _, _, err := OpenStore(config.Config{Store: "tape"})
		assert.ErrorContains(t, err, "unknown store")
	})

	t.Run("Bad Key", func(t *testing.T) {
		_, _, _, err := OpenStore(config.Config{Store: config.StoreMemory, EncryptionKey: "zz"})
		assert.Error(t, err)
	})
}
