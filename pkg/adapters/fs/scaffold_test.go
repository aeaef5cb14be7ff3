package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/botstrap/pkg/core"
)

func TestScaffold(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewStore(dir)

	res, err := Scaffold(ctx, store, core.RegistryEntry{Name: "MyBot"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("bots", "MyBot"), res.Entry.Path)
	assert.Equal(t, filepath.Join("bots", "MyBot", "src"), res.Entry.Src)
	assert.Equal(t, filepath.Join(dir, "bots", "MyBot"), res.Dir)
	assert.Len(t, res.Created, 3)
	assert.DirExists(t, filepath.Join(dir, "bots", "MyBot", "src"))

	reg, err := store.LoadRegistry(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Registry{res.Entry}, reg)

	// The scaffolded artifacts pass the same checks a resolution applies.
	l := NewLoader(LoaderConfig{})
	bot, err := l.LoadFresh(ctx, res.Dir, core.BotModuleName)
	require.NoError(t, err)
	assert.True(t, bot.Has("MyBot"))

	cfgs, err := l.LoadFresh(ctx, res.Dir, core.ConfigModuleName)
	require.NoError(t, err)
	assert.NotNil(t, cfgs)

	meta, err := l.LoadFresh(ctx, res.Dir, core.MetaModuleName)
	require.NoError(t, err)
	def, ok := meta.Default()
	require.True(t, ok)
	assert.Equal(t, "1", def["version"])
}

func TestScaffold_Duplicate(t *testing.T) {
	ctx := context.Background()
	store := NewStore(t.TempDir())

	_, err := Scaffold(ctx, store, core.RegistryEntry{Name: "MyBot"})
	require.NoError(t, err)

	_, err = Scaffold(ctx, store, core.RegistryEntry{Name: "MyBot", Path: "elsewhere"})
	assert.ErrorIs(t, err, core.ErrBotExists)
}

func TestScaffold_KeepsExistingArtifacts(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewStore(dir)
	existing := writeArtifact(t, dir, "bots/grid/cfgs.yaml", "default:\n  ticker: ETHUSDT\n")

	res, err := Scaffold(ctx, store, core.RegistryEntry{Name: "Grid", Path: "bots/grid", Src: "dist/grid"})
	require.NoError(t, err)
	assert.Len(t, res.Created, 2)
	assert.NotContains(t, res.Created, existing)
	assert.DirExists(t, filepath.Join(dir, "dist", "grid"))

	raw, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ETHUSDT")
}

func TestScaffold_EmptyName(t *testing.T) {
	_, err := Scaffold(context.Background(), NewStore(t.TempDir()), core.RegistryEntry{})
	assert.Error(t, err)
}
