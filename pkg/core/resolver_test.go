package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRegistry struct {
	reg Registry
	err error
}

func (s staticRegistry) LoadRegistry(ctx context.Context) (Registry, error) {
	return s.reg, s.err
}

// memLoader serves modules keyed by "<dir>/<name>" and counts loads.
type memLoader struct {
	mu      sync.Mutex
	modules map[string]Module
	errs    map[string]error
	loads   []string
	panicOn string
}

func newMemLoader() *memLoader {
	return &memLoader{modules: map[string]Module{}, errs: map[string]error{}}
}

func (m *memLoader) set(dir, name string, mod Module) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modules[filepath.Join(dir, name)] = mod
}

func (m *memLoader) LoadFresh(ctx context.Context, dir, name string) (Module, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := filepath.Join(dir, name)
	m.loads = append(m.loads, name)
	if key == m.panicOn {
		panic("boom")
	}
	if err, ok := m.errs[key]; ok {
		return nil, &ModuleLoadError{Path: key, Err: err}
	}
	mod, ok := m.modules[key]
	if !ok {
		return nil, &ModuleLoadError{Path: key, Err: fs.ErrNotExist}
	}
	return mod, nil
}

const testWorkDir = "/work"

func myBotFixture() (Registry, *memLoader) {
	reg := Registry{{Name: "MyBot", Path: "./bots/my", Src: "./bots/my/src"}}
	loader := newMemLoader()
	dir := filepath.Join(testWorkDir, "bots/my")
	loader.set(dir, BotModuleName, Module{"MyBot": map[string]any{"src": "src"}})
	loader.set(dir, ConfigModuleName, Module{"default": map[string]any{"ticker": "BTCUSDT"}})
	loader.set(dir, MetaModuleName, Module{"default": map[string]any{"version": "1"}})
	return reg, loader
}

func newTestResolver(reg RegistrySource, loader ModuleLoader) (*Resolver, *bytes.Buffer) {
	var diag bytes.Buffer
	return NewResolver(reg, loader, ResolverConfig{WorkDir: testWorkDir, Diagnostics: &diag}), &diag
}

func diagnosticLines(buf *bytes.Buffer) []string {
	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestResolve_Success(t *testing.T) {
	reg, loader := myBotFixture()
	r, diag := newTestResolver(staticRegistry{reg: reg}, loader)

	data := r.Resolve(context.Background(), "MyBot")
	require.NotNil(t, data)

	assert.Equal(t, ConfigSet{"default": {"ticker": "BTCUSDT"}}, data.Configs)
	assert.Equal(t, DebutMeta{"version": "1"}, data.Meta)
	assert.Equal(t, filepath.Join(testWorkDir, "bots/my"), data.Dir)
	assert.Equal(t, filepath.Join(testWorkDir, "bots/my/src"), data.Src)
	assert.Empty(t, diag.String())
	assert.Equal(t, []string{BotModuleName, ConfigModuleName, MetaModuleName}, loader.loads, "artifacts load in fixed order")
}

func TestResolve_Failures(t *testing.T) {
	dir := filepath.Join(testWorkDir, "bots/my")

	tests := []struct {
		name     string
		registry RegistrySource
		setup    func(*memLoader)
		bot      string
		wantErr  error
		wantDiag string
	}{
		{
			name:     "Bot Not In Registry",
			bot:      "Ghost",
			wantErr:  ErrBotNotFound,
			wantDiag: "[ERROR] Bot data in schema.json not found:",
		},
		{
			name:     "Empty Registry",
			registry: staticRegistry{reg: Registry{}},
			bot:      "Anything",
			wantErr:  ErrBotNotFound,
			wantDiag: "[ERROR] Bot data in schema.json not found:",
		},
		{
			name:     "Registry Unreadable",
			registry: staticRegistry{err: errors.New("disk on fire")},
			bot:      "MyBot",
			wantErr:  ErrRegistryMissing,
			wantDiag: "[ERROR] File schema.json not found:",
		},
		{
			name:     "Config Module Null",
			setup:    func(l *memLoader) { l.set(dir, ConfigModuleName, nil) },
			bot:      "MyBot",
			wantErr:  ErrConfigMissing,
			wantDiag: "[ERROR] No configs for bot",
		},
		{
			name: "Config Module Missing",
			setup: func(l *memLoader) {
				delete(l.modules, filepath.Join(dir, ConfigModuleName))
			},
			bot:      "MyBot",
			wantErr:  ErrModuleLoad,
			wantDiag: "[ERROR] Error strategy data loading:",
		},
		{
			name:     "Constructor Name Mismatch",
			setup:    func(l *memLoader) { l.set(dir, BotModuleName, Module{"OtherBot": true}) },
			bot:      "MyBot",
			wantErr:  ErrConstructorNameMismatch,
			wantDiag: "[ERROR] MyBot is incorrect bot constructor name",
		},
		{
			name: "Meta Fails To Decode",
			setup: func(l *memLoader) {
				l.errs[filepath.Join(dir, MetaModuleName)] = errors.New("unexpected token\nat line 3")
			},
			bot:      "MyBot",
			wantErr:  ErrModuleLoad,
			wantDiag: "[ERROR] Error strategy data loading:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, loader := myBotFixture()
			if tt.setup != nil {
				tt.setup(loader)
			}
			source := tt.registry
			if source == nil {
				source = staticRegistry{reg: reg}
			}
			r, diag := newTestResolver(source, loader)

			_, err := r.Load(context.Background(), tt.bot)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Nil(t, r.Resolve(context.Background(), tt.bot))
			lines := diagnosticLines(diag)
			require.Len(t, lines, 1, "exactly one diagnostic per failed resolution")
			assert.True(t, strings.HasPrefix(lines[0], tt.wantDiag), "got %q", lines[0])
		})
	}
}

func TestResolve_NoPartialResults(t *testing.T) {
	reg, loader := myBotFixture()
	loader.errs[filepath.Join(testWorkDir, "bots/my", MetaModuleName)] = errors.New("broken")
	r, _ := newTestResolver(staticRegistry{reg: reg}, loader)

	data, err := r.Load(context.Background(), "MyBot")
	assert.Nil(t, data)
	var loadErr *ModuleLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, filepath.Join(testWorkDir, "bots/my", MetaModuleName), loadErr.Path)
}

func TestResolve_FreshEachCall(t *testing.T) {
	reg, loader := myBotFixture()
	r, _ := newTestResolver(staticRegistry{reg: reg}, loader)
	dir := filepath.Join(testWorkDir, "bots/my")

	first := r.Resolve(context.Background(), "MyBot")
	require.NotNil(t, first)
	assert.Equal(t, "1", first.Meta["version"])

	loader.set(dir, MetaModuleName, Module{"default": map[string]any{"version": "2"}})

	second := r.Resolve(context.Background(), "MyBot")
	require.NotNil(t, second)
	assert.Equal(t, "2", second.Meta["version"])
	assert.Equal(t, "1", first.Meta["version"], "earlier results are not mutated")
}

func TestResolve_FirstMatchWins(t *testing.T) {
	reg, loader := myBotFixture()
	reg = append(reg, RegistryEntry{Name: "MyBot", Path: "./elsewhere", Src: "./elsewhere/src"})
	r, _ := newTestResolver(staticRegistry{reg: reg}, loader)

	data := r.Resolve(context.Background(), "MyBot")
	require.NotNil(t, data)
	assert.Equal(t, filepath.Join(testWorkDir, "bots/my"), data.Dir)
}

func TestResolveIn_CallerRegistry(t *testing.T) {
	reg, loader := myBotFixture()
	r, diag := newTestResolver(nil, loader)

	assert.NotNil(t, r.ResolveIn(context.Background(), reg, "MyBot"))
	assert.Nil(t, r.Resolve(context.Background(), "MyBot"), "no registry source configured")
	assert.Contains(t, diag.String(), "File schema.json not found")
}

func TestResolve_AbsolutePathsKept(t *testing.T) {
	_, loader := myBotFixture()
	dir := filepath.Join(testWorkDir, "bots/my")
	reg := Registry{{Name: "MyBot", Path: dir, Src: "/opt/src"}}
	r, _ := newTestResolver(staticRegistry{reg: reg}, loader)

	data := r.Resolve(context.Background(), "MyBot")
	require.NotNil(t, data)
	assert.Equal(t, dir, data.Dir)
	assert.Equal(t, filepath.Clean("/opt/src"), data.Src)
}

func TestResolve_MetaWithoutDefault(t *testing.T) {
	reg, loader := myBotFixture()
	loader.set(filepath.Join(testWorkDir, "bots/my"), MetaModuleName, Module{"version": "1"})
	r, _ := newTestResolver(staticRegistry{reg: reg}, loader)

	data := r.Resolve(context.Background(), "MyBot")
	require.NotNil(t, data)
	assert.Nil(t, data.Meta, "meta is taken from the default member only")
}

func TestResolve_SkipsNonObjectProfiles(t *testing.T) {
	reg, loader := myBotFixture()
	loader.set(filepath.Join(testWorkDir, "bots/my"), ConfigModuleName, Module{
		"default": map[string]any{"ticker": "ETHUSDT"},
		"comment": "not a profile",
	})
	r, _ := newTestResolver(staticRegistry{reg: reg}, loader)

	data := r.Resolve(context.Background(), "MyBot")
	require.NotNil(t, data)
	assert.Equal(t, ConfigSet{"default": {"ticker": "ETHUSDT"}}, data.Configs)
}

func TestResolve_RecoversPanics(t *testing.T) {
	reg, loader := myBotFixture()
	loader.panicOn = filepath.Join(testWorkDir, "bots/my", ConfigModuleName)
	r, diag := newTestResolver(staticRegistry{reg: reg}, loader)

	assert.NotPanics(t, func() {
		assert.Nil(t, r.Resolve(context.Background(), "MyBot"))
	})
	assert.Contains(t, diag.String(), "panic: boom")
}

func TestResolve_CanceledContext(t *testing.T) {
	reg, loader := myBotFixture()
	r, _ := newTestResolver(staticRegistry{reg: reg}, loader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Load(ctx, "MyBot")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, loader.loads)
}

func TestResolve_Concurrent(t *testing.T) {
	reg, loader := myBotFixture()
	r, _ := newTestResolver(staticRegistry{reg: reg}, loader)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotNil(t, r.Resolve(context.Background(), "MyBot"))
		}()
	}
	wg.Wait()

	state, ok := r.State().(ResolverState)
	require.True(t, ok)
	assert.Equal(t, int64(16), state.Resolved)
	assert.Equal(t, int64(0), state.Failed)
}

func TestDiagnostic_SingleLine(t *testing.T) {
	err := &ModuleLoadError{Path: "/bots/x/cfgs.yaml", Err: errors.New("line 1\n\tline 2\r\nline 3")}
	msg := Diagnostic(fmt.Errorf("wrapped: %w", err))

	assert.NotContains(t, msg, "\n")
	assert.Equal(t, "Error strategy data loading: wrapped: load module /bots/x/cfgs.yaml: line 1 line 2 line 3", msg)
}
