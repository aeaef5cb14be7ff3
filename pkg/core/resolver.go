package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// ResolverConfig holds the collaborators of a Resolver that are not
// interfaces.
type ResolverConfig struct {
	// WorkDir anchors relative registry paths. Empty means the process
	// working directory at construction time.
	WorkDir string
	// Diagnostics receives one "[ERROR] ..." line per failed resolution.
	// Nil means os.Stdout.
	Diagnostics io.Writer
	Logger      *slog.Logger
}

// Resolver turns a bot name into a validated BotData.
type Resolver struct {
	registry RegistrySource
	loader   ModuleLoader
	workDir  string
	diag     io.Writer
	logger   *slog.Logger

	resolved atomic.Int64
	failed   atomic.Int64
}

// NewResolver creates a Resolver.
func NewResolver(registry RegistrySource, loader ModuleLoader, cfg ResolverConfig) *Resolver {
	workDir := cfg.WorkDir
	if workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		}
	}
	if abs, err := filepath.Abs(workDir); err == nil {
		workDir = abs
	}

	diag := cfg.Diagnostics
	if diag == nil {
		diag = os.Stdout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Resolver{
		registry: registry,
		loader:   loader,
		workDir:  workDir,
		diag:     diag,
		logger:   logger,
	}
}

// WorkDir returns the directory relative registry paths resolve against.
func (r *Resolver) WorkDir() string {
	return r.workDir
}

// Resolve returns the BotData for name, reading the registry from its source.
// Any failure yields nil and a single diagnostic line.
func (r *Resolver) Resolve(ctx context.Context, name string) *BotData {
	return r.boundary(name, func() (*BotData, error) { return r.Load(ctx, name) })
}

// ResolveIn is Resolve against a registry supplied by the caller.
func (r *Resolver) ResolveIn(ctx context.Context, reg Registry, name string) *BotData {
	return r.boundary(name, func() (*BotData, error) { return r.LoadIn(ctx, reg, name) })
}

// Load resolves name and reports the precise failure.
func (r *Resolver) Load(ctx context.Context, name string) (*BotData, error) {
	if r.registry == nil {
		return nil, ErrRegistryMissing
	}

	reg, err := r.registry.LoadRegistry(ctx)
	if err != nil {
		if errors.Is(err, ErrRegistryMissing) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrRegistryMissing, err)
	}
	r.logger.Debug("registry loaded", "entries", len(reg))

	return r.LoadIn(ctx, reg, name)
}

// LoadIn is Load against a registry supplied by the caller.
// The result is all-or-nothing: on error the BotData is nil.
func (r *Resolver) LoadIn(ctx context.Context, reg Registry, name string) (data *BotData, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			data = nil
			err = fmt.Errorf("resolve %s: panic: %v", name, rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, ok := reg.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBotNotFound, name)
	}
	r.logger.Debug("registry entry found", "name", name, "path", entry.Path, "src", entry.Src)

	dir := r.abs(entry.Path)
	src := r.abs(entry.Src)
	r.logger.Debug("paths resolved", "dir", dir, "src", src)

	if r.loader == nil {
		return nil, &ModuleLoadError{Path: dir, Err: errors.New("no module loader configured")}
	}

	modules := make([]Module, 0, 3)
	for _, base := range []string{BotModuleName, ConfigModuleName, MetaModuleName} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := r.loader.LoadFresh(ctx, dir, base)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	botModule, cfgModule, metaModule := modules[0], modules[1], modules[2]
	r.logger.Debug("modules loaded", "name", name, "dir", dir)

	if cfgModule == nil {
		return nil, ErrConfigMissing
	}

	if !botModule.Has(name) {
		return nil, fmt.Errorf("%s %w", name, ErrConstructorNameMismatch)
	}
	r.logger.Debug("bot validated", "name", name)

	meta, _ := metaModule.Default()

	return &BotData{
		Configs: r.configSet(name, cfgModule),
		Meta:    DebutMeta(meta),
		Dir:     dir,
		Src:     src,
	}, nil
}

func (r *Resolver) boundary(name string, load func() (*BotData, error)) *BotData {
	data, err := load()
	if err != nil {
		r.failed.Add(1)
		r.logger.Debug("bot resolution failed", "name", name, "error", err)
		fmt.Fprintf(r.diag, "[ERROR] %s\n", Diagnostic(err))
		return nil
	}
	r.resolved.Add(1)
	return data
}

// Diagnostic renders err as the single-line message printed on failure.
func Diagnostic(err error) string {
	var msg string
	switch {
	case errors.Is(err, ErrRegistryMissing):
		msg = "File schema.json not found: " + err.Error()
	case errors.Is(err, ErrBotNotFound):
		msg = "Bot data in schema.json not found: " + err.Error()
	case errors.Is(err, ErrConfigMissing):
		msg = "No configs for bot"
	case errors.Is(err, ErrConstructorNameMismatch):
		msg = err.Error()
	default:
		msg = "Error strategy data loading: " + err.Error()
	}
	return strings.Join(strings.Fields(msg), " ")
}

func (r *Resolver) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(r.workDir, p)
}

// configSet keeps the object-valued members of the config module.
func (r *Resolver) configSet(name string, m Module) ConfigSet {
	cfgs := make(ConfigSet, len(m))
	for profile, v := range m {
		opts, ok := v.(map[string]any)
		if !ok {
			r.logger.Debug("skipping non-object config profile", "name", name, "profile", profile)
			continue
		}
		cfgs[profile] = DebutOptions(opts)
	}
	return cfgs
}
