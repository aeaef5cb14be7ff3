package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/botstrap/pkg/core"
)

// ScaffoldResult lists what Scaffold created.
type ScaffoldResult struct {
	Entry   core.RegistryEntry
	Dir     string
	Created []string
}

// Scaffold creates a bot directory with YAML bot, cfgs and meta artifacts and
// appends the entry to the registry. Existing artifacts are left untouched.
// An empty entry.Path defaults to "bots/<name>" and an empty entry.Src to
// "<path>/src".
func Scaffold(ctx context.Context, store *Store, entry core.RegistryEntry) (*ScaffoldResult, error) {
	if entry.Name == "" {
		return nil, fmt.Errorf("bot name cannot be empty")
	}
	if entry.Path == "" {
		entry.Path = filepath.Join("bots", entry.Name)
	}
	if entry.Src == "" {
		entry.Src = filepath.Join(entry.Path, "src")
	}

	reg, _, err := LoadJSON[core.Registry](store.SchemaPath())
	if err != nil {
		return nil, err
	}
	if _, found := reg.Find(entry.Name); found {
		return nil, fmt.Errorf("%w: %s", core.ErrBotExists, entry.Name)
	}

	dir := store.resolve(entry.Path)
	src := store.resolve(entry.Src)
	for _, d := range []string{dir, src} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directories: %w", err)
		}
	}

	artifacts := []struct {
		name    string
		payload map[string]any
	}{
		{core.BotModuleName, map[string]any{entry.Name: map[string]any{"src": entry.Src}}},
		{core.ConfigModuleName, map[string]any{core.DefaultExport: map[string]any{}}},
		{core.MetaModuleName, map[string]any{core.DefaultExport: map[string]any{"name": entry.Name, "version": "1"}}},
	}

	result := &ScaffoldResult{Entry: entry, Dir: dir}
	for _, a := range artifacts {
		data, err := yaml.Marshal(a.payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", a.name, err)
		}
		path := filepath.Join(dir, a.name+".yaml")
		written, err := writeFileIfAbsent(path, data, 0644)
		if err != nil {
			return nil, err
		}
		if written {
			result.Created = append(result.Created, path)
		}
	}

	reg = append(reg, entry)
	if err := store.SaveRegistry(ctx, reg); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Dir, p)
}
