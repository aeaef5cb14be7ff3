package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/botstrap/pkg/core"
)

// Loader loads bot artifacts from disk. It keeps no state between calls:
// every LoadFresh re-reads and re-decodes the file, so artifacts rebuilt
// while the process runs are always observed.
type Loader struct {
	decoders map[string]Decoder
	order    []string
	logger   *slog.Logger
}

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	// Decoders maps extensions (with the dot) to decoders.
	// Nil means DefaultDecoders(Strict).
	Decoders map[string]Decoder
	Strict   bool
	Logger   *slog.Logger
}

// NewLoader creates a Loader. Extensions are probed in DefaultFormats order,
// followed by any extra extensions in lexical order.
func NewLoader(config LoaderConfig) *Loader {
	decoders := config.Decoders
	if decoders == nil {
		decoders = DefaultDecoders(config.Strict)
	}

	order := make([]string, 0, len(decoders))
	for _, ext := range DefaultFormats {
		if _, ok := decoders[ext]; ok {
			order = append(order, ext)
		}
	}
	var extra []string
	for ext := range decoders {
		if !slices.Contains(DefaultFormats, ext) {
			extra = append(extra, ext)
		}
	}
	slices.Sort(extra)
	order = append(order, extra...)

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Loader{decoders: decoders, order: order, logger: logger}
}

// LoadFresh loads the artifact called name from dir. name is a base name
// ("bot", "cfgs", "meta") probed against every known extension, or a file
// name whose extension has a decoder.
func (l *Loader) LoadFresh(ctx context.Context, dir, name string) (core.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, dec, err := l.locate(dir, name)
	if err != nil {
		return nil, &core.ModuleLoadError{Path: filepath.Join(dir, name), Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.ModuleLoadError{Path: path, Err: err}
	}

	mod, err := decode(dec, data, path)
	if err != nil {
		return nil, &core.ModuleLoadError{Path: path, Err: err}
	}

	l.logger.Debug("module loaded", "path", path, "members", len(mod))
	return mod, nil
}

// Formats returns the extensions in probe order.
func (l *Loader) Formats() []string {
	return slices.Clone(l.order)
}

// ComponentType implements introspection.Component.
func (l *Loader) ComponentType() string {
	return "fs-loader"
}

func (l *Loader) locate(dir, name string) (string, Decoder, error) {
	if ext := filepath.Ext(name); ext != "" {
		if dec, ok := l.decoders[ext]; ok {
			path := filepath.Join(dir, name)
			if !isFile(path) {
				return "", nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
			}
			return path, dec, nil
		}
	}

	for _, ext := range l.order {
		path := filepath.Join(dir, name+ext)
		if isFile(path) {
			return path, l.decoders[ext], nil
		}
	}
	return "", nil, fmt.Errorf("no %s artifact with extension %s: %w",
		name, strings.Join(l.order, ", "), fs.ErrNotExist)
}

// decode shields callers from decoders that panic on malformed input.
func decode(dec Decoder, data []byte, path string) (mod core.Module, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			mod = nil
			err = fmt.Errorf("decoder panic: %v", rec)
		}
	}()
	return dec.Decode(data, path)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
