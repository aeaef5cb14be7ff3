package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/botstrap/pkg/adapters/fs"
	"github.com/aretw0/botstrap/pkg/core"
)

// New creates a Resolver rooted at workDir.
//
//	r, err := platform.New(".", platform.WithLogger(logger))
//
// An empty workDir means the process working directory.
func New(workDir string, opts ...Option) (*core.Resolver, error) {
	dir, err := resolveWorkDir(workDir)
	if err != nil {
		return nil, err
	}
	o := apply(opts)

	registry := o.registry
	if registry == nil {
		registry = newStore(dir, o)
	}

	loader := o.loader
	if loader == nil {
		loader = NewLoader(opts...)
	}

	return core.NewResolver(registry, loader, core.ResolverConfig{
		WorkDir:     dir,
		Diagnostics: o.diagnostics,
		Logger:      o.logger,
	}), nil
}

// NewLoader creates the filesystem module loader described by opts.
func NewLoader(opts ...Option) *fs.Loader {
	o := apply(opts)

	decoders := fs.DefaultDecoders(o.strict)
	for ext, d := range o.decoders {
		decoders[ext] = d
	}
	return fs.NewLoader(fs.LoaderConfig{
		Decoders: decoders,
		Strict:   o.strict,
		Logger:   o.logger,
	})
}

// NewStore creates the registry and token store of workDir.
func NewStore(workDir string, opts ...Option) (*fs.Store, error) {
	dir, err := resolveWorkDir(workDir)
	if err != nil {
		return nil, err
	}
	return newStore(dir, apply(opts)), nil
}

func newStore(dir string, o *options) *fs.Store {
	return &fs.Store{Dir: dir, SchemaFile: o.schemaFile, TokensFile: o.tokensFile}
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		workDir = wd
	}

	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("work directory does not exist: %s", abs)
	}
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("work directory is not a directory: %s", abs)
	}
	return abs, nil
}
