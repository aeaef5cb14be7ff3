package platform

import (
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/botstrap/pkg/adapters/fs"
	"github.com/aretw0/botstrap/pkg/core"
)

// options holds the internal configuration for a Resolver and its stores.
type options struct {
	logger      *slog.Logger
	diagnostics io.Writer
	schemaFile  string
	tokensFile  string
	strict      bool
	decoders    map[string]fs.Decoder
	registry    core.RegistrySource
	loader      core.ModuleLoader
}

// Option defines a functional option for configuring botstrap.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		schemaFile: fs.SchemaFile,
		tokensFile: fs.TokensFile,
		decoders:   make(map[string]fs.Decoder),
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDiagnostics sets where "[ERROR] ..." lines go. Defaults to stdout.
func WithDiagnostics(w io.Writer) Option {
	return func(o *options) {
		o.diagnostics = w
	}
}

// WithSchemaFile overrides the registry file name (default "schema.json").
// Relative names are resolved against the work directory.
func WithSchemaFile(name string) Option {
	return func(o *options) {
		o.schemaFile = name
	}
}

// WithTokensFile overrides the token file name (default ".tokens.json").
func WithTokensFile(name string) Option {
	return func(o *options) {
		o.tokensFile = name
	}
}

// WithStrict enables strict mode for the default decoders.
// When enabled, numbers are decoded as json.Number to preserve precision.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithDecoder registers a decoder for an artifact extension (e.g. ".ini").
// It replaces the default decoder for that extension, if any.
func WithDecoder(ext string, d fs.Decoder) Option {
	return func(o *options) {
		o.decoders[ext] = d
	}
}

// WithRegistrySource injects a registry source, skipping schema.json.
func WithRegistrySource(src core.RegistrySource) Option {
	return func(o *options) {
		o.registry = src
	}
}

// WithModuleLoader injects a module loader, skipping the filesystem loader.
func WithModuleLoader(l core.ModuleLoader) Option {
	return func(o *options) {
		o.loader = l
	}
}

// Diagnostics returns the diagnostics writer selected by opts.
func Diagnostics(opts ...Option) io.Writer {
	if w := apply(opts).diagnostics; w != nil {
		return w
	}
	return os.Stdout
}
