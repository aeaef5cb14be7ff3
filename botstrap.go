package botstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/aretw0/botstrap/internal/config"
	"github.com/aretw0/botstrap/internal/platform"
	"github.com/aretw0/botstrap/pkg/adapters/fs"
	"github.com/aretw0/botstrap/pkg/args"
	"github.com/aretw0/botstrap/pkg/core"
)

// --- Types ---

// BotData is the descriptor returned by a successful resolution.
type BotData = core.BotData

// BotDataInfo is a registry entry.
type BotDataInfo = core.RegistryEntry

// Registry is the ordered list of known bots.
type Registry = core.Registry

// ConfigSet maps configuration profile names to bot options.
type ConfigSet = core.ConfigSet

// DebutOptions is one configuration profile.
type DebutOptions = core.DebutOptions

// DebutMeta is the bot metadata object.
type DebutMeta = core.DebutMeta

// TokenStore maps token names to token values.
type TokenStore = core.TokenStore

// FlagMap is the parsed form of command-line arguments.
type FlagMap = args.FlagMap

// TypedBot is BotData decoded into caller types.
type TypedBot[C, M any] = platform.TypedBot[C, M]

// --- Configuration ---

// Option defines a functional option for configuring botstrap.
type Option = platform.Option

// WithLogger sets the logger for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithDiagnostics sets the writer that receives "[ERROR] ..." lines.
func WithDiagnostics(w io.Writer) Option {
	return platform.WithDiagnostics(w)
}

// WithSchemaFile overrides the registry file name.
func WithSchemaFile(name string) Option {
	return platform.WithSchemaFile(name)
}

// WithTokensFile overrides the token file name.
func WithTokensFile(name string) Option {
	return platform.WithTokensFile(name)
}

// WithStrict decodes numbers as json.Number.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithDecoder registers an artifact decoder for an extension.
func WithDecoder(ext string, d fs.Decoder) Option {
	return platform.WithDecoder(ext, d)
}

// --- Factory ---

// New creates a Resolver rooted at workDir ("" for the working directory).
func New(workDir string, opts ...Option) (*core.Resolver, error) {
	return platform.New(workDir, opts...)
}

// --- Operations ---

// GetBotData resolves name in the registry of the working directory.
// It returns nil after printing a diagnostic when anything fails.
func GetBotData(ctx context.Context, name string, opts ...Option) *BotData {
	r, err := New("", opts...)
	if err != nil {
		fmt.Fprintf(platform.Diagnostics(opts...), "[ERROR] %s\n", core.Diagnostic(err))
		return nil
	}
	return r.Resolve(ctx, name)
}

// ParseArgs parses raw command-line tokens.
func ParseArgs(tokens []string) FlagMap {
	return args.Parse(tokens)
}

// Args parses the arguments of the current process.
func Args() FlagMap {
	return args.FromOS()
}

// BotsSchema reads the registry of workDir.
func BotsSchema(ctx context.Context, workDir string, opts ...Option) (Registry, error) {
	store, err := platform.NewStore(workDir, opts...)
	if err != nil {
		return nil, err
	}
	return store.LoadRegistry(ctx)
}

// Tokens reads the token file of workDir.
func Tokens(ctx context.Context, workDir string, opts ...Option) (TokenStore, error) {
	store, err := platform.NewStore(workDir, opts...)
	if err != nil {
		return nil, err
	}
	return store.LoadTokens(ctx)
}

// APIToken returns the API_TOKEN environment variable as it was on first call.
var APIToken = sync.OnceValue(func() string {
	return os.Getenv(config.TokenEnv)
})

// Typed decodes BotData configs and meta into caller types.
func Typed[C, M any](data *BotData) (*TypedBot[C, M], error) {
	return platform.Typed[C, M](data)
}

// Profile decodes one config profile into C.
func Profile[C any](data *BotData, profile string) (C, error) {
	return platform.Profile[C](data, profile)
}
