package core

import "context"

// RegistrySource provides the bot registry.
// Implementations read it fresh on every call.
type RegistrySource interface {
	LoadRegistry(ctx context.Context) (Registry, error)
}

// ModuleLoader loads an artifact by base name from a bot directory.
// Every call must re-read and re-decode the artifact; a loader never returns
// a previously loaded representation of the same path.
type ModuleLoader interface {
	LoadFresh(ctx context.Context, dir, name string) (Module, error)
}

// Formats is implemented by loaders that can report the artifact
// extensions they understand.
type Formats interface {
	Formats() []string
}
