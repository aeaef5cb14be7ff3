package core

import (
	"github.com/aretw0/introspection"
)

// ResolverState exposes internal state for observability.
type ResolverState struct {
	WorkDir  string   `json:"work_dir"`
	Formats  []string `json:"formats,omitempty"`
	Resolved int64    `json:"resolved"`
	Failed   int64    `json:"failed"`
	Loader   string   `json:"loader"`
}

// State implements introspection.Introspectable.
func (r *Resolver) State() any {
	loaderType := "none"
	var formats []string
	if r.loader != nil {
		loaderType = "loader"
		if comp, ok := r.loader.(introspection.Component); ok {
			loaderType = comp.ComponentType()
		}
		if f, ok := r.loader.(Formats); ok {
			formats = f.Formats()
		}
	}

	return ResolverState{
		WorkDir:  r.workDir,
		Formats:  formats,
		Resolved: r.resolved.Load(),
		Failed:   r.failed.Load(),
		Loader:   loaderType,
	}
}

// ComponentType implements introspection.Component.
func (r *Resolver) ComponentType() string {
	return "resolver"
}

var _ introspection.Introspectable = (*Resolver)(nil)
var _ introspection.Component = (*Resolver)(nil)
