package fs

import (
	"github.com/aretw0/introspection"
)

// LoaderState exposes internal state for observability.
type LoaderState struct {
	Formats []string `json:"formats"`
}

// State implements introspection.Introspectable.
func (l *Loader) State() any {
	return LoaderState{Formats: l.Formats()}
}

// StoreState exposes the files a Store reads.
type StoreState struct {
	Dir    string `json:"dir"`
	Schema string `json:"schema"`
	Tokens string `json:"tokens"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{Dir: s.Dir, Schema: s.SchemaPath(), Tokens: s.TokensPath()}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs-store"
}

var _ introspection.Introspectable = (*Loader)(nil)
var _ introspection.Component = (*Loader)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
