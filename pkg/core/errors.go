package core

import (
	"errors"
	"fmt"
)

// Resolution failures.
var (
	ErrRegistryMissing         = errors.New("registry not found or unreadable")
	ErrBotNotFound             = errors.New("bot not found in registry")
	ErrConfigMissing           = errors.New("no configs for bot")
	ErrConstructorNameMismatch = errors.New("is incorrect bot constructor name")
	ErrModuleLoad              = errors.New("module load failed")
)

// Store failures.
var (
	ErrTokensMissing = errors.New("tokens file not found")
	ErrBotExists     = errors.New("bot already registered")
)

// ModuleLoadError reports an artifact that could not be read or decoded.
type ModuleLoadError struct {
	Path string
	Err  error
}

func (e *ModuleLoadError) Error() string {
	return fmt.Sprintf("load module %s: %v", e.Path, e.Err)
}

func (e *ModuleLoadError) Unwrap() error { return e.Err }

// Is makes every ModuleLoadError match ErrModuleLoad.
func (e *ModuleLoadError) Is(target error) bool {
	return target == ErrModuleLoad
}

// ParseError reports content that is not valid JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid json: %v", e.Err)
	}
	return fmt.Sprintf("invalid json in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
