package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/botstrap/pkg/core"
)

// Default store file names, relative to the work directory.
const (
	SchemaFile = "schema.json"
	TokensFile = ".tokens.json"
)

// ReadFile reads a text file. A missing or unreadable file is reported as
// ok == false; an empty file is valid content.
func ReadFile(path string) (content string, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// ParseJSON decodes content into T, failing with a *core.ParseError.
func ParseJSON[T any](content string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return v, &core.ParseError{Err: err}
	}
	return v, nil
}

// LoadJSON reads and decodes the JSON file at path. A missing file is not an
// error: ok is false and err is nil. Invalid JSON is a *core.ParseError.
func LoadJSON[T any](path string) (v T, ok bool, err error) {
	content, ok := ReadFile(path)
	if !ok {
		return v, false, nil
	}
	v, err = ParseJSON[T](content)
	if err != nil {
		err.(*core.ParseError).Path = path
		return v, true, err
	}
	return v, true, nil
}

// Store reads the registry and token files of a work directory.
// Nothing is cached; every call reads the file again.
type Store struct {
	Dir        string
	SchemaFile string
	TokensFile string
}

// NewStore creates a Store rooted at dir with the default file names.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, SchemaFile: SchemaFile, TokensFile: TokensFile}
}

// SchemaPath returns the path of the registry file.
func (s *Store) SchemaPath() string {
	return s.path(s.SchemaFile, SchemaFile)
}

// TokensPath returns the path of the token file.
func (s *Store) TokensPath() string {
	return s.path(s.TokensFile, TokensFile)
}

// LoadRegistry implements core.RegistrySource.
func (s *Store) LoadRegistry(ctx context.Context) (core.Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.SchemaPath()
	reg, ok, err := LoadJSON[core.Registry](path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrRegistryMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrRegistryMissing, err)
	}
	if reg == nil {
		return nil, fmt.Errorf("%w: %s holds no array", core.ErrRegistryMissing, path)
	}
	return reg, nil
}

// LoadTokens reads the token file.
func (s *Store) LoadTokens(ctx context.Context) (core.TokenStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.TokensPath()
	tokens, ok, err := LoadJSON[core.TokenStore](path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrTokensMissing, path)
	}
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		tokens = core.TokenStore{}
	}
	return tokens, nil
}

// SaveRegistry writes the registry file atomically.
func (s *Store) SaveRegistry(ctx context.Context, reg core.Registry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if reg == nil {
		reg = core.Registry{}
	}

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}
	data = append(data, '\n')

	path := s.SchemaPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	return writeFileAtomic(path, data, 0644)
}

func (s *Store) path(name, fallback string) string {
	if name == "" {
		name = fallback
	}
	return s.resolve(name)
}
