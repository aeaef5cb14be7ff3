// Package core holds the bot domain: registry entries, loaded modules and the
// resolver that turns a bot name into a validated BotData descriptor.
package core

import "fmt"

// RegistryEntry identifies where a bot's artifacts live.
// Entries are read from schema.json.
type RegistryEntry struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
	Src  string `json:"src" yaml:"src"`
}

// BotDataInfo is the historical name of a registry entry.
type BotDataInfo = RegistryEntry

// Registry is the ordered list of known bots.
type Registry []RegistryEntry

// Find returns the first entry whose name matches.
func (r Registry) Find(name string) (RegistryEntry, bool) {
	for _, e := range r {
		if e.Name == name {
			return e, true
		}
	}
	return RegistryEntry{}, false
}

// DebutOptions is a single bot configuration profile. Its shape belongs to the bot.
type DebutOptions map[string]any

// DebutMeta is the bot metadata object. Its shape belongs to the bot.
type DebutMeta map[string]any

// ConfigSet maps configuration profile names to bot configurations.
type ConfigSet map[string]DebutOptions

// Module is the decoded set of top-level members exported by an artifact.
type Module map[string]any

// Has reports whether the module exports a member with the given name.
// Only presence is checked, not the member's shape.
func (m Module) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Default returns the module's "default" member as an object, if any.
func (m Module) Default() (map[string]any, bool) {
	v, ok := m[DefaultExport].(map[string]any)
	return v, ok
}

// DefaultExport is the member name holding a module's default payload.
const DefaultExport = "default"

// Conventional artifact base names, relative to a bot directory.
const (
	BotModuleName    = "bot"
	ConfigModuleName = "cfgs"
	MetaModuleName   = "meta"
)

// BotData is the unified descriptor returned by a successful resolution.
// Dir and Src are absolute paths.
type BotData struct {
	Configs ConfigSet `json:"configs" yaml:"configs"`
	Meta    DebutMeta `json:"meta" yaml:"meta"`
	Dir     string    `json:"dir" yaml:"dir"`
	Src     string    `json:"src" yaml:"src"`
}

// TokenStore maps token names to token values.
type TokenStore map[string]string

// EventType represents the kind of change observed on a bot's artifacts.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to one of a bot's artifacts.
type Event struct {
	Type      EventType
	Name      string // artifact base name (bot, cfgs, meta) or file name
	Path      string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Path)
}
