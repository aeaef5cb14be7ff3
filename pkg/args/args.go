// Package args parses raw command-line tokens into a flag map.
//
// Three token shapes are recognized:
//
//	--key=value   key set to the string "value" (split on the first '=')
//	--key         key set to true
//	-abc          a, b and c each set to true
//
// Every other token is ignored. Values are never coerced: "--n=1" yields the
// string "1". When a key repeats, the last occurrence wins.
package args

import (
	"os"
	"strings"
)

// FlagMap maps flag names to either true or a string value.
type FlagMap map[string]any

// Parse builds a FlagMap from tokens. It never fails.
func Parse(tokens []string) FlagMap {
	flags := make(FlagMap)
	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "--"):
			key, value, hasValue := strings.Cut(tok[2:], "=")
			if hasValue {
				flags[key] = value
			} else {
				flags[key] = true
			}
		case strings.HasPrefix(tok, "-"):
			for _, r := range tok[1:] {
				flags[string(r)] = true
			}
		}
	}
	return flags
}

// FromOS parses the arguments of the current process, without the program name.
func FromOS() FlagMap {
	if len(os.Args) < 2 {
		return FlagMap{}
	}
	return Parse(os.Args[1:])
}

// Has reports whether key was given in any form.
func (f FlagMap) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Bool reports whether key was given as a boolean flag.
func (f FlagMap) Bool(key string) bool {
	b, ok := f[key].(bool)
	return ok && b
}

// String returns the value of a --key=value flag.
func (f FlagMap) String(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}
