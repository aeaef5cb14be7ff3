package platform

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/botstrap/pkg/core"
)

// TypedBot is BotData with configs and meta decoded into caller types.
type TypedBot[C, M any] struct {
	Configs map[string]C
	Meta    M
	Dir     string
	Src     string
}

// Typed converts opaque BotData into a TypedBot.
// Conversion goes through JSON, so json tags on C and M apply.
func Typed[C, M any](data *core.BotData) (*TypedBot[C, M], error) {
	if data == nil {
		return nil, fmt.Errorf("no bot data")
	}

	configs := make(map[string]C, len(data.Configs))
	for profile, opts := range data.Configs {
		var c C
		if err := convert(opts, &c); err != nil {
			return nil, fmt.Errorf("failed to decode config profile %q into %T: %w", profile, c, err)
		}
		configs[profile] = c
	}

	var meta M
	if data.Meta != nil {
		if err := convert(data.Meta, &meta); err != nil {
			return nil, fmt.Errorf("failed to decode meta into %T: %w", meta, err)
		}
	}

	return &TypedBot[C, M]{
		Configs: configs,
		Meta:    meta,
		Dir:     data.Dir,
		Src:     data.Src,
	}, nil
}

// Profile decodes a single config profile.
func Profile[C any](data *core.BotData, profile string) (C, error) {
	var c C
	if data == nil {
		return c, fmt.Errorf("no bot data")
	}
	opts, ok := data.Configs[profile]
	if !ok {
		return c, fmt.Errorf("config profile %q not found", profile)
	}
	if err := convert(opts, &c); err != nil {
		return c, fmt.Errorf("failed to decode config profile %q into %T: %w", profile, c, err)
	}
	return c, nil
}

func convert(in any, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
