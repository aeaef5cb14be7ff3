package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/botstrap"
	"github.com/aretw0/botstrap/pkg/core"
)

// artifact bodies per format; %[1]s is the bot name.
var formats = map[string][3]string{
	".json": {
		`{"%[1]s": {"src": "src"}}`,
		`{"default": {"ticker": "BTCUSDT", "amount": 100}}`,
		`{"default": {"name": "%[1]s", "version": "1"}}`,
	},
	".yaml": {
		"%[1]s:\n  src: src\n",
		"default:\n  ticker: BTCUSDT\n  amount: 100\n",
		"default:\n  name: %[1]s\n  version: \"1\"\n",
	},
	".toml": {
		"[%[1]s]\nsrc = \"src\"\n",
		"[default]\nticker = \"BTCUSDT\"\namount = 100\n",
		"[default]\nname = \"%[1]s\"\nversion = \"1\"\n",
	},
	".hcl": {
		"%[1]s = { src = \"src\" }\n",
		"default = { ticker = \"BTCUSDT\", amount = 100 }\n",
		"default = { name = \"%[1]s\", version = \"1\" }\n",
	},
	".cue": {
		"%[1]s: src: \"src\"\n",
		"default: {ticker: \"BTCUSDT\", amount: 100}\n",
		"default: {name: \"%[1]s\", version: \"1\"}\n",
	},
}

func main() {
	count := flag.Int("count", 200, "Number of bots to generate per format")
	rounds := flag.Int("rounds", 2, "Number of full resolution rounds")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "botstrap_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d bots per format in %s...\n", *count, benchDir)
	startGen := time.Now()
	byFormat := make(map[string][]string, len(formats))
	var reg core.Registry
	for ext, bodies := range formats {
		for i := 0; i < *count; i++ {
			name := fmt.Sprintf("Bot%s%d", ext[1:], i)
			rel := filepath.Join("bots", name)
			dir := filepath.Join(benchDir, rel)
			if err := os.MkdirAll(dir, 0755); err != nil {
				panic(err)
			}
			for j, module := range []string{core.BotModuleName, core.ConfigModuleName, core.MetaModuleName} {
				body := bodies[j]
				if j != 1 {
					body = fmt.Sprintf(body, name)
				}
				if err := os.WriteFile(filepath.Join(dir, module+ext), []byte(body), 0644); err != nil {
					panic(err)
				}
			}
			reg = append(reg, core.RegistryEntry{Name: name, Path: rel, Src: filepath.Join(rel, "src")})
			byFormat[ext] = append(byFormat[ext], name)
		}
	}
	raw, err := json.Marshal(reg)
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(filepath.Join(benchDir, "schema.json"), raw, 0644); err != nil {
		panic(err)
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	r, err := botstrap.New(benchDir, botstrap.WithLogger(logger))
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d bots per format, %d rounds):\n", *count, *rounds)
	for _, ext := range []string{".json", ".yaml", ".toml", ".hcl", ".cue"} {
		names := byFormat[ext]
		start := time.Now()
		for round := 0; round < *rounds; round++ {
			for _, name := range names {
				if _, err := r.Load(ctx, name); err != nil {
					panic(err)
				}
			}
		}
		total := time.Since(start)
		per := total / time.Duration(max(1, len(names)*(*rounds)))
		fmt.Printf("  %-6s total %-14v per resolution %v\n", ext, total, per)
	}
	fmt.Printf("--------------------------------------------------\n")
}
